package instagramimpl

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
	"github.com/Jeremy-Gitau/MediaSnap/internal/instagram"
	apperrors "github.com/Jeremy-Gitau/MediaSnap/pkg/errors"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/logger"
)

// GraphQLStrategy is the fallback extraction method: resolve the username to
// its numeric id, then query the structured graphql endpoint directly.
type GraphQLStrategy struct {
	client *resty.Client
	logger logger.Logger

	// postsPerPage is how many timeline posts the query asks for. Only the
	// first page is ever fetched.
	postsPerPage int
}

func NewGraphQLStrategy(client *resty.Client, log logger.Logger) *GraphQLStrategy {
	return &GraphQLStrategy{
		client:       client,
		logger:       log.WithComponent("GraphQLStrategy"),
		postsPerPage: 12,
	}
}

var _ instagram.Strategy = (*GraphQLStrategy)(nil)

func (s *GraphQLStrategy) Name() string {
	return "graphql"
}

func (s *GraphQLStrategy) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	userID, err := s.resolveUserID(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.fetchTimeline(ctx, username, userID)
}

func (s *GraphQLStrategy) resolveUserID(ctx context.Context, username string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", randomUserAgent()).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetHeader("X-IG-App-ID", igAppID).
		SetQueryParams(map[string]string{"__a": "1", "__d": "dis"}).
		Get(fmt.Sprintf("/%s/", username))
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrTransient, fmt.Sprintf("id lookup for %q failed: %v", username, err))
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return "", apperrors.Wrap(apperrors.FromStatusCode(resp.StatusCode()),
			fmt.Sprintf("id lookup for %q returned HTTP %d", username, resp.StatusCode()))
	}

	var lookup userLookup
	if err := json.Unmarshal(resp.Body(), &lookup); err != nil {
		return "", apperrors.Wrap(apperrors.ErrMalformed, fmt.Sprintf("id lookup for %q returned invalid JSON", username))
	}

	userID := lookup.userID()
	if userID == "" {
		return "", apperrors.Wrap(apperrors.ErrMalformed, fmt.Sprintf("no user id in lookup response for %q", username))
	}
	return userID, nil
}

func (s *GraphQLStrategy) fetchTimeline(ctx context.Context, username, userID string) (*domain.Profile, error) {
	variables, err := json.Marshal(map[string]any{
		"id":    userID,
		"first": s.postsPerPage,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode query variables")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", randomUserAgent()).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetHeader("X-IG-App-ID", igAppID).
		SetQueryParams(map[string]string{
			"query_hash": profileQueryHash,
			"variables":  string(variables),
		}).
		Get(graphqlPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrTransient, fmt.Sprintf("graphql query for %q failed: %v", username, err))
	}
	if resp.StatusCode() != 200 {
		return nil, apperrors.Wrap(apperrors.FromStatusCode(resp.StatusCode()),
			fmt.Sprintf("graphql query for %q returned HTTP %d", username, resp.StatusCode()))
	}

	var payload graphqlResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformed, fmt.Sprintf("graphql response for %q is invalid JSON", username))
	}
	if payload.Data == nil || payload.Data.User == nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformed, fmt.Sprintf("no user data in graphql response for %q", username))
	}

	return payload.Data.User.toDomain(username)
}
