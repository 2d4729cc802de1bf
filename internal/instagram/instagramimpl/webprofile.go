package instagramimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/go-resty/resty/v2"

	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
	"github.com/Jeremy-Gitau/MediaSnap/internal/instagram"
	apperrors "github.com/Jeremy-Gitau/MediaSnap/pkg/errors"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/logger"
)

var (
	sharedDataRe     = regexp.MustCompile(`window\._sharedData\s*=\s*(\{.+?\});`)
	additionalDataRe = regexp.MustCompile(`window\.__additionalDataLoaded\([^,]+,\s*(\{.+?\})\);`)
)

// WebProfileStrategy is the primary extraction method: one request for the
// profile landing page, then a strict parse of the JSON embedded in it.
type WebProfileStrategy struct {
	client *resty.Client
	logger logger.Logger
}

func NewWebProfileStrategy(client *resty.Client, log logger.Logger) *WebProfileStrategy {
	return &WebProfileStrategy{
		client: client,
		logger: log.WithComponent("WebProfileStrategy"),
	}
}

var _ instagram.Strategy = (*WebProfileStrategy)(nil)

func (s *WebProfileStrategy) Name() string {
	return "web_profile"
}

func (s *WebProfileStrategy) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", randomUserAgent()).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		Get(fmt.Sprintf("/%s/", username))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrTransient, fmt.Sprintf("profile page request for %q failed: %v", username, err))
	}
	if resp.StatusCode() != 200 {
		return nil, apperrors.Wrap(apperrors.FromStatusCode(resp.StatusCode()),
			fmt.Sprintf("profile page for %q returned HTTP %d", username, resp.StatusCode()))
	}

	body := resp.Body()
	if len(body) < 1000 {
		s.logger.Warn("Received very short profile page, possible redirect or error page",
			"username", username, "bytes", len(body))
	}

	user, err := extractEmbeddedUser(body)
	if err != nil {
		return nil, err
	}
	return user.toDomain(username)
}

// extractEmbeddedUser pulls the user node out of the JSON blobs Instagram
// embeds in the landing page, trying the known locations in order of
// likelihood.
func extractEmbeddedUser(body []byte) (*userNode, error) {
	if m := sharedDataRe.FindSubmatch(body); m != nil {
		var data sharedData
		if err := json.Unmarshal(m[1], &data); err == nil {
			if pages := data.EntryData.ProfilePage; len(pages) > 0 && pages[0].Graphql.User != nil {
				return pages[0].Graphql.User, nil
			}
			if data.Graphql != nil && data.Graphql.User != nil {
				return data.Graphql.User, nil
			}
		}
	}

	if m := additionalDataRe.FindSubmatch(body); m != nil {
		var data sharedData
		if err := json.Unmarshal(m[1], &data); err == nil && data.Graphql != nil && data.Graphql.User != nil {
			return data.Graphql.User, nil
		}
	}

	return nil, apperrors.Wrap(apperrors.ErrMalformed, "no user data found in profile page")
}
