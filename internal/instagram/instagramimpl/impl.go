package instagramimpl

import (
	"context"

	"go.uber.org/fx"

	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
	"github.com/Jeremy-Gitau/MediaSnap/internal/instagram"
	"github.com/Jeremy-Gitau/MediaSnap/internal/ratelimit"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/config"
	apperrors "github.com/Jeremy-Gitau/MediaSnap/pkg/errors"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/logger"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/retry"
)

type Opts struct {
	fx.In

	Config  *config.Config
	Logger  logger.Logger
	Limiter ratelimit.Limiter
}

// IgImpl sequences the two extraction strategies behind the rate limiter
// and retry policy.
type IgImpl struct {
	primary  instagram.Strategy
	fallback instagram.Strategy
	limiter  ratelimit.Limiter
	retryCfg retry.Config
	logger   logger.Logger
}

func New(opts Opts) *IgImpl {
	client := newHTTPClient(opts.Config.Instagram.SessionID)

	return &IgImpl{
		primary:  NewWebProfileStrategy(client, opts.Logger),
		fallback: NewGraphQLStrategy(client, opts.Logger),
		limiter:  opts.Limiter,
		retryCfg: retry.Config{
			MaxAttempts:     opts.Config.Retry.MaxAttempts,
			InitialInterval: opts.Config.Retry.InitialWait,
			MaxInterval:     opts.Config.Retry.MaxWait,
			Multiplier:      opts.Config.Retry.Multiplier,
		},
		logger: opts.Logger.WithComponent("Scraper"),
	}
}

// NewWithStrategies builds an orchestrator over explicit collaborators.
func NewWithStrategies(primary, fallback instagram.Strategy, limiter ratelimit.Limiter, retryCfg retry.Config, log logger.Logger) *IgImpl {
	return &IgImpl{
		primary:  primary,
		fallback: fallback,
		limiter:  limiter,
		retryCfg: retryCfg,
		logger:   log.WithComponent("Scraper"),
	}
}

var _ instagram.Client = (*IgImpl)(nil)

func (ig *IgImpl) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	profile, primaryErr := ig.fetchWith(ctx, ig.primary, username)
	if primaryErr == nil {
		// A profile whose remote counter is explicitly zero is a legitimate
		// empty profile, not a failure signal.
		if len(profile.Posts) > 0 || profile.PostCount == 0 {
			return profile, nil
		}
		ig.logger.Warn("Primary strategy returned no posts despite a positive post count, falling back",
			"username", username, "post_count", profile.PostCount)
	} else {
		// NotFound and Blocked are authoritative: the fallback would only
		// burn budget and risk further blocking.
		if apperrors.IsNotFound(primaryErr) || apperrors.IsBlocked(primaryErr) {
			return nil, primaryErr
		}
		if !apperrors.IsMalformed(primaryErr) {
			return nil, primaryErr
		}
		ig.logger.Warn("Primary strategy failed, falling back",
			"username", username, "strategy", ig.primary.Name(), "error", primaryErr)
	}

	fallbackProfile, fallbackErr := ig.fetchWith(ctx, ig.fallback, username)
	if fallbackErr == nil {
		return fallbackProfile, nil
	}

	// The primary produced a valid-but-incomplete result; better to keep it
	// than to fail the run on the fallback's error.
	if primaryErr == nil {
		ig.logger.Warn("Fallback strategy failed, keeping the primary result",
			"username", username, "error", fallbackErr)
		return profile, nil
	}

	// Surface the more specific failure.
	if apperrors.IsNotFound(fallbackErr) || apperrors.IsBlocked(fallbackErr) {
		return nil, fallbackErr
	}
	return nil, fallbackErr
}

// fetchWith runs one strategy behind the rate limiter and retry policy. One
// Acquire covers all retry attempts of the strategy's request sequence.
func (ig *IgImpl) fetchWith(ctx context.Context, strategy instagram.Strategy, username string) (*domain.Profile, error) {
	if err := ig.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	var profile *domain.Profile
	err := retry.Do(ctx, ig.logger, "fetch_profile_"+strategy.Name(), func() error {
		var opErr error
		profile, opErr = strategy.FetchProfile(ctx, username)
		return opErr
	}, ig.retryCfg)
	if err != nil {
		return nil, err
	}
	return profile, nil
}
