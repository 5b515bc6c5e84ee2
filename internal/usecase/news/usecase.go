package news

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	domain "newsfeed-service/internal/domain/news"
	"newsfeed-service/internal/usecase/user"
	apperrors "newsfeed-service/pkg/errors"
)

// Provider defines the interface to the upstream news API.
type Provider interface {
	// Everything runs a keyword search across all sources.
	Everything(ctx context.Context, query string) (*domain.Result, error)
	// TopHeadlines fetches the current headlines for a country.
	TopHeadlines(ctx context.Context, country string) (*domain.Result, error)
}

// Usecase resolves a caller's stored preferences into a single upstream
// query and forwards the provider's article list.
type Usecase interface {
	Fetch(ctx context.Context, userID int64) (json.RawMessage, error)
}

// Service implements Usecase.
type Service struct {
	repo     user.Repository
	provider Provider
	country  string
	log      *zap.Logger
}

// New creates a news Service. country is the region used for the
// default top-headlines query when a caller has no preferences.
func New(repo user.Repository, provider Provider, country string, log *zap.Logger) *Service {
	return &Service{repo: repo, provider: provider, country: country, log: log}
}

// Fetch returns the provider's articles for the given user. Stored
// preferences become a disjunctive keyword search; an empty list or an
// unresolvable user falls back to the country's top headlines.
func (s *Service) Fetch(ctx context.Context, userID int64) (json.RawMessage, error) {
	var preferences []string
	u, err := s.repo.GetByID(ctx, userID)
	switch {
	case err == nil:
		preferences = u.Preferences
	case errors.Is(err, apperrors.ErrUserNotFound):
		// Stale token: fall back to the default query
		s.log.Debug("no stored user for news fetch", zap.Int64("id", userID))
	default:
		s.log.Error("failed to resolve user for news fetch", zap.Int64("id", userID), zap.Error(err))
		return nil, err
	}

	var result *domain.Result
	if len(preferences) > 0 {
		query := strings.Join(preferences, " OR ")
		s.log.Info("fetching news by preferences", zap.Int64("id", userID), zap.String("query", query))
		result, err = s.provider.Everything(ctx, query)
	} else {
		s.log.Info("fetching top headlines", zap.Int64("id", userID), zap.String("country", s.country))
		result, err = s.provider.TopHeadlines(ctx, s.country)
	}
	if err != nil {
		s.log.Error("news provider call failed", zap.Int64("id", userID), zap.Error(err))
		return nil, apperrors.NewUpstreamError("News API failed", err)
	}

	return result.Articles, nil
}
