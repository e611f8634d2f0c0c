package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/vardhmanmills/storefront/pkg/errors"

	"github.com/vardhmanmills/storefront/internal/repository"
	"github.com/vardhmanmills/storefront/internal/suggest"
)

// SuggestService answers search-box queries. A blank query returns the
// session's recent searches instead of engine matches, so the empty box
// still shows something useful.
type SuggestService struct {
	engine   suggest.Engine
	browsing repository.BrowsingRepository
	logger   *slog.Logger
}

// NewSuggestService creates a new suggestion service.
func NewSuggestService(engine suggest.Engine, browsing repository.BrowsingRepository, logger *slog.Logger) *SuggestService {
	return &SuggestService{engine: engine, browsing: browsing, logger: logger}
}

// SuggestResult is the search-box dropdown payload.
type SuggestResult struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
	// Recent is true when the suggestions are the session's recent searches
	// rather than prefix matches.
	Recent bool `json:"recent"`
}

// Suggest returns dropdown content for the given query and session.
func (s *SuggestService) Suggest(ctx context.Context, sessionID, query string, size int) (*SuggestResult, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		state, err := s.browsing.Get(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("get recent searches: %w", err)
		}
		recent := state.RecentSearches
		if size > 0 && len(recent) > size {
			recent = recent[:size]
		}
		return &SuggestResult{Query: "", Suggestions: recent, Recent: true}, nil
	}

	names, err := s.engine.Suggest(ctx, query, size)
	if err != nil {
		return nil, fmt.Errorf("suggest %q: %w", query, err)
	}

	s.logger.DebugContext(ctx, "suggestions served",
		slog.String("session_id", sessionID),
		slog.String("query", query),
		slog.Int("count", len(names)),
	)
	return &SuggestResult{Query: query, Suggestions: names, Recent: false}, nil
}

// IndexProducts feeds product names into the suggestion engine. Called on
// startup and whenever the featured listing refreshes.
func (s *SuggestService) IndexProducts(ctx context.Context, names ...string) error {
	if err := s.engine.Index(ctx, names...); err != nil {
		return fmt.Errorf("index suggestions: %w", err)
	}
	return nil
}
