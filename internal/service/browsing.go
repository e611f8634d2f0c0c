package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/vardhmanmills/storefront/pkg/errors"

	"github.com/vardhmanmills/storefront/internal/broadcast"
	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/internal/repository"
)

// PageCatalog is the slice of the legal store bookmarks validate against.
type PageCatalog interface {
	Exists(slug string) bool
}

// BrowsingService manages per-session bookmarks and recent searches.
type BrowsingService struct {
	repo   repository.BrowsingRepository
	pages  PageCatalog
	bus    *broadcast.Bus
	logger *slog.Logger
}

// NewBrowsingService creates a new browsing service.
func NewBrowsingService(repo repository.BrowsingRepository, pages PageCatalog, bus *broadcast.Bus, logger *slog.Logger) *BrowsingService {
	return &BrowsingService{repo: repo, pages: pages, bus: bus, logger: logger}
}

// Get retrieves the session's browsing state.
func (s *BrowsingService) Get(ctx context.Context, sessionID string) (*domain.BrowsingState, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	state, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get browsing state: %w", err)
	}
	return state, nil
}

// AddBookmark bookmarks a legal page. The slug must name a page that
// actually exists. Re-bookmarking is a no-op, not an error.
func (s *BrowsingService) AddBookmark(ctx context.Context, sessionID, slug string) (*domain.BrowsingState, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperrors.InvalidInput("page slug is required")
	}
	if !s.pages.Exists(slug) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown page slug %q", slug))
	}

	var added bool
	state, err := s.mutate(ctx, sessionID, func(b *domain.BrowsingState) error {
		var addErr error
		added, addErr = b.AddBookmark(slug)
		if errors.Is(addErr, domain.ErrBookmarkLimit) {
			return apperrors.InvalidInput(fmt.Sprintf("bookmarks must not exceed %d entries", domain.MaxBookmarks))
		}
		return addErr
	})
	if err != nil {
		return nil, err
	}

	if added {
		s.publish(broadcast.ChangeAdded, sessionID, slug)
		s.logger.InfoContext(ctx, "bookmark added",
			slog.String("session_id", sessionID),
			slog.String("slug", slug),
		)
	}
	return state, nil
}

// Bookmarks returns the session's bookmarked page slugs in insertion order.
func (s *BrowsingService) Bookmarks(ctx context.Context, sessionID string) ([]string, error) {
	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return state.Bookmarks, nil
}

// ClearBookmarks empties the bookmark list.
func (s *BrowsingService) ClearBookmarks(ctx context.Context, sessionID string) (*domain.BrowsingState, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	state, err := s.mutate(ctx, sessionID, func(b *domain.BrowsingState) error {
		b.ClearBookmarks()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(broadcast.ChangeCleared, sessionID, "")

	s.logger.InfoContext(ctx, "bookmarks cleared", slog.String("session_id", sessionID))
	return state, nil
}

// RemoveBookmark drops a bookmarked slug.
func (s *BrowsingService) RemoveBookmark(ctx context.Context, sessionID, slug string) (*domain.BrowsingState, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if slug == "" {
		return nil, apperrors.InvalidInput("page slug is required")
	}

	state, err := s.mutate(ctx, sessionID, func(b *domain.BrowsingState) error {
		if !b.RemoveBookmark(slug) {
			return apperrors.NotFound("bookmark", slug)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(broadcast.ChangeRemoved, sessionID, slug)

	s.logger.InfoContext(ctx, "bookmark removed",
		slog.String("session_id", sessionID),
		slog.String("slug", slug),
	)
	return state, nil
}

// RecordSearch pushes a query onto the front of the recent-search list.
// Blank queries are ignored without error.
func (s *BrowsingService) RecordSearch(ctx context.Context, sessionID, query string) (*domain.BrowsingState, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if strings.TrimSpace(query) == "" {
		return s.Get(ctx, sessionID)
	}

	state, err := s.mutate(ctx, sessionID, func(b *domain.BrowsingState) error {
		b.RecordSearch(query)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(broadcast.ChangeUpdated, sessionID, "")
	return state, nil
}

// RecentSearches returns the session's recent queries, newest first.
func (s *BrowsingService) RecentSearches(ctx context.Context, sessionID string) ([]string, error) {
	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return state.RecentSearches, nil
}

// ClearRecentSearches empties the recent-search list.
func (s *BrowsingService) ClearRecentSearches(ctx context.Context, sessionID string) (*domain.BrowsingState, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	state, err := s.mutate(ctx, sessionID, func(b *domain.BrowsingState) error {
		b.ClearRecentSearches()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(broadcast.ChangeCleared, sessionID, "")

	s.logger.InfoContext(ctx, "recent searches cleared", slog.String("session_id", sessionID))
	return state, nil
}

func (s *BrowsingService) mutate(ctx context.Context, sessionID string, apply func(*domain.BrowsingState) error) (*domain.BrowsingState, error) {
	for attempt := 0; attempt < saveAttempts; attempt++ {
		state, err := s.repo.Get(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("get browsing state: %w", err)
		}
		expected := state.Version

		if err := apply(state); err != nil {
			return nil, err
		}

		ok, err := s.repo.SaveIfVersion(ctx, state, expected)
		if err != nil {
			return nil, fmt.Errorf("save browsing state: %w", err)
		}
		if ok {
			return state, nil
		}

		s.logger.DebugContext(ctx, "browsing state version conflict, retrying",
			slog.String("session_id", sessionID),
			slog.Int("attempt", attempt+1),
		)
	}
	return nil, apperrors.Conflict("browsing state was modified concurrently, please retry")
}

func (s *BrowsingService) publish(kind broadcast.ChangeKind, sessionID, itemKey string) {
	s.bus.Publish(broadcast.ListChange{
		List:      broadcast.ListBrowsing,
		Kind:      kind,
		SessionID: sessionID,
		ItemKey:   itemKey,
	})
}
