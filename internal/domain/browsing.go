package domain

import (
	"strings"
	"time"
)

// Browsing state capacity limits.
const (
	// MaxBookmarks is the maximum number of bookmarked legal pages per session.
	MaxBookmarks = 50
	// MaxRecentSearches is the number of recent search queries kept per session.
	MaxRecentSearches = 10
)

// BrowsingState bundles the small per-session lists the header widgets share:
// bookmarked legal-page slugs and recent search queries. Both live in one
// stored value so a single read serves the whole header.
type BrowsingState struct {
	SessionID      string    `json:"session_id"`
	Bookmarks      []string  `json:"bookmarks"`
	RecentSearches []string  `json:"recent_searches"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewBrowsingState creates empty browsing state for the given session.
func NewBrowsingState(sessionID string) *BrowsingState {
	now := time.Now().UTC()
	return &BrowsingState{
		SessionID:      sessionID,
		Bookmarks:      []string{},
		RecentSearches: []string{},
		Version:        0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// AddBookmark appends a slug with set semantics: an already-bookmarked slug
// is a no-op that reports false. Insertion order is preserved.
func (b *BrowsingState) AddBookmark(slug string) (added bool, err error) {
	for _, existing := range b.Bookmarks {
		if existing == slug {
			return false, nil
		}
	}
	if len(b.Bookmarks) >= MaxBookmarks {
		return false, ErrBookmarkLimit
	}
	b.Bookmarks = append(b.Bookmarks, slug)
	b.UpdatedAt = time.Now().UTC()
	return true, nil
}

// RemoveBookmark filters out the given slug. Returns false when absent.
func (b *BrowsingState) RemoveBookmark(slug string) bool {
	for i, existing := range b.Bookmarks {
		if existing == slug {
			b.Bookmarks = append(b.Bookmarks[:i], b.Bookmarks[i+1:]...)
			b.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// ClearBookmarks empties the bookmark list.
func (b *BrowsingState) ClearBookmarks() {
	b.Bookmarks = []string{}
	b.UpdatedAt = time.Now().UTC()
}

// RecordSearch puts a query at the front of the recent list. A query already
// present (case-insensitive) moves to the front instead of duplicating. The
// list is capped at MaxRecentSearches, dropping the oldest entry.
func (b *BrowsingState) RecordSearch(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	lower := strings.ToLower(query)
	kept := make([]string, 0, len(b.RecentSearches)+1)
	kept = append(kept, query)
	for _, existing := range b.RecentSearches {
		if strings.ToLower(existing) != lower {
			kept = append(kept, existing)
		}
	}
	if len(kept) > MaxRecentSearches {
		kept = kept[:MaxRecentSearches]
	}
	b.RecentSearches = kept
	b.UpdatedAt = time.Now().UTC()
}

// ClearRecentSearches empties the recent search list.
func (b *BrowsingState) ClearRecentSearches() {
	b.RecentSearches = []string{}
	b.UpdatedAt = time.Now().UTC()
}
