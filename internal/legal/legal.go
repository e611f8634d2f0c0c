// Package legal serves the storefront's policy pages from markdown embedded
// at build time. Pages carry YAML front matter; bodies are rendered to
// sanitized HTML and cached in memory with a TTL.
package legal

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	apperrors "github.com/vardhmanmills/storefront/pkg/errors"
)

// CookiePolicySlug is the page whose version stamps consent records.
const CookiePolicySlug = "cookie-policy"

// readingWPM is the words-per-minute rate behind the reading-progress widget.
const readingWPM = 200

// Page is a rendered legal page.
type Page struct {
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	EffectiveDate  time.Time `json:"effective_date"`
	Version        string    `json:"version"`
	HTML           string    `json:"html,omitempty"`
	WordCount      int       `json:"word_count,omitempty"`
	ReadingMinutes int       `json:"reading_minutes,omitempty"`
}

// Meta returns the page without its rendered body, for listings.
func (p Page) Meta() Page {
	p.HTML = ""
	p.WordCount = 0
	p.ReadingMinutes = 0
	return p
}

type frontMatter struct {
	Title         string `yaml:"title"`
	Slug          string `yaml:"slug"`
	Summary       string `yaml:"summary"`
	EffectiveDate string `yaml:"effective_date"`
	Version       string `yaml:"version"`
}

type cacheEntry struct {
	page    Page
	expires time.Time
}

// Store parses, renders, and caches the embedded pages.
type Store struct {
	mu       sync.RWMutex
	raw      map[string]string // slug -> markdown body
	meta     map[string]Page
	rendered map[string]cacheEntry
	cacheTTL time.Duration

	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NewStore parses every embedded page's front matter eagerly so a malformed
// page fails at startup, not on first request.
func NewStore(cacheTTL time.Duration) (*Store, error) {
	s := &Store{
		raw:       make(map[string]string),
		meta:      make(map[string]Page),
		rendered:  make(map[string]cacheEntry),
		cacheTTL:  cacheTTL,
		markdown:  goldmark.New(),
		sanitizer: bluemonday.UGCPolicy(),
		now:       time.Now,
	}

	entries, err := contentFS.ReadDir("content")
	if err != nil {
		return nil, fmt.Errorf("read legal content dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		data, err := contentFS.ReadFile("content/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read legal page %s: %w", entry.Name(), err)
		}
		page, body, err := parsePage(data)
		if err != nil {
			return nil, fmt.Errorf("parse legal page %s: %w", entry.Name(), err)
		}
		s.meta[page.Slug] = page
		s.raw[page.Slug] = body
	}

	if _, ok := s.meta[CookiePolicySlug]; !ok {
		return nil, fmt.Errorf("embedded legal content is missing the %s page", CookiePolicySlug)
	}

	return s, nil
}

// parsePage splits YAML front matter from the markdown body.
func parsePage(data []byte) (Page, string, error) {
	const delimiter = "---"

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(text, delimiter+"\n") {
		return Page{}, "", fmt.Errorf("missing front matter")
	}
	rest := text[len(delimiter)+1:]
	idx := strings.Index(rest, "\n"+delimiter+"\n")
	if idx < 0 {
		return Page{}, "", fmt.Errorf("unterminated front matter")
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(rest[:idx]), &fm); err != nil {
		return Page{}, "", fmt.Errorf("front matter: %w", err)
	}
	if fm.Slug == "" || fm.Title == "" || fm.Version == "" {
		return Page{}, "", fmt.Errorf("front matter must set title, slug, and version")
	}

	var effective time.Time
	if fm.EffectiveDate != "" {
		parsed, err := time.Parse("2006-01-02", fm.EffectiveDate)
		if err != nil {
			return Page{}, "", fmt.Errorf("effective_date: %w", err)
		}
		effective = parsed
	}

	page := Page{
		Slug:          fm.Slug,
		Title:         fm.Title,
		Summary:       fm.Summary,
		EffectiveDate: effective,
		Version:       fm.Version,
	}
	return page, strings.TrimSpace(rest[idx+len(delimiter)+2:]), nil
}

// List returns every page's metadata ordered by title.
func (s *Store) List() []Page {
	pages := make([]Page, 0, len(s.meta))
	for _, page := range s.meta {
		pages = append(pages, page.Meta())
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Title < pages[j].Title })
	return pages
}

// Get returns the fully rendered page for a slug, from cache when fresh.
func (s *Store) Get(slug string) (Page, error) {
	s.mu.RLock()
	entry, ok := s.rendered[slug]
	s.mu.RUnlock()
	if ok && s.now().Before(entry.expires) {
		return entry.page, nil
	}

	meta, ok := s.meta[slug]
	if !ok {
		return Page{}, apperrors.NotFound("legal page", slug)
	}

	body := s.raw[slug]

	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(body), &buf); err != nil {
		return Page{}, fmt.Errorf("render legal page %s: %w", slug, err)
	}

	page := meta
	page.HTML = string(s.sanitizer.SanitizeBytes(buf.Bytes()))
	page.WordCount = len(strings.Fields(body))
	page.ReadingMinutes = (page.WordCount + readingWPM - 1) / readingWPM
	if page.ReadingMinutes < 1 {
		page.ReadingMinutes = 1
	}

	s.mu.Lock()
	s.rendered[slug] = cacheEntry{page: page, expires: s.now().Add(s.cacheTTL)}
	s.mu.Unlock()

	return page, nil
}

// Exists reports whether a slug names an embedded page. Bookmark writes
// validate against this.
func (s *Store) Exists(slug string) bool {
	_, ok := s.meta[slug]
	return ok
}

// CookiePolicyVersion returns the live cookie-policy version.
func (s *Store) CookiePolicyVersion() string {
	return s.meta[CookiePolicySlug].Version
}
