package domain

import "time"

// Cookie consent categories offered by the banner. ConsentNecessary cannot
// be declined.
const (
	ConsentNecessary   = "necessary"
	ConsentPreferences = "preferences"
	ConsentAnalytics   = "analytics"
	ConsentMarketing   = "marketing"
)

// ConsentCategories lists the accepted category names in display order.
var ConsentCategories = []string{
	ConsentNecessary,
	ConsentPreferences,
	ConsentAnalytics,
	ConsentMarketing,
}

// ConsentRecord is the per-session cookie consent decision. PolicyVersion is
// stamped from the live cookie-policy page at save time so a later policy
// revision can re-prompt the shopper.
type ConsentRecord struct {
	SessionID     string          `json:"session_id"`
	Categories    map[string]bool `json:"categories"`
	PolicyVersion string          `json:"policy_version"`
	Version       int64           `json:"version"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewConsentRecord builds a record from the given category flags, dropping
// unknown categories and forcing necessary to true.
func NewConsentRecord(sessionID string, categories map[string]bool, policyVersion string) *ConsentRecord {
	normalized := make(map[string]bool, len(ConsentCategories))
	for _, name := range ConsentCategories {
		normalized[name] = categories[name]
	}
	normalized[ConsentNecessary] = true

	return &ConsentRecord{
		SessionID:     sessionID,
		Categories:    normalized,
		PolicyVersion: policyVersion,
		UpdatedAt:     time.Now().UTC(),
	}
}

// Allows reports whether the given category was granted. Unknown categories
// are never granted.
func (c *ConsentRecord) Allows(category string) bool {
	return c.Categories[category]
}
