package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConsentRecord_NecessaryAlwaysTrue(t *testing.T) {
	rec := NewConsentRecord("sess-1", map[string]bool{
		ConsentNecessary: false,
		ConsentAnalytics: true,
	}, "2.1")

	assert.True(t, rec.Allows(ConsentNecessary))
	assert.True(t, rec.Allows(ConsentAnalytics))
	assert.False(t, rec.Allows(ConsentMarketing))
	assert.Equal(t, "2.1", rec.PolicyVersion)
}

func TestNewConsentRecord_DropsUnknownCategories(t *testing.T) {
	rec := NewConsentRecord("sess-1", map[string]bool{"tracking-pixels": true}, "2.1")

	_, present := rec.Categories["tracking-pixels"]
	assert.False(t, present)
	assert.Len(t, rec.Categories, len(ConsentCategories))
}
