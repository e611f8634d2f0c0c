package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vardhmanmills/storefront/internal/legal"
)

func TestLegalHandler_List(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/pages", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age")

	var pages []legal.Page
	decodeData(t, rec, &pages)
	require.NotEmpty(t, pages)

	slugs := make([]string, 0, len(pages))
	for _, p := range pages {
		slugs = append(slugs, p.Slug)
		assert.Empty(t, p.HTML, "listings carry metadata only")
	}
	assert.Contains(t, slugs, "privacy-policy")
	assert.Contains(t, slugs, legal.CookiePolicySlug)
}

func TestLegalHandler_Get(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/pages/privacy-policy", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page legal.Page
	decodeData(t, rec, &page)
	assert.Equal(t, "privacy-policy", page.Slug)
	assert.Contains(t, page.HTML, "<h2>")
	assert.Greater(t, page.ReadingMinutes, 0)
}

func TestLegalHandler_Get_Unknown(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/pages/refund-matrix", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}
