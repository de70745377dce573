package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSite(t *testing.T) {
	tests := []struct {
		url  string
		site Site
		ok   bool
	}{
		{"https://www.alza.cz/bezdratova-mys-d123.htm", SiteAlza, true},
		{"https://www.smarty.cz/Mobilni-telefon", SiteSmarty, true},
		{"https://allegro.pl/oferta/sluchawki-123", SiteAllegro, true},
		{"https://WWW.ALZA.CZ/product", SiteAlza, true},
		{"https://www.amazon.com/dp/B000", "", false},
		{"not a url at all", "", false},
	}

	for _, tt := range tests {
		site, ok := ResolveSite(tt.url)
		assert.Equal(t, tt.ok, ok, tt.url)
		assert.Equal(t, tt.site, site, tt.url)
	}
}

func TestSiteByTag(t *testing.T) {
	site, ok := SiteByTag("alza")
	assert.True(t, ok)
	assert.Equal(t, SiteAlza, site)

	site, ok = SiteByTag("ALLEGRO")
	assert.True(t, ok)
	assert.Equal(t, SiteAllegro, site)

	_, ok = SiteByTag("ebay")
	assert.False(t, ok)
}

func TestSupportedSites(t *testing.T) {
	assert.Equal(t, []string{"alza", "smarty", "allegro"}, SupportedSites())
}

func TestEverySiteHasAProfile(t *testing.T) {
	for _, entry := range siteTable {
		p, ok := profiles[entry.site]
		assert.True(t, ok, entry.site)
		assert.NotEmpty(t, p.nameSelector)
		assert.NotEmpty(t, p.priceSelectors)
		assert.NotEmpty(t, p.searchURL)
		assert.NotEmpty(t, p.origin)
	}
}
