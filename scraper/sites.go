package scraper

import "strings"

// Site identifies one supported e-commerce site.
type Site string

const (
	SiteAlza    Site = "alza"
	SiteSmarty  Site = "smarty"
	SiteAllegro Site = "allegro"
)

// profile carries one site's extraction rules as data. The cascade in
// extract.go is written once and reads these tables; adding a site means
// adding a profile, not new traversal code.
type profile struct {
	site      Site
	origin    string
	searchURL string // printf format with one %s for the escaped query

	nameSelector       string
	priceSelectors     []string
	oldPriceSelectors  []string
	saleBadgeSelectors []string
	saleKeywords       []string

	resultsContainer string
	resultItems      string
	itemName         string
	itemPrice        string
	itemOldPrice     string
	itemBadge        string
}

var profiles = map[Site]*profile{
	SiteAlza: {
		site:      SiteAlza,
		origin:    "https://www.alza.cz",
		searchURL: "https://www.alza.cz/search.htm?extext=%s",

		nameSelector: "h1",
		priceSelectors: []string{
			".price-box__price",
			".price",
			"[class*='price']",
		},
		oldPriceSelectors: []string{
			".price-box__old-price",
			".old-price",
			"[class*='old-price']",
			"[class*='strikethrough']",
			"del",
			"s",
		},
		saleBadgeSelectors: []string{
			".badge-sale",
			".sale-badge",
			"[class*='sale']",
			"[class*='discount']",
			"[class*='akce']",
		},
		saleKeywords: []string{"sale", "sleva", "akce", "discount", "akční"},

		resultsContainer: ".box.browsingitem, .browsingitem",
		resultItems:      ".box.browsingitem, .browsingitem",
		itemName:         "a.name, .name a",
		itemPrice:        ".price-box__price, .price",
		itemOldPrice:     ".price-box__old-price, .old-price, del, s",
		itemBadge:        ".badge-sale, .sale-badge, [class*='sale'], [class*='akce']",
	},

	SiteSmarty: {
		site:      SiteSmarty,
		origin:    "https://www.smarty.cz",
		searchURL: "https://www.smarty.cz/search.html?q=%s",

		nameSelector: "h1",
		priceSelectors: []string{
			".price-final",
			".price-current",
			".product-price",
			"[class*='price']",
			".price",
		},
		oldPriceSelectors: []string{
			".price-old",
			".price-original",
			"[class*='old-price']",
			"[class*='original-price']",
			"del",
			"s",
		},
		saleBadgeSelectors: []string{
			".badge-sale",
			".label-sale",
			"[class*='sale']",
			"[class*='discount']",
			"[class*='sleva']",
			"[class*='akce']",
		},
		saleKeywords: []string{"sale", "sleva", "akce", "discount", "akční"},

		resultsContainer: ".product-item, .product, [class*='product']",
		resultItems:      ".product-item, .product, [class*='product-box']",
		itemName:         "a[class*='name'], .product-name, h3 a, h2 a",
		itemPrice:        ".price-final, .price, [class*='price']",
		itemOldPrice:     ".price-old, .price-original, del, s",
		itemBadge:        ".badge-sale, .label-sale, [class*='sale']",
	},

	SiteAllegro: {
		site:      SiteAllegro,
		origin:    "https://allegro.pl",
		searchURL: "https://allegro.pl/listing?string=%s",

		nameSelector: "h1",
		priceSelectors: []string{
			"[data-role='price']",
			"[class*='price']",
			".price",
			"meta[property='product:price:amount']",
		},
		oldPriceSelectors: []string{
			"[data-role='old-price']",
			".price-old",
			"[class*='old-price']",
			"del",
			"s",
		},
		saleBadgeSelectors: []string{
			"[class*='badge']",
			"[class*='promocja']",
			"[class*='sale']",
			"[class*='discount']",
		},
		saleKeywords: []string{"sale", "promocja", "obniżka", "discount"},

		resultsContainer: "[data-role='offer'], article, [class*='offer']",
		resultItems:      "[data-role='offer'], article, [class*='offer-item']",
		itemName:         "a[class*='name'], h2 a, [data-role='offer-title']",
		itemPrice:        "[data-role='price'], .price, [class*='price']",
		itemOldPrice:     "[data-role='old-price'], .price-old, del",
		itemBadge:        "[class*='badge'], [class*='promocja']",
	},
}

// siteTable maps URL fragments to sites, checked in order. First match wins.
var siteTable = []struct {
	fragment string
	site     Site
}{
	{"alza.cz", SiteAlza},
	{"smarty.cz", SiteSmarty},
	{"allegro.pl", SiteAllegro},
}

// ResolveSite maps a product URL to its site by substring match.
func ResolveSite(rawURL string) (Site, bool) {
	lower := strings.ToLower(rawURL)
	for _, entry := range siteTable {
		if strings.Contains(lower, entry.fragment) {
			return entry.site, true
		}
	}
	return "", false
}

// SiteByTag maps a short site tag ("alza", "smarty", "allegro") to its site.
func SiteByTag(tag string) (Site, bool) {
	site := Site(strings.ToLower(tag))
	_, ok := profiles[site]
	return site, ok
}

// SupportedSites lists the site tags in resolution order, for error messages.
func SupportedSites() []string {
	names := make([]string, 0, len(siteTable))
	for _, entry := range siteTable {
		names = append(names, string(entry.site))
	}
	return names
}
