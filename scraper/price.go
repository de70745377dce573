package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// priceStripper removes the currency tokens and grouping characters seen on
// the supported sites: Kč/CZK on the Czech shops, zł/PLN on Allegro, plus
// regular and non-breaking spaces used as thousands separators.
var priceStripper = strings.NewReplacer(
	"Kč", "",
	"CZK", "",
	"zł", "",
	"PLN", "",
	" ", "",
	" ", "",
)

var (
	dotDecimalRun = regexp.MustCompile(`\d+\.\d+`)
	numberRun     = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// ExtractPrice pulls the first numeric value out of price-bearing text.
// A dot-decimal run wins when present; otherwise a comma is treated as the
// decimal separator. Returns false when the text holds no parseable number.
// Zero is not a price: placeholder markup like "0 Kč" counts as absent so
// the cascade keeps looking.
func ExtractPrice(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}

	cleaned := priceStripper.Replace(text)

	match := dotDecimalRun.FindString(cleaned)
	if match == "" {
		match = numberRun.FindString(strings.ReplaceAll(cleaned, ",", "."))
	}
	if match == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return value, true
}
