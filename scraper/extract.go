package scraper

import (
	"strings"
	"time"

	"pricescout/models"
)

// extractProduct runs the extraction cascade over a full product page.
// The heading is the structural anchor: if it never appears the page did not
// render as expected and nothing else is worth trying.
func extractProduct(page Page, p *profile, wait time.Duration) (*models.ProductRecord, error) {
	if err := page.WaitFor(p.nameSelector, wait); err != nil {
		return nil, &PageLoadError{Site: p.site}
	}

	nameEl, ok := page.Element(p.nameSelector)
	if !ok {
		return nil, &PageLoadError{Site: p.site}
	}
	name := strings.TrimSpace(nameEl.Text())
	if name == "" {
		return nil, &PageLoadError{Site: p.site}
	}

	price, ok := firstPrice(page, p.priceSelectors)
	if !ok {
		return nil, &PriceNotFoundError{Site: p.site}
	}

	record := &models.ProductRecord{Name: name, Price: price}
	record.IsOnSale, record.OriginalPrice = detectSale(page, p)
	return record, nil
}

// firstPrice walks the ordered candidate selectors and accepts the first one
// whose text parses to a number. It does not keep looking for a "better"
// price once one parses.
func firstPrice(q Queryable, selectors []string) (float64, bool) {
	for _, selector := range selectors {
		el, ok := q.Element(selector)
		if !ok {
			continue
		}
		if price, ok := ExtractPrice(priceText(el, selector)); ok {
			return price, true
		}
	}
	return 0, false
}

// priceText reads the price-bearing text of an element. Allegro exposes its
// price through a meta tag's content attribute; everything else is inner text.
func priceText(el Element, selector string) string {
	if strings.HasPrefix(selector, "meta") {
		content, _ := el.Attribute("content")
		return content
	}
	return el.Text()
}

// detectSale checks the strikethrough selectors first: the first old-price
// element that parses wins and recovers the pre-discount price. Only when no
// strikethrough price exists do the badge selectors get a chance, and a badge
// counts only if its text contains a site keyword.
func detectSale(q Queryable, p *profile) (bool, *float64) {
	for _, selector := range p.oldPriceSelectors {
		el, ok := q.Element(selector)
		if !ok {
			continue
		}
		if original, ok := ExtractPrice(el.Text()); ok {
			return true, &original
		}
	}

	for _, selector := range p.saleBadgeSelectors {
		el, ok := q.Element(selector)
		if !ok {
			continue
		}
		text := strings.ToLower(el.Text())
		for _, word := range p.saleKeywords {
			if strings.Contains(text, word) {
				return true, nil
			}
		}
	}

	return false, nil
}

// extractResults enumerates the result item boxes on a search page, up to
// limit. A box that cannot be extracted is skipped; one bad item never aborts
// the whole list. Order follows the source listing.
func extractResults(page Page, p *profile, limit int, wait time.Duration) ([]models.SearchResult, error) {
	if limit <= 0 {
		return []models.SearchResult{}, nil
	}

	if err := page.WaitFor(p.resultsContainer, wait); err != nil {
		return nil, &SearchUnavailableError{Site: p.site}
	}

	results := make([]models.SearchResult, 0, limit)
	for _, box := range page.Elements(p.resultItems) {
		if len(results) >= limit {
			break
		}
		item, ok := extractResultItem(box, p)
		if !ok {
			continue
		}
		results = append(results, *item)
	}
	return results, nil
}

// extractResultItem applies the name/price/sale cascade scoped to one result
// box, plus the image and product URL. Returns false when any mandatory field
// is missing, so the caller drops the item.
func extractResultItem(box Element, p *profile) (*models.SearchResult, bool) {
	nameEl, ok := box.Element(p.itemName)
	if !ok {
		return nil, false
	}
	name := strings.TrimSpace(nameEl.Text())
	if name == "" {
		return nil, false
	}

	productURL, _ := nameEl.Attribute("href")
	if productURL == "" {
		return nil, false
	}
	if !strings.HasPrefix(productURL, "http") {
		productURL = p.origin + productURL
	}

	priceEl, ok := box.Element(p.itemPrice)
	if !ok {
		return nil, false
	}
	price, ok := ExtractPrice(priceEl.Text())
	if !ok {
		return nil, false
	}

	result := &models.SearchResult{
		Name:       name,
		Price:      price,
		ProductURL: productURL,
	}

	if img, ok := box.Element("img"); ok {
		if src, ok := img.Attribute("src"); ok && src != "" {
			result.ImageURL = src
		} else if src, ok := img.Attribute("data-src"); ok {
			// lazy-loaded images keep the real source here
			result.ImageURL = src
		}
	}

	if oldEl, ok := box.Element(p.itemOldPrice); ok {
		if original, ok := ExtractPrice(oldEl.Text()); ok {
			result.IsOnSale = true
			result.OriginalPrice = &original
		}
	}
	if !result.IsOnSale {
		if _, ok := box.Element(p.itemBadge); ok {
			result.IsOnSale = true
		}
	}

	return result, true
}
