package directory

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseListingPage extracts business records from one search-result page.
// Listings missing a required field (name, address or phone) are skipped;
// a malformed listing never aborts the page. The returned slice preserves
// document order.
func ParseListingPage(body []byte) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	var records []Record
	doc.Find("div.result").Each(func(_ int, sel *goquery.Selection) {
		rec, ok := parseListing(sel)
		if !ok {
			return
		}
		records = append(records, rec)
	})
	return records, nil
}

func parseListing(sel *goquery.Selection) (Record, bool) {
	name := strings.TrimSpace(sel.Find("a.business-name").First().Text())
	address := strings.TrimSpace(sel.Find("div.street-address").First().Text())
	phone := strings.TrimSpace(sel.Find("div.phone").First().Text())
	if name == "" || address == "" || phone == "" {
		return Record{}, false
	}

	website := NoWebsite
	if href, ok := sel.Find("a.track-visit-website").First().Attr("href"); ok && href != "" {
		website = href
	}

	return Record{
		Name:    name,
		Address: address,
		Phone:   phone,
		Website: website,
	}, true
}
