package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubFetcher struct {
	pages map[int][]byte
	errs  map[int]error
	urls  []string
}

func (f *stubFetcher) Fetch(_ context.Context, pageURL string) ([]byte, error) {
	f.urls = append(f.urls, pageURL)
	page := len(f.urls)
	if err, ok := f.errs[page]; ok {
		return nil, err
	}
	return f.pages[page], nil
}

func listingHTML(names ...string) []byte {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i, name := range names {
		fmt.Fprintf(&b, `<div class="result">
			<a class="business-name">%s</a>
			<div class="street-address">%d Main St</div>
			<div class="phone">(555) 000-%04d</div>
		</div>`, name, i+1, i+1)
	}
	b.WriteString("</body></html>")
	return []byte(b.String())
}

func TestSearchConcatenatesPagesInOrder(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{pages: map[int][]byte{
		1: listingHTML("Alpha", "Beta"),
		2: listingHTML("Gamma"),
	}}
	scraper := NewScraper("https://directory.local", fetcher, zap.NewNop())

	records, err := scraper.Search(context.Background(), "bakery", "Paris", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.Name
	}
	if got := strings.Join(names, ","); got != "Alpha,Beta,Gamma" {
		t.Fatalf("expected page-ordered records, got %q", got)
	}

	if len(fetcher.urls) != 2 {
		t.Fatalf("expected 2 fetches, got %d", len(fetcher.urls))
	}
	want := "https://directory.local/search?search_terms=bakery&geo_location_terms=Paris&page=1"
	if fetcher.urls[0] != want {
		t.Fatalf("unexpected first page url %q", fetcher.urls[0])
	}
}

func TestSearchEscapesQueryTerms(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{pages: map[int][]byte{}}
	scraper := NewScraper("https://directory.local", fetcher, nil)

	if _, err := scraper.Search(context.Background(), "coffee shop", "New York", 1); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	want := "https://directory.local/search?search_terms=coffee+shop&geo_location_terms=New+York&page=1"
	if fetcher.urls[0] != want {
		t.Fatalf("unexpected url %q", fetcher.urls[0])
	}
}

func TestSearchSkipsFailedPages(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{
		pages: map[int][]byte{
			1: listingHTML("Alpha"),
			3: listingHTML("Gamma"),
		},
		errs: map[int]error{2: errors.New("boom")},
	}
	scraper := NewScraper("https://directory.local", fetcher, zap.NewNop())

	records, err := scraper.Search(context.Background(), "bakery", "Paris", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(records) != 2 || records[0].Name != "Alpha" || records[1].Name != "Gamma" {
		t.Fatalf("expected failed page to be skipped, got %+v", records)
	}
}

func TestSearchRejectsNonPositivePages(t *testing.T) {
	t.Parallel()

	scraper := NewScraper("https://directory.local", &stubFetcher{}, zap.NewNop())
	if _, err := scraper.Search(context.Background(), "bakery", "Paris", 0); err == nil {
		t.Fatal("expected error for pages = 0")
	}
}

func TestSearchStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scraper := NewScraper("https://directory.local", &stubFetcher{}, zap.NewNop())
	if _, err := scraper.Search(ctx, "bakery", "Paris", 2); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
