package directory

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseListingPage(t *testing.T) {
	t.Parallel()

	body, err := os.ReadFile(filepath.Join("testdata", "listing_page.html"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	records, err := ParseListingPage(body)
	if err != nil {
		t.Fatalf("ParseListingPage() error = %v", err)
	}

	// The fixture holds four listings; two lack a required field.
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}

	first := records[0]
	if first.Name != "Paris Bakery" {
		t.Errorf("unexpected name %q", first.Name)
	}
	if first.Address != "12 Rue de Rivoli" {
		t.Errorf("unexpected address %q", first.Address)
	}
	if first.Phone != "(555) 010-1212" {
		t.Errorf("unexpected phone %q", first.Phone)
	}
	if first.Website != "https://parisbakery.example.com" {
		t.Errorf("unexpected website %q", first.Website)
	}

	second := records[1]
	if second.Name != "Croissant Corner" {
		t.Errorf("unexpected name %q", second.Name)
	}
	if second.Website != NoWebsite {
		t.Errorf("expected website sentinel, got %q", second.Website)
	}
}

func TestParseListingPageEmpty(t *testing.T) {
	t.Parallel()

	records, err := ParseListingPage([]byte("<html><body><p>nothing here</p></body></html>"))
	if err != nil {
		t.Fatalf("ParseListingPage() error = %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %+v", records)
	}
}
