package directory

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/davidshroff27/leadscout/internal/metrics"
)

// Fetcher retrieves the raw body of a single directory page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// Scraper walks paginated search results and aggregates parsed records.
type Scraper struct {
	baseURL string
	fetcher Fetcher
	logger  *zap.Logger
}

// NewScraper constructs a Scraper against the given directory base URL.
func NewScraper(baseURL string, fetcher Fetcher, logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{
		baseURL: baseURL,
		fetcher: fetcher,
		logger:  logger.Named("directory"),
	}
}

// Search fetches pages 1..pages inclusive and concatenates their records in
// page order, then listing order within each page. Pages are fetched
// sequentially to bound load on the target site. A page that fails to fetch
// or parse contributes zero records; it never aborts the run.
func (s *Scraper) Search(ctx context.Context, businessType, city string, pages int) ([]Record, error) {
	if pages <= 0 {
		return nil, fmt.Errorf("pages must be > 0, got %d", pages)
	}

	var results []Record
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("search canceled: %w", err)
		}

		pageURL := s.searchURL(businessType, city, page)
		body, err := s.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			s.logger.Warn("page fetch failed",
				zap.Int("page", page),
				zap.String("url", pageURL),
				zap.Error(err),
			)
			metrics.ObserveDirectoryPage("fetch_error")
			continue
		}

		records, err := ParseListingPage(body)
		if err != nil {
			s.logger.Warn("page parse failed", zap.Int("page", page), zap.Error(err))
			metrics.ObserveDirectoryPage("parse_error")
			continue
		}

		metrics.ObserveDirectoryPage("ok")
		metrics.ObserveDirectoryListings(len(records))
		results = append(results, records...)
	}
	return results, nil
}

func (s *Scraper) searchURL(businessType, city string, page int) string {
	return fmt.Sprintf("%s/search?search_terms=%s&geo_location_terms=%s&page=%d",
		s.baseURL,
		url.QueryEscape(businessType),
		url.QueryEscape(city),
		page,
	)
}
