package bot

import (
	"context"

	"github.com/davidshroff27/leadscout/internal/directory"
	"github.com/davidshroff27/leadscout/internal/hunter"
	"github.com/davidshroff27/leadscout/internal/store"
)

// Directory runs a paginated business search.
type Directory interface {
	Search(ctx context.Context, businessType, city string, pages int) ([]directory.Record, error)
}

// EmailFinder validates API keys and resolves domains to email addresses.
type EmailFinder interface {
	ValidateKey(ctx context.Context, apiKey string) bool
	FindEmails(ctx context.Context, apiKey, domain string) hunter.Result
}

// Relay forwards free-form text to the completion API.
type Relay interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Filter post-processes relay output before it is sent.
type Filter interface {
	Apply(text string) string
}

// Button is one inline keyboard button on an outbound message. Exactly one
// of URL and CallbackData should be set.
type Button struct {
	Text         string
	URL          string
	CallbackData string
}

// Sender delivers outbound messages through the chat transport.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendMenu(ctx context.Context, chatID int64, text string, rows [][]Button) error
}

// LeadStore persists the results of a search run.
type LeadStore interface {
	SaveRun(ctx context.Context, run store.SearchRun, leads []store.Lead) error
}
