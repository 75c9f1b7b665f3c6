package bot

import (
	"sync"
	"testing"
)

func TestSessionStoreLazyCreation(t *testing.T) {
	t.Parallel()

	store := NewSessionStore()
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d sessions", store.Len())
	}

	sess := store.Get(42)
	if sess.UserID != 42 || sess.State != StateIdle {
		t.Fatalf("unexpected new session %+v", sess)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}

	// Repeated lookups return the same session.
	sess.State = StateAwaitCity
	if again := store.Get(42); again.State != StateAwaitCity {
		t.Fatal("expected Get to return the same session")
	}
}

func TestSessionStoreConcurrentUsers(t *testing.T) {
	t.Parallel()

	store := NewSessionStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			sess := store.Get(id)
			sess.BusinessType = "bakery"
		}(int64(i))
	}
	wg.Wait()

	if store.Len() != 50 {
		t.Fatalf("expected 50 sessions, got %d", store.Len())
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	if got := StateScraperAPIKey.String(); got != "scraper_api_key" {
		t.Fatalf("unexpected state name %q", got)
	}
	if got := State(99).String(); got != "unknown" {
		t.Fatalf("unexpected fallback name %q", got)
	}
}
