package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeAPI struct {
	batches [][]Update
	call    int

	mu       sync.Mutex
	offsets  []int64
	answered []string
}

func (f *fakeAPI) GetUpdates(ctx context.Context, offset int64, _ int) ([]Update, error) {
	f.mu.Lock()
	f.offsets = append(f.offsets, offset)
	f.mu.Unlock()
	if f.call < len(f.batches) {
		batch := f.batches[f.call]
		f.call++
		return batch, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeAPI) AnswerCallback(_ context.Context, callbackID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, callbackID)
	return nil
}

type recordingHandler struct {
	mu     sync.Mutex
	events map[int64][]string
	seen   int
	want   int
	done   chan struct{}
}

func newRecordingHandler(want int) *recordingHandler {
	return &recordingHandler{events: make(map[int64][]string), want: want, done: make(chan struct{})}
}

func (h *recordingHandler) record(userID int64, event string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events[userID] = append(h.events[userID], event)
	h.seen++
	if h.seen == h.want {
		close(h.done)
	}
}

func (h *recordingHandler) HandleMessage(_ context.Context, userID int64, text string) {
	h.record(userID, "msg:"+text)
}

func (h *recordingHandler) HandleCallback(_ context.Context, userID int64, data string) {
	h.record(userID, "cb:"+data)
}

func message(updateID, chatID int64, text string) Update {
	return Update{UpdateID: updateID, Message: &Message{Text: text, Chat: Chat{ID: chatID}}}
}

func TestDispatcherOrdersUpdatesPerChat(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{batches: [][]Update{
		{
			message(10, 1, "first"),
			message(11, 2, "other"),
			message(12, 1, "second"),
		},
		{
			message(13, 1, "third"),
			{UpdateID: 14, CallbackQuery: &CallbackQuery{ID: "cb-1", Data: "Chat With Me", Message: &Message{Chat: Chat{ID: 2}}}},
		},
	}}
	handler := newRecordingHandler(5)
	d := NewDispatcher(api, handler, 1, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- d.Run(ctx) }()

	select {
	case <-handler.done:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for updates to be handled")
	}
	cancel()
	if err := <-runErr; err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	handler.mu.Lock()
	defer handler.mu.Unlock()
	wantChatOne := []string{"msg:first", "msg:second", "msg:third"}
	if got := handler.events[1]; len(got) != len(wantChatOne) {
		t.Fatalf("chat 1 events = %v", got)
	} else {
		for i, event := range wantChatOne {
			if got[i] != event {
				t.Fatalf("chat 1 events = %v, want %v", got, wantChatOne)
			}
		}
	}
	if got := handler.events[2]; len(got) != 2 || got[0] != "msg:other" || got[1] != "cb:Chat With Me" {
		t.Fatalf("chat 2 events = %v", got)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.answered) != 1 || api.answered[0] != "cb-1" {
		t.Fatalf("answered callbacks = %v", api.answered)
	}
	// Third poll runs after both batches, so the offset must have advanced
	// past the highest update ID seen.
	if len(api.offsets) < 3 || api.offsets[2] != 15 {
		t.Fatalf("poll offsets = %v", api.offsets)
	}
}

func TestDispatcherSkipsUpdatesWithoutChat(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{batches: [][]Update{
		{
			{UpdateID: 20},
			message(21, 5, "hello"),
		},
	}}
	handler := newRecordingHandler(1)
	d := NewDispatcher(api, handler, 1, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- d.Run(ctx) }()

	select {
	case <-handler.done:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for update")
	}
	cancel()
	if err := <-runErr; err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	handler.mu.Lock()
	defer handler.mu.Unlock()
	if len(handler.events) != 1 || len(handler.events[5]) != 1 {
		t.Fatalf("events = %v", handler.events)
	}
}
