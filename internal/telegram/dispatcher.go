package telegram

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// laneBuffer bounds how many updates queue up for one chat before the poll
// loop blocks on that chat.
const laneBuffer = 32

// Handler consumes decoded updates. The dispatcher guarantees calls for
// the same chat never overlap; different chats may run concurrently.
type Handler interface {
	HandleMessage(ctx context.Context, userID int64, text string)
	HandleCallback(ctx context.Context, userID int64, data string)
}

// API is the slice of the Bot API the dispatcher needs.
type API interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error)
	AnswerCallback(ctx context.Context, callbackID string) error
}

// Dispatcher long-polls for updates and fans them out to per-chat worker
// goroutines so each user's events are handled in delivery order.
type Dispatcher struct {
	api         API
	handler     Handler
	pollTimeout int
	logger      *zap.Logger

	mu    sync.Mutex
	lanes map[int64]chan Update
	wg    sync.WaitGroup
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(api API, handler Handler, pollTimeoutSec int, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pollTimeoutSec <= 0 {
		pollTimeoutSec = 30
	}
	return &Dispatcher{
		api:         api,
		handler:     handler,
		pollTimeout: pollTimeoutSec,
		logger:      logger.Named("dispatcher"),
		lanes:       make(map[int64]chan Update),
	}
}

// Run polls until the context finishes, then drains the per-chat lanes.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer d.drain()

	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		updates, err := d.api.GetUpdates(ctx, offset, d.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			d.logger.Warn("poll failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			d.route(ctx, update)
		}
	}
}

func (d *Dispatcher) route(ctx context.Context, update Update) {
	chatID := update.ChatID()
	if chatID == 0 {
		return
	}
	select {
	case d.lane(ctx, chatID) <- update:
	case <-ctx.Done():
	}
}

// lane returns the ordered update channel for a chat, starting its worker
// on first contact.
func (d *Dispatcher) lane(ctx context.Context, chatID int64) chan Update {
	d.mu.Lock()
	defer d.mu.Unlock()
	if lane, ok := d.lanes[chatID]; ok {
		return lane
	}
	lane := make(chan Update, laneBuffer)
	d.lanes[chatID] = lane
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for update := range lane {
			d.dispatch(ctx, update)
		}
	}()
	return lane
}

func (d *Dispatcher) dispatch(ctx context.Context, update Update) {
	switch {
	case update.CallbackQuery != nil:
		if err := d.api.AnswerCallback(ctx, update.CallbackQuery.ID); err != nil {
			d.logger.Debug("answer callback failed", zap.Error(err))
		}
		d.handler.HandleCallback(ctx, update.ChatID(), update.CallbackQuery.Data)
	case update.Message != nil && update.Message.Text != "":
		d.handler.HandleMessage(ctx, update.ChatID(), update.Message.Text)
	}
}

func (d *Dispatcher) drain() {
	d.mu.Lock()
	for _, lane := range d.lanes {
		close(lane)
	}
	d.lanes = make(map[int64]chan Update)
	d.mu.Unlock()
	d.wg.Wait()
}
