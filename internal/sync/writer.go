package sync

import (
	"context"

	"github.com/wanderstay/wander-chat/internal/bus"
	"github.com/wanderstay/wander-chat/internal/cache"
	"github.com/wanderstay/wander-chat/internal/state"
	"go.uber.org/zap"
)

// StateSource exposes the store snapshot the writer persists.
type StateSource interface {
	State() state.State
}

// Writer mirrors store state into the offline cache. It subscribes to
// "chat." events and persists after each change; writes are best-effort
// and never feed back into store semantics.
type Writer struct {
	db     *cache.DB
	source StateSource
	bus    *bus.Bus
	logger *zap.Logger
	cancel context.CancelFunc
}

// NewWriter creates a cache writer.
func NewWriter(db *cache.DB, source StateSource, b *bus.Bus, logger *zap.Logger) *Writer {
	return &Writer{
		db:     db,
		source: source,
		bus:    b,
		logger: logger,
	}
}

// Start subscribes to store events.
func (w *Writer) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	ch, unsub := w.bus.Subscribe("chat.", 256)

	go func() {
		defer unsub()
		for {
			select {
			case <-ch:
				w.persist()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the writer.
func (w *Writer) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
}

func (w *Writer) persist() {
	st := w.source.State()

	if len(st.Conversations) > 0 {
		if err := w.db.UpsertConversations(st.Conversations); err != nil {
			if w.logger != nil {
				w.logger.Error("failed to cache conversations", zap.Error(err))
			}
			return
		}
	}

	// The thread is cleared while a newly selected conversation loads;
	// skipping empty snapshots keeps that transient from wiping the
	// cached copy.
	if st.Current != nil && len(st.Messages) > 0 {
		if err := w.db.ReplaceMessages(st.Current.ID, st.Messages); err != nil && w.logger != nil {
			w.logger.Error("failed to cache thread", zap.Error(err), zap.String("conversation", st.Current.ID))
		}
	}
}
