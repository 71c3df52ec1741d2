package sync

import (
	"context"
	"errors"
	"time"

	"github.com/wanderstay/wander-chat/internal/api"
	"github.com/wanderstay/wander-chat/internal/chat"
	"github.com/wanderstay/wander-chat/internal/state"
	"github.com/wanderstay/wander-chat/internal/status"
	"go.uber.org/zap"
)

// DefaultPollInterval is how often the conversation list is refreshed.
const DefaultPollInterval = 15 * time.Second

// Poller periodically refreshes the conversation list, drives the
// connectivity state machine from the results, and bumps unread counters
// when new activity lands on a conversation that is not open.
type Poller struct {
	store    *state.Store
	machine  *status.Machine
	logger   *zap.Logger
	interval time.Duration
	lastSeen map[string]time.Time
	cancel   context.CancelFunc
}

// NewPoller creates a poller with the default interval.
func NewPoller(store *state.Store, machine *status.Machine, logger *zap.Logger) *Poller {
	return &Poller{
		store:    store,
		machine:  machine,
		logger:   logger,
		interval: DefaultPollInterval,
		lastSeen: make(map[string]time.Time),
	}
}

// Start begins the refresh loop.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.tick(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the loop.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *Poller) tick(ctx context.Context) {
	if err := p.store.LoadConversations(ctx); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			_ = p.machine.Transition(status.AuthRequired)
		} else {
			_ = p.machine.Transition(status.Offline)
		}
		if p.logger != nil {
			p.logger.Warn("refresh failed", zap.Error(err))
		}
		return
	}
	_ = p.machine.Transition(status.Online)

	st := p.store.State()
	current := ""
	if st.Current != nil {
		current = st.Current.ID
	}

	for _, c := range st.Conversations {
		if c.LastMessage == nil {
			continue
		}
		at := c.LastMessage.CreatedAt
		prev, seen := p.lastSeen[c.ID]
		if seen && at.After(prev) && c.ID != current && c.LastMessage.Role == chat.RoleTheirs {
			p.store.IncrementUnread(c.ID)
		}
		p.lastSeen[c.ID] = at
	}
}
