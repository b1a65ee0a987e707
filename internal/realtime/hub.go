package realtime

import (
	"context"
	"sync"

	"github.com/emontecinos/campusmarket-backend/pkg/logger"
)

// Sink is the outbound half of a live connection. TrySend must never block:
// implementations report false when the connection cannot accept the event.
type Sink interface {
	TrySend(event Event) bool
	Close()
}

type session struct {
	sink  Sink
	name  string
	epoch uint64
}

// Hub is the process-local presence registry: at most one live session per
// account, last connection wins. Sessions are tagged with a monotonic epoch so
// that a disconnect racing a reconnect cannot evict the newer session.
type Hub struct {
	mu       sync.Mutex
	sessions map[int64]*session
	epoch    uint64
	logg     *logger.Logger
}

// NewHub builds an empty presence registry.
func NewHub(logg *logger.Logger) *Hub {
	return &Hub{
		sessions: make(map[int64]*session),
		logg:     logg,
	}
}

// Register stores the sink as the account's live session, replacing and closing
// any previous one, and announces the account online to everyone else. The
// returned epoch must be passed back to Remove on disconnect.
func (h *Hub) Register(accountID int64, name string, sink Sink) uint64 {
	h.mu.Lock()
	h.epoch++
	epoch := h.epoch
	prev := h.sessions[accountID]
	h.sessions[accountID] = &session{sink: sink, name: name, epoch: epoch}
	h.mu.Unlock()

	if prev != nil {
		prev.sink.Close()
	}

	h.broadcastExcept(accountID, Event{
		Type:    EventUserOnline,
		Payload: PresencePayload{UserID: accountID, UserName: name},
	})

	if h.logg != nil {
		ctx := h.logg.WithFields(context.Background(), map[string]any{
			"account_id": accountID,
			"epoch":      epoch,
		})
		h.logg.Info(ctx, "presence.registered")
	}
	return epoch
}

// Remove drops the account's session, but only when the epoch matches the
// registered one: a stale disconnect from a replaced connection is a no-op.
func (h *Hub) Remove(accountID int64, epoch uint64) {
	h.mu.Lock()
	current, ok := h.sessions[accountID]
	if !ok || current.epoch != epoch {
		h.mu.Unlock()
		return
	}
	delete(h.sessions, accountID)
	h.mu.Unlock()

	current.sink.Close()

	h.broadcastExcept(accountID, Event{
		Type:    EventUserOffline,
		Payload: PresencePayload{UserID: accountID, UserName: current.name},
	})

	if h.logg != nil {
		ctx := h.logg.WithFields(context.Background(), map[string]any{
			"account_id": accountID,
			"epoch":      epoch,
		})
		h.logg.Info(ctx, "presence.removed")
	}
}

// Push delivers an event to the account's live session if any. Best effort: a
// missing session or a full outbound buffer returns false and nothing else
// happens.
func (h *Hub) Push(accountID int64, event Event) bool {
	h.mu.Lock()
	current, ok := h.sessions[accountID]
	h.mu.Unlock()
	if !ok {
		return false
	}
	return current.sink.TrySend(event)
}

// Online reports whether the account currently holds a live session.
func (h *Hub) Online(accountID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.sessions[accountID]
	return ok
}

// broadcastExcept fans an event out to every session except the named account.
// Unordered and unacknowledged.
func (h *Hub) broadcastExcept(accountID int64, event Event) {
	h.mu.Lock()
	targets := make([]Sink, 0, len(h.sessions))
	for id, sess := range h.sessions {
		if id == accountID {
			continue
		}
		targets = append(targets, sess.sink)
	}
	h.mu.Unlock()

	for _, sink := range targets {
		sink.TrySend(event)
	}
}
