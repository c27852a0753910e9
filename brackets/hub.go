package brackets

import (
	"context"
	"log/slog"
	"sync"
)

type EventType string

const (
	EventBracketCreated   EventType = "BRACKET_CREATED"
	EventBracketStarted   EventType = "BRACKET_STARTED"
	EventMatchUpdated     EventType = "MATCH_UPDATED"
	EventBracketFinalized EventType = "BRACKET_FINALIZED"
	EventBracketDeleted   EventType = "BRACKET_DELETED"
)

type Event struct {
	Type    EventType `json:"type"`              // например, "MATCH_UPDATED"
	Payload any       `json:"payload"`           // полезная нагрузка
	RoomID  string    `json:"room_id,omitempty"` // ID сетки, к которой относится событие
}

// Subscription receives the events published to one room.
type Subscription struct {
	Room string

	hub      *Hub
	events   chan Event
	isClosed bool
	mu       sync.Mutex
}

// Events is closed when the subscription is removed or the hub stops.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isClosed {
		close(s.events)
		s.isClosed = true
	}
}

// deliver never blocks: a full subscriber misses the event.
func (s *Subscription) deliver(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed {
		return true
	}
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

type registration struct {
	sub  *Subscription
	done chan struct{}
}

// Hub fans bracket events out to in-process subscribers grouped in rooms,
// one room per bracket ID. Run must be running for Subscribe and
// Unsubscribe to return.
type Hub struct {
	register   chan registration
	unregister chan registration
	rooms      map[string]map[*Subscription]bool
	buffer     int
	logger     *slog.Logger
	mu         sync.RWMutex
}

func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register:   make(chan registration),
		unregister: make(chan registration),
		rooms:      make(map[string]map[*Subscription]bool),
		buffer:     buffer,
		logger:     logger,
	}
}

// Run owns room membership until ctx is done, then closes every subscription.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case reg := <-h.register:
			h.mu.Lock()
			room := reg.sub.Room
			if _, ok := h.rooms[room]; !ok {
				h.rooms[room] = make(map[*Subscription]bool)
			}
			h.rooms[room][reg.sub] = true
			h.logger.Debug("subscriber registered", slog.String("room", room), slog.Int("subscribers", len(h.rooms[room])))
			h.mu.Unlock()
			close(reg.done)

		case reg := <-h.unregister:
			h.mu.Lock()
			room := reg.sub.Room
			if subs, ok := h.rooms[room]; ok && subs[reg.sub] {
				reg.sub.close()
				delete(subs, reg.sub)
				if len(subs) == 0 {
					delete(h.rooms, room)
					h.logger.Debug("room closed as it's empty", slog.String("room", room))
				}
			}
			h.mu.Unlock()
			close(reg.done)

		case <-ctx.Done():
			h.mu.Lock()
			for room, subs := range h.rooms {
				for sub := range subs {
					sub.close()
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			h.logger.Debug("hub stopped")
			return
		}
	}
}

func (h *Hub) Subscribe(ctx context.Context, room string) (*Subscription, error) {
	sub := &Subscription{Room: room, hub: h, events: make(chan Event, h.buffer)}
	reg := registration{sub: sub, done: make(chan struct{})}
	select {
	case h.register <- reg:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	<-reg.done
	return sub, nil
}

func (h *Hub) Unsubscribe(ctx context.Context, sub *Subscription) error {
	reg := registration{sub: sub, done: make(chan struct{})}
	select {
	case h.unregister <- reg:
	case <-ctx.Done():
		return ctx.Err()
	}
	<-reg.done
	return nil
}

// Publish sends ev to every subscriber of room without waiting on any of them.
func (h *Hub) Publish(room string, ev Event) {
	ev.RoomID = room

	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.rooms[room]
	if !ok {
		return
	}
	for sub := range subs {
		if !sub.deliver(ev) {
			h.logger.Warn("subscriber channel full, event dropped",
				slog.String("room", room), slog.String("event", string(ev.Type)))
		}
	}
}

// Close removes the subscription from its hub.
func (s *Subscription) Close(ctx context.Context) error {
	return s.hub.Unsubscribe(ctx, s)
}
