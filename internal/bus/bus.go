package bus

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SubscriberID identifies the owner of a set of handlers. One subscriber may
// hold one handler per Tag.
type SubscriberID string

// NewSubscriberID mints a fresh subscriber identity.
func NewSubscriberID() SubscriberID { return SubscriberID(uuid.NewString()) }

// Handler receives a published event.
type Handler func(Event)

// Handlers maps each handled Tag to its handler.
type Handlers map[Tag]Handler

type subKey struct {
	id  SubscriberID
	tag Tag
}

type subscription struct {
	subKey
	handler Handler
}

// Bus is an in-process typed publish/subscribe dispatcher. The zero value is
// not usable; construct with New.
type Bus struct {
	mu          sync.Mutex
	subs        []*subscription // registration order
	index       map[subKey]*subscription
	queue       []Event
	dispatching bool
	closed      bool
	log         zerolog.Logger
}

// New constructs an empty Bus.
func New(log zerolog.Logger) *Bus {
	return &Bus{
		index: make(map[subKey]*subscription),
		log:   log.With().Str("component", "bus").Logger(),
	}
}

// Register installs handlers for id. Registering the same (id, tag) pair again
// replaces the handler but keeps its original delivery position, so repeated
// registration never causes duplicate delivery. Nil handlers are ignored.
func (b *Bus) Register(id SubscriberID, handlers Handlers) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for tag, h := range handlers {
		if h == nil {
			continue
		}
		k := subKey{id: id, tag: tag}
		if s, ok := b.index[k]; ok {
			s.handler = h
			continue
		}
		s := &subscription{subKey: k, handler: h}
		b.subs = append(b.subs, s)
		b.index[k] = s
		subscriptions.Inc()
	}
}

// Unregister removes every handler owned by id. Unknown ids are a no-op.
func (b *Bus) Unregister(id SubscriberID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.subs[:0]
	for _, s := range b.subs {
		if s.id == id {
			delete(b.index, s.subKey)
			subscriptions.Dec()
			continue
		}
		kept = append(kept, s)
	}
	// clear the tail so removed subscriptions can be collected
	for i := len(kept); i < len(b.subs); i++ {
		b.subs[i] = nil
	}
	b.subs = kept
}

// Registered reports whether id currently holds a handler for tag.
func (b *Bus) Registered(id SubscriberID, tag Tag) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.index[subKey{id: id, tag: tag}]
	return ok
}

// Len returns the number of live (subscriber, tag) registrations.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish delivers e to every handler registered for e.Tag(), in
// registration order. The recipient set is captured when delivery of e
// starts. If Publish is called while another delivery is in progress (from a
// handler, or from another goroutine), e is queued and delivered by the
// goroutine that is already dispatching, after the current event finishes.
func (b *Bus) Publish(e Event) {
	if e == nil {
		return
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	eventsPublished.WithLabelValues(string(e.Tag())).Inc()
	b.queue = append(b.queue, e)
	if b.dispatching {
		b.mu.Unlock()
		return
	}
	b.dispatching = true
	for len(b.queue) > 0 && !b.closed {
		ev := b.queue[0]
		b.queue[0] = nil
		b.queue = b.queue[1:]
		recipients := b.recipientsLocked(ev.Tag())
		b.mu.Unlock()
		b.deliver(ev, recipients)
		b.mu.Lock()
	}
	b.queue = nil
	b.dispatching = false
	b.mu.Unlock()
}

func (b *Bus) recipientsLocked(tag Tag) []*subscription {
	var out []*subscription
	for _, s := range b.subs {
		if s.tag == tag {
			out = append(out, &subscription{subKey: s.subKey, handler: s.handler})
		}
	}
	return out
}

func (b *Bus) deliver(e Event, recipients []*subscription) {
	tag := string(e.Tag())
	if len(recipients) == 0 {
		b.log.Debug().Str("tag", tag).Msg("no subscribers")
		return
	}
	for _, s := range recipients {
		deliveries.WithLabelValues(tag).Inc()
		b.invoke(s, e)
	}
}

func (b *Bus) invoke(s *subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			handlerPanics.WithLabelValues(string(e.Tag())).Inc()
			b.log.Error().
				Str("tag", string(e.Tag())).
				Str("subscriber", string(s.id)).
				Str("panic", fmt.Sprint(r)).
				Msg("handler panicked")
		}
	}()
	s.handler(e)
}

// Close drops every subscription and pending event. Afterwards Register and
// Publish are silent no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	subscriptions.Sub(float64(len(b.subs)))
	b.subs = nil
	b.index = map[subKey]*subscription{}
	b.queue = nil
}
