// Package events provides the in-process publish/subscribe bus that every
// state change in the app flows through: input topics from the views, change
// topics from the store, and validity topics consumed by the presenter.
//
// Dispatch is synchronous and reentrant: a handler may publish, and the
// nested fan-out runs to completion before the outer Publish returns. There
// is no cross-topic ordering guarantee beyond that. A panicking handler is
// recovered and logged so the remaining handlers of the same fan-out still
// run.
package events

import (
	"log"
	"regexp"
	"sync"
)

// Handler receives the payload published with a topic. Payloads are plain
// structs owned by the publisher; handlers must not retain or mutate them.
type Handler func(payload any)

// Subscription identifies a registered handler so it can be removed.
// Removing a subscription twice is a no-op.
type Subscription struct {
	topic   string
	pattern *regexp.Regexp
	handler Handler
	id      uint64
}

type patternSub struct {
	re *regexp.Regexp
	h  Handler
	id uint64
}

type exactSub struct {
	h  Handler
	id uint64
}

// Bus fans topics out to exact-name subscribers in registration order, then
// to every pattern subscriber whose expression matches the literal topic,
// in pattern registration order.
type Bus struct {
	mu       sync.Mutex
	exact    map[string][]exactSub
	patterns []patternSub
	nextID   uint64
	logf     func(format string, args ...any)
}

// New returns an empty bus logging through the standard logger.
func New() *Bus {
	return &Bus{
		exact: make(map[string][]exactSub),
		logf:  log.Printf,
	}
}

// SetLogger replaces the bus logger. Tests use this to keep output quiet.
func (b *Bus) SetLogger(logf func(format string, args ...any)) {
	if logf != nil {
		b.logf = logf
	}
}

// Subscribe registers handler for an exact topic name.
func (b *Bus) Subscribe(topic string, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.exact[topic] = append(b.exact[topic], exactSub{h: handler, id: b.nextID})
	return &Subscription{topic: topic, handler: handler, id: b.nextID}
}

// SubscribePattern registers handler for every topic matching re. The
// expression is compiled once by the caller, never per publish.
func (b *Bus) SubscribePattern(re *regexp.Regexp, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.patterns = append(b.patterns, patternSub{re: re, h: handler, id: b.nextID})
	return &Subscription{pattern: re, handler: handler, id: b.nextID}
}

// Unsubscribe removes a subscription. Unknown or already-removed
// subscriptions are ignored.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub.pattern != nil {
		for i, p := range b.patterns {
			if p.id == sub.id {
				b.patterns = append(b.patterns[:i], b.patterns[i+1:]...)
				return
			}
		}
		return
	}
	subs := b.exact[sub.topic]
	for i, s := range subs {
		if s.id == sub.id {
			b.exact[sub.topic] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Publish delivers payload to every handler registered for topic. The
// handler list is snapshotted before dispatch, so handlers may subscribe,
// unsubscribe, or publish without corrupting the fan-out in flight.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.Lock()
	run := make([]Handler, 0, len(b.exact[topic]))
	for _, s := range b.exact[topic] {
		run = append(run, s.h)
	}
	for _, p := range b.patterns {
		if p.re.MatchString(topic) {
			run = append(run, p.h)
		}
	}
	b.mu.Unlock()

	for _, h := range run {
		b.dispatch(topic, h, payload)
	}
}

func (b *Bus) dispatch(topic string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.logf("events: handler for %q panicked: %v", topic, r)
		}
	}()
	h(payload)
}
