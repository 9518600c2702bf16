// Package events carries the ledger's fire-and-forget notifications to
// in-process observers.
package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/splitbase/splitbase/internal/models"
)

// Kind identifies a notification type.
type Kind string

const (
	PersonRegistered Kind = "person.registered"
	PersonRenamed    Kind = "person.renamed"
	ExpenseAdded     Kind = "expense.added"
	DebtSettled      Kind = "debt.settled"
)

// Event is one emitted notification. Only the fields relevant to the kind are
// set: Identity/Name for registrations and renames, ExpenseID/Label for
// expenses, From/To/Amount for settlements.
type Event struct {
	ID   string
	Kind Kind
	At   time.Time

	Identity models.Identity
	Name     string

	ExpenseID int64
	Label     string

	From   models.Identity
	To     models.Identity
	Amount uint64
}

// Subscriber consumes events. Handle runs on the subscriber's own goroutine,
// so a slow subscriber delays only itself.
type Subscriber interface {
	Handle(Event)
}

// Bus fans events out to subscribers. Publish never blocks: each subscriber
// gets a buffered channel, and events to a full channel are dropped with a
// warning rather than stalling the mutation that emitted them.
type Bus struct {
	mu   sync.Mutex
	subs []*subscription
	wg   sync.WaitGroup
}

type subscription struct {
	name string
	ch   chan Event
}

const subscriberBuffer = 64

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a subscriber under a name used in overflow warnings.
func (b *Bus) Subscribe(name string, s Subscriber) {
	sub := &subscription{name: name, ch: make(chan Event, subscriberBuffer)}
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for ev := range sub.ch {
			s.Handle(ev)
		}
	}()
}

// Publish stamps the event with an ID and timestamp and fans it out.
func (b *Bus) Publish(ev Event) {
	ev.ID = uuid.New().String()
	ev.At = time.Now()

	b.mu.Lock()
	subs := b.subs
	b.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub.ch <- ev:
		default:
			slog.Warn("event dropped, subscriber buffer full",
				"subscriber", sub.name, "kind", ev.Kind)
		}
	}
}

// Close stops delivery and waits for in-flight handlers to finish.
func (b *Bus) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		close(sub.ch)
	}
	b.wg.Wait()
}
