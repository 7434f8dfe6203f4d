package poller

import (
	"fmt"

	"github.com/polyfocus/polyfocus-bot/internal/model"
)

// Subscriber receives the full batch of every tick.
type Subscriber interface {
	HandlePrices(batch map[string]model.PriceQuote) error
}

// SubscriberFunc is a function adapter for Subscriber.
type SubscriberFunc func(map[string]model.PriceQuote) error

func (f SubscriberFunc) HandlePrices(batch map[string]model.PriceQuote) error {
	return f(batch)
}

// SubscriptionID identifies a registered subscriber.
type SubscriptionID uint64

type subscription struct {
	id  SubscriptionID
	sub Subscriber
}

// Subscribe registers s and returns the id to unsubscribe it with.
// Subscribers are notified in registration order.
func (p *Poller) Subscribe(s Subscriber) SubscriptionID {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	p.nextID++
	p.subs = append(p.subs, subscription{id: p.nextID, sub: s})
	return p.nextID
}

// Unsubscribe removes the subscriber with the given id. Unknown ids are ignored.
func (p *Poller) Unsubscribe(id SubscriptionID) {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	for i, s := range p.subs {
		if s.id == id {
			p.subs = append(p.subs[:i:i], p.subs[i+1:]...)
			return
		}
	}
}

// SubscriberCount returns the number of registered subscribers.
func (p *Poller) SubscriberCount() int {
	p.subMu.RLock()
	defer p.subMu.RUnlock()
	return len(p.subs)
}

// notify calls each subscriber in turn with its own copy of batch.
func (p *Poller) notify(batch map[string]model.PriceQuote) {
	p.subMu.RLock()
	subs := make([]subscription, len(p.subs))
	copy(subs, p.subs)
	p.subMu.RUnlock()

	for _, s := range subs {
		if err := p.deliver(s.sub, copyBatch(batch)); err != nil {
			p.metrics.SubscriberFailure()
			p.logger.Warn("subscriber failed",
				"subscription", s.id,
				"error", err,
			)
		}
	}
}

func (p *Poller) deliver(s Subscriber, batch map[string]model.PriceQuote) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()
	return s.HandlePrices(batch)
}

func copyBatch(batch map[string]model.PriceQuote) map[string]model.PriceQuote {
	out := make(map[string]model.PriceQuote, len(batch))
	for k, v := range batch {
		out[k] = v
	}
	return out
}
