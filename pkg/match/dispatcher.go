// Package match runs book.Engine instances behind partitioned workers so
// independent books can be matched in parallel while each book keeps a
// strictly sequential history. It also carries the event plumbing and the
// cross-partition customer order index.
package match

import (
	"sync"

	"github.com/uhyunpark/matchcore/pkg/book"
)

type MatchListener func(book.MatchResult)

type RestingListener func(*book.Order)

type CancelListener func(order *book.Order, cancelled bool)

// Dispatcher fans engine events out to registered listeners. It is a plain
// constructed value, injected wherever events are published or consumed; no
// process-wide registry exists. Listeners run synchronously on the worker
// goroutine that produced the event, so a single listener sees events for
// one book in order. Subscribe before submitting requests.
type Dispatcher struct {
	mu        sync.RWMutex
	onMatch   []MatchListener
	onResting []RestingListener
	onCancel  []CancelListener
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) SubscribeMatch(fn MatchListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onMatch = append(d.onMatch, fn)
}

func (d *Dispatcher) SubscribeNewResting(fn RestingListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onResting = append(d.onResting, fn)
}

func (d *Dispatcher) SubscribeCancelResult(fn CancelListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onCancel = append(d.onCancel, fn)
}

// Dispatcher implements book.EventSink.

func (d *Dispatcher) OnMatch(r book.MatchResult) {
	d.mu.RLock()
	listeners := d.onMatch
	d.mu.RUnlock()
	for _, fn := range listeners {
		fn(r)
	}
}

func (d *Dispatcher) OnNewResting(o *book.Order) {
	d.mu.RLock()
	listeners := d.onResting
	d.mu.RUnlock()
	for _, fn := range listeners {
		fn(o)
	}
}

func (d *Dispatcher) OnCancelResult(o *book.Order, cancelled bool) {
	d.mu.RLock()
	listeners := d.onCancel
	d.mu.RUnlock()
	for _, fn := range listeners {
		fn(o, cancelled)
	}
}
