// Package book implements price/time priority matching for a set of order
// books. An Engine owns a bid side and an ask side; an incoming order is
// matched against the opposite side and rests on its own side when nothing
// crosses. Expired resting orders are evicted lazily, when a match scan
// happens to visit them.
//
// An Engine has no internal locking. All calls on one Engine must come from
// a single goroutine; the match package provides the partitioned workers
// that enforce this.
package book

import (
	"time"

	"github.com/uhyunpark/matchcore/pkg/util"
)

type Engine struct {
	bids   *sideBook
	asks   *sideBook
	clock  util.Clock
	events EventSink
}

func NewEngine(clock util.Clock, events EventSink) *Engine {
	return &Engine{
		bids:   newSideBook(Buy),
		asks:   newSideBook(Sell),
		clock:  clock,
		events: events,
	}
}

// SubmitBuy admits a buy order. It either matches the best eligible resting
// sell (emitting the match) or rests on the bid side (emitting new-resting).
// ttl <= 0 means the order never expires. The admitted order is returned so
// callers can cancel it later.
func (e *Engine) SubmitBuy(customerID, bookID, price int64, ttl time.Duration) *Order {
	now := e.clock.Now()
	o := newOrder(Buy, customerID, bookID, price, ttl, now)
	if maker := e.asks.matchAgainst(o, now); maker != nil {
		e.asks.remove(maker)
		e.events.OnMatch(MatchResult{Buy: o, Sell: maker})
		return o
	}
	e.bids.insert(o)
	e.events.OnNewResting(o)
	return o
}

// SubmitSell is the mirror of SubmitBuy.
func (e *Engine) SubmitSell(customerID, bookID, price int64, ttl time.Duration) *Order {
	now := e.clock.Now()
	o := newOrder(Sell, customerID, bookID, price, ttl, now)
	if maker := e.bids.matchAgainst(o, now); maker != nil {
		e.bids.remove(maker)
		e.events.OnMatch(MatchResult{Buy: maker, Sell: o})
		return o
	}
	e.asks.insert(o)
	e.events.OnNewResting(o)
	return o
}

// Cancel removes a resting order from its side. An order that already
// matched, was already cancelled, or never rested here yields
// cancelled=false on the emitted event; that is an outcome, not an error.
func (e *Engine) Cancel(o *Order) {
	cancelled := false
	if o != nil {
		if o.Side == Buy {
			cancelled = e.bids.remove(o)
		} else {
			cancelled = e.asks.remove(o)
		}
	}
	e.events.OnCancelResult(o, cancelled)
}

// BestBid returns the highest resting bid price, if any.
func (e *Engine) BestBid() (int64, bool) { return e.bids.best() }

// BestAsk returns the lowest resting ask price, if any.
func (e *Engine) BestAsk() (int64, bool) { return e.asks.best() }

// Depth returns the aggregated levels for one side, best price first.
// Expired orders not yet evicted are still counted.
func (e *Engine) Depth(side Side) []Level {
	if side == Buy {
		return e.bids.depth()
	}
	return e.asks.depth()
}
