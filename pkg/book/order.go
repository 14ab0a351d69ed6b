package book

import (
	"time"

	"github.com/google/uuid"
)

type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Order is one side of a trading intent. Identity is the ID alone; two
// orders never compare equal by field values. Fields are never mutated once
// the order has been admitted.
type Order struct {
	ID         uuid.UUID
	CustomerID int64
	BookID     int64
	Side       Side
	Price      int64     // integer ticks
	ExpiresAt  time.Time // zero means good until cancelled
}

func newOrder(side Side, customerID, bookID, price int64, ttl time.Duration, now time.Time) *Order {
	o := &Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		BookID:     bookID,
		Side:       side,
		Price:      price,
	}
	if ttl > 0 {
		o.ExpiresAt = now.Add(ttl)
	}
	return o
}

func (o *Order) expired(now time.Time) bool {
	return !o.ExpiresAt.IsZero() && !o.ExpiresAt.After(now)
}

// MatchResult pairs exactly one buy order with one sell order. Each order
// keeps its own stated price; no normalized trade price is computed.
type MatchResult struct {
	Buy  *Order
	Sell *Order
}

// Level is an aggregated view of one price level, best price first in the
// slices returned by Engine.Depth.
type Level struct {
	Price int64
	Count int
}

// EventSink receives the engine's domain events. Calls are made synchronously
// from the goroutine driving the engine, once per outcome.
type EventSink interface {
	OnMatch(MatchResult)
	OnNewResting(*Order)
	OnCancelResult(order *Order, cancelled bool)
}
