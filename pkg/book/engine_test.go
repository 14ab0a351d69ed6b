package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhyunpark/matchcore/pkg/util"
)

type cancelResult struct {
	order     *Order
	cancelled bool
}

// recordingSink captures every emitted event in order.
type recordingSink struct {
	matches []MatchResult
	resting []*Order
	cancels []cancelResult
}

func (s *recordingSink) OnMatch(r MatchResult) { s.matches = append(s.matches, r) }
func (s *recordingSink) OnNewResting(o *Order) { s.resting = append(s.resting, o) }
func (s *recordingSink) OnCancelResult(o *Order, cancelled bool) {
	s.cancels = append(s.cancels, cancelResult{order: o, cancelled: cancelled})
}

func newTestEngine() (*Engine, *recordingSink, *util.FakeClock) {
	sink := &recordingSink{}
	clock := util.NewFakeClock(t0)
	return NewEngine(clock, sink), sink, clock
}

func TestEngineBuyThenSellMatches(t *testing.T) {
	e, sink, _ := newTestEngine()

	e.SubmitBuy(1, 1, 10, 0)
	e.SubmitSell(2, 1, 10, 0)

	require.Len(t, sink.matches, 1)
	m := sink.matches[0]
	assert.Equal(t, int64(1), m.Buy.CustomerID)
	assert.Equal(t, int64(2), m.Sell.CustomerID)
	assert.Equal(t, int64(10), m.Buy.Price)
	assert.Equal(t, int64(10), m.Sell.Price)
	assert.Len(t, sink.resting, 1, "only the buy rested")
}

func TestEngineSellThenBuyMatches(t *testing.T) {
	e, sink, _ := newTestEngine()

	e.SubmitSell(2, 1, 10, 0)
	e.SubmitBuy(1, 1, 10, 0)

	require.Len(t, sink.matches, 1)
	assert.Equal(t, int64(1), sink.matches[0].Buy.CustomerID)
	assert.Equal(t, int64(2), sink.matches[0].Sell.CustomerID)
}

func TestEngineBuyMatchesLowestSell(t *testing.T) {
	e, sink, _ := newTestEngine()

	prices := []int64{10, 11, 14, 9, 17}
	customers := []int64{5, 3, 4, 2, 6}
	for i := range prices {
		e.SubmitSell(customers[i], 1, prices[i], 0)
	}
	e.SubmitBuy(1, 1, 10, 0)

	require.Len(t, sink.matches, 1)
	m := sink.matches[0]
	assert.Equal(t, int64(2), m.Sell.CustomerID)
	assert.Equal(t, int64(9), m.Sell.Price)
	assert.Equal(t, int64(10), m.Buy.Price, "both sides keep their stated price")
}

func TestEngineSellMatchesHighestBuy(t *testing.T) {
	e, sink, _ := newTestEngine()

	prices := []int64{9, 8, 10, 7, 6}
	customers := []int64{2, 3, 1, 4, 5}
	for i := range prices {
		e.SubmitBuy(customers[i], 1, prices[i], 0)
	}
	e.SubmitSell(10, 1, 9, 0)

	require.Len(t, sink.matches, 1)
	m := sink.matches[0]
	assert.Equal(t, int64(1), m.Buy.CustomerID)
	assert.Equal(t, int64(10), m.Buy.Price)
}

func TestEngineNoMatchWhenNotCrossing(t *testing.T) {
	e, sink, _ := newTestEngine()

	e.SubmitBuy(1, 1, 10, 0)
	e.SubmitSell(2, 1, 100, 0)

	assert.Empty(t, sink.matches)
	assert.Len(t, sink.resting, 2)
}

func TestEngineExpiredOrderSkippedAndPurged(t *testing.T) {
	e, sink, clock := newTestEngine()

	e.SubmitBuy(1, 1, 10, time.Second)
	clock.Advance(2 * time.Second)
	e.SubmitBuy(2, 1, 10, 0)
	e.SubmitSell(10, 1, 9, 0)

	require.Len(t, sink.matches, 1)
	assert.Equal(t, int64(2), sink.matches[0].Buy.CustomerID, "expired buy never matches")

	// The expired order was purged as a side effect of the scan and the
	// matched one removed, so the bid side is empty.
	assert.Empty(t, e.Depth(Buy))
}

func TestEngineCancelledOrderSkipped(t *testing.T) {
	e, sink, _ := newTestEngine()

	first := e.SubmitSell(10, 1, 9, time.Hour)
	e.SubmitSell(11, 1, 9, time.Hour)
	e.Cancel(first)
	e.SubmitBuy(1, 1, 10, 0)

	require.Len(t, sink.cancels, 1)
	assert.True(t, sink.cancels[0].cancelled)
	require.Len(t, sink.matches, 1)
	assert.Equal(t, int64(11), sink.matches[0].Sell.CustomerID)
}

func TestEngineSelfTradePrevented(t *testing.T) {
	e, sink, _ := newTestEngine()

	e.SubmitSell(1, 1, 10, 0)
	e.SubmitBuy(1, 1, 10, 0)

	assert.Empty(t, sink.matches, "same customer never trades with itself")
	assert.Len(t, sink.resting, 2, "both of the customer's orders rest")

	// The passed-over sell is still eligible for a different counterparty.
	e.SubmitBuy(2, 1, 10, 0)
	require.Len(t, sink.matches, 1)
	assert.Equal(t, int64(1), sink.matches[0].Sell.CustomerID)
	assert.Equal(t, int64(2), sink.matches[0].Buy.CustomerID)
}

func TestEngineCancelOutcomes(t *testing.T) {
	e, sink, _ := newTestEngine()

	resting := e.SubmitBuy(1, 1, 10, 0)
	matched := e.SubmitSell(2, 1, 10, 0) // matches immediately, never rests

	e.Cancel(matched)
	e.Cancel(resting) // already matched away
	e.Cancel(nil)

	require.Len(t, sink.cancels, 3)
	assert.False(t, sink.cancels[0].cancelled, "order that matched on entry was never resting")
	assert.False(t, sink.cancels[1].cancelled, "matched order is already retired")
	assert.False(t, sink.cancels[2].cancelled)
}

func TestEngineCancelIsTerminal(t *testing.T) {
	e, sink, _ := newTestEngine()

	o := e.SubmitBuy(1, 1, 10, 0)
	e.Cancel(o)
	e.Cancel(o)

	require.Len(t, sink.cancels, 2)
	assert.True(t, sink.cancels[0].cancelled)
	assert.False(t, sink.cancels[1].cancelled, "an order retires exactly once")

	e.SubmitSell(2, 1, 10, 0)
	assert.Empty(t, sink.matches, "cancelled order cannot match")
}

func TestEngineBestPricesAndDepth(t *testing.T) {
	e, _, _ := newTestEngine()

	_, ok := e.BestBid()
	assert.False(t, ok)

	e.SubmitBuy(1, 1, 9, 0)
	e.SubmitBuy(2, 1, 10, 0)
	e.SubmitSell(3, 1, 12, 0)
	e.SubmitSell(4, 1, 12, 0)

	bid, ok := e.BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(10), bid)

	ask, ok := e.BestAsk()
	require.True(t, ok)
	assert.Equal(t, int64(12), ask)

	assert.Equal(t, []Level{{Price: 10, Count: 1}, {Price: 9, Count: 1}}, e.Depth(Buy))
	assert.Equal(t, []Level{{Price: 12, Count: 2}}, e.Depth(Sell))
}

func TestEngineOrderIdentity(t *testing.T) {
	e, _, _ := newTestEngine()

	a := e.SubmitBuy(1, 1, 10, 0)
	b := e.SubmitBuy(1, 1, 10, 0)

	assert.NotEqual(t, a.ID, b.ID, "ids are unique even for identical fields")
}
