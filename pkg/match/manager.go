package match

import (
	"time"

	"go.uber.org/zap"

	"github.com/uhyunpark/matchcore/params"
	"github.com/uhyunpark/matchcore/pkg/book"
	"github.com/uhyunpark/matchcore/pkg/util"
)

// OrderManager is the embedding application's entry point. It wires the
// partitioned book, the event dispatcher and the customer index together,
// and logs match results.
type OrderManager struct {
	book   *PartitionedBook
	index  *CustomerIndex
	events *Dispatcher
	log    *zap.Logger
}

func NewOrderManager(cfg params.Config, clock util.Clock, log *zap.Logger) *OrderManager {
	if log == nil {
		log = util.NewNopLogger()
	}
	events := NewDispatcher()
	index := NewCustomerIndex()

	events.SubscribeNewResting(index.Add)
	events.SubscribeMatch(func(r book.MatchResult) {
		index.Remove(r.Buy)
		index.Remove(r.Sell)
	})
	events.SubscribeCancelResult(func(o *book.Order, cancelled bool) {
		if cancelled {
			index.Remove(o)
		}
	})

	m := &OrderManager{
		book:   NewPartitionedBook(cfg.Engine, clock, events, log),
		index:  index,
		events: events,
		log:    log,
	}
	events.SubscribeMatch(m.logMatch)
	return m
}

func (m *OrderManager) Start() { m.book.Start() }

func (m *OrderManager) Stop() { m.book.Stop() }

// Events exposes the dispatcher so the embedding application can subscribe
// its own listeners. Subscribe before submitting requests.
func (m *OrderManager) Events() *Dispatcher { return m.events }

// Buy submits a buy request. ttl <= 0 means the order never expires. The
// call returns once enqueued; the outcome arrives as an event.
func (m *OrderManager) Buy(customerID, bookID, price int64, ttl time.Duration) {
	m.book.Buy(customerID, bookID, price, ttl)
}

// Sell submits a sell request, symmetric to Buy.
func (m *OrderManager) Sell(customerID, bookID, price int64, ttl time.Duration) {
	m.book.Sell(customerID, bookID, price, ttl)
}

// Cancel requests removal of a resting order. The cancel-result event
// reports whether the order was still resting.
func (m *OrderManager) Cancel(o *book.Order) {
	m.book.Cancel(o)
}

// RestingOrdersOf returns a snapshot of the customer's resting orders.
func (m *OrderManager) RestingOrdersOf(customerID int64) []*book.Order {
	return m.index.RestingOrders(customerID)
}

// Inspect runs fn on the worker owning bookID; see PartitionedBook.Inspect.
func (m *OrderManager) Inspect(bookID int64, fn func(*book.Engine)) {
	m.book.Inspect(bookID, fn)
}

func (m *OrderManager) logMatch(r book.MatchResult) {
	m.log.Info("orders matched",
		zap.Int64("book", r.Sell.BookID),
		zap.Int64("buyer", r.Buy.CustomerID),
		zap.Int64("seller", r.Sell.CustomerID),
		zap.Int64("price", r.Sell.Price),
	)
}
