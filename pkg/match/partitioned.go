package match

import (
	"time"

	"go.uber.org/zap"

	"github.com/uhyunpark/matchcore/params"
	"github.com/uhyunpark/matchcore/pkg/book"
	"github.com/uhyunpark/matchcore/pkg/util"
)

// PartitionedBook spreads books over a fixed set of workers. A book id maps
// to partition bookID mod partitions for the process lifetime, so all
// requests for one book land on one worker and apply in enqueue order.
// Requests for books on different partitions interleave arbitrarily.
//
// Buy, Sell and Cancel are asynchronous: they return once the request is
// enqueued and the outcome is observable only through the event sink.
type PartitionedBook struct {
	workers []*worker
}

func NewPartitionedBook(cfg params.Engine, clock util.Clock, events book.EventSink, log *zap.Logger) *PartitionedBook {
	n := cfg.Partitions
	if n <= 0 {
		n = 1
	}
	capacity := cfg.QueueCapacity
	if capacity <= 0 {
		capacity = params.Default().Engine.QueueCapacity
	}
	workers := make([]*worker, n)
	for i := range workers {
		workers[i] = newWorker(i, book.NewEngine(clock, events), capacity, log)
	}
	return &PartitionedBook{workers: workers}
}

func (p *PartitionedBook) Start() {
	for _, w := range p.workers {
		w.start()
	}
}

// Stop drains every partition queue and joins the worker goroutines.
// Submitting after Stop panics.
func (p *PartitionedBook) Stop() {
	for _, w := range p.workers {
		w.stop()
	}
}

func (p *PartitionedBook) Partitions() int { return len(p.workers) }

func (p *PartitionedBook) Buy(customerID, bookID, price int64, ttl time.Duration) {
	p.partitionFor(bookID).submit(request{
		kind:       reqBuy,
		customerID: customerID,
		bookID:     bookID,
		price:      price,
		ttl:        ttl,
	})
}

func (p *PartitionedBook) Sell(customerID, bookID, price int64, ttl time.Duration) {
	p.partitionFor(bookID).submit(request{
		kind:       reqSell,
		customerID: customerID,
		bookID:     bookID,
		price:      price,
		ttl:        ttl,
	})
}

func (p *PartitionedBook) Cancel(o *book.Order) {
	if o == nil {
		return
	}
	p.partitionFor(o.BookID).submit(request{
		kind:   reqCancel,
		bookID: o.BookID,
		order:  o,
	})
}

// Inspect runs fn on the worker that owns bookID, after every request
// enqueued before it. It blocks until fn ran, which also makes it a
// convenient barrier in tests.
func (p *PartitionedBook) Inspect(bookID int64, fn func(*book.Engine)) {
	done := make(chan struct{})
	p.partitionFor(bookID).submit(request{
		kind:    reqInspect,
		bookID:  bookID,
		inspect: fn,
		done:    done,
	})
	<-done
}

func (p *PartitionedBook) partitionFor(bookID int64) *worker {
	n := int64(len(p.workers))
	i := bookID % n
	if i < 0 {
		i += n
	}
	return p.workers[i]
}
