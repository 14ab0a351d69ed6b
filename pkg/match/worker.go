package match

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/uhyunpark/matchcore/pkg/book"
)

type requestKind uint8

const (
	reqBuy requestKind = iota
	reqSell
	reqCancel
	reqInspect
)

type request struct {
	kind       requestKind
	customerID int64
	bookID     int64
	price      int64
	ttl        time.Duration
	order      *book.Order        // cancel target
	inspect    func(*book.Engine) // inspect callback
	done       chan struct{}      // closed once an inspect ran
}

// worker owns one Engine and drains one request queue on a dedicated
// goroutine. The queue is the only way in, so the engine never sees two
// concurrent calls. A request that panics is logged and dropped; the queue
// keeps draining.
type worker struct {
	id     int
	engine *book.Engine
	queue  chan request
	log    *zap.Logger
	wg     sync.WaitGroup
}

func newWorker(id int, engine *book.Engine, capacity int, log *zap.Logger) *worker {
	return &worker{
		id:     id,
		engine: engine,
		queue:  make(chan request, capacity),
		log:    log,
	}
}

func (w *worker) start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for req := range w.queue {
			w.apply(req)
		}
	}()
}

// stop closes the queue and waits for queued requests to finish. Submitting
// after stop is a programming error and panics.
func (w *worker) stop() {
	close(w.queue)
	w.wg.Wait()
}

func (w *worker) submit(req request) {
	w.queue <- req
}

func (w *worker) apply(req request) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("request failed",
				zap.Int("partition", w.id),
				zap.Int64("book", req.bookID),
				zap.Any("panic", r),
			)
		}
	}()

	switch req.kind {
	case reqBuy:
		w.engine.SubmitBuy(req.customerID, req.bookID, req.price, req.ttl)
	case reqSell:
		w.engine.SubmitSell(req.customerID, req.bookID, req.price, req.ttl)
	case reqCancel:
		w.engine.Cancel(req.order)
	case reqInspect:
		defer close(req.done)
		req.inspect(w.engine)
	}
}
