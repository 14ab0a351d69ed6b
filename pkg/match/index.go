package match

import (
	"sync"

	"github.com/google/uuid"

	"github.com/uhyunpark/matchcore/pkg/book"
)

// CustomerIndex maps a customer to their currently resting orders, across
// every partition. Workers on different partitions mutate entries for the
// same customer concurrently, so all access goes through one lock.
//
// An order enters on its new-resting event and leaves on a match or a
// successful cancel. Lazy expiry eviction emits no event, so an expired
// order can stay listed until something retires it.
type CustomerIndex struct {
	mu     sync.RWMutex
	orders map[int64]map[uuid.UUID]*book.Order
}

func NewCustomerIndex() *CustomerIndex {
	return &CustomerIndex{orders: make(map[int64]map[uuid.UUID]*book.Order)}
}

func (ix *CustomerIndex) Add(o *book.Order) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	set, ok := ix.orders[o.CustomerID]
	if !ok {
		set = make(map[uuid.UUID]*book.Order)
		ix.orders[o.CustomerID] = set
	}
	set[o.ID] = o
}

func (ix *CustomerIndex) Remove(o *book.Order) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if set, ok := ix.orders[o.CustomerID]; ok {
		delete(set, o.ID)
		if len(set) == 0 {
			delete(ix.orders, o.CustomerID)
		}
	}
}

// RestingOrders returns a snapshot of the customer's resting orders. The
// returned slice is the caller's; later index activity never mutates it.
func (ix *CustomerIndex) RestingOrders(customerID int64) []*book.Order {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	set := ix.orders[customerID]
	out := make([]*book.Order, 0, len(set))
	for _, o := range set {
		out = append(out, o)
	}
	return out
}
