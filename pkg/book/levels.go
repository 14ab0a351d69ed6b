package book

import (
	"time"

	"github.com/google/btree"
)

type priceLevel struct {
	price  int64
	orders *orderQueue
}

func (l *priceLevel) Less(than btree.Item) bool {
	return l.price < than.(*priceLevel).price
}

// sideBook holds one side's resting orders, keyed by price. The btree keeps
// levels ordered so the match scan can walk them in price priority; each
// level keeps strict arrival order.
type sideBook struct {
	side   Side
	levels *btree.BTree
}

func newSideBook(side Side) *sideBook {
	return &sideBook{side: side, levels: btree.New(16)}
}

func (b *sideBook) insert(o *Order) {
	var lvl *priceLevel
	if item := b.levels.Get(&priceLevel{price: o.Price}); item != nil {
		lvl = item.(*priceLevel)
	} else {
		lvl = &priceLevel{price: o.Price, orders: newOrderQueue()}
		b.levels.ReplaceOrInsert(lvl)
	}
	lvl.orders.Append(o)
}

// remove takes the order out of its price level. False means the order is
// already gone (matched, cancelled, or evicted), which is a normal outcome.
func (b *sideBook) remove(o *Order) bool {
	item := b.levels.Get(&priceLevel{price: o.Price})
	if item == nil {
		return false
	}
	lvl := item.(*priceLevel)
	ok := lvl.orders.Remove(o)
	if ok && lvl.orders.Empty() {
		b.levels.Delete(lvl)
	}
	return ok
}

// matchAgainst finds the resting order the incoming order should trade with:
// best price first, oldest first within a price. Expired orders encountered
// on the way are evicted. Orders from the incoming order's own customer are
// skipped and stay resting. The matched order is NOT removed here; the
// caller removes it once the match is final.
func (b *sideBook) matchAgainst(incoming *Order, now time.Time) *Order {
	var matched *Order
	var drained []*priceLevel

	visit := func(item btree.Item) bool {
		lvl := item.(*priceLevel)
		if !b.crosses(lvl.price, incoming.Price) {
			return false
		}
		cur := lvl.orders.Scan()
		for o := cur.Next(); o != nil; o = cur.Next() {
			if o.expired(now) {
				lvl.orders.Remove(o)
				continue
			}
			if o.CustomerID == incoming.CustomerID {
				continue
			}
			matched = o
			break
		}
		if lvl.orders.Empty() {
			drained = append(drained, lvl)
		}
		return matched == nil
	}

	if b.side == Buy {
		b.levels.Descend(visit)
	} else {
		b.levels.Ascend(visit)
	}

	// The btree must not be mutated mid-iteration, so levels fully emptied
	// by expiry eviction are deleted afterwards.
	for _, lvl := range drained {
		b.levels.Delete(lvl)
	}
	return matched
}

// crosses reports whether a level at levelPrice can trade against an
// incoming order priced at incomingPrice.
func (b *sideBook) crosses(levelPrice, incomingPrice int64) bool {
	if b.side == Buy {
		return levelPrice >= incomingPrice
	}
	return levelPrice <= incomingPrice
}

// best returns this side's best price: highest for bids, lowest for asks.
func (b *sideBook) best() (int64, bool) {
	var item btree.Item
	if b.side == Buy {
		item = b.levels.Max()
	} else {
		item = b.levels.Min()
	}
	if item == nil {
		return 0, false
	}
	return item.(*priceLevel).price, true
}

// depth returns aggregated levels, best price first.
func (b *sideBook) depth() []Level {
	var out []Level
	visit := func(item btree.Item) bool {
		lvl := item.(*priceLevel)
		out = append(out, Level{Price: lvl.price, Count: lvl.orders.Len()})
		return true
	}
	if b.side == Buy {
		b.levels.Descend(visit)
	} else {
		b.levels.Ascend(visit)
	}
	return out
}
