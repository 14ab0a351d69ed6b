package book

import "github.com/google/uuid"

type queueNode struct {
	order *Order
	prev  *queueNode
	next  *queueNode
}

// orderQueue is a FIFO of resting orders at one price. A side map from order
// id to node makes removal of an arbitrary known order O(1), which lets the
// match scan excise expired orders without rebuilding the level.
type orderQueue struct {
	head  *queueNode
	tail  *queueNode
	nodes map[uuid.UUID]*queueNode
}

func newOrderQueue() *orderQueue {
	return &orderQueue{nodes: make(map[uuid.UUID]*queueNode)}
}

func (q *orderQueue) Len() int { return len(q.nodes) }

func (q *orderQueue) Empty() bool { return len(q.nodes) == 0 }

// Append inserts at the tail. Appending an order that is already present is
// a no-op.
func (q *orderQueue) Append(o *Order) {
	if _, ok := q.nodes[o.ID]; ok {
		return
	}
	n := &queueNode{order: o}
	if q.head == nil {
		q.head = n
	} else {
		n.prev = q.tail
		q.tail.next = n
	}
	q.tail = n
	q.nodes[o.ID] = n
}

// Remove unlinks the order's node. Returns false if the order is not here.
func (q *orderQueue) Remove(o *Order) bool {
	n, ok := q.nodes[o.ID]
	if !ok {
		return false
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		q.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		q.tail = n.prev
	}
	n.prev, n.next = nil, nil
	delete(q.nodes, o.ID)
	return true
}

// Scan returns a forward cursor from oldest to newest. The cursor advances
// before handing out an order, so removing the current order mid-scan is
// safe; removing any other order during a scan is not.
func (q *orderQueue) Scan() *queueCursor {
	return &queueCursor{next: q.head}
}

type queueCursor struct {
	next *queueNode
}

// Next returns the next order, or nil once the queue is exhausted.
func (c *queueCursor) Next() *Order {
	if c.next == nil {
		return nil
	}
	o := c.next.order
	c.next = c.next.next
	return o
}
