package storefront

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

var ErrStaleDraft = errors.New("draft was reset while the request was in flight")

// Snapshot is a consistent copy of the draft together with the counters
// needed to detect later changes. Epoch moves on Reset/RemoveOrder, Revision
// on every mutation.
type Snapshot struct {
	Order    domain.Order
	Epoch    uint64
	Revision uint64
}

// Cart holds the single draft order of one shopping session. All mutations
// run under one lock, so Total always equals the sum of line subtotals for
// any observer.
type Cart struct {
	mu       sync.Mutex
	order    domain.Order
	epoch    uint64
	revision uint64
	now      func() time.Time
}

func NewCart(session Session) *Cart {
	c := &Cart{now: time.Now}
	c.order = domain.Order{
		IDCustomer:   session.IDCustomer,
		CustomerName: session.CustomerName,
		Date:         domain.NewTimestamp(c.now()),
		Total:        decimal.Zero,
		OrderDetails: []domain.OrderDetail{},
	}
	return c
}

// ParseQuantity reads a quantity typed by the shopper. Anything that is not
// a positive integer counts as 1.
func ParseQuantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 1
	}
	return clampQuantity(n)
}

func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// AddOrMerge adds quantity units of product. A line for the same product is
// grown in place; otherwise a new line is appended. Name and price are
// copied from product now and never re-read.
func (c *Cart) AddOrMerge(product domain.Product, quantity int) domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addOrMerge(product, quantity)
	return c.order.Clone()
}

// AddOrMergeIn is AddOrMerge for callers that looked the product up
// asynchronously: it refuses if the draft was reset after epoch was read.
func (c *Cart) AddOrMergeIn(epoch uint64, product domain.Product, quantity int) (domain.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return c.order.Clone(), ErrStaleDraft
	}
	c.addOrMerge(product, quantity)
	return c.order.Clone(), nil
}

func (c *Cart) addOrMerge(product domain.Product, quantity int) {
	quantity = clampQuantity(quantity)
	delta := product.Price.Mul(decimal.NewFromInt(int64(quantity)))

	c.revision++
	for i := range c.order.OrderDetails {
		line := &c.order.OrderDetails[i]
		if line.IDProduct != product.IDProduct {
			continue
		}
		line.Quantity += quantity
		line.Subtotal = line.Subtotal.Add(delta)
		c.order.Total = c.order.Total.Add(delta)
		return
	}

	c.order.OrderDetails = append(c.order.OrderDetails, domain.OrderDetail{
		IDOrderDetail: 0,
		IDOrder:       c.order.IDOrder,
		IDProduct:     product.IDProduct,
		Quantity:      quantity,
		Subtotal:      delta,
		IsPaid:        false,
		ProductName:   product.Name,
		Date:          domain.NewTimestamp(c.now()),
	})
	c.order.Total = c.order.Total.Add(delta)
}

// Reset empties the draft. IDOrder and the customer stay.
func (c *Cart) Reset() domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear()
	return c.order.Clone()
}

// RemoveOrder empties the draft and forgets its ledger id, which it returns
// (0 if the draft was never persisted).
func (c *Cart) RemoveOrder() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.order.IDOrder
	c.clear()
	c.order.IDOrder = 0
	return id
}

func (c *Cart) clear() {
	c.order.OrderDetails = []domain.OrderDetail{}
	c.order.Total = decimal.Zero
	c.epoch++
	c.revision++
}

// Settle records that the lines in submitted were accepted by the ledger
// under idOrder. If the draft is unchanged since s it is emptied; lines
// added meanwhile are kept. Nothing happens if the draft was reset after s.
func (c *Cart) Settle(s Snapshot, idOrder int, submitted []domain.OrderDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.Epoch != c.epoch {
		return
	}

	c.order.IDOrder = idOrder
	if s.Revision == c.revision && len(submitted) == len(s.Order.OrderDetails) {
		c.clear()
		return
	}

	done := make(map[int]domain.OrderDetail, len(submitted))
	for _, d := range submitted {
		done[d.IDProduct] = d
	}
	kept := make([]domain.OrderDetail, 0, len(c.order.OrderDetails))
	for _, line := range c.order.OrderDetails {
		if d, ok := done[line.IDProduct]; ok {
			line.Quantity -= d.Quantity
			line.Subtotal = line.Subtotal.Sub(d.Subtotal)
			if line.Quantity <= 0 {
				continue
			}
		}
		line.IDOrder = idOrder
		kept = append(kept, line)
	}
	c.order.OrderDetails = kept
	c.order.Total = c.order.LineTotal()
	c.revision++
}

// Order returns a copy of the draft.
func (c *Cart) Order() domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Clone()
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Order: c.order.Clone(), Epoch: c.epoch, Revision: c.revision}
}

func (c *Cart) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}
