package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/infra"
)

var ErrEmptyDraft = errors.New("draft has no lines")

// Summary is what the cart badge shows.
type Summary struct {
	Lines int             `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

func Summarize(order domain.Order) Summary {
	return Summary{Lines: len(order.OrderDetails), Total: order.Total}
}

// ToPersisted maps a draft onto the ledger's order shape for session.
func ToPersisted(draft domain.Order, session Session) domain.Order {
	out := draft.Clone()
	if session.IDCustomer != 0 {
		out.IDCustomer = session.IDCustomer
	}
	if session.CustomerName != "" {
		out.CustomerName = session.CustomerName
	}
	for i := range out.OrderDetails {
		out.OrderDetails[i].IDOrder = out.IDOrder
	}
	return out
}

// MergeView attaches detail lines to an order header for display.
func MergeView(header domain.Order, details []domain.OrderDetail) domain.Order {
	out := header.Clone()
	out.OrderDetails = make([]domain.OrderDetail, len(details))
	copy(out.OrderDetails, details)
	for i := range out.OrderDetails {
		if out.OrderDetails[i].IDOrder == 0 {
			out.OrderDetails[i].IDOrder = header.IDOrder
		}
	}
	if len(details) > 0 {
		out.Total = out.LineTotal()
	}
	return out
}

type Reconciler struct {
	orders   infra.OrderLedger
	notifier Notifier
}

func NewReconciler(orders infra.OrderLedger, notifier Notifier) *Reconciler {
	return &Reconciler{orders: orders, notifier: notifier}
}

// FetchOrderView loads one order with its lines. The error is returned so the
// caller can offer a retry; a notice is emitted as well.
func (r *Reconciler) FetchOrderView(ctx context.Context, idOrder int) (domain.Order, error) {
	order, err := r.orders.GetOrder(ctx, idOrder)
	if err != nil {
		notifyFailure(ctx, r.notifier, "could not load the order", err)
		return domain.Order{}, fmt.Errorf("fetch order %d: %w", idOrder, err)
	}
	return *order, nil
}

// FetchCustomerOrders lists a customer's orders, or nothing if the ledger
// could not be reached.
func (r *Reconciler) FetchCustomerOrders(ctx context.Context, idCustomer int) []domain.Order {
	orders, err := r.orders.GetOrdersByCustomer(ctx, idCustomer)
	if err != nil {
		notifyFailure(ctx, r.notifier, "could not load your orders", err)
		return []domain.Order{}
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders
}

// Submit hands the draft to the ledger. A draft without a ledger id becomes a
// new order carrying all lines; a draft that already has one gets each line
// appended through the detail endpoint and the ledger order is read back.
// Accepted lines leave the draft.
func (r *Reconciler) Submit(ctx context.Context, cart *Cart, session Session) (domain.Order, error) {
	snap := cart.Snapshot()
	if len(snap.Order.OrderDetails) == 0 {
		return domain.Order{}, ErrEmptyDraft
	}
	order := ToPersisted(snap.Order, session)

	if order.IDOrder == 0 {
		created, err := r.orders.CreateOrder(ctx, order)
		if err != nil {
			notifyFailure(ctx, r.notifier, "could not create the order", err)
			return domain.Order{}, fmt.Errorf("create order: %w", err)
		}
		cart.Settle(snap, created.IDOrder, snap.Order.OrderDetails)
		slog.InfoContext(ctx, "order submitted", "id_order", created.IDOrder, "lines", len(order.OrderDetails))
		return *created, nil
	}

	accepted := make([]domain.OrderDetail, 0, len(order.OrderDetails))
	for _, line := range order.OrderDetails {
		one := order
		one.OrderDetails = []domain.OrderDetail{line}
		one.Total = line.Subtotal

		detail, err := r.orders.CreateOrderDetail(ctx, one)
		if err != nil {
			// the first len(accepted) draft lines are already on the ledger
			cart.Settle(snap, order.IDOrder, order.OrderDetails[:len(accepted)])
			notifyFailure(ctx, r.notifier, "could not add all lines to the order", err)
			return domain.Order{}, fmt.Errorf("append line for product %d to order %d: %w", line.IDProduct, order.IDOrder, err)
		}
		accepted = append(accepted, *detail)
	}

	cart.Settle(snap, order.IDOrder, snap.Order.OrderDetails)
	slog.InfoContext(ctx, "order lines appended", "id_order", order.IDOrder, "lines", len(accepted))

	// answer with the whole ledger order, not just the appended lines
	full, err := r.orders.GetOrder(ctx, order.IDOrder)
	if err != nil {
		slog.WarnContext(ctx, "refetch after append failed", "id_order", order.IDOrder, "error", err)
		return MergeView(order, accepted), nil
	}
	return *full, nil
}

// DropDraft discards the cart's draft and deletes the ledger order it was
// saved as, if any. It reports whether a ledger order was deleted.
func (r *Reconciler) DropDraft(ctx context.Context, cart *Cart) bool {
	idOrder := cart.RemoveOrder()
	if idOrder == 0 {
		return false
	}
	if err := r.orders.DeleteOrder(ctx, idOrder); err != nil {
		notifyFailure(ctx, r.notifier, "could not delete the order", err)
		return false
	}
	return true
}
