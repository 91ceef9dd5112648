package storefront

import (
	"context"
	"errors"
	"sync"

	"storefront/internal/domain"
)

var ErrInvalidTransition = errors.New("invalid view transition")

type LoadState int

const (
	StateLoading LoadState = iota
	StateLoaded
	StateError
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	}
	return "unknown"
}

// OrderHistory drives the order detail view:
//
//	Loading -> Loaded | Error
//	Error   -> Loading (Retry)
//	Loaded  -> Loading (Refresh)
//
// Only the most recently started load may settle the view.
type OrderHistory struct {
	reconciler *Reconciler
	idOrder    int

	mu    sync.Mutex
	state LoadState
	order domain.Order
	err   error
	seq   uint64
}

func NewOrderHistory(r *Reconciler, idOrder int) *OrderHistory {
	return &OrderHistory{reconciler: r, idOrder: idOrder, state: StateLoading}
}

// Load performs the initial fetch. It is only valid while Loading.
func (h *OrderHistory) Load(ctx context.Context) error {
	return h.begin(ctx, StateLoading)
}

func (h *OrderHistory) Retry(ctx context.Context) error {
	return h.begin(ctx, StateError)
}

func (h *OrderHistory) Refresh(ctx context.Context) error {
	return h.begin(ctx, StateLoaded)
}

func (h *OrderHistory) begin(ctx context.Context, from LoadState) error {
	h.mu.Lock()
	if h.state != from {
		h.mu.Unlock()
		return ErrInvalidTransition
	}
	h.state = StateLoading
	h.err = nil
	h.seq++
	seq := h.seq
	h.mu.Unlock()

	order, err := h.reconciler.FetchOrderView(ctx, h.idOrder)

	h.mu.Lock()
	defer h.mu.Unlock()
	if seq != h.seq {
		return err
	}
	if err != nil {
		h.state = StateError
		h.err = err
		return err
	}
	h.state = StateLoaded
	h.order = order
	return nil
}

// State returns the current state, the loaded order (Loaded) and the load
// error (Error).
func (h *OrderHistory) State() (LoadState, domain.Order, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state, h.order.Clone(), h.err
}
