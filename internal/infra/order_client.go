package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrAmbiguousOrder = errors.New("ledger returned several orders for one id")
)

type OrderClient struct {
	rest restClient
}

func NewOrderClient(baseURL string, timeout time.Duration) *OrderClient {
	return &OrderClient{rest: newRestClient(baseURL, timeout)}
}

func (c *OrderClient) GetOrder(ctx context.Context, idOrder int) (*domain.Order, error) {
	data, err := c.rest.raw(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", idOrder), nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return DecodeOrder(data, idOrder)
}

// DecodeOrder normalizes the get-order-by-id payload. Ledger revisions answer
// with either a bare object or an array; both are accepted. An array holding
// several orders is only accepted if one of them carries idOrder.
func DecodeOrder(data []byte, idOrder int) (*domain.Order, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrOrderNotFound
	}

	if trimmed[0] != '[' {
		var o domain.Order
		if err := json.Unmarshal(trimmed, &o); err != nil {
			return nil, fmt.Errorf("decode order %d: %w", idOrder, err)
		}
		return &o, nil
	}

	var list []domain.Order
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Errorf("decode order %d: %w", idOrder, err)
	}
	switch len(list) {
	case 0:
		return nil, ErrOrderNotFound
	case 1:
		return &list[0], nil
	}
	for i := range list {
		if list[i].IDOrder == idOrder {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d results for order %d", ErrAmbiguousOrder, len(list), idOrder)
}

func (c *OrderClient) GetOrdersByCustomer(ctx context.Context, idCustomer int) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.rest.do(ctx, http.MethodGet, fmt.Sprintf("/orders/customer/%d", idCustomer), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *OrderClient) CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	var out domain.Order
	if err := c.rest.do(ctx, http.MethodPost, "/orders", order, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrderDetail posts an order that embeds the line to persist.
func (c *OrderClient) CreateOrderDetail(ctx context.Context, order domain.Order) (*domain.OrderDetail, error) {
	var out domain.OrderDetail
	if err := c.rest.do(ctx, http.MethodPost, "/orders/detail", order, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *OrderClient) UpdateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	var out domain.Order
	if err := c.rest.do(ctx, http.MethodPut, "/orders", order, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *OrderClient) DeleteOrder(ctx context.Context, idOrder int) error {
	return c.rest.do(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d", idOrder), nil, nil)
}
