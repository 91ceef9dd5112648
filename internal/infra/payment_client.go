package infra

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/domain"
)

type PaymentClient struct {
	rest restClient
}

func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{rest: newRestClient(baseURL, timeout)}
}

func (c *PaymentClient) list(ctx context.Context, path string) ([]domain.Payment, error) {
	var out []domain.Payment
	if err := c.rest.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PaymentClient) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return c.list(ctx, "/payment")
}

func (c *PaymentClient) ListPaymentsByOrder(ctx context.Context, idOrder int) ([]domain.Payment, error) {
	return c.list(ctx, fmt.Sprintf("/payment/order/%d", idOrder))
}

// GetPayment returns the ledger's collection for one id (usually a single element).
func (c *PaymentClient) GetPayment(ctx context.Context, idPayment int) ([]domain.Payment, error) {
	return c.list(ctx, fmt.Sprintf("/payment/%d", idPayment))
}

func (c *PaymentClient) CreatePayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error) {
	var out domain.Payment
	if err := c.rest.do(ctx, http.MethodPost, "/payment", payment, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *PaymentClient) UpdatePayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error) {
	var out domain.Payment
	if err := c.rest.do(ctx, http.MethodPut, "/payment", payment, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *PaymentClient) DeletePayment(ctx context.Context, idPayment int) error {
	return c.rest.do(ctx, http.MethodDelete, fmt.Sprintf("/payment/%d", idPayment), nil, nil)
}
