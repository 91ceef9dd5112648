package infra

import (
	"context"

	"storefront/internal/domain"
)

type OrderLedger interface {
	GetOrder(ctx context.Context, idOrder int) (*domain.Order, error)
	GetOrdersByCustomer(ctx context.Context, idCustomer int) ([]domain.Order, error)
	CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	CreateOrderDetail(ctx context.Context, order domain.Order) (*domain.OrderDetail, error)
	UpdateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	DeleteOrder(ctx context.Context, idOrder int) error
}

type PaymentLedger interface {
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	ListPaymentsByOrder(ctx context.Context, idOrder int) ([]domain.Payment, error)
	GetPayment(ctx context.Context, idPayment int) ([]domain.Payment, error)
	CreatePayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error)
	DeletePayment(ctx context.Context, idPayment int) error
}

type ProductLedger interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, idProduct int) error
}

var (
	_ OrderLedger   = (*OrderClient)(nil)
	_ PaymentLedger = (*PaymentClient)(nil)
	_ ProductLedger = (*ProductClient)(nil)
	_ ProductLedger = (*FixtureProductClient)(nil)
)
