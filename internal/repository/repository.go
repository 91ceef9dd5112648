package repository

import (
	"context"

	"storefront/internal/domain"
)

// Find* methods return (nil, nil) when nothing matches.

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	// SaveDetail appends a line to an existing order and adds its subtotal
	// to the order total.
	SaveDetail(ctx context.Context, detail *domain.OrderDetail) error
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*domain.Order, error)
	FindByCustomer(ctx context.Context, idCustomer int) ([]domain.Order, error)
}

type PaymentRepository interface {
	Save(ctx context.Context, payment *domain.Payment) error
	Update(ctx context.Context, payment *domain.Payment) error
	Delete(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*domain.Payment, error)
	FindAll(ctx context.Context) ([]domain.Payment, error)
	FindByOrder(ctx context.Context, idOrder int) ([]domain.Payment, error)
}

type ProductRepository interface {
	Save(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	// Deactivate marks a product inactive; products are never removed.
	Deactivate(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
}
