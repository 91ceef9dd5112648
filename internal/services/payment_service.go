package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	rabbit "storefront/internal/infra/rabbitmq"
	"storefront/internal/repository"
)

type PaymentService struct {
	repo   repository.PaymentRepository
	orders repository.OrderRepository
	events *eventPublisher
	now    func() time.Time
}

func NewPaymentService(r repository.PaymentRepository, orders repository.OrderRepository, pub rabbit.PublisherInterface) *PaymentService {
	return &PaymentService{
		repo:   r,
		orders: orders,
		events: &eventPublisher{pub: pub},
		now:    time.Now,
	}
}

func (u *PaymentService) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return orEmpty(u.repo.FindAll(ctx))
}

func (u *PaymentService) ListPaymentsByOrder(ctx context.Context, idOrder int) ([]domain.Payment, error) {
	return orEmpty(u.repo.FindByOrder(ctx, idOrder))
}

// GetPayment returns the payment as a one-element list, which is what
// GET /payment/{id} serves.
func (u *PaymentService) GetPayment(ctx context.Context, id int) ([]domain.Payment, error) {
	p, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return []domain.Payment{*p}, nil
}

func (u *PaymentService) CreatePayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error) {
	if err := u.check(ctx, &payment); err != nil {
		return nil, err
	}
	payment.IDPayment = 0
	if payment.Date.IsZero() {
		payment.Date = domain.NewTimestamp(u.now())
	}
	if err := u.repo.Save(ctx, &payment); err != nil {
		return nil, err
	}

	u.events.publish(domain.EventPaymentRecorded, domain.PaymentRecordedEvent{
		IDPayment:  payment.IDPayment,
		IDOrder:    payment.IDOrder,
		Amount:     payment.Amount,
		IsApproved: payment.IsApproved,
		RecordedAt: payment.Date.Time,
	})
	return &payment, nil
}

// UpdatePayment replaces a stored payment. An unknown id is rejected with
// ErrPaymentNotFound and nothing is written.
func (u *PaymentService) UpdatePayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error) {
	existing, err := u.repo.FindByID(ctx, payment.IDPayment)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrPaymentNotFound
	}
	if err := u.check(ctx, &payment); err != nil {
		return nil, err
	}
	if payment.Date.IsZero() {
		payment.Date = existing.Date
	}
	if err := u.repo.Update(ctx, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (u *PaymentService) DeletePayment(ctx context.Context, id int) error {
	existing, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrPaymentNotFound
	}
	return u.repo.Delete(ctx, id)
}

// check applies the ledger's rules. Payments are not reconciled against the
// order total.
func (u *PaymentService) check(ctx context.Context, payment *domain.Payment) error {
	payment.Ref = strings.TrimSpace(payment.Ref)
	if payment.Ref == "" {
		return fmt.Errorf("%w: ref is required", ErrInvalid)
	}
	if payment.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalid)
	}
	order, err := u.orders.FindByID(ctx, payment.IDOrder)
	if err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("%w: %w", ErrInvalid, ErrOrderNotFound)
	}
	if payment.CustomerName == "" {
		payment.CustomerName = order.CustomerName
	}
	return nil
}

func (u *PaymentService) WaitForEvents() {
	u.events.wait()
}

func orEmpty[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		return []T{}, nil
	}
	return items, nil
}
