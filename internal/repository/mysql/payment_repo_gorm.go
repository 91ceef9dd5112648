package mysql

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

type paymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) repository.PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Save(ctx context.Context, payment *domain.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		slog.ErrorContext(ctx, "payment save failed", "id_order", payment.IDOrder, "error", err)
		return err
	}
	if payment.IDPayment == 0 {
		return errors.New("failed to assign payment ID")
	}
	return nil
}

func (r *paymentRepo) Update(ctx context.Context, payment *domain.Payment) error {
	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		slog.ErrorContext(ctx, "payment update failed", "id_payment", payment.IDPayment, "error", err)
		return err
	}
	return nil
}

func (r *paymentRepo) Delete(ctx context.Context, id int) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Payment{}, id).Error; err != nil {
		slog.ErrorContext(ctx, "payment delete failed", "id_payment", id, "error", err)
		return err
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, id int) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.ErrorContext(ctx, "payment lookup failed", "id_payment", id, "error", err)
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) FindAll(ctx context.Context) ([]domain.Payment, error) {
	return r.find(ctx, r.db.WithContext(ctx))
}

func (r *paymentRepo) FindByOrder(ctx context.Context, idOrder int) ([]domain.Payment, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("id_order = ?", idOrder))
}

func (r *paymentRepo) find(ctx context.Context, q *gorm.DB) ([]domain.Payment, error) {
	var out []domain.Payment
	if err := q.Order("date DESC").Find(&out).Error; err != nil {
		slog.ErrorContext(ctx, "payment listing failed", "error", err)
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
