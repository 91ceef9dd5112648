package mysql

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

// Save creates the header and its lines in one transaction. The total is
// taken from the lines when there are any.
func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	if len(order.OrderDetails) > 0 {
		order.Total = order.LineTotal()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		slog.ErrorContext(ctx, "order save failed", "error", err)
		return err
	}
	if order.IDOrder == 0 {
		return errors.New("failed to assign order ID")
	}
	slog.InfoContext(ctx, "order saved", "id_order", order.IDOrder, "lines", len(order.OrderDetails))
	return nil
}

func (r *orderRepo) SaveDetail(ctx context.Context, detail *domain.OrderDetail) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order domain.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, detail.IDOrder).Error; err != nil {
			return err
		}
		if err := tx.Create(detail).Error; err != nil {
			return err
		}
		return tx.Model(&order).Update("total", order.Total.Add(detail.Subtotal)).Error
	})
	if err != nil {
		slog.ErrorContext(ctx, "order detail save failed", "id_order", detail.IDOrder, "error", err)
		return err
	}
	return nil
}

// Update rewrites the header fields; lines are left alone, so the caller
// passes a total equal to the stored line sum.
func (r *orderRepo) Update(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).Model(&domain.Order{IDOrder: order.IDOrder}).
		Select("id_customer", "date", "total", "customer_name").
		Updates(order).Error
	if err != nil {
		slog.ErrorContext(ctx, "order update failed", "id_order", order.IDOrder, "error", err)
	}
	return err
}

func (r *orderRepo) Delete(ctx context.Context, id int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_order = ?", id).Delete(&domain.OrderDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Order{}, id).Error
	})
	if err != nil {
		slog.ErrorContext(ctx, "order delete failed", "id_order", id, "error", err)
	}
	return err
}

func (r *orderRepo) FindByID(ctx context.Context, id int) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("OrderDetails", func(db *gorm.DB) *gorm.DB { return db.Order("id_order_detail") }).
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.ErrorContext(ctx, "order lookup failed", "id_order", id, "error", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByCustomer(ctx context.Context, idCustomer int) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Preload("OrderDetails", func(db *gorm.DB) *gorm.DB { return db.Order("id_order_detail") }).
		Where("id_customer = ?", idCustomer).
		Order("date DESC").
		Find(&out).Error
	if err != nil {
		slog.ErrorContext(ctx, "customer orders lookup failed", "id_customer", idCustomer, "error", err)
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
