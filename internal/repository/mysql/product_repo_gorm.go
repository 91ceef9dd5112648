package mysql

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Save(ctx context.Context, product *domain.Product) error {
	// Select("*") so that IsActive=false and Stock=0 are written as given.
	if err := r.db.WithContext(ctx).Select("*").Omit("id_product").Create(product).Error; err != nil {
		slog.ErrorContext(ctx, "product save failed", "name", product.Name, "error", err)
		return err
	}
	if product.IDProduct == 0 {
		return errors.New("failed to assign product ID")
	}
	return nil
}

func (r *productRepo) Update(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		slog.ErrorContext(ctx, "product update failed", "id_product", product.IDProduct, "error", err)
		return err
	}
	return nil
}

func (r *productRepo) Deactivate(ctx context.Context, id int) error {
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id_product = ?", id).
		Update("is_active", false).Error
	if err != nil {
		slog.ErrorContext(ctx, "product deactivate failed", "id_product", id, "error", err)
	}
	return err
}

func (r *productRepo) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.ErrorContext(ctx, "product lookup failed", "id_product", id, "error", err)
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := r.db.WithContext(ctx).Order("id_product").Find(&out).Error; err != nil {
		slog.ErrorContext(ctx, "product listing failed", "error", err)
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
