package services

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

type ProductService struct {
	repo repository.ProductRepository
}

func NewProductService(r repository.ProductRepository) *ProductService {
	return &ProductService{repo: r}
}

func (u *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return orEmpty(u.repo.FindAll(ctx))
}

func (u *ProductService) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if err := checkProduct(&product); err != nil {
		return nil, err
	}
	product.IDProduct = 0
	if err := u.repo.Save(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (u *ProductService) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	existing, err := u.repo.FindByID(ctx, product.IDProduct)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrProductNotFound
	}
	if err := checkProduct(&product); err != nil {
		return nil, err
	}
	if err := u.repo.Update(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct deactivates the product. Order lines keep referring to it.
func (u *ProductService) DeleteProduct(ctx context.Context, id int) error {
	existing, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProductNotFound
	}
	return u.repo.Deactivate(ctx, id)
}

func checkProduct(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalid)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalid)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", ErrInvalid)
	}
	return nil
}
