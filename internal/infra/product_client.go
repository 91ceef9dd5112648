package infra

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/domain"
)

type ProductClient struct {
	rest restClient
}

func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	return &ProductClient{rest: newRestClient(baseURL, timeout)}
}

func (c *ProductClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.rest.do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProductClient) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	var out domain.Product
	if err := c.rest.do(ctx, http.MethodPost, "/products", product, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ProductClient) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	var out domain.Product
	if err := c.rest.do(ctx, http.MethodPut, "/products", product, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ProductClient) DeleteProduct(ctx context.Context, idProduct int) error {
	return c.rest.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", idProduct), nil, nil)
}
