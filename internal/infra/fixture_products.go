package infra

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

const imageBase = "https://xmqupxdpsqppwxsflhxx.supabase.co/storage/v1/object/public/CoffeQ//"

// FixtureProductClient serves the product catalog from memory. It is used
// when no product ledger is deployed.
type FixtureProductClient struct {
	mu       sync.Mutex
	products []domain.Product
	nextID   int
}

func NewFixtureProductClient() *FixtureProductClient {
	products := []domain.Product{
		{IDProduct: 1, Name: "Café Espresso", Description: "Un espresso fuerte y con sabor intenso.", Price: decimal.NewFromInt(10), Image: imageBase + "espresso.jpg", IsActive: true, Stock: 10},
		{IDProduct: 2, Name: "Café Capuccino", Description: "Un capuccino con espuma fina y cremoso.", Price: decimal.NewFromInt(15), Image: imageBase + "capuccino.jpg", IsActive: true, Stock: 10},
		{IDProduct: 3, Name: "Café Latte", Description: "Un latte suave y delicioso.", Price: decimal.NewFromInt(12), Image: imageBase + "latte.jpg", IsActive: true, Stock: 10},
		{IDProduct: 4, Name: "Mocha", Description: "Un mocha con chocolate y café.", Price: decimal.NewFromInt(18), Image: imageBase + "mocha.jpg", IsActive: false, Stock: 10},
	}
	return &FixtureProductClient{products: products, nextID: len(products) + 1}
}

func (c *FixtureProductClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

func (c *FixtureProductClient) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	product.IDProduct = c.nextID
	c.nextID++
	c.products = append(c.products, product)
	return &product, nil
}

func (c *FixtureProductClient) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.products {
		if c.products[i].IDProduct == product.IDProduct {
			c.products[i] = product
			return &product, nil
		}
	}
	return nil, ErrProductNotFound
}

// DeleteProduct deactivates the product; fixture products are never removed.
func (c *FixtureProductClient) DeleteProduct(ctx context.Context, idProduct int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.products {
		if c.products[i].IDProduct == idProduct {
			c.products[i].IsActive = false
			return nil
		}
	}
	return ErrProductNotFound
}
