package storefront

import (
	"context"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/infra"
)

// Catalog is the browse-side view of the product ledger: the last fetched
// product list and lookups over it.
type Catalog struct {
	ledger   infra.ProductLedger
	notifier Notifier

	mu       sync.Mutex
	products []domain.Product
	seq      uint64
}

func NewCatalog(ledger infra.ProductLedger, notifier Notifier) *Catalog {
	return &Catalog{ledger: ledger, notifier: notifier}
}

// Fetch reloads the product list. On failure it notifies and returns an
// empty list, keeping the previous one for lookups. A fetch overtaken by a
// newer one does not overwrite the newer result.
func (c *Catalog) Fetch(ctx context.Context) []domain.Product {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	products, err := c.ledger.ListProducts(ctx)
	if err != nil {
		notifyFailure(ctx, c.notifier, "could not load products", err)
		return []domain.Product{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq == c.seq {
		c.products = products
	}
	return copyProducts(c.products)
}

func (c *Catalog) Products() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyProducts(c.products)
}

// Active returns the products that can be bought.
func (c *Catalog) Active() []domain.Product {
	return FilterProducts(c.Products(), ProductFilter{})
}

// Search returns active products whose name contains name.
func (c *Catalog) Search(name string) []domain.Product {
	return FilterProducts(c.Products(), ProductFilter{Name: name})
}

func (c *Catalog) Lookup(idProduct int) (domain.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.products {
		if p.IDProduct == idProduct {
			return p, true
		}
	}
	return domain.Product{}, false
}

func copyProducts(in []domain.Product) []domain.Product {
	out := make([]domain.Product, len(in))
	copy(out, in)
	return out
}
