package storefront

import (
	"context"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/infra"
)

// Products is the product ledger accessor behind the product admin screen.
type Products struct {
	ledger   infra.ProductLedger
	notifier Notifier

	mu       sync.Mutex
	products []domain.Product
	guard    listGuard
}

func NewProducts(ledger infra.ProductLedger, notifier Notifier) *Products {
	return &Products{ledger: ledger, notifier: notifier}
}

func (p *Products) List(ctx context.Context) []domain.Product {
	p.mu.Lock()
	ticket := p.guard.begin()
	p.mu.Unlock()

	products, err := p.ledger.ListProducts(ctx)
	if err != nil {
		notifyFailure(ctx, p.notifier, "could not load products", err)
		return []domain.Product{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.guard.current(ticket) {
		p.products = products
	}
	return copyProducts(p.products)
}

func (p *Products) Local() []domain.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyProducts(p.products)
}

func (p *Products) Filter(f ProductFilter) []domain.Product {
	return FilterProducts(p.Local(), f)
}

func (p *Products) Create(ctx context.Context, form ProductForm) Mutation[domain.Product] {
	product, fe := form.product(false)
	if fe != nil {
		return invalid[domain.Product](fe)
	}
	product.IDProduct = 0

	created, err := p.ledger.CreateProduct(ctx, product)
	if err != nil {
		notifyFailure(ctx, p.notifier, "could not add the product", err)
		return failed[domain.Product](err)
	}
	p.apply(func() { p.products = append(p.products, *created) })
	return settled(*created)
}

func (p *Products) Update(ctx context.Context, form ProductForm) Mutation[domain.Product] {
	product, fe := form.product(true)
	if fe != nil {
		return invalid[domain.Product](fe)
	}
	return p.save(ctx, product, "could not edit the product")
}

// ToggleActive flips IsActive and saves the product.
func (p *Products) ToggleActive(ctx context.Context, product domain.Product) Mutation[domain.Product] {
	product.IsActive = !product.IsActive
	return p.save(ctx, product, "could not change the product state")
}

// Delete soft-deletes a product: the ledger deactivates it and the local
// copy is marked inactive.
func (p *Products) Delete(ctx context.Context, idProduct int) Mutation[int] {
	if err := p.ledger.DeleteProduct(ctx, idProduct); err != nil {
		notifyFailure(ctx, p.notifier, "could not delete the product", err)
		return failed[int](err)
	}
	p.apply(func() {
		for i := range p.products {
			if p.products[i].IDProduct == idProduct {
				p.products[i].IsActive = false
			}
		}
	})
	return settled(idProduct)
}

func (p *Products) save(ctx context.Context, product domain.Product, failure string) Mutation[domain.Product] {
	updated, err := p.ledger.UpdateProduct(ctx, product)
	if err != nil {
		notifyFailure(ctx, p.notifier, failure, err)
		return failed[domain.Product](err)
	}
	p.apply(func() {
		for i := range p.products {
			if p.products[i].IDProduct == updated.IDProduct {
				p.products[i] = *updated
				return
			}
		}
		p.products = append(p.products, *updated)
	})
	return settled(*updated)
}

func (p *Products) apply(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
	p.guard.mutated()
}
