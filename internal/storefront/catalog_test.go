package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/infra"
	"storefront/internal/mocks"
)

func TestCatalog_Fixture(t *testing.T) {
	c := NewCatalog(infra.NewFixtureProductClient(), &recorder{})

	require.Len(t, c.Fetch(context.Background()), 4)
	assert.Len(t, c.Active(), 3)
	assert.Len(t, c.Search("café"), 3)
	assert.Empty(t, c.Search("mocha"))

	p, ok := c.Lookup(4)
	require.True(t, ok)
	assert.Equal(t, "Mocha", p.Name)
	assert.False(t, p.IsActive)

	_, ok = c.Lookup(99)
	assert.False(t, ok)
}

func TestCatalog_FetchFailureKeepsLastList(t *testing.T) {
	ledger := new(mocks.MockProductLedger)
	ledger.On("ListProducts", mock.Anything).Return([]domain.Product{espresso}, nil).Once()
	ledger.On("ListProducts", mock.Anything).Return(nil, errors.New("timeout"))
	rec := &recorder{}
	c := NewCatalog(ledger, rec)

	assert.Len(t, c.Fetch(context.Background()), 1)

	got := c.Fetch(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 1, rec.count())

	_, ok := c.Lookup(espresso.IDProduct)
	assert.True(t, ok)
}

// gatedProducts blocks each ListProducts call until the test answers it.
type gatedProducts struct {
	mocks.MockProductLedger
	calls chan chan []domain.Product
}

func (g *gatedProducts) ListProducts(context.Context) ([]domain.Product, error) {
	ch := make(chan []domain.Product)
	g.calls <- ch
	return <-ch, nil
}

func TestCatalog_StaleFetchIsDiscarded(t *testing.T) {
	ledger := &gatedProducts{calls: make(chan chan []domain.Product)}
	c := NewCatalog(ledger, &recorder{})
	ctx := context.Background()

	done := make(chan struct{}, 2)
	go func() { c.Fetch(ctx); done <- struct{}{} }()
	older := <-ledger.calls
	go func() { c.Fetch(ctx); done <- struct{}{} }()
	newer := <-ledger.calls

	newer <- []domain.Product{espresso, latte}
	<-done
	older <- []domain.Product{cappuccino}
	<-done

	assert.Len(t, c.Products(), 2)
	_, ok := c.Lookup(cappuccino.IDProduct)
	assert.False(t, ok)
}
