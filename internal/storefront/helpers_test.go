package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

var testSession = Session{IDCustomer: 42, CustomerName: "Ana"}

func product(id int, name, price string) domain.Product {
	return domain.Product{IDProduct: id, Name: name, Price: decimal.RequireFromString(price), Stock: 10, IsActive: true}
}

var (
	espresso   = product(1, "Café Espresso", "10.0")
	cappuccino = product(2, "Café Capuccino", "15.0")
	latte      = product(3, "Café Latte", "12.0")
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(d int) time.Time {
	return time.Date(2024, 5, d, 12, 0, 0, 0, time.UTC)
}

// recorder is a Notifier that keeps every notice.
type recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}
