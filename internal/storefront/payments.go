package storefront

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/infra"
)

// Payments is the payment ledger accessor. It keeps the last listed
// payments and changes them only after the ledger confirms a mutation.
type Payments struct {
	ledger   infra.PaymentLedger
	notifier Notifier
	now      func() time.Time

	mu       sync.Mutex
	payments []domain.Payment
	guard    listGuard
	pending  int
}

func NewPayments(ledger infra.PaymentLedger, notifier Notifier) *Payments {
	return &Payments{ledger: ledger, notifier: notifier, now: time.Now}
}

// List fetches every payment and makes it the local list.
func (p *Payments) List(ctx context.Context) []domain.Payment {
	p.mu.Lock()
	ticket := p.guard.begin()
	p.mu.Unlock()

	payments, err := p.ledger.ListPayments(ctx)
	if err != nil {
		notifyFailure(ctx, p.notifier, "could not load payments", err)
		return []domain.Payment{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.guard.current(ticket) {
		p.payments = payments
	}
	return copyPayments(p.payments)
}

func (p *Payments) ListByOrder(ctx context.Context, idOrder int) []domain.Payment {
	payments, err := p.ledger.ListPaymentsByOrder(ctx, idOrder)
	if err != nil {
		notifyFailure(ctx, p.notifier, "could not load the order's payments", err)
		return []domain.Payment{}
	}
	return nonNilPayments(payments)
}

func (p *Payments) Get(ctx context.Context, idPayment int) []domain.Payment {
	payments, err := p.ledger.GetPayment(ctx, idPayment)
	if err != nil {
		notifyFailure(ctx, p.notifier, "could not load the payment", err)
		return []domain.Payment{}
	}
	return nonNilPayments(payments)
}

// Local returns the last listed payments including confirmed mutations.
func (p *Payments) Local() []domain.Payment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyPayments(p.payments)
}

// Filter applies FilterPayments to the local list.
func (p *Payments) Filter(query string, r DateRange) []domain.Payment {
	return FilterPayments(p.Local(), query, r)
}

// Pending is the number of mutations awaiting the ledger.
func (p *Payments) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

func (p *Payments) Create(ctx context.Context, form PaymentForm) Mutation[domain.Payment] {
	payment, fe := form.payment(false, p.now)
	if fe != nil {
		return invalid[domain.Payment](fe)
	}
	payment.IDPayment = 0

	done := p.start()
	created, err := p.ledger.CreatePayment(ctx, payment)
	if err != nil {
		done(nil)
		notifyFailure(ctx, p.notifier, "could not register the payment", err)
		return failed[domain.Payment](err)
	}
	done(func() { p.payments = append(p.payments, *created) })
	return settled(*created)
}

func (p *Payments) Update(ctx context.Context, form PaymentForm) Mutation[domain.Payment] {
	payment, fe := form.payment(true, p.now)
	if fe != nil {
		return invalid[domain.Payment](fe)
	}

	done := p.start()
	updated, err := p.ledger.UpdatePayment(ctx, payment)
	if err != nil {
		done(nil)
		notifyFailure(ctx, p.notifier, "could not update the payment", err)
		return failed[domain.Payment](err)
	}
	done(func() {
		for i := range p.payments {
			if p.payments[i].IDPayment == updated.IDPayment {
				p.payments[i] = *updated
				return
			}
		}
		p.payments = append(p.payments, *updated)
	})
	return settled(*updated)
}

func (p *Payments) Delete(ctx context.Context, idPayment int) Mutation[int] {
	done := p.start()
	if err := p.ledger.DeletePayment(ctx, idPayment); err != nil {
		done(nil)
		notifyFailure(ctx, p.notifier, "could not delete the payment", err)
		return failed[int](err)
	}
	done(func() {
		kept := p.payments[:0:0]
		for _, pay := range p.payments {
			if pay.IDPayment != idPayment {
				kept = append(kept, pay)
			}
		}
		p.payments = kept
	})
	return settled(idPayment)
}

// start marks a mutation pending. The returned func settles it, applying
// apply (if non-nil) to the local list under the lock.
func (p *Payments) start() func(apply func()) {
	p.mu.Lock()
	p.pending++
	p.mu.Unlock()
	return func(apply func()) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.pending--
		if apply != nil {
			apply()
			p.guard.mutated()
		}
	}
}

func copyPayments(in []domain.Payment) []domain.Payment {
	out := make([]domain.Payment, len(in))
	copy(out, in)
	return out
}

func nonNilPayments(in []domain.Payment) []domain.Payment {
	if in == nil {
		return []domain.Payment{}
	}
	return in
}
