package storefront

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"storefront/internal/domain"
)

// containsFold reports whether sub occurs in s ignoring case. An empty sub
// matches everything.
func containsFold(s, sub string) bool {
	if sub == "" {
		return true
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(sub))
}

// DateRange is inclusive on both ends. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Unbounded matches every date.
var Unbounded = DateRange{}

// DayRange covers whole calendar days from from through to.
func DayRange(from, to time.Time) DateRange {
	var r DateRange
	if !from.IsZero() {
		r.From = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	}
	if !to.IsZero() {
		start := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
		r.To = start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return r
}

// ParseDateRange builds a range from ISO-8601 bounds. A bare date covers its
// whole day; a bound with a time of day is used exactly. Empty bounds are open.
func ParseDateRange(from, to string) (DateRange, error) {
	start, err := domain.ParseTimestamp(from)
	if err != nil {
		return DateRange{}, err
	}
	end, err := domain.ParseTimestamp(to)
	if err != nil {
		return DateRange{}, err
	}

	days := DayRange(start.Time, end.Time)
	r := DateRange{From: start.Time, To: end.Time}
	if dateOnly(from) {
		r.From = days.From
	}
	if dateOnly(to) {
		r.To = days.To
	}
	return r, nil
}

func dateOnly(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// FilterPayments keeps payments whose ref contains query (case-insensitive)
// and whose date lies in r.
func FilterPayments(payments []domain.Payment, query string, r DateRange) []domain.Payment {
	out := make([]domain.Payment, 0, len(payments))
	for _, p := range payments {
		if containsFold(p.Ref, query) && r.Contains(p.Date.Time) {
			out = append(out, p)
		}
	}
	return out
}

// ProductFilter selects products by name and by active state. ShowInactive
// lists only deactivated products; otherwise only active ones.
type ProductFilter struct {
	Name         string
	ShowInactive bool
}

func FilterProducts(products []domain.Product, f ProductFilter) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if containsFold(p.Name, f.Name) && p.IsActive != f.ShowInactive {
			out = append(out, p)
		}
	}
	return out
}
