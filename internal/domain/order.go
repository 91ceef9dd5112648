package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

func init() {
	// The ledger speaks plain JSON numbers for money.
	decimal.MarshalJSONWithoutQuotes = true
}

// OrderDetail is one line of an order. Subtotal and ProductName are captured
// when the line is created and never re-derived from the catalog.
type OrderDetail struct {
	IDOrderDetail int             `json:"idOrderDetail" gorm:"primaryKey;autoIncrement"`
	IDOrder       int             `json:"idOrder" gorm:"not null;index"`
	IDProduct     int             `json:"idProduct" gorm:"not null;index"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2);not null"`
	IsPaid        bool            `json:"isPaid" gorm:"not null;default:false"`
	ProductName   string          `json:"productName" gorm:"size:255"`
	Date          Timestamp       `json:"date" gorm:"type:datetime(3)"`
	DatePaid      Timestamp       `json:"datePaid" gorm:"type:datetime(3)"`
}

// Order is the header plus its lines in add order. IDOrder is 0 while the
// order is a local draft.
type Order struct {
	IDOrder      int             `json:"idOrder" gorm:"primaryKey;autoIncrement"`
	IDCustomer   int             `json:"idCustomer" gorm:"not null;index"`
	Date         Timestamp       `json:"date" gorm:"type:datetime(3)"`
	Total        decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	CustomerName string          `json:"customerName" gorm:"size:255"`
	OrderDetails []OrderDetail   `json:"orderDetails" gorm:"foreignKey:IDOrder;references:IDOrder;constraint:OnDelete:CASCADE"`
}

// UnmarshalJSON also accepts the orderDetailsDTO key some ledger revisions use.
func (o *Order) UnmarshalJSON(data []byte) error {
	type plain Order
	aux := struct {
		*plain
		LegacyDetails []OrderDetail `json:"orderDetailsDTO"`
	}{plain: (*plain)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(o.OrderDetails) == 0 && len(aux.LegacyDetails) > 0 {
		o.OrderDetails = aux.LegacyDetails
	}
	return nil
}

// LineTotal sums the subtotals of all lines.
func (o Order) LineTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, d := range o.OrderDetails {
		sum = sum.Add(d.Subtotal)
	}
	return sum
}

// Clone returns a copy that shares no line storage with o.
func (o Order) Clone() Order {
	out := o
	if o.OrderDetails != nil {
		out.OrderDetails = make([]OrderDetail, len(o.OrderDetails))
		copy(out.OrderDetails, o.OrderDetails)
	}
	return out
}
