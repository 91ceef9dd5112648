package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated    = "order.created"
	EventPaymentRecorded = "payment.recorded"
)

type OrderCreatedEvent struct {
	IDOrder    int             `json:"idOrder"`
	IDCustomer int             `json:"idCustomer"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type PaymentRecordedEvent struct {
	IDPayment  int             `json:"idPayment"`
	IDOrder    int             `json:"idOrder"`
	Amount     decimal.Decimal `json:"amount"`
	IsApproved bool            `json:"isApproved"`
	RecordedAt time.Time       `json:"recordedAt"`
}
