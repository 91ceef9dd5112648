package http

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/storefront"
)

type CreateSessionRequest struct {
	IDCustomer   int    `json:"idCustomer" binding:"required,min=1"`
	CustomerName string `json:"customerName"`
}

type SessionResponse struct {
	SessionID string       `json:"sessionId"`
	Cart      CartResponse `json:"cart"`
}

type AddItemRequest struct {
	IDProduct int                  `json:"idProduct" binding:"required,min=1"`
	Quantity  storefront.FormValue `json:"quantity"`
}

type CartResponse struct {
	Order   domain.Order       `json:"order"`
	Summary storefront.Summary `json:"summary"`
}

func newCartResponse(o domain.Order) CartResponse {
	return CartResponse{Order: o, Summary: storefront.Summarize(o)}
}

type HistoryResponse struct {
	State    string           `json:"state"`
	Order    *domain.Order    `json:"order,omitempty"`
	Payments []domain.Payment `json:"payments"`
	Paid     decimal.Decimal  `json:"paid"`
	Error    string           `json:"error,omitempty"`
}

type DropResponse struct {
	Deleted bool `json:"deleted"`
}

type ValidationErrorResponse struct {
	Errors storefront.FieldErrors `json:"errors"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type NoticeResponse struct {
	Level   storefront.Level `json:"level"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Error   string           `json:"error,omitempty"`
	At      string           `json:"at"`
}

func newNoticeResponses(notices []storefront.Notice) []NoticeResponse {
	out := make([]NoticeResponse, 0, len(notices))
	for _, n := range notices {
		r := NoticeResponse{
			Level:   n.Level,
			Title:   n.Title,
			Message: n.Message,
			At:      domain.NewTimestamp(n.At).String(),
		}
		if n.Err != nil {
			r.Error = n.Err.Error()
		}
		out = append(out, r)
	}
	return out
}
