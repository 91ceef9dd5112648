package services

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalid marks a request the ledger refuses to store. It is always
	// wrapped with the reason.
	ErrInvalid = errors.New("invalid request")
)
