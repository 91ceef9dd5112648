// Package storefront holds the shopper-side order logic: the draft cart,
// reconciliation against the order ledger, and the payment and product
// accessors. It reaches the ledger only through the infra clients.
package storefront

// Session identifies the shopper an operation acts for. It is passed
// explicitly to whatever needs it.
type Session struct {
	IDCustomer   int    `json:"idCustomer"`
	CustomerName string `json:"customerName"`
}
