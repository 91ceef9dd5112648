package services

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

const (
	TestOrderID     = 1
	TestCustomerID  = 42
	TestPaymentID   = 9
	TestProductID   = 3
	TestCustomer    = "Ana"
	TestProductName = "Espresso"
)

var testTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func CreateMockOrder(id, idCustomer int, lines ...domain.OrderDetail) *domain.Order {
	o := &domain.Order{
		IDOrder:      id,
		IDCustomer:   idCustomer,
		CustomerName: TestCustomer,
		Date:         domain.NewTimestamp(testTime),
		OrderDetails: lines,
	}
	o.Total = o.LineTotal()
	return o
}

func CreateMockLine(idProduct, quantity int, price string) domain.OrderDetail {
	return domain.OrderDetail{
		IDProduct:   idProduct,
		Quantity:    quantity,
		Subtotal:    decimal.RequireFromString(price).Mul(decimal.NewFromInt(int64(quantity))),
		ProductName: TestProductName,
	}
}

func CreateMockPayment(id, idOrder int, amount, ref string) *domain.Payment {
	return &domain.Payment{
		IDPayment: id,
		IDOrder:   idOrder,
		Date:      domain.NewTimestamp(testTime),
		Amount:    decimal.RequireFromString(amount),
		Ref:       ref,
	}
}

func CreateMockProduct(id int, name, price string, active bool) *domain.Product {
	return &domain.Product{
		IDProduct: id,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     10,
		IsActive:  active,
	}
}
