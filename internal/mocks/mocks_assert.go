package mocks

import (
	"storefront/internal/infra"
	rabbit "storefront/internal/infra/rabbitmq"
	"storefront/internal/repository"
)

var (
	_ repository.OrderRepository   = (*MockOrderRepository)(nil)
	_ repository.PaymentRepository = (*MockPaymentRepository)(nil)
	_ repository.ProductRepository = (*MockProductRepository)(nil)
	_ rabbit.PublisherInterface    = (*MockPublisher)(nil)
	_ infra.OrderLedger            = (*MockOrderLedger)(nil)
	_ infra.PaymentLedger          = (*MockPaymentLedger)(nil)
	_ infra.ProductLedger          = (*MockProductLedger)(nil)
)
