package rabbitmq

import (
	"context"

	"github.com/streadway/amqp"
)

type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, data any) error
}

var (
	_ PublisherInterface = (*Publisher)(nil)
	_ Channel            = (*amqp.Channel)(nil)
)
