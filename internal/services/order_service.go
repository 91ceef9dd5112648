package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"storefront/internal/domain"
	rabbit "storefront/internal/infra/rabbitmq"
	"storefront/internal/repository"
)

// Cache is the subset of *redis.Client used for customer order listings.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ Cache = (*redis.Client)(nil)

const defaultCacheTTL = 10 * time.Second

type OrderService struct {
	repo     repository.OrderRepository
	events   *eventPublisher
	cache    Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewOrderService(r repository.OrderRepository, pub rabbit.PublisherInterface) *OrderService {
	return &OrderService{
		repo:     r,
		events:   &eventPublisher{pub: pub},
		cacheTTL: defaultCacheTTL,
		now:      time.Now,
	}
}

// SetCache enables caching of customer order listings for ttl.
func (u *OrderService) SetCache(c Cache, ttl time.Duration) {
	u.cache = c
	if ttl > 0 {
		u.cacheTTL = ttl
	}
}

func customerKey(idCustomer int) string {
	return fmt.Sprintf("orders:customer:%d", idCustomer)
}

func (u *OrderService) CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	if order.IDCustomer <= 0 {
		return nil, fmt.Errorf("%w: idCustomer is required", ErrInvalid)
	}
	order.IDOrder = 0
	if order.Date.IsZero() {
		order.Date = domain.NewTimestamp(u.now())
	}
	order.OrderDetails = append([]domain.OrderDetail(nil), order.OrderDetails...)
	for i := range order.OrderDetails {
		line := &order.OrderDetails[i]
		if err := u.checkLine(line); err != nil {
			return nil, err
		}
		line.IDOrderDetail = 0
		line.IDOrder = 0
		if line.Date.IsZero() {
			line.Date = order.Date
		}
	}

	if err := u.repo.Save(ctx, &order); err != nil {
		return nil, err
	}
	u.invalidate(ctx, order.IDCustomer)

	u.events.publish(domain.EventOrderCreated, domain.OrderCreatedEvent{
		IDOrder:    order.IDOrder,
		IDCustomer: order.IDCustomer,
		Total:      order.Total,
		CreatedAt:  order.Date.Time,
	})
	return &order, nil
}

// CreateOrderDetail appends the single line carried by order to the
// existing order order.IDOrder.
func (u *OrderService) CreateOrderDetail(ctx context.Context, order domain.Order) (*domain.OrderDetail, error) {
	if order.IDOrder <= 0 {
		return nil, fmt.Errorf("%w: idOrder is required", ErrInvalid)
	}
	if len(order.OrderDetails) != 1 {
		return nil, fmt.Errorf("%w: exactly one order detail is required, got %d", ErrInvalid, len(order.OrderDetails))
	}
	existing, err := u.repo.FindByID(ctx, order.IDOrder)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrOrderNotFound
	}

	detail := order.OrderDetails[0]
	if err := u.checkLine(&detail); err != nil {
		return nil, err
	}
	detail.IDOrderDetail = 0
	detail.IDOrder = existing.IDOrder
	if detail.Date.IsZero() {
		detail.Date = domain.NewTimestamp(u.now())
	}

	if err := u.repo.SaveDetail(ctx, &detail); err != nil {
		return nil, err
	}
	u.invalidate(ctx, existing.IDCustomer)
	return &detail, nil
}

func (u *OrderService) checkLine(line *domain.OrderDetail) error {
	if line.IDProduct <= 0 {
		return fmt.Errorf("%w: idProduct is required on every line", ErrInvalid)
	}
	if line.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalid)
	}
	if line.Subtotal.IsNegative() {
		return fmt.Errorf("%w: subtotal must not be negative", ErrInvalid)
	}
	return nil
}

func (u *OrderService) UpdateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	existing, err := u.repo.FindByID(ctx, order.IDOrder)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrOrderNotFound
	}
	if order.Date.IsZero() {
		order.Date = existing.Date
	}
	if order.IDCustomer == 0 {
		order.IDCustomer = existing.IDCustomer
	}
	if order.CustomerName == "" {
		order.CustomerName = existing.CustomerName
	}
	// lines are not edited here, so the total stays their sum
	order.Total = existing.LineTotal()
	if err := u.repo.Update(ctx, &order); err != nil {
		return nil, err
	}
	u.invalidate(ctx, existing.IDCustomer, order.IDCustomer)
	return u.GetOrder(ctx, order.IDOrder)
}

func (u *OrderService) DeleteOrder(ctx context.Context, id int) error {
	existing, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrOrderNotFound
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return err
	}
	u.invalidate(ctx, existing.IDCustomer)
	return nil
}

func (u *OrderService) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	o, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// GetOrdersByCustomer lists a customer's orders, newest first. A customer
// without orders gets an empty list.
func (u *OrderService) GetOrdersByCustomer(ctx context.Context, idCustomer int) ([]domain.Order, error) {
	key := customerKey(idCustomer)
	if u.cache != nil {
		if cached, err := u.cache.Get(ctx, key).Result(); err == nil {
			var orders []domain.Order
			if err := json.Unmarshal([]byte(cached), &orders); err == nil {
				return orders, nil
			}
		}
	}

	orders, err := u.repo.FindByCustomer(ctx, idCustomer)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	if u.cache != nil {
		if data, err := json.Marshal(orders); err == nil {
			if err := u.cache.Set(ctx, key, data, u.cacheTTL).Err(); err != nil {
				slog.WarnContext(ctx, "order cache write failed", "key", key, "error", err)
			}
		}
	}
	return orders, nil
}

func (u *OrderService) invalidate(ctx context.Context, idCustomers ...int) {
	if u.cache == nil {
		return
	}
	keys := make([]string, 0, len(idCustomers))
	for _, id := range idCustomers {
		keys = append(keys, customerKey(id))
	}
	if err := u.cache.Del(ctx, keys...).Err(); err != nil {
		slog.WarnContext(ctx, "order cache invalidation failed", "keys", keys, "error", err)
	}
}

// WaitForEvents blocks until pending event publishes have finished.
func (u *OrderService) WaitForEvents() {
	u.events.wait()
}
