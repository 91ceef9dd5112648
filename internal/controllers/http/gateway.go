package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"storefront/internal/domain"
	"storefront/internal/infra"
	"storefront/internal/middlewares"
	"storefront/internal/storefront"
)

// shopper is one shopping session: its draft and the notices raised while
// serving it.
type shopper struct {
	session    storefront.Session
	cart       *storefront.Cart
	notices    *storefront.NoticeBuffer
	reconciler *storefront.Reconciler
	lastSeen   time.Time
}

const defaultSessionTTL = 30 * time.Minute

// Gateway serves the storefront to shoppers and back-office users. Ledger
// failures never surface as 5xx on reads; they end up as notices.
type Gateway struct {
	orders      infra.OrderLedger
	catalog     *storefront.Catalog
	reconciler  *storefront.Reconciler
	payments    *storefront.Payments
	products    *storefront.Products
	notices     *storefront.NoticeBuffer
	noticeLimit int
	next        storefront.Notifier
	sessionTTL  time.Duration
	now         func() time.Time

	mu       sync.Mutex
	shoppers map[string]*shopper
}

func NewGateway(orders infra.OrderLedger, payments infra.PaymentLedger, products infra.ProductLedger, next storefront.Notifier, noticeLimit int) *Gateway {
	notices := storefront.NewNoticeBuffer(noticeLimit, next)
	return &Gateway{
		orders:      orders,
		catalog:     storefront.NewCatalog(products, notices),
		reconciler:  storefront.NewReconciler(orders, notices),
		payments:    storefront.NewPayments(payments, notices),
		products:    storefront.NewProducts(products, notices),
		notices:     notices,
		noticeLimit: noticeLimit,
		next:        next,
		sessionTTL:  defaultSessionTTL,
		now:         time.Now,
		shoppers:    make(map[string]*shopper),
	}
}

// SetSessionTTL sets how long an untouched session is kept.
func (g *Gateway) SetSessionTTL(ttl time.Duration) {
	if ttl > 0 {
		g.sessionTTL = ttl
	}
}

func (g *Gateway) RegisterRoutes(r gin.IRouter) {
	r.POST("/sessions", g.CreateSession)
	r.DELETE("/sessions/:sid", g.EndSession)
	s := r.Group("/sessions/:sid", g.withShopper)
	s.GET("/cart", g.GetCart)
	s.POST("/cart/items", g.AddItem)
	s.DELETE("/cart", g.ResetCart)
	s.POST("/cart/checkout", g.Checkout)
	s.DELETE("/order", g.DropOrder)
	s.GET("/orders", g.CustomerOrders)
	s.GET("/notices", g.SessionNotices)

	r.GET("/catalog", g.Catalog)
	r.GET("/history/:id", g.History)
	r.GET("/notices", g.Notices)

	r.GET("/payments", g.ListPayments)
	r.POST("/payments", g.CreatePayment)
	r.PUT("/payments", g.UpdatePayment)
	r.DELETE("/payments/:id", g.DeletePayment)

	r.GET("/products", g.ListProducts)
	r.POST("/products", g.CreateProduct)
	r.PUT("/products", g.UpdateProduct)
	r.PATCH("/products/:id/active", g.ToggleProduct)
	r.DELETE("/products/:id", g.DeleteProduct)
}

func (g *Gateway) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	session := storefront.Session{IDCustomer: req.IDCustomer, CustomerName: req.CustomerName}
	notices := storefront.NewNoticeBuffer(g.noticeLimit, g.next)
	sh := &shopper{
		session:    session,
		cart:       storefront.NewCart(session),
		notices:    notices,
		reconciler: storefront.NewReconciler(g.orders, notices),
	}

	id := uuid.NewString()
	g.mu.Lock()
	now := g.now()
	g.evictIdle(now)
	sh.lastSeen = now
	g.shoppers[id] = sh
	g.mu.Unlock()

	c.JSON(http.StatusCreated, SessionResponse{SessionID: id, Cart: newCartResponse(sh.cart.Order())})
}

const shopperKey = "shopper"

// EndSession forgets a session and its draft. A persisted order is kept.
func (g *Gateway) EndSession(c *gin.Context) {
	sid := c.Param("sid")
	g.mu.Lock()
	_, ok := g.shoppers[sid]
	delete(g.shoppers, sid)
	g.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown session"})
		return
	}
	c.Status(http.StatusNoContent)
}

// evictIdle drops sessions untouched for longer than the TTL. g.mu is held.
func (g *Gateway) evictIdle(now time.Time) {
	for id, sh := range g.shoppers {
		if now.Sub(sh.lastSeen) > g.sessionTTL {
			delete(g.shoppers, id)
		}
	}
}

func (g *Gateway) withShopper(c *gin.Context) {
	sid := c.Param("sid")
	g.mu.Lock()
	now := g.now()
	sh, ok := g.shoppers[sid]
	if ok && now.Sub(sh.lastSeen) > g.sessionTTL {
		delete(g.shoppers, sid)
		ok = false
	}
	if ok {
		sh.lastSeen = now
	}
	g.mu.Unlock()
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "unknown session"})
		return
	}
	c.Set(shopperKey, sh)
	c.Next()
}

func shopperFrom(c *gin.Context) *shopper {
	return c.MustGet(shopperKey).(*shopper)
}

func (g *Gateway) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, newCartResponse(shopperFrom(c).cart.Order()))
}

// AddItem adds a product to the draft. The product is looked up in the last
// fetched catalog, refreshing it once if the id is unknown.
func (g *Gateway) AddItem(c *gin.Context) {
	sh := shopperFrom(c)
	var req AddItemRequest
	if !bindJSON(c, &req) {
		return
	}
	epoch := sh.cart.Epoch()

	product, ok := g.catalog.Lookup(req.IDProduct)
	if !ok {
		g.catalog.Fetch(c.Request.Context())
		product, ok = g.catalog.Lookup(req.IDProduct)
	}
	if !ok || !product.IsActive {
		middlewares.RecordOperation("cart.add", false)
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "product not available"})
		return
	}

	order, err := sh.cart.AddOrMergeIn(epoch, product, storefront.ParseQuantity(string(req.Quantity)))
	middlewares.RecordOperation("cart.add", err == nil)
	if errors.Is(err, storefront.ErrStaleDraft) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, newCartResponse(order))
}

func (g *Gateway) ResetCart(c *gin.Context) {
	c.JSON(http.StatusOK, newCartResponse(shopperFrom(c).cart.Reset()))
}

func (g *Gateway) Checkout(c *gin.Context) {
	sh := shopperFrom(c)
	order, err := sh.reconciler.Submit(c.Request.Context(), sh.cart, sh.session)
	middlewares.RecordOperation("cart.checkout", err == nil)
	switch {
	case errors.Is(err, storefront.ErrEmptyDraft):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case err != nil:
		c.JSON(upstreamStatus(err), ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusCreated, order)
	}
}

func (g *Gateway) DropOrder(c *gin.Context) {
	sh := shopperFrom(c)
	deleted := sh.reconciler.DropDraft(c.Request.Context(), sh.cart)
	c.JSON(http.StatusOK, DropResponse{Deleted: deleted})
}

func (g *Gateway) CustomerOrders(c *gin.Context) {
	sh := shopperFrom(c)
	c.JSON(http.StatusOK, sh.reconciler.FetchCustomerOrders(c.Request.Context(), sh.session.IDCustomer))
}

func (g *Gateway) SessionNotices(c *gin.Context) {
	c.JSON(http.StatusOK, newNoticeResponses(shopperFrom(c).notices.Drain()))
}

func (g *Gateway) Notices(c *gin.Context) {
	c.JSON(http.StatusOK, newNoticeResponses(g.notices.Drain()))
}

func (g *Gateway) Catalog(c *gin.Context) {
	products := g.catalog.Fetch(c.Request.Context())
	c.JSON(http.StatusOK, storefront.FilterProducts(products, storefront.ProductFilter{Name: c.Query("q")}))
}

// History loads an order and its payments side by side.
func (g *Gateway) History(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	history := storefront.NewOrderHistory(g.reconciler, id)

	// a failed order load must not cancel the payments fetch
	var payments []domain.Payment
	var eg errgroup.Group
	ctx := c.Request.Context()
	eg.Go(func() error {
		return history.Load(ctx)
	})
	eg.Go(func() error {
		payments = g.payments.ListByOrder(ctx, id)
		return nil
	})
	loadErr := eg.Wait()

	state, order, _ := history.State()
	resp := HistoryResponse{State: state.String(), Payments: payments, Paid: paidTotal(payments)}
	if loadErr != nil {
		resp.Error = loadErr.Error()
		c.JSON(upstreamStatus(loadErr), resp)
		return
	}
	resp.Order = &order
	c.JSON(http.StatusOK, resp)
}

func paidTotal(payments []domain.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if p.IsApproved {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}

func (g *Gateway) ListPayments(c *gin.Context) {
	r, ok := dateRange(c)
	if !ok {
		return
	}
	g.payments.List(c.Request.Context())
	c.JSON(http.StatusOK, g.payments.Filter(c.Query("q"), r))
}

func (g *Gateway) CreatePayment(c *gin.Context) {
	var form storefront.PaymentForm
	if !bindJSON(c, &form) {
		return
	}
	writeMutation(c, "payment.create", http.StatusCreated, g.payments.Create(c.Request.Context(), form))
}

func (g *Gateway) UpdatePayment(c *gin.Context) {
	var form storefront.PaymentForm
	if !bindJSON(c, &form) {
		return
	}
	writeMutation(c, "payment.update", http.StatusOK, g.payments.Update(c.Request.Context(), form))
}

func (g *Gateway) DeletePayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	writeMutation(c, "payment.delete", http.StatusOK, g.payments.Delete(c.Request.Context(), id))
}

func (g *Gateway) ListProducts(c *gin.Context) {
	inactive, _ := strconv.ParseBool(c.DefaultQuery("inactive", "false"))
	g.products.List(c.Request.Context())
	c.JSON(http.StatusOK, g.products.Filter(storefront.ProductFilter{Name: c.Query("name"), ShowInactive: inactive}))
}

func (g *Gateway) CreateProduct(c *gin.Context) {
	var form storefront.ProductForm
	if !bindJSON(c, &form) {
		return
	}
	writeMutation(c, "product.create", http.StatusCreated, g.products.Create(c.Request.Context(), form))
}

func (g *Gateway) UpdateProduct(c *gin.Context) {
	var form storefront.ProductForm
	if !bindJSON(c, &form) {
		return
	}
	writeMutation(c, "product.update", http.StatusOK, g.products.Update(c.Request.Context(), form))
}

func (g *Gateway) ToggleProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	product, found := g.findProduct(c.Request.Context(), id)
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown product"})
		return
	}
	writeMutation(c, "product.toggle", http.StatusOK, g.products.ToggleActive(c.Request.Context(), product))
}

func (g *Gateway) findProduct(ctx context.Context, id int) (domain.Product, bool) {
	for attempt := 0; attempt < 2; attempt++ {
		for _, p := range g.products.Local() {
			if p.IDProduct == id {
				return p, true
			}
		}
		if attempt == 0 {
			g.products.List(ctx)
		}
	}
	return domain.Product{}, false
}

func (g *Gateway) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	writeMutation(c, "product.delete", http.StatusOK, g.products.Delete(c.Request.Context(), id))
}

func dateRange(c *gin.Context) (storefront.DateRange, bool) {
	r, err := storefront.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from and to must be ISO-8601 dates"})
		return storefront.DateRange{}, false
	}
	return r, true
}

func writeMutation[T any](c *gin.Context, op string, okStatus int, m storefront.Mutation[T]) {
	middlewares.RecordOperation(op, m.State == storefront.MutationSettled)
	switch {
	case m.Invalid():
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{Errors: m.FieldErrors})
	case m.State == storefront.MutationFailed:
		c.JSON(upstreamStatus(m.Err), ErrorResponse{Error: m.Err.Error()})
	default:
		c.JSON(okStatus, m.Value)
	}
}

// upstreamStatus maps a ledger failure onto the gateway's answer: a ledger
// 404 stays a 404, anything else is a bad gateway.
func upstreamStatus(err error) int {
	if infra.IsNotFound(err) || errors.Is(err, infra.ErrOrderNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
