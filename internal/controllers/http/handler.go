package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/middlewares"
	"storefront/internal/services"
)

// Handler serves the ledger REST API consumed by the storefront.
type Handler struct {
	orders   *services.OrderService
	payments *services.PaymentService
	products *services.ProductService
}

func NewHandler(o *services.OrderService, p *services.PaymentService, pr *services.ProductService) *Handler {
	return &Handler{orders: o, payments: p, products: pr}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/orders/:id", h.GetOrder)
	r.GET("/orders/customer/:id", h.GetOrdersByCustomer)
	r.POST("/orders", h.CreateOrder)
	r.POST("/orders/detail", h.CreateOrderDetail)
	r.PUT("/orders", h.UpdateOrder)
	r.DELETE("/orders/:id", h.DeleteOrder)

	r.GET("/payment", h.ListPayments)
	r.GET("/payment/order/:id", h.ListPaymentsByOrder)
	r.GET("/payment/:id", h.GetPayment)
	r.POST("/payment", h.CreatePayment)
	r.PUT("/payment", h.UpdatePayment)
	r.DELETE("/payment/:id", h.DeletePayment)

	r.GET("/products", h.ListProducts)
	r.POST("/products", h.CreateProduct)
	r.PUT("/products", h.UpdateProduct)
	r.DELETE("/products/:id", h.DeleteProduct)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) GetOrdersByCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	orders, err := h.orders.GetOrdersByCustomer(c.Request.Context(), id)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req domain.Order
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orders.CreateOrder(c.Request.Context(), req)
	middlewares.RecordOperation("order.create", err == nil)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) CreateOrderDetail(c *gin.Context) {
	var req domain.Order
	if !bindJSON(c, &req) {
		return
	}
	detail, err := h.orders.CreateOrderDetail(c.Request.Context(), req)
	middlewares.RecordOperation("order.detail", err == nil)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	var req domain.Order
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orders.UpdateOrder(c.Request.Context(), req)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		writeLedgerError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListPayments(c *gin.Context) {
	payments, err := h.payments.ListPayments(c.Request.Context())
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *Handler) ListPaymentsByOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	payments, err := h.payments.ListPaymentsByOrder(c.Request.Context(), id)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GetPayment answers with a one-element array.
func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	payments, err := h.payments.GetPayment(c.Request.Context(), id)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *Handler) CreatePayment(c *gin.Context) {
	var req domain.Payment
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.payments.CreatePayment(c.Request.Context(), req)
	middlewares.RecordOperation("payment.create", err == nil)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	var req domain.Payment
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.payments.UpdatePayment(c.Request.Context(), req)
	middlewares.RecordOperation("payment.update", err == nil)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *Handler) DeletePayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.payments.DeletePayment(c.Request.Context(), id); err != nil {
		writeLedgerError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.products.ListProducts(c.Request.Context())
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req domain.Product
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.products.CreateProduct(c.Request.Context(), req)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	var req domain.Product
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.products.UpdateProduct(c.Request.Context(), req)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.products.DeleteProduct(c.Request.Context(), id); err != nil {
		writeLedgerError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

func writeLedgerError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrPaymentNotFound),
		errors.Is(err, services.ErrProductNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
