package main

import (
	"context"
	"errors"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/controllers/http"
	mmysql "storefront/internal/infra/mysql"
	"storefront/internal/infra/rabbitmq"
	"storefront/internal/middlewares"
	mysqlrepo "storefront/internal/repository/mysql"
	"storefront/internal/services"
	"storefront/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadLedger()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := telemetry.InitLogger(cfg.LogLevel)

	db, err := mmysql.Open(cfg.MySQL)
	if err != nil {
		logger.Error("db: connect", "error", err)
		os.Exit(1)
	}

	orderRepo := mysqlrepo.NewOrderRepository(db)
	paymentRepo := mysqlrepo.NewPaymentRepository(db)
	productRepo := mysqlrepo.NewProductRepository(db)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.OrderExchange)
	if err != nil {
		logger.Error("failed to init publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost + ":6379",
		DB:           0,
		PoolSize:     200,
		MinIdleConns: 20,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	defer redisClient.Close()

	orders := services.NewOrderService(orderRepo, publisher)
	orders.SetCache(redisClient, cfg.CacheTTL)
	payments := services.NewPaymentService(paymentRepo, orderRepo, publisher)
	products := services.NewProductService(productRepo)

	handler := http.NewHandler(orders, payments, products)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestID(), middlewares.PrometheusMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})
	handler.RegisterRoutes(r)

	srv := &nethttp.Server{Addr: ":" + cfg.Port, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting ledger", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Error("server run", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	orders.WaitForEvents()
	payments.WaitForEvents()
	logger.Info("ledger stopped")
}
