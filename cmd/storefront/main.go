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
	"storefront/internal/infra"
	"storefront/internal/middlewares"
	"storefront/internal/storefront"
	"storefront/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadStorefront()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := telemetry.InitLogger(cfg.LogLevel)

	orders := infra.NewOrderClient(cfg.LedgerURL, cfg.LedgerTimeout)
	payments := infra.NewPaymentClient(cfg.LedgerURL, cfg.LedgerTimeout)

	var products infra.ProductLedger = infra.NewProductClient(cfg.LedgerURL, cfg.LedgerTimeout)
	if cfg.ProductSource == "fixture" {
		products = infra.NewFixtureProductClient()
	}

	gateway := http.NewGateway(orders, payments, products, storefront.NewLogNotifier(logger), cfg.NoticeBuffer)
	gateway.SetSessionTTL(cfg.SessionTTL)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestID(), middlewares.PrometheusMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})
	gateway.RegisterRoutes(r)

	srv := &nethttp.Server{Addr: ":" + cfg.Port, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting storefront", "port", cfg.Port, "ledger", cfg.LedgerURL, "products", cfg.ProductSource)
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
	logger.Info("storefront stopped")
}
