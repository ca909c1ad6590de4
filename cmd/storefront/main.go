package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/clock"
	"go.uber.org/zap"

	"github.com/trendmart/storefront/internal/api"
	"github.com/trendmart/storefront/internal/api/handlers"
	"github.com/trendmart/storefront/internal/cache"
	"github.com/trendmart/storefront/internal/cart"
	"github.com/trendmart/storefront/internal/checkout"
	"github.com/trendmart/storefront/internal/config"
	"github.com/trendmart/storefront/internal/coupons"
	"github.com/trendmart/storefront/internal/images"
	"github.com/trendmart/storefront/internal/notify"
	"github.com/trendmart/storefront/internal/orders"
	"github.com/trendmart/storefront/internal/repository"
	"github.com/trendmart/storefront/internal/wishlist"
	"github.com/trendmart/storefront/pkg/db"
)

const couponCacheTTL = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	conn, err := db.NewPostgresConnection(db.LoadPostgresConfig())
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer conn.Close()

	wallClock := clock.WallClock

	imageStore, err := images.NewStore(cfg.ImageDir, cfg.ImagePlaceholder, wallClock)
	if err != nil {
		logger.Fatal("image store", zap.Error(err))
	}

	// Repositories.
	couponRepo := repository.NewCouponRepo(conn)
	usageRepo := repository.NewUsageRepo(conn)
	orderRepo := repository.NewOrderRepo(conn)
	notificationRepo := repository.NewNotificationRepo(conn)
	productRepo := repository.NewProductRepo(conn)

	// Services.
	cartSvc := cart.NewService()
	wishlistSvc := wishlist.NewService()
	couponSvc := coupons.NewService(conn, couponRepo, usageRepo,
		cache.NewCouponCache(wallClock, couponCacheTTL), wallClock)

	hub := notify.NewHub()
	notifySvc := notify.NewService(notificationRepo, hub, wallClock, logger, cfg.NotifyPollInterval)
	notifySvc.Start()
	defer notifySvc.Stop()

	orderSvc := orders.NewService(orderRepo, couponSvc, notifySvc,
		cfg.PaymentGatewayURL, cfg.PaymentReturnURL, logger)

	wizard := checkout.NewWizard()
	finalizer := checkout.NewFinalizer(orderSvc, wallClock, logger)

	router := api.NewRouter(api.Deps{
		Log:           logger,
		AdminToken:    cfg.AdminToken,
		Cart:          handlers.NewCartHandler(cartSvc),
		Coupons:       handlers.NewCouponHandler(couponSvc, cartSvc, couponRepo),
		Checkout:      handlers.NewCheckoutHandler(wizard, finalizer, cartSvc, orderSvc),
		Orders:        handlers.NewOrderHandler(orderSvc),
		Notifications: handlers.NewNotificationHandler(notifySvc),
		Products:      handlers.NewProductHandler(productRepo, imageStore),
		Wishlist:      handlers.NewWishlistHandler(wishlistSvc),
		Admin:         handlers.NewAdminHandler(orderRepo, cfg.DashboardLineLimit),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("http server shutdown", zap.Error(err))
		}
		close(idleConnsClosed)
	}()

	logger.Info("starting storefront", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("listen", zap.Error(err))
	}

	<-idleConnsClosed
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Env == "production" {
		zcfg := zap.NewProductionConfig()
		if lvl, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
			zcfg.Level = lvl
		}
		return zcfg.Build()
	}
	return zap.NewDevelopment()
}
