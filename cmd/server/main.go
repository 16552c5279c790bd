package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/YousefHatem4/food_storefront/internal/authclient"
	"github.com/YousefHatem4/food_storefront/internal/cart"
	"github.com/YousefHatem4/food_storefront/internal/catalog"
	"github.com/YousefHatem4/food_storefront/internal/checkout"
	"github.com/YousefHatem4/food_storefront/internal/config"
	"github.com/YousefHatem4/food_storefront/internal/events"
	"github.com/YousefHatem4/food_storefront/internal/history"
	"github.com/YousefHatem4/food_storefront/internal/httpserver"
	"github.com/YousefHatem4/food_storefront/internal/logging"
	loggingmw "github.com/YousefHatem4/food_storefront/internal/middleware/logging"
	"github.com/YousefHatem4/food_storefront/internal/session"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.CatalogURL, "CATALOG_URL")
	config.MustNonEmpty(cfg.AuthURL, "AUTH_URL")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	db, err := history.Open(cfg.HistoryDBPath)
	if err != nil {
		log.Fatalf("history db: %v", err)
	}
	historyStore := history.NewStore(&history.GormRepo{DB: db})

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic)
	defer producer.Close()
	if !producer.Enabled() {
		logger.Info("event stream disabled, no brokers configured")
	}

	sessions := session.NewStore(func(c *cart.Cart) *checkout.Checkout {
		return checkout.New(c, historyStore, cfg.CheckoutDelay)
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Sessions: sessions,
		Menu:     &httpserver.MenuHTTP{Catalog: catalog.NewClient(cfg.CatalogURL)},
		Cart:     &httpserver.CartHTTP{Producer: producer},
		Checkout: &httpserver.CheckoutHTTP{Producer: producer},
		Orders:   &httpserver.OrdersHTTP{History: historyStore, Producer: producer},
		Auth:     &httpserver.AuthHTTP{Auth: authclient.NewClient(cfg.AuthURL), Sessions: sessions},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("storefront listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("storefront stopped")
}
