package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"elitestore-api/internal/config"
	"elitestore-api/internal/db"
	"elitestore-api/internal/httpserver"
	cartrepo "elitestore-api/internal/repository/cart"
	categoryrepo "elitestore-api/internal/repository/category"
	customerrepo "elitestore-api/internal/repository/customer"
	orderrepo "elitestore-api/internal/repository/order"
	productrepo "elitestore-api/internal/repository/product"
	tokenrepo "elitestore-api/internal/repository/token"
	anonymoussvc "elitestore-api/internal/service/anonymous"
	cartsvc "elitestore-api/internal/service/cart"
	categorysvc "elitestore-api/internal/service/category"
	customersvc "elitestore-api/internal/service/customer"
	ordersvc "elitestore-api/internal/service/order"
	productsvc "elitestore-api/internal/service/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	productService := productsvc.New(productRepo)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	categoryService := categorysvc.New(categoryRepo)
	cartRepo := cartrepo.NewPostgres(dbpool)
	cartService := cartsvc.New(cartRepo, productRepo)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	orderService := ordersvc.New(orderRepo, cartRepo, logger)
	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	customerService := customersvc.New(customerRepo, tokenRepo)
	anonymousService := anonymoussvc.New()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc:   productService,
		CategorySvc:  categoryService,
		CartSvc:      cartService,
		OrderSvc:     orderService,
		CustomerSvc:  customerService,
		AnonymousSvc: anonymousService,
		AdminEmails:  cfg.AdminEmails,
		CORSOrigins:  cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
