package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"handmade-backend/config"
	"handmade-backend/controllers"
	"handmade-backend/repositories"
	"handmade-backend/routes"
	"handmade-backend/services"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal("failed to build logger: ", err)
	}
	defer logger.Sync()

	client, err := config.ConnectDB(cfg.MongoURI, cfg.MongoMode)
	if err != nil {
		logger.Fatal("mongodb connection failed", zap.Error(err))
	}
	db := client.Database(cfg.MongoDB)

	redisClient, err := config.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repositories.EnsureIndexes(indexCtx, db); err != nil {
		cancelIndex()
		logger.Fatal("index creation failed", zap.Error(err))
	}
	cancelIndex()

	cache := repositories.NewCache(redisClient)
	adminRepo := repositories.NewAdminRepository(db)
	productRepo := repositories.NewProductRepository(db, cache)
	orderRepo := repositories.NewOrderRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)

	authService := services.NewAuthService(adminRepo, cfg, logger)
	orderService := services.NewOrderService(
		orderRepo,
		productRepo,
		services.FlatShipping{Amount: cfg.FlatShippingCost},
		logger,
	)

	ctrl := &controllers.Controller{
		DB:         db,
		Auth:       authService,
		Orders:     orderService,
		Products:   productRepo,
		Categories: categoryRepo,
		Admins:     adminRepo,
		TokenTTL:   cfg.TokenTTL,
		Log:        logger,
	}

	r := routes.Setup(ctrl, cfg.Env)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped unexpectedly", zap.Error(err))
		}
	}()

	// Tunggu sinyal, lalu matikan dengan rapi: selesaikan request yang
	// sedang berjalan sebelum menutup koneksi database.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Error("mongodb disconnect failed", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("redis close failed", zap.Error(err))
		}
	}
	logger.Info("bye")
}
