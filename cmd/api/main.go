package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardapiopro-backend/internal/client"
	"cardapiopro-backend/internal/config"
	"cardapiopro-backend/internal/logger"
	"cardapiopro-backend/internal/repository"
	"cardapiopro-backend/internal/server"
	"cardapiopro-backend/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)

	db, err := client.InitDBClient(cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	mail := client.NewMailClient(cfg.SMTP)
	if !cfg.SMTP.Configured() {
		log.Warn("SMTP not configured, password reset mails are disabled")
	}

	rdb := client.InitRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	events := client.NewEventPublisher(cfg.RabbitMQ, log)

	userRepo := repository.NewUserRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	codeRepo := repository.NewActivationCodeRepository(db)

	trialDays := cfg.Billing.TrialDays
	subscriptionService := service.NewSubscriptionService(db, trialDays, restaurantRepo, subRepo, log)
	authService := service.NewAuthService(db, cfg.Auth, trialDays, cfg.WebURL, mail, userRepo, restaurantRepo, subRepo, log)
	services := server.Services{
		Auth:         authService,
		Subscription: subscriptionService,
		Restaurant:   service.NewRestaurantService(db, trialDays, userRepo, restaurantRepo, subRepo, productRepo, subscriptionService),
		Product:      service.NewProductService(db, productRepo),
		Order:        service.NewOrderService(db, restaurantRepo, subRepo, productRepo, orderRepo, events, log),
		Billing:      service.NewBillingService(db, cfg.Billing.WhatsAppPhone, restaurantRepo, subRepo, codeRepo, log),
	}

	if cfg.SeedDemo {
		if err := service.SeedDemo(context.Background(), authService, userRepo, restaurantRepo, productRepo, log, time.Now()); err != nil {
			log.Errorf("seed: %v", err)
		}
	}

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	srv := server.NewServer(cfg, log, rdb, services)

	log.Infof("Starting HTTP server on %s (%s)", serverAddr, cfg.Environment.Name)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("Signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}
	if err := events.Close(); err != nil {
		log.Warnf("event publisher close: %v", err)
	}
	if err := client.CloseDBClient(db); err != nil {
		log.Warnf("database close: %v", err)
	}
}
