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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dmarchuk/storefront/internal/config"
	"github.com/dmarchuk/storefront/internal/db"
	"github.com/dmarchuk/storefront/internal/es"
	"github.com/dmarchuk/storefront/internal/events"
	"github.com/dmarchuk/storefront/internal/gateway/stripe"
	"github.com/dmarchuk/storefront/internal/httpserver"
	"github.com/dmarchuk/storefront/internal/logging"
	"github.com/dmarchuk/storefront/internal/mail"
	loggingmw "github.com/dmarchuk/storefront/internal/middleware/logging"
	"github.com/dmarchuk/storefront/internal/repo"
	"github.com/dmarchuk/storefront/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmpty(cfg.StripeSecretKey, "STRIPE_SECRET_KEY")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	orderRepo := &repo.OrderRepo{DB: gormDB}
	userRepo := &repo.UserRepo{DB: gormDB}
	productRepo := &repo.ProductRepo{DB: gormDB}

	gatewayClient := stripe.New(stripe.Config{SecretKey: cfg.StripeSecretKey})

	var mailer service.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.New(mail.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.FromEmail,
		})
	} else {
		log.Println("SMTP_HOST not set, order confirmation mail disabled")
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
	} else {
		log.Println("KAFKA_BROKERS not set, order events disabled")
	}

	orderSvc := &service.OrderService{
		Orders:     orderRepo,
		Users:      userRepo,
		Gateway:    gatewayClient,
		Mailer:     mailer,
		AdminEmail: cfg.AdminEmail,
		Currency:   cfg.Currency,
	}
	if producer != nil {
		orderSvc.Events = producer
	}

	authSvc := &service.AuthService{Users: userRepo, JWTSecret: cfg.JWTSecret}

	catalogSvc := &service.CatalogService{Repo: productRepo, Index: es.ProductIndex}
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("es client: %v", err)
		}
		catalogSvc.ES = esClient
	} else {
		log.Println("ES_URL not set, product search falls back to the database")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler:         &httpserver.OrderHTTP{Svc: orderSvc},
		AuthHandler:          &httpserver.AuthHTTP{Svc: authSvc},
		ProductHandler:       &httpserver.ProductHTTP{Svc: catalogSvc},
		JWTSecret:            cfg.JWTSecret,
		PayPalClientID:       cfg.PayPalClientID,
		StripePublishableKey: cfg.StripePublishableKey,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("%s listening on %s", cfg.ServiceName, srv.Addr)
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

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("server stopped")
}
