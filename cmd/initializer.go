package main

import (
	"database/sql"
	"log"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"kasiBack/internal/config"
	"kasiBack/internal/handlers"
	"kasiBack/internal/repositories"
	"kasiBack/internal/services"
)

type application struct {
	errorLog       *log.Logger
	infoLog        *log.Logger
	db             *sql.DB
	cache          *redis.Client
	listingHandler *handlers.ListingHandler
	paymentHandler *handlers.PaymentHandler
}

func initializeApp(db *sql.DB, cache *redis.Client, cfg config.Config, errorLog, infoLog *log.Logger) (*application, error) {
	// Repositories
	listingRepo := repositories.ListingRepository{DB: db}
	paymentRepo := repositories.PaymentRepository{DB: db}

	// Services
	listingService := &services.ListingService{ListingRepo: &listingRepo, Cache: cache}
	payfastService, err := services.NewPayFastService(services.PayFastConfig{
		MerchantID:  cfg.PayFast.MerchantID,
		MerchantKey: cfg.PayFast.MerchantKey,
		ProcessURL:  cfg.PayFast.ProcessURL,
		Passphrase:  cfg.PayFast.Passphrase,
		AmountCents: cfg.PayFast.PremiumCents,
		SiteURL:     cfg.Server.SiteURL,
		Logger:      slog.Default(),
	})
	if err != nil {
		return nil, err
	}
	paymentService := &services.PaymentService{
		Store:    listingService,
		Gateway:  payfastService,
		Attempts: &paymentRepo,
	}

	// Handlers
	renderer, err := handlers.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	listingHandler := &handlers.ListingHandler{Service: listingService, Renderer: renderer}
	paymentHandler := &handlers.PaymentHandler{
		Payments: paymentService,
		Listings: listingService,
		Renderer: renderer,
	}

	return &application{
		errorLog:       errorLog,
		infoLog:        infoLog,
		db:             db,
		cache:          cache,
		listingHandler: listingHandler,
		paymentHandler: paymentHandler,
	}, nil
}
