package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/quickbite/ordering/internal/config"
	"github.com/quickbite/ordering/internal/order"
	"github.com/quickbite/ordering/internal/pricing"
	"github.com/quickbite/ordering/internal/promotion"
	"github.com/quickbite/ordering/internal/session"
	"github.com/quickbite/ordering/internal/transport"
)

// knownPromotions is the seed catalog. In a full deployment this would come
// from a campaign backend; the validator only ever reads it.
func knownPromotions() []promotion.Promotion {
	return []promotion.Promotion{
		{
			Code:        "SAVE10",
			Description: "10% off your order",
			Type:        promotion.DiscountPercentage,
			Rate:        decimal.NewFromFloat(0.10),
			Active:      true,
		},
		{
			Code:        "FIVEOFF",
			Description: "$5 off orders of $20 or more",
			Type:        promotion.DiscountFixedAmount,
			Amount:      decimal.NewFromInt(5),
			MinSubtotal: decimal.NewFromInt(20),
			Active:      true,
		},
	}
}

func main() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "ordering-service").Logger()

	log.Info().Msg("Ordering service starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	pricingCfg := pricing.Config{
		TaxRate:     cfg.Pricing.TaxRate,
		DeliveryFee: cfg.Pricing.DeliveryFee,
	}
	validator := promotion.NewValidator(knownPromotions())
	sessions := session.NewManager(pricingCfg, validator)

	dwell := order.DwellTimes{
		order.StatusConfirmed:      cfg.Tracking.ConfirmedDwell,
		order.StatusPreparing:      cfg.Tracking.PreparingDwell,
		order.StatusOutForDelivery: cfg.Tracking.OutForDeliveryDwell,
	}
	registry := order.NewRegistry(dwell, cfg.Tracking.TickInterval)
	checkout := order.NewOrchestrator(registry)

	router := transport.NewRouter(sessions, checkout, registry)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}

	registry.StopAll()
	log.Info().Msg("Server stopped")
}
