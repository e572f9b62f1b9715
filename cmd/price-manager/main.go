package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"price-manager/internal/api"
	"price-manager/internal/config"
	"price-manager/internal/consumer"
	"price-manager/internal/repository"
	"price-manager/internal/service"
	"price-manager/migrations"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "price-manager").Logger()

func connectDB(cfg config.MySQLConfig) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < cfg.MaxRetries; i++ {
		db, err = sql.Open("mysql", cfg.DSN())
		if err == nil {
			err = db.Ping()
			if err == nil {
				logger.Info().Str("db", cfg.Name).Msg("connected to DB")
				return db, nil
			}
			db.Close()
		}
		logger.Warn().Err(err).Int("attempt", i+1).Str("host", cfg.Host).Msg("failed to connect to DB")
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %w", cfg.Name, cfg.Host, cfg.Port, err)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	cfg.ApplyLogLevel()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := connectDB(cfg.MySQL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()

	if err := migrations.AutoMigrate(ctx, 3, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to Redis")
	}

	productWriter := config.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.ProductTopic)
	defer productWriter.Close()
	priceWriter := config.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.PriceTopic)
	defer priceWriter.Close()
	productReader := config.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.ProductTopic, cfg.Kafka.GroupID)
	defer productReader.Close()

	channelRepo := repository.NewChannelRepository(db)
	discountRepo := repository.NewDiscountRepository(db)

	markupService := service.NewMarkupService(channelRepo, rdb, cfg.Redis.MarkupTTL)
	pricingService := service.NewPricingService(markupService, discountRepo, priceWriter, cfg.App.Currency)
	discountService := service.NewDiscountService(discountRepo)
	webhookService := service.NewWebhookService(rdb, productWriter, markupService)

	e := api.NewServer(api.ServerConfig{
		Service:   cfg.App.Name,
		JWTSecret: cfg.Auth.JWTSecret,
		Rate:      cfg.RateLimit.Rate,
		Burst:     cfg.RateLimit.Burst,
		ExpiresIn: cfg.RateLimit.ExpiresIn,
	}, api.Handlers{
		Channels:  api.NewChannelHandler(markupService),
		Pricing:   api.NewPricingHandler(pricingService),
		Discounts: api.NewDiscountHandler(discountService),
		Webhooks:  api.NewWebhookHandler(webhookService),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("port", cfg.App.Port).Msg("http server started")
		if err := e.Start(":" + cfg.App.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return consumer.NewConsumer(productReader, pricingService).Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("service stopped with error")
		os.Exit(1)
	}
	logger.Info().Msg("service stopped")
}
