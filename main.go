package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-calendar/internal/auth"
	"ms-calendar/internal/calendar"
	"ms-calendar/internal/calendar/calendar_api"
	"ms-calendar/internal/config"
	"ms-calendar/internal/database/migrations"
	event_db "ms-calendar/internal/events/db"
	"ms-calendar/internal/kafka"
	"ms-calendar/internal/logger"
	"ms-calendar/internal/rsvp"
	rsvp_db "ms-calendar/internal/rsvp/db"
	"ms-calendar/internal/rsvp/pass"
	"ms-calendar/internal/rsvp/rsvp_api"
	"ms-calendar/internal/search"
	"ms-calendar/internal/search/search_api"
	sub_cache "ms-calendar/internal/subscriptions/cache"
	sub_db "ms-calendar/internal/subscriptions/db"
	subscriptions "ms-calendar/internal/subscriptions/service"
	"ms-calendar/internal/subscriptions/sub_api"
	"ms-calendar/internal/weather"
)

func verifyConnections(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*bun.DB, *redis.Client) {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		logger.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			logger.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		logger.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)
	logger.Info("DATABASE", "✅ PostgreSQL connection successful")

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	logger.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))

	return bunDB, redisClient
}

// consumeBillingEvents feeds billing success callbacks from the payment
// collaborator's topic into subscription activation.
func consumeBillingEvents(ctx context.Context, cfg *config.Config, subSvc *subscriptions.Service, logger *logger.Logger) {
	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.BillingSucceeded, cfg.Kafka.GroupID)

	go func() {
		defer consumer.Close()
		consumer.Start(ctx, func(key, value []byte) {
			var payload struct {
				BillingRef string `json:"billing_ref"`
			}
			if err := json.Unmarshal(value, &payload); err != nil {
				logger.Warn("KAFKA", fmt.Sprintf("Malformed billing event: %v", err))
				return
			}

			if _, err := subSvc.Activate(ctx, payload.BillingRef); err != nil {
				logger.Error("KAFKA", fmt.Sprintf("Failed to activate subscription for billing ref %s: %v", payload.BillingRef, err))
				return
			}
			logger.LogKafka("CONSUME", cfg.Kafka.Topics.BillingSucceeded, "subscription activated for "+payload.BillingRef)
		})
	}()
}

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Calendar Service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, logger)
	defer bunDB.Close()
	defer redisClient.Close()

	runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
	if err := runner.RunMigrations(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
	}

	var notifier *kafka.Notifier
	if cfg.Kafka.Enabled {
		logger.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Kafka.Brokers))
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()

		requiredTopics := []string{
			cfg.Kafka.Topics.SubscriptionCreated,
			cfg.Kafka.Topics.SubscriptionRemoved,
			cfg.Kafka.Topics.SubscriptionActivated,
			cfg.Kafka.Topics.RSVPUpdated,
			cfg.Kafka.Topics.BillingSucceeded,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			logger.Info("KAFKA", "Required topics ensured successfully")
		}

		notifier = kafka.NewNotifier(producer, cfg.Kafka.Topics)
	} else {
		logger.Warn("KAFKA", "Kafka disabled, domain events will not be published")
	}

	eventDB := &event_db.DB{Bun: bunDB}
	rsvpDB := &rsvp_db.DB{Bun: bunDB}
	subDB := &sub_db.DB{Bun: bunDB}
	entitlementCache := sub_cache.NewCache(redisClient)

	var subNotify subscriptions.Notifier
	var rsvpNotify rsvp.Notifier
	if notifier != nil {
		subNotify = notifier
		rsvpNotify = notifier
	}

	subSvc := subscriptions.NewService(subDB, entitlementCache, subNotify, cfg.SubscriptionTTL)
	subSvc.CacheTTL = cfg.Redis.EntitlementTTL

	var weatherClient calendar.WeatherProvider
	if cfg.Weather.Enabled {
		weatherClient = weather.NewClient(cfg.Weather.BaseURL, &http.Client{Timeout: 5 * time.Second})
		logger.Info("APP", "Weather enrichment enabled")
	}

	calendarSvc := calendar.NewService(eventDB, rsvpDB, subSvc, weatherClient)
	rsvpSvc := rsvp.NewService(rsvpDB, eventDB, rsvpNotify, pass.NewGenerator(cfg.PassSecret))
	searchSvc := search.NewService(eventDB)

	subHandler := sub_api.NewHandler(subSvc, eventDB, logger)
	calendarHandler := calendar_api.NewHandler(calendarSvc, logger)
	rsvpHandler := rsvp_api.NewHandler(rsvpSvc, logger)
	searchHandler := search_api.NewHandler(searchSvc, logger)

	if cfg.Kafka.Enabled {
		logger.Info("KAFKA", "Starting billing event consumer")
		consumeBillingEvents(ctx, cfg, subSvc, logger)
	}

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Group(func(r chi.Router) {
		if cfg.OIDC.Issuer != "" {
			r.Use(auth.Middleware(cfg.OIDC.Issuer))
			logger.Info("AUTH", "OIDC middleware applied to protected API routes")
		} else {
			r.Use(auth.DevMiddleware())
			logger.Warn("AUTH", "OIDC issuer not set, running with UNVERIFIED dev token middleware")
		}

		r.Route("/api", func(r chi.Router) {
			subHandler.RegisterRoutes(r)
			calendarHandler.RegisterRoutes(r)
			rsvpHandler.RegisterRoutes(r)
			searchHandler.RegisterRoutes(r)
		})
	})
	logger.Info("ROUTER", "Routes registered under /api")

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Calendar Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ Calendar Service shutdown complete")
	}
}
