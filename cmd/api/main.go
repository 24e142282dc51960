package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/eventhive/booking-core/internal/adapter/handler"
	"github.com/eventhive/booking-core/internal/adapter/repository/postgres"
	"github.com/eventhive/booking-core/internal/config"
	"github.com/eventhive/booking-core/internal/core/services"
	"github.com/eventhive/booking-core/internal/platform/cache"
	"github.com/eventhive/booking-core/internal/platform/database"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	db, err := database.NewPostgresDB(database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to db after retries: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	defer db.Close()

	log.Printf("Connecting to Redis at %s...", cfg.RedisAddr)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Redis connected successfully!")

	availability := cache.NewAvailabilityCache(redisClient, cfg.AvailabilityTTL)

	catalogRepo := postgres.NewCatalogRepository(db)
	couponRepo := postgres.NewCouponRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)

	catalogService := services.NewCatalogService(catalogRepo, availability)
	bookingService := services.NewBookingService(
		catalogService, couponRepo, bookingRepo, availability,
		cfg.PendingTTL, cfg.SweepInterval, cfg.SweepBatch,
	)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	bookingHandler := handler.NewBookingHandler(bookingService)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()

	go bookingService.RunBackgroundSweep(sweepCtx)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/events/{eventID}/availability", catalogHandler.Availability)

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", bookingHandler.Reserve)
		r.Get("/{bookingID}", bookingHandler.Get)
		r.Post("/{bookingID}/confirm", bookingHandler.Confirm)
		r.Post("/{bookingID}/cancel", bookingHandler.Cancel)
		r.Post("/{bookingID}/refund", bookingHandler.Refund)
		r.Post("/{bookingID}/checkin", bookingHandler.CheckIn)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
