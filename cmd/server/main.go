package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mkalinic/travel-booking-api/internal/booking"
	"github.com/mkalinic/travel-booking-api/internal/config"
	"github.com/mkalinic/travel-booking-api/internal/database"
	"github.com/mkalinic/travel-booking-api/internal/handler"
	"github.com/mkalinic/travel-booking-api/internal/queue"
	"github.com/mkalinic/travel-booking-api/internal/repository"
	"github.com/mkalinic/travel-booking-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: with no client the cache and rate limiter
	// become pass-throughs.
	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	tripRepo := repository.NewTripRepo(db)
	arrangementRepo := repository.NewArrangementRepo(db)
	planRepo := repository.NewPlanRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	bookingSvc := booking.NewService(arrangementRepo, reservationRepo)

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	browseH := handler.NewBrowseHandler(tripRepo, arrangementRepo, planRepo)
	bookingH := handler.NewBookingHandler(bookingSvc, reservationRepo, arrangementRepo, tripRepo)
	agentH := handler.NewAgentHandler(tripRepo, arrangementRepo, planRepo, reservationRepo)
	paymentH := handler.NewPaymentHandler(paymentRepo, reservationRepo)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, browseH, bookingH, cacheCfg, rlCfg, rdb)
	router.RegisterTraveler(e, bookingH, paymentH, cfg.JWTSecret)
	router.RegisterAgent(e, agentH, cfg.JWTSecret)
	router.RegisterFinance(e, paymentH, cfg.JWTSecret)

	// The consumer reconnects forever on its own; a crash here must not
	// take the API down.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
