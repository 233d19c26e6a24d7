package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/railgo/train-booking-api/internal/config"
	"github.com/railgo/train-booking-api/internal/database"
	"github.com/railgo/train-booking-api/internal/handler"
	"github.com/railgo/train-booking-api/internal/middleware"
	"github.com/railgo/train-booking-api/internal/queue"
	"github.com/railgo/train-booking-api/internal/repository"
	"github.com/railgo/train-booking-api/internal/router"
	"github.com/railgo/train-booking-api/internal/service"
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

	// Redis is optional infrastructure; caching and rate limiting degrade
	// to pass-throughs when it is unreachable.
	rdb := config.NewRedisClient()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	trainRepo := repository.NewTrainRepo(db)
	routeRepo := repository.NewRouteRepo(db)
	scheduleRepo := repository.NewScheduleRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	ticketRepo := repository.NewTicketRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	ticketSvc := service.NewTicketService(db, ticketRepo, seatRepo, scheduleRepo)
	paymentSvc := service.NewPaymentService(db, paymentRepo, ticketRepo, seatRepo)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	userHandler := handler.NewUserHandler(cfg, userRepo)
	trainHandler := handler.NewTrainHandler(trainRepo)
	routeHandler := handler.NewRouteHandler(routeRepo)
	scheduleHandler := handler.NewScheduleHandler(scheduleRepo, trainRepo, routeRepo)
	seatHandler := handler.NewSeatHandler(seatRepo, scheduleRepo)
	ticketHandler := handler.NewTicketHandler(ticketSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, trainHandler, routeHandler, scheduleHandler, seatHandler, ticketHandler, cacheMW)
	router.RegisterUser(e, userHandler, ticketHandler, paymentHandler, cfg.JWTSecret, cfg.PaymentsEnabled)
	router.RegisterAdmin(e, userHandler, trainHandler, routeHandler, scheduleHandler, seatHandler,
		ticketHandler, paymentHandler, cfg.JWTSecret, cfg.PaymentsEnabled)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, payments=%v)", addr, cfg.Env, cfg.PaymentsEnabled)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
