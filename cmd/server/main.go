package main

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/bike-rental-booking/internal/config"
	"github.com/iliyamo/bike-rental-booking/internal/database"
	"github.com/iliyamo/bike-rental-booking/internal/handler"
	"github.com/iliyamo/bike-rental-booking/internal/middleware"
	"github.com/iliyamo/bike-rental-booking/internal/queue"
	"github.com/iliyamo/bike-rental-booking/internal/repository"
	"github.com/iliyamo/bike-rental-booking/internal/router"
	"github.com/iliyamo/bike-rental-booking/internal/service"
)

// requestValidator adapts validator/v10 to Echo's Validator interface.
type requestValidator struct {
	v *validator.Validate
}

func (rv *requestValidator) Validate(i interface{}) error {
	return rv.v.Struct(i)
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	// Repositories and the write-side store.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	bikes := repository.NewBikeRepo(db)
	bookings := repository.NewBookingRepo(db)
	reviews := repository.NewReviewRepo(db)
	store := repository.NewBookingStore(db)

	publisher := queue.NewEventPublisher()
	svc := service.NewBookingService(store, users, publisher)

	// Background consumer appends booking events to logs/booking.log.
	go func() {
		if err := queue.StartEventConsumer(); err != nil {
			log.Printf("event consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{v: validator.New()}
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(middleware.Metrics())

	// Redis is optional: rate limiting and response caching disable
	// themselves when no client is available.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	// The browse-sized bucket covers everything; booking routes get a
	// second, smaller bucket on top (see RegisterCustomer).
	rlCfg := config.LoadRateLimitConfig()
	e.Use(middleware.NewTokenBucket(rlCfg, rdb))
	bookingLimit := middleware.NewTokenBucket(rlCfg.ForBookingRoutes(), rdb)
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(bikes, reviews, svc)
	bookingH := handler.NewBookingHandler(svc, bookings, users)
	reviewH := handler.NewReviewHandler(reviews, bikes)
	adminH := handler.NewAdminHandler(bikes, bookings, svc)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, cacheMW)
	router.RegisterCustomer(e, bookingH, reviewH, cfg.JWTSecret, bookingLimit)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
