package main // Entry point package

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/isazadesabuhi/studxus-backend/internal/config"
	"github.com/isazadesabuhi/studxus-backend/internal/database"
	"github.com/isazadesabuhi/studxus-backend/internal/handler"
	"github.com/isazadesabuhi/studxus-backend/internal/logger"
	"github.com/isazadesabuhi/studxus-backend/internal/middleware"
	"github.com/isazadesabuhi/studxus-backend/internal/queue"
	"github.com/isazadesabuhi/studxus-backend/internal/repository"
	"github.com/isazadesabuhi/studxus-backend/internal/router"
	"github.com/isazadesabuhi/studxus-backend/internal/validation"
	"github.com/isazadesabuhi/studxus-backend/internal/ws"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	log := logger.New(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	if os.Getenv("MIGRATIONS") == "1" {
		if err := database.Migrate(db, cfg.DBName); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
		log.Info().Msg("migrations applied")
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, rate limiting and caching disabled")
	}

	go func() {
		if err := queue.StartBookingConsumer(log); err != nil {
			log.Warn().Err(err).Msg("booking consumer stopped")
		}
	}()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	profiles := repository.NewProfileRepo(db)
	courses := repository.NewCourseRepo(db)
	sessions := repository.NewSessionRepo(db)
	bookings := repository.NewBookingRepo(db)
	conversations := repository.NewConversationRepo(db)
	messages := repository.NewMessageRepo(db)

	hub := ws.NewHub(log)

	h := router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users, tokens),
		Profile: handler.NewProfileHandler(profiles),
		Course:  handler.NewCourseHandler(courses),
		Session: handler.NewSessionHandler(courses, sessions),
		Booking: handler.NewBookingHandler(bookings, courses, sessions, log),
		Message: handler.NewMessageHandler(conversations, messages, users, hub),
		Browse:  handler.NewBrowseHandler(courses, sessions),
		WS:      handler.NewWSHandler(cfg.JWTSecret, hub),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	var extra []echo.MiddlewareFunc
	var cacheMW echo.MiddlewareFunc
	if rdb != nil {
		rlCfg := config.LoadRateLimitConfig()
		if rlCfg.Enabled {
			extra = append(extra, middleware.NewTokenBucket(rlCfg, rdb))
		}
		cCfg := config.LoadCacheConfig()
		if cCfg.Enabled {
			cacheMW = middleware.NewRedisCache(cCfg, rdb)
		}
	}

	router.Register(e, h, cfg.JWTSecret, extra, cacheMW)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
