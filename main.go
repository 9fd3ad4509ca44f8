package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/adesokan/walletcore/config"
	"github.com/adesokan/walletcore/db"
	"github.com/adesokan/walletcore/handlers"
	"github.com/adesokan/walletcore/providers"
	"github.com/adesokan/walletcore/queue"
	"github.com/adesokan/walletcore/routes"
	"github.com/adesokan/walletcore/services"
	"github.com/adesokan/walletcore/utils"
)

const shutdownTimeout = 10 * time.Second

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	cfg := config.Load()
	utils.InitLogger()

	var store db.Store
	switch cfg.Storage {
	case "postgres":
		sqlDB, err := db.InitPostgres(cfg)
		if err != nil {
			utils.Logger.Fatal().Err(err).Msg("failed to initialize postgres")
		}
		store = db.NewPostgresStore(sqlDB)
	default:
		store = db.NewMemoryStore()
	}
	defer func() { _ = store.Close() }()

	// Settlement jobs go through redis when it is reachable, otherwise
	// an in-process queue keeps local runs working.
	var jobQueue queue.Queue
	redisConn, err := utils.NewRedis(&cfg)
	if err != nil {
		utils.Logger.Warn().Err(err).Msg("redis unavailable, using in-memory queue")
		jobQueue = queue.NewMemoryQueue()
	} else {
		defer func() { _ = redisConn.Close() }()
		jobQueue = queue.NewRedisQueue(redisConn.GetClient())
	}

	processor := providers.SetupProcessor()
	svcs := services.NewServices(store, &cfg, jobQueue, processor)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svcs.StartWorkers(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: utils.InitValidator()}
	e.HTTPErrorHandler = utils.HTTPErrorHandler

	h := handlers.NewHandlers(svcs)
	routes.Register(e, h, &cfg)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			utils.Logger.Info().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		utils.Logger.Error().Err(err).Msg("server shutdown failed")
	}
}
