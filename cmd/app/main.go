package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/dummydata/api"
	"github.com/Domenick1991/dummydata/config"
	"github.com/Domenick1991/dummydata/internal/app"
	"github.com/Domenick1991/dummydata/internal/bootstrap"
	"github.com/Domenick1991/dummydata/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(config.PathFromEnv())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("init dependencies", zap.Error(err))
	}
	defer deps.Close()

	authenticator, err := deps.Authenticator(ctx)
	if err != nil {
		zl.Fatal("init sessions", zap.Error(err))
	}

	router, err := api.NewRouter(api.RouterConfig{
		Dummy:        deps.Dummy,
		Auth:         authenticator,
		DB:           deps.DB,
		CookieName:   cfg.Auth.CookieName,
		TemplatesDir: cfg.HTTP.TemplatesDir,
		Log:          zl,
	})
	if err != nil {
		zl.Fatal("init router", zap.Error(err))
	}

	if err := bootstrap.Run(ctx, cfg.HTTP, router, zl); err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}
