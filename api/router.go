package api

import (
	"github.com/Domenick1991/dummydata/internal/middleware"
	"github.com/Domenick1991/dummydata/internal/service/dummy"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/Domenick1991/dummydata/internal/docs"
)

type SessionAuthenticator interface {
	Authenticator
	middleware.TokenValidator
}

type RouterConfig struct {
	Dummy      dummy.DummyUseCase
	Auth       SessionAuthenticator
	DB         Pinger
	CookieName string
	// TemplatesDir overrides the built-in page templates when set.
	TemplatesDir string
	Log          *zap.Logger
}

// NewRouter wires every handler. Everything under /home requires a session.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(cfg.Log))

	if cfg.TemplatesDir != "" {
		r.LoadHTMLGlob(cfg.TemplatesDir + "/*.html")
	} else {
		tmpl, err := Templates()
		if err != nil {
			return nil, err
		}
		r.SetHTMLTemplate(tmpl)
	}

	NewHealthHandler(cfg.DB).Register(&r.RouterGroup)
	NewAuthHandler(cfg.Auth, cfg.CookieName).Register(r.Group("/auth"))
	r.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))

	home := r.Group("/home", middleware.RequireSession(cfg.Auth, cfg.CookieName))
	NewHomeHandler(cfg.Dummy.Tables).Register(home)
	NewDummyHandler(cfg.Dummy).Register(home.Group("/api"))

	return r, nil
}
