package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/Domenick1991/dummydata/internal/middleware"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templates embed.FS

const homeTemplate = "homepage.html"

// Templates parses the built-in page templates.
func Templates() (*template.Template, error) {
	return template.ParseFS(templates, "templates/*.html")
}

type HomeHandler struct {
	tables func() []string
}

func NewHomeHandler(tables func() []string) *HomeHandler {
	return &HomeHandler{tables: tables}
}

func (h *HomeHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.home)
}

func (h *HomeHandler) home(c *gin.Context) {
	c.HTML(http.StatusOK, homeTemplate, gin.H{
		"Username": c.GetString(middleware.UsernameKey),
		"Tables":   h.tables(),
	})
}
