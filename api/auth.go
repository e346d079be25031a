package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Domenick1991/dummydata/internal/apperror"
	"github.com/Domenick1991/dummydata/internal/auth"
	"github.com/Domenick1991/dummydata/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Login(ctx context.Context, username, password string) (*auth.Session, error)
	Logout(ctx context.Context, token string) error
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	auth       Authenticator
	cookieName string
}

func NewAuthHandler(a Authenticator, cookieName string) *AuthHandler {
	return &AuthHandler{auth: a, cookieName: cookieName}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/login", h.login)
	router.POST("/logout", h.logout)
}

// login godoc
// @Summary  Open a session
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    credentials body loginRequest true "Credentials"
// @Success  200 {object} auth.Session
// @Failure  400 {object} errorResponse
// @Failure  401 {object} errorResponse
// @Router   /auth/login [post]
func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	sess, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(apperror.StatusOf(err), errorResponse{Error: err.Error()})
		return
	}

	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, sess.Token, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, sess)
}

// logout godoc
// @Summary  Close the current session
// @Tags     auth
// @Success  204
// @Failure  401 {object} errorResponse
// @Router   /auth/logout [post]
func (h *AuthHandler) logout(c *gin.Context) {
	token := middleware.BearerToken(c, h.cookieName)
	if token == "" {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		c.JSON(apperror.StatusOf(err), errorResponse{Error: err.Error()})
		return
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
