package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/dummydata/config"
	"github.com/Domenick1991/dummydata/internal/apperror"
	"github.com/Domenick1991/dummydata/internal/cache"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionClosed      = errors.New("session is closed")
)

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Session is an issued login token.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Authenticator struct {
	secret   []byte
	ttl      time.Duration
	users    map[string][]byte
	sessions cache.SessionStore
	now      func() time.Time
}

func NewAuthenticator(cfg config.AuthConfig, sessions cache.SessionStore) *Authenticator {
	users := make(map[string][]byte, len(cfg.Users))
	for _, u := range cfg.Users {
		users[u.Username] = []byte(u.PasswordHash)
	}
	return &Authenticator{
		secret:   []byte(cfg.JWTSecret),
		ttl:      time.Duration(cfg.SessionTTLMinutes) * time.Minute,
		users:    users,
		sessions: sessions,
		now:      time.Now,
	}
}

// HashPassword returns a bcrypt hash suitable for auth.users[].password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *Authenticator) Login(ctx context.Context, username, password string) (*Session, error) {
	hash, ok := a.users[username]
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return nil, &apperror.Error{Kind: apperror.KindUnauthorized, Err: ErrInvalidCredentials}
	}

	now := a.now()
	sessionID := uuid.NewString()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	if err := a.sessions.CreateSession(ctx, sessionID, username, a.ttl); err != nil {
		return nil, apperror.DataStore(fmt.Errorf("store session: %w", err))
	}
	return &Session{Token: token, Username: username, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Validate checks the token signature and expiry and that its session is
// still open.
func (a *Authenticator) Validate(ctx context.Context, token string) (*Claims, error) {
	claims, err := a.parse(token)
	if err != nil {
		return nil, err
	}
	open, err := a.sessions.SessionExists(ctx, claims.ID)
	if err != nil {
		return nil, apperror.DataStore(err)
	}
	if !open {
		return nil, &apperror.Error{Kind: apperror.KindUnauthorized, Err: ErrSessionClosed}
	}
	return claims, nil
}

func (a *Authenticator) Logout(ctx context.Context, token string) error {
	claims, err := a.parse(token)
	if err != nil {
		return err
	}
	if err := a.sessions.DeleteSession(ctx, claims.ID); err != nil {
		return apperror.DataStore(err)
	}
	return nil
}

func (a *Authenticator) parse(token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, &apperror.Error{Kind: apperror.KindUnauthorized, Err: err}
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, apperror.Unauthorized("invalid token")
	}
	return c, nil
}
