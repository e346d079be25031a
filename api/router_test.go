package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Domenick1991/dummydata/config"
	"github.com/Domenick1991/dummydata/internal/auth"
	"github.com/Domenick1991/dummydata/internal/cache"
	"github.com/Domenick1991/dummydata/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

const cookieName = "dummy_session"

func newTestRouter(t *testing.T, svc *MockDummyUseCase, db *MockPinger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	authenticator := auth.NewAuthenticator(config.AuthConfig{
		JWTSecret:         "router-test",
		SessionTTLMinutes: 10,
		Users:             []config.UserConfig{{Username: "admin", PasswordHash: string(hash)}},
	}, cache.NewMemoryCache())

	r, err := NewRouter(RouterConfig{
		Dummy:      svc,
		Auth:       authenticator,
		DB:         db,
		CookieName: cookieName,
		Log:        zap.NewNop(),
	})
	require.NoError(t, err)
	return r
}

func serve(r http.Handler, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestRouter_Unauthenticated(t *testing.T) {
	svc := &MockDummyUseCase{}
	r := newTestRouter(t, svc, &MockPinger{})

	for _, target := range []string{
		"/home/",
		"/home/api/dummy/generate?generate_num=10&table_name=bookings&mode=y",
		"/home/api/dummy/show?table_name=bookings",
	} {
		w := serve(r, http.MethodGet, target, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
	}

	w := serve(r, http.MethodGet, "/home/", "", &http.Cookie{Name: cookieName, Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	svc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "Show", mock.Anything, mock.Anything)
}

func TestRouter_SessionFlow(t *testing.T) {
	svc := &MockDummyUseCase{}
	r := newTestRouter(t, svc, &MockPinger{})

	svc.On("Tables").Return([]string{"bookings"})
	svc.On("Generate", mock.Anything, "bookings", 3, domain.ModeAppend).
		Return(domain.GenerationResult{Table: "bookings", Inserted: 3, Mode: domain.ModeAppend}, nil)

	// неверный пароль
	w := serve(r, http.MethodPost, "/auth/login", `{"username":"admin","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodPost, "/auth/login", `{"username":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPost, "/auth/login", `{"username":"admin","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	w = serve(r, http.MethodGet, "/home/", "", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<option value="bookings">bookings</option>`)
	assert.Contains(t, w.Body.String(), "admin")

	w = serve(r, http.MethodGet, "/home/api/dummy/generate?generate_num=3&table_name=bookings", "", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(r, http.MethodPost, "/auth/logout", "", cookie)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(r, http.MethodGet, "/home/", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNumberOfCalls(t, "Generate", 1)
}

func TestRouter_Logout_WithoutSession(t *testing.T) {
	r := newTestRouter(t, &MockDummyUseCase{}, &MockPinger{})

	w := serve(r, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_Health(t *testing.T) {
	db := &MockPinger{}
	r := newTestRouter(t, &MockDummyUseCase{}, db)

	db.On("PingContext", mock.Anything).Return(nil).Once()
	w := serve(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	db.On("PingContext", mock.Anything).Return(errors.New("connection refused")).Once()
	w = serve(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestRouter_SwaggerDoc(t *testing.T) {
	r := newTestRouter(t, &MockDummyUseCase{}, &MockPinger{})

	w := serve(r, http.MethodGet, "/swagger/doc.json", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/home/api/dummy/generate")
}

func TestTemplates(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)
	assert.NotNil(t, tmpl.Lookup(homeTemplate))
}
