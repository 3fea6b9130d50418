package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/LoayAhmed23/recipe-app-api/internal/middleware"
	"github.com/LoayAhmed23/recipe-app-api/internal/model"
	"github.com/LoayAhmed23/recipe-app-api/pkg/config"
	"github.com/LoayAhmed23/recipe-app-api/pkg/database"
	"github.com/LoayAhmed23/recipe-app-api/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	prometheus.InitMetrics(cfg)
	os.Exit(m.Run())
}

// newProtectedServer wires AuthMiddleware around a probe handler that
// reports the resolved user
func newProtectedServer(t *testing.T) *echo.Echo {
	t.Helper()

	require.NoError(t, database.Connect(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}))
	sqlDB, err := database.GetDB().DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, echo.Map{"email": user.Email})
	}, middleware.AuthMiddleware)
	return e
}

func request(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func seedToken(t *testing.T, email string, expiresAt time.Time) (*model.User, string) {
	t.Helper()
	user, err := model.CreateUser(database.GetDB(), email, "password", "")
	require.NoError(t, err)
	token := model.AuthToken{UserID: user.ID, ExpiresAt: expiresAt}
	require.NoError(t, database.GetDB().Create(&token).Error)
	return user, token.Token
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	e := newProtectedServer(t)
	_, token := seedToken(t, "user@example.com", time.Now().Add(time.Hour))

	rec := request(e, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user@example.com")
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	e := newProtectedServer(t)

	rec := request(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	e := newProtectedServer(t)
	_, token := seedToken(t, "user@example.com", time.Now().Add(time.Hour))

	for _, header := range []string{token, "Token " + token, "Bearer"} {
		rec := request(e, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthMiddlewareUnknownToken(t *testing.T) {
	e := newProtectedServer(t)

	rec := request(e, "Bearer this-token-does-not-exist")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	e := newProtectedServer(t)
	_, token := seedToken(t, "user@example.com", time.Now().Add(-time.Minute))

	rec := request(e, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareInactiveUser(t *testing.T) {
	e := newProtectedServer(t)
	user, token := seedToken(t, "user@example.com", time.Now().Add(time.Hour))

	require.NoError(t, database.GetDB().Model(user).Update("is_active", false).Error)

	rec := request(e, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
