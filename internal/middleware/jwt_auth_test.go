package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pageturn/forum-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID uint, role string, secret string) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func whoAmI(c echo.Context) error {
	claims := CurrentUser(c)
	if claims == nil {
		return c.JSON(http.StatusOK, echo.Map{"anonymous": true})
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": claims.UserID})
}

func request(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	e.GET("/private", whoAmI, JWTAuth(testSecret))

	rec := request(e, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = request(e, "/private", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = request(e, "/private", signToken(t, 42, models.RoleUser, "wrong-secret"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = request(e, "/private", signToken(t, 42, models.RoleUser, testSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":42`)
}

func TestOptionalAuthFallsBackToAnonymous(t *testing.T) {
	e := echo.New()
	e.GET("/public", whoAmI, OptionalAuth(testSecret))

	rec := request(e, "/public", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "anonymous")

	rec = request(e, "/public", "garbage")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "anonymous")

	rec = request(e, "/public", signToken(t, 7, models.RoleUser, testSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
}

func TestAdminOnly(t *testing.T) {
	e := echo.New()
	e.GET("/admin", whoAmI, JWTAuth(testSecret), AdminOnly())

	rec := request(e, "/admin", signToken(t, 1, models.RoleUser, testSecret))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = request(e, "/admin", signToken(t, 1, models.RoleAdmin, testSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
}
