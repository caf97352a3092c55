package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pageturn/forum-backend/internal/models"
)

const userContextKey = "user"

// JWTAuth checks for a valid bearer token and stores the claims in context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := claimsFromHeader(c, secret)
			if err != nil {
				return err
			}
			c.Set(userContextKey, claims)
			return next(c)
		}
	}
}

// OptionalAuth extracts claims when a valid bearer token is present and
// continues anonymously otherwise. Public listings use it so the visibility
// policy can see the caller's identity.
func OptionalAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := claimsFromHeader(c, secret); err == nil {
				c.Set(userContextKey, claims)
			}
			return next(c)
		}
	}
}

// AdminOnly rejects callers whose claims lack the admin role. Must run after
// JWTAuth.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := CurrentUser(c)
			if claims == nil || !claims.IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated claims, or nil for anonymous callers.
func CurrentUser(c echo.Context) *models.JwtCustomClaims {
	if claims, ok := c.Get(userContextKey).(*models.JwtCustomClaims); ok {
		return claims
	}
	return nil
}

func claimsFromHeader(c echo.Context, secret string) (*models.JwtCustomClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
	}

	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	return claims, nil
}
