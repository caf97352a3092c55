package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pageturn/forum-backend/internal/models"
	"github.com/pageturn/forum-backend/internal/notify"
	"github.com/pageturn/forum-backend/internal/repositories"
	"github.com/pageturn/forum-backend/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler handles registration, login and password resets
type AuthHandler struct {
	users     repositories.UserRepository
	resets    repositories.PasswordResetRepository
	mailer    notify.Mailer
	jwtSecret string
	jwtExpiry time.Duration
	baseURL   string
}

// NewAuthHandler creates a new AuthHandler. mailer may be nil when outbound
// email is disabled; reset requests then succeed without sending anything.
func NewAuthHandler(
	users repositories.UserRepository,
	resets repositories.PasswordResetRepository,
	mailer notify.Mailer,
	jwtSecret string,
	jwtExpiryHrs int,
	baseURL string,
) *AuthHandler {
	return &AuthHandler{
		users:     users,
		resets:    resets,
		mailer:    mailer,
		jwtSecret: jwtSecret,
		jwtExpiry: time.Duration(jwtExpiryHrs) * time.Hour,
		baseURL:   baseURL,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.POST("/request-reset", h.RequestPasswordReset)
	g.POST("/reset-password", h.ResetPassword)
}

// Register handles user registration
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Duplicate login or email is rejected up front; the unique indexes and
	// mapStoreError catch the race, with the same status code.
	if _, err := h.users.GetUserByLoginOrEmail(req.Login); err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Login or email already used")
	}
	if _, err := h.users.GetUserByLoginOrEmail(req.Email); err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Login or email already used")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Login:    req.Login,
		Email:    req.Email,
		Password: string(hashed),
		FullName: req.FullName,
		Role:     models.RoleUser,
	}
	if err := h.users.CreateUser(user); err != nil {
		return mapStoreError(err)
	}

	return c.JSON(http.StatusCreated, user)
}

// Login authenticates by login or email and issues a JWT
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.GetUserByLoginOrEmail(req.Login)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

// Logout acknowledges logout; bearer tokens are dropped client-side.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// RequestPasswordReset issues a single-use token and emails a reset link.
// A mail failure is logged, not surfaced: the token stays valid.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req models.RequestPasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.GetUserByLoginOrEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "No such user")
		}
		return mapStoreError(err)
	}

	token, err := h.resets.CreateToken(user.ID)
	if err != nil {
		return mapStoreError(err)
	}

	if h.mailer != nil {
		resetLink := fmt.Sprintf("%s/api/v1/auth/reset-password?token=%s", h.baseURL, token)
		body := fmt.Sprintf(`<p>Reset link: <a href="%s">%s</a></p>`, resetLink, resetLink)
		if err := h.mailer.Send(user.Email, "Password reset", body); err != nil {
			logger.L().Warn("password reset email failed",
				zap.String("to", user.Email), zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Reset requested"})
}

// ResetPassword consumes a valid token and replaces the password hash
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	record, err := h.resets.FindValidToken(req.Token)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired token")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}
	if err := h.users.UpdatePassword(record.UserID, string(hashed)); err != nil {
		return mapStoreError(err)
	}
	if err := h.resets.ConsumeToken(record.ID); err != nil {
		return mapStoreError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successfully"})
}

func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
