package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pageturn/forum-backend/internal/middleware"
	"github.com/pageturn/forum-backend/internal/models"
	"github.com/pageturn/forum-backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	users     repositories.UserRepository
	stats     repositories.StatsRepository
	uploadDir string
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	users repositories.UserRepository,
	stats repositories.StatsRepository,
	uploadDir string,
) *UserHandler {
	return &UserHandler{users: users, stats: stats, uploadDir: uploadDir}
}

// RegisterPublicUserRoutes registers anonymous-readable user routes
func (h *UserHandler) RegisterPublicUserRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
}

// RegisterUserRoutes registers authenticated user routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/me", h.GetMe)
	g.GET("/users/:user_id", h.GetUser)
	g.GET("/users/:user_id/stats", h.GetUserStats)
	g.PATCH("/users/:user_id", h.UpdateUser)
	g.DELETE("/users/:user_id", h.DeleteUser)
}

// RegisterAdminUserRoutes registers admin-only user routes
func (h *UserHandler) RegisterAdminUserRoutes(g *echo.Group) {
	g.POST("/users", h.CreateUser)
}

// ListUsers lists users with optional search, role filter, sorting and
// pagination; the default order is rating descending.
func (h *UserHandler) ListUsers(c echo.Context) error {
	filters := repositories.UserFilters{
		Search:   c.QueryParam("search"),
		Role:     c.QueryParam("role"),
		Sort:     c.QueryParam("sort"),
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "pageSize", 10),
	}
	users, total, err := h.users.ListUsers(filters)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users, "total": total})
}

// GetUser retrieves a user's public profile
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseUintParam(c, "user_id")
	if err != nil {
		return err
	}
	user, err := h.users.GetUserByID(id)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetMe returns the authenticated caller's own profile
func (h *UserHandler) GetMe(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	user, err := h.users.GetUserByID(claims.UserID)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetUserStats returns the user's activity aggregates
func (h *UserHandler) GetUserStats(c echo.Context) error {
	id, err := parseUintParam(c, "user_id")
	if err != nil {
		return err
	}
	if _, err := h.users.GetUserByID(id); err != nil {
		return mapStoreError(err)
	}
	stats, err := h.stats.UserStats(id)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// UpdateUser edits a profile. Users edit themselves; admins edit anyone and
// are the only ones who can change roles. A multipart "avatar" file replaces
// the profile picture.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "user_id")
	if err != nil {
		return err
	}
	if !claims.IsAdmin() && claims.UserID != id {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this user")
	}

	user, err := h.users.GetUserByID(id)
	if err != nil {
		return mapStoreError(err)
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Role != "" && !claims.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, "Only admins can change roles")
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.ProfilePicture != "" {
		user.ProfilePicture = models.NormalizeImagePath(req.ProfilePicture)
	}
	if req.Role != "" {
		user.Role = req.Role
	}

	if file, err := c.FormFile("avatar"); err == nil {
		path, err := saveUpload(file, h.uploadDir)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store upload")
		}
		user.ProfilePicture = path
	}

	if err := h.users.UpdateUser(user); err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account; users delete themselves, admins delete anyone.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "user_id")
	if err != nil {
		return err
	}
	if !claims.IsAdmin() && claims.UserID != id {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this user")
	}
	if _, err := h.users.GetUserByID(id); err != nil {
		return mapStoreError(err)
	}
	if err := h.users.DeleteUser(id); err != nil {
		return mapStoreError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateUser lets an admin provision an account with an explicit role
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user := &models.User{
		Login:    req.Login,
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
	}
	if err := h.users.CreateUser(user); err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusCreated, user)
}
