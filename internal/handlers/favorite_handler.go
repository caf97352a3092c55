package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pageturn/forum-backend/internal/middleware"
	"github.com/pageturn/forum-backend/internal/models"
	"github.com/pageturn/forum-backend/internal/repositories"
)

// FavoriteHandler handles the caller's favorite posts
type FavoriteHandler struct {
	favorites repositories.FavoriteRepository
	posts     repositories.PostRepository
}

// NewFavoriteHandler creates a new FavoriteHandler
func NewFavoriteHandler(
	favorites repositories.FavoriteRepository,
	posts repositories.PostRepository,
) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, posts: posts}
}

// RegisterFavoriteRoutes registers authenticated favorite routes
func (h *FavoriteHandler) RegisterFavoriteRoutes(g *echo.Group) {
	g.GET("/favorites", h.ListFavorites)
	g.POST("/posts/:post_id/favorite", h.AddFavorite)
	g.DELETE("/posts/:post_id/favorite", h.RemoveFavorite)
}

// ListFavorites returns the caller's favorited posts, most recently added first
func (h *FavoriteHandler) ListFavorites(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "pageSize", 10)

	favorites, err := h.favorites.ListFavorites(claims.UserID, page, pageSize)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, favorites)
}

// AddFavorite marks an active post as favorite; repeating the call is a no-op.
func (h *FavoriteHandler) AddFavorite(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}
	post, err := h.posts.GetPost(id)
	if err != nil {
		return mapStoreError(err)
	}
	if post.Status != models.StatusActive {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot favorite an inactive post")
	}
	if err := h.favorites.AddFavorite(claims.UserID, id); err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post favorited"})
}

// RemoveFavorite unmarks a post as favorite
func (h *FavoriteHandler) RemoveFavorite(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}
	if err := h.favorites.RemoveFavorite(claims.UserID, id); err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Favorite removed"})
}
