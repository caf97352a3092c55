package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pageturn/forum-backend/internal/repositories"
)

// SearchHandler serves the combined search endpoint
type SearchHandler struct {
	posts repositories.PostRepository
	users repositories.UserRepository
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(
	posts repositories.PostRepository,
	users repositories.UserRepository,
) *SearchHandler {
	return &SearchHandler{posts: posts, users: users}
}

// RegisterSearchRoutes registers the search endpoint
func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
}

// Search looks up posts (default) or users by substring. ?type=users switches
// to user search; anything else searches active posts by title and content.
func (h *SearchHandler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if len(query) < 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query must be at least 2 characters")
	}

	if c.QueryParam("type") == "users" {
		users, err := h.users.SearchUsers(query)
		if err != nil {
			return mapStoreError(err)
		}
		return c.JSON(http.StatusOK, echo.Map{"users": users})
	}

	posts, err := h.posts.SearchPosts(
		query,
		c.QueryParam("sort"),
		parseIntQuery(c, "page", 1),
		parseIntQuery(c, "pageSize", 10),
	)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}
