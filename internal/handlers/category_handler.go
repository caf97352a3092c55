package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pageturn/forum-backend/internal/models"
	"github.com/pageturn/forum-backend/internal/repositories"
)

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	categories repositories.CategoryRepository
	posts      repositories.PostRepository
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(
	categories repositories.CategoryRepository,
	posts repositories.PostRepository,
) *CategoryHandler {
	return &CategoryHandler{categories: categories, posts: posts}
}

// RegisterPublicCategoryRoutes registers anonymous-readable category routes
func (h *CategoryHandler) RegisterPublicCategoryRoutes(g *echo.Group) {
	g.GET("/categories", h.ListCategories)
	g.GET("/categories/:category_id", h.GetCategory)
	g.GET("/categories/:category_id/posts", h.GetCategoryPosts)
}

// RegisterCategoryRoutes registers authenticated category routes
func (h *CategoryHandler) RegisterCategoryRoutes(g *echo.Group) {
	g.POST("/categories", h.CreateCategory)
}

// RegisterAdminCategoryRoutes registers admin-only category routes
func (h *CategoryHandler) RegisterAdminCategoryRoutes(g *echo.Group) {
	g.PATCH("/categories/:category_id", h.UpdateCategory)
	g.DELETE("/categories/:category_id", h.DeleteCategory)
}

// ListCategories returns all categories
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categories.ListCategories()
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCategory retrieves a single category
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := parseUintParam(c, "category_id")
	if err != nil {
		return err
	}
	category, err := h.categories.GetCategoryByID(id)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, category)
}

// GetCategoryPosts lists the posts linked to a category
func (h *CategoryHandler) GetCategoryPosts(c echo.Context) error {
	id, err := parseUintParam(c, "category_id")
	if err != nil {
		return err
	}
	if _, err := h.categories.GetCategoryByID(id); err != nil {
		return mapStoreError(err)
	}
	posts, err := h.posts.PostsByCategory(id)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// CreateCategory creates a category; titles are unique case-insensitively.
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req models.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category := &models.Category{Title: req.Title, Description: req.Description}
	if err := h.categories.CreateCategory(category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateTitle) {
			return echo.NewHTTPError(http.StatusBadRequest, "Category title already exists")
		}
		return mapStoreError(err)
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory updates a category's title or description
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := parseUintParam(c, "category_id")
	if err != nil {
		return err
	}
	category, err := h.categories.GetCategoryByID(id)
	if err != nil {
		return mapStoreError(err)
	}

	var req models.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Title != "" {
		category.Title = req.Title
	}
	if req.Description != "" {
		category.Description = req.Description
	}
	if err := h.categories.UpdateCategory(category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateTitle) {
			return echo.NewHTTPError(http.StatusBadRequest, "Category title already exists")
		}
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category; posts keep their other categories.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := parseUintParam(c, "category_id")
	if err != nil {
		return err
	}
	if _, err := h.categories.GetCategoryByID(id); err != nil {
		return mapStoreError(err)
	}
	if err := h.categories.DeleteCategory(id); err != nil {
		return mapStoreError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
