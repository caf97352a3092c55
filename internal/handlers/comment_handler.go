package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pageturn/forum-backend/internal/middleware"
	"github.com/pageturn/forum-backend/internal/models"
	"github.com/pageturn/forum-backend/internal/repositories"
)

// CommentHandler handles HTTP requests for individual comments
type CommentHandler struct {
	comments  repositories.CommentRepository
	reactions repositories.ReactionRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	comments repositories.CommentRepository,
	reactions repositories.ReactionRepository,
) *CommentHandler {
	return &CommentHandler{comments: comments, reactions: reactions}
}

// RegisterPublicCommentRoutes registers anonymous-readable comment routes
func (h *CommentHandler) RegisterPublicCommentRoutes(g *echo.Group) {
	g.GET("/comments/:comment_id", h.GetComment)
	g.GET("/comments/:comment_id/likes", h.GetCommentReactions)
}

// RegisterCommentRoutes registers authenticated comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.PATCH("/comments/:comment_id", h.UpdateComment)
	g.DELETE("/comments/:comment_id", h.DeleteComment)
	g.POST("/comments/:comment_id/likes", h.ReactToComment)
	g.DELETE("/comments/:comment_id/likes", h.RemoveCommentReaction)
}

// RegisterAdminCommentRoutes registers admin-only comment routes
func (h *CommentHandler) RegisterAdminCommentRoutes(g *echo.Group) {
	g.POST("/comments/:comment_id/lock", h.ToggleCommentLock)
}

// GetComment retrieves a single comment
func (h *CommentHandler) GetComment(c echo.Context) error {
	id, err := parseUintParam(c, "comment_id")
	if err != nil {
		return err
	}
	comment, err := h.comments.GetCommentByID(id)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

// UpdateComment edits a comment's content or status; only the author or an
// admin may do so.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "comment_id")
	if err != nil {
		return err
	}

	comment, err := h.comments.GetCommentByID(id)
	if err != nil {
		return mapStoreError(err)
	}
	if !claims.IsAdmin() && claims.UserID != comment.AuthorID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this comment")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if req.Content != "" {
		fields["content"] = req.Content
	}
	if req.Status != "" {
		fields["status"] = req.Status
	}
	if len(fields) > 0 {
		if err := h.comments.UpdateFields(id, fields); err != nil {
			return mapStoreError(err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Comment updated"})
}

// DeleteComment deletes a comment; only the author or an admin may do so.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "comment_id")
	if err != nil {
		return err
	}

	comment, err := h.comments.GetCommentByID(id)
	if err != nil {
		return mapStoreError(err)
	}
	if !claims.IsAdmin() && claims.UserID != comment.AuthorID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	}

	if err := h.comments.DeleteComment(id); err != nil {
		return mapStoreError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ReactToComment toggles the caller's reaction on a comment
func (h *CommentHandler) ReactToComment(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "comment_id")
	if err != nil {
		return err
	}
	if _, err := h.comments.GetCommentByID(id); err != nil {
		return mapStoreError(err)
	}

	var req models.CreateReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if !models.ValidReactionType(req.Type) {
		req.Type = models.ReactionLike
	}

	action, err := h.reactions.Toggle(claims.UserID, models.CommentTarget(id), req.Type)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"action": action})
}

// RemoveCommentReaction removes the caller's reaction on a comment
func (h *CommentHandler) RemoveCommentReaction(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "comment_id")
	if err != nil {
		return err
	}
	if err := h.reactions.Remove(claims.UserID, models.CommentTarget(id)); err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Reaction removed"})
}

// GetCommentReactions lists every reaction on a comment
func (h *CommentHandler) GetCommentReactions(c echo.Context) error {
	id, err := parseUintParam(c, "comment_id")
	if err != nil {
		return err
	}
	reactions, err := h.reactions.ListByTarget(models.CommentTarget(id))
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, reactions)
}

// ToggleCommentLock flips the comment's lock flag (admin only)
func (h *CommentHandler) ToggleCommentLock(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "comment_id")
	if err != nil {
		return err
	}
	locked, err := h.comments.ToggleLock(id, claims.UserID)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"locked": locked})
}
