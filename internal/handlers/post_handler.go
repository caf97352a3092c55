package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pageturn/forum-backend/internal/middleware"
	"github.com/pageturn/forum-backend/internal/models"
	"github.com/pageturn/forum-backend/internal/notify"
	"github.com/pageturn/forum-backend/internal/repositories"
	"github.com/pageturn/forum-backend/internal/stats"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts     repositories.PostRepository
	comments  repositories.CommentRepository
	reactions repositories.ReactionRepository
	notifier  *notify.Notifier
	views     *stats.Store
	uploadDir string
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	reactions repositories.ReactionRepository,
	notifier *notify.Notifier,
	views *stats.Store,
	uploadDir string,
) *PostHandler {
	return &PostHandler{
		posts:     posts,
		comments:  comments,
		reactions: reactions,
		notifier:  notifier,
		views:     views,
		uploadDir: uploadDir,
	}
}

// RegisterPublicPostRoutes registers routes readable by anonymous callers;
// the group carries OptionalAuth so the visibility policy sees the viewer.
func (h *PostHandler) RegisterPublicPostRoutes(g *echo.Group) {
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:post_id", h.GetPost)
	g.GET("/posts/:post_id/comments", h.ListComments)
	g.GET("/posts/:post_id/categories", h.GetPostCategories)
	g.GET("/posts/:post_id/likes", h.GetPostReactions)
}

// RegisterPostRoutes registers authenticated post routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.PATCH("/posts/:post_id", h.UpdatePost)
	g.DELETE("/posts/:post_id", h.DeletePost)
	g.POST("/posts/:post_id/comments", h.AddComment)
	g.POST("/posts/:post_id/likes", h.ReactToPost)
	g.DELETE("/posts/:post_id/likes", h.RemovePostReaction)
}

// RegisterAdminPostRoutes registers admin-only post routes
func (h *PostHandler) RegisterAdminPostRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/lock", h.TogglePostLock)
}

func viewerFrom(c echo.Context) repositories.Viewer {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return repositories.Viewer{}
	}
	id := claims.UserID
	return repositories.Viewer{UserID: &id, IsAdmin: claims.IsAdmin()}
}

func parseFilters(c echo.Context) repositories.PostFilters {
	filters := repositories.PostFilters{
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "pageSize", 10),
		Sort:     c.QueryParam("sort"),
		Status:   c.QueryParam("status"),
	}
	if raw := c.QueryParam("categories"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32); err == nil {
				filters.CategoryIDs = append(filters.CategoryIDs, uint(id))
			}
		}
	}
	if raw := c.QueryParam("dateFrom"); raw != "" {
		if t, err := parseDate(raw); err == nil {
			filters.DateFrom = &t
		}
	}
	if raw := c.QueryParam("dateTo"); raw != "" {
		if t, err := parseDate(raw); err == nil {
			filters.DateTo = &t
		}
	}
	if raw := c.QueryParam("authorId"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			uid := uint(id)
			filters.AuthorID = &uid
		}
	}
	return filters
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// ListPosts lists posts with filtering, sorting and pagination. A plain
// first-page feed request also bumps the home view counter.
func (h *PostHandler) ListPosts(c echo.Context) error {
	filters := parseFilters(c)
	viewer := viewerFrom(c)

	posts, total, err := h.posts.ListPosts(filters, viewer)
	if err != nil {
		return mapStoreError(err)
	}

	if filters.IsUnfilteredFeed() {
		go h.views.IncrementHome()
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": posts, "total": total})
}

// GetPost retrieves one post; inactive posts are hidden from everyone but
// admins and the author.
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}
	viewer := viewerFrom(c)

	view, err := h.posts.GetPostView(id, viewer)
	if err != nil {
		return mapStoreError(err)
	}
	if view.Status == models.StatusInactive && !viewer.IsAdmin &&
		(viewer.UserID == nil || *viewer.UserID != view.AuthorID) {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}

	go h.views.IncrementPost(id)

	return c.JSON(http.StatusOK, view)
}

// CreatePost creates a post with optional categories and multipart images.
// Uploaded image paths are returned so the client can embed them.
func (h *PostHandler) CreatePost(c echo.Context) error {
	claims := middleware.CurrentUser(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if raw := c.FormValue("categories"); raw != "" && len(req.Categories) == 0 {
		for _, part := range strings.Split(raw, ",") {
			if id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32); err == nil {
				req.Categories = append(req.Categories, uint(id))
			}
		}
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var images []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, file := range form.File["images"] {
			path, err := saveUpload(file, h.uploadDir)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store upload")
			}
			images = append(images, path)
		}
	}

	post := &models.Post{
		AuthorID: claims.UserID,
		Title:    req.Title,
		Content:  req.Content,
		Status:   req.Status,
	}
	if err := h.posts.CreatePost(post, req.Categories); err != nil {
		return mapStoreError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"post_id": post.ID, "images": images})
}

// UpdatePost applies a partial update; only the author or an admin may edit.
// Subscribers are notified after the write commits.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}

	post, err := h.posts.GetPost(id)
	if err != nil {
		return mapStoreError(err)
	}
	if !claims.IsAdmin() && claims.UserID != post.AuthorID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this post")
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if req.Title != "" {
		fields["title"] = req.Title
	}
	if req.Content != "" {
		fields["content"] = req.Content
	}
	if req.Status != "" {
		fields["status"] = req.Status
	}
	if len(fields) > 0 {
		if err := h.posts.UpdateFields(id, fields); err != nil {
			return mapStoreError(err)
		}
	}
	if req.Categories != nil {
		if err := h.posts.ReplaceCategories(id, *req.Categories); err != nil {
			return mapStoreError(err)
		}
	}

	go h.notifier.NotifySubscribers(
		models.NotificationPostUpdated, id, claims.UserID,
		fmt.Sprintf("Post %q was updated", post.Title),
	)

	return c.JSON(http.StatusOK, echo.Map{"message": "Post updated"})
}

// DeletePost deletes a post; only the author or an admin may do so.
func (h *PostHandler) DeletePost(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}

	post, err := h.posts.GetPost(id)
	if err != nil {
		return mapStoreError(err)
	}
	if !claims.IsAdmin() && claims.UserID != post.AuthorID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.posts.DeletePost(id); err != nil {
		return mapStoreError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListComments returns the post's comments, worst-scored first.
func (h *PostHandler) ListComments(c echo.Context) error {
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}
	if _, err := h.posts.GetPost(id); err != nil {
		return mapStoreError(err)
	}

	comments, err := h.comments.GetCommentsByPost(id)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, comments)
}

// AddComment adds a top-level comment or a reply to an active post.
func (h *PostHandler) AddComment(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.posts.GetPost(id)
	if err != nil {
		return mapStoreError(err)
	}
	if post.Status != models.StatusActive {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot comment on an inactive post")
	}

	// A reply must target a comment on the same post
	if req.ParentID != nil {
		parent, err := h.comments.GetCommentByID(*req.ParentID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment not found")
		}
		if parent.PostID != id {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment belongs to another post")
		}
	}

	comment := &models.Comment{
		AuthorID: claims.UserID,
		PostID:   id,
		ParentID: req.ParentID,
		Content:  req.Content,
	}
	if err := h.comments.CreateComment(comment); err != nil {
		return mapStoreError(err)
	}

	go h.notifier.NotifySubscribers(
		models.NotificationNewComment, id, claims.UserID,
		fmt.Sprintf("New comment on post %q", post.Title),
	)

	return c.JSON(http.StatusCreated, comment)
}

// ReactToPost toggles the caller's reaction on a post
func (h *PostHandler) ReactToPost(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}
	if _, err := h.posts.GetPost(id); err != nil {
		return mapStoreError(err)
	}

	var req models.CreateReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if !models.ValidReactionType(req.Type) {
		req.Type = models.ReactionLike
	}

	action, err := h.reactions.Toggle(claims.UserID, models.PostTarget(id), req.Type)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"action": action})
}

// RemovePostReaction removes the caller's reaction on a post
func (h *PostHandler) RemovePostReaction(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}
	if err := h.reactions.Remove(claims.UserID, models.PostTarget(id)); err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Reaction removed"})
}

// GetPostReactions lists every reaction on a post
func (h *PostHandler) GetPostReactions(c echo.Context) error {
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}
	reactions, err := h.reactions.ListByTarget(models.PostTarget(id))
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, reactions)
}

// GetPostCategories lists the categories attached to a post
func (h *PostHandler) GetPostCategories(c echo.Context) error {
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}
	categories, err := h.posts.CategoriesForPost(id)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

// TogglePostLock flips the post's lock flag (admin only)
func (h *PostHandler) TogglePostLock(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}
	locked, err := h.posts.ToggleLock(id, claims.UserID)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"locked": locked})
}
