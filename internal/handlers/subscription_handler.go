package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pageturn/forum-backend/internal/middleware"
	"github.com/pageturn/forum-backend/internal/repositories"
)

// SubscriptionHandler handles post subscriptions and the notifications they produce
type SubscriptionHandler struct {
	subscriptions repositories.SubscriptionRepository
	notifications repositories.NotificationRepository
	posts         repositories.PostRepository
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(
	subscriptions repositories.SubscriptionRepository,
	notifications repositories.NotificationRepository,
	posts repositories.PostRepository,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptions: subscriptions,
		notifications: notifications,
		posts:         posts,
	}
}

// RegisterSubscriptionRoutes registers authenticated subscription and
// notification routes
func (h *SubscriptionHandler) RegisterSubscriptionRoutes(g *echo.Group) {
	g.GET("/subscriptions", h.ListSubscriptions)
	g.POST("/posts/:post_id/subscribe", h.Subscribe)
	g.DELETE("/posts/:post_id/subscribe", h.Unsubscribe)
	g.GET("/notifications", h.ListNotifications)
	g.POST("/notifications/:notification_id/read", h.MarkNotificationRead)
}

// ListSubscriptions returns every post the caller follows
func (h *SubscriptionHandler) ListSubscriptions(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	subscriptions, err := h.subscriptions.ListByUser(claims.UserID)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, subscriptions)
}

// Subscribe follows a post; repeating the call is a no-op.
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}
	if _, err := h.posts.GetPost(id); err != nil {
		return mapStoreError(err)
	}
	if err := h.subscriptions.Subscribe(claims.UserID, id); err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Subscribed"})
}

// Unsubscribe unfollows a post
func (h *SubscriptionHandler) Unsubscribe(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		return err
	}
	if err := h.subscriptions.Unsubscribe(claims.UserID, id); err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Unsubscribed"})
}

// ListNotifications returns the caller's notifications, newest first, with an
// unread count. ?unread=true narrows to unread ones.
func (h *SubscriptionHandler) ListNotifications(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "pageSize", 20)
	unreadOnly := c.QueryParam("unread") == "true"

	notifications, err := h.notifications.ListByUser(claims.UserID, page, pageSize, unreadOnly)
	if err != nil {
		return mapStoreError(err)
	}
	unread, err := h.notifications.UnreadCount(claims.UserID)
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": notifications, "unread": unread})
}

// MarkNotificationRead marks one of the caller's notifications as read
func (h *SubscriptionHandler) MarkNotificationRead(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	id, err := parseUintParam(c, "notification_id")
	if err != nil {
		return err
	}
	if err := h.notifications.MarkAsRead(id, claims.UserID); err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}
