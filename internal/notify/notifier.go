package notify

import (
	"fmt"

	"github.com/pageturn/forum-backend/internal/models"
	"github.com/pageturn/forum-backend/internal/repositories"
	"github.com/pageturn/forum-backend/pkg/logger"
	"go.uber.org/zap"
)

// Notifier fans post events out to subscribers: one notification row each,
// plus an email attempt when outbound email is enabled. The whole path is
// best effort; nothing here can fail the triggering request.
type Notifier struct {
	subscriptions repositories.SubscriptionRepository
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	mailer        Mailer
	emailEnabled  bool
}

// NewNotifier builds a Notifier. The email flag comes from configuration at
// construction; business logic never consults the environment.
func NewNotifier(
	subscriptions repositories.SubscriptionRepository,
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	mailer Mailer,
	emailEnabled bool,
) *Notifier {
	return &Notifier{
		subscriptions: subscriptions,
		notifications: notifications,
		users:         users,
		mailer:        mailer,
		emailEnabled:  emailEnabled && mailer != nil,
	}
}

// NotifySubscribers inserts a notification for every subscriber of the post
// except the triggering user. Email failures are logged and skipped; a failed
// insert for one subscriber does not stop the rest.
func (n *Notifier) NotifySubscribers(eventType string, postID, triggeredByUserID uint, message string) {
	ids, err := n.subscriptions.SubscriberIDs(postID, triggeredByUserID)
	if err != nil {
		logger.L().Error("subscriber lookup failed",
			zap.Uint("post_id", postID), zap.Error(err))
		return
	}

	for _, userID := range ids {
		notification := &models.Notification{
			UserID:            userID,
			Type:              eventType,
			PostID:            postID,
			TriggeredByUserID: triggeredByUserID,
			Message:           message,
		}
		if err := n.notifications.CreateNotification(notification); err != nil {
			logger.L().Error("notification insert failed",
				zap.Uint("user_id", userID), zap.Uint("post_id", postID), zap.Error(err))
			continue
		}

		if !n.emailEnabled {
			continue
		}
		user, err := n.users.GetUserByID(userID)
		if err != nil {
			logger.L().Warn("notification email skipped, user lookup failed",
				zap.Uint("user_id", userID), zap.Error(err))
			continue
		}
		subject := "Forum activity on a post you follow"
		body := fmt.Sprintf("<p>%s</p>", message)
		if err := n.mailer.Send(user.Email, subject, body); err != nil {
			logger.L().Warn("notification email failed",
				zap.String("to", user.Email), zap.Error(err))
		}
	}
}
