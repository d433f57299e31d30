// Package service holds the business logic that spans repositories:
// booking and order lifecycles, settlement, onboarding decisions and
// notification fan-out. Handlers stay thin and call into here.
package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/driftdock/marina-api/internal/mailer"
	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/queue"
	"github.com/driftdock/marina-api/internal/repository"
)

// Notifier fans a lifecycle event out to every channel: a persisted inbox
// row, a broker message, and optionally email. All three are best-effort
// side effects; a failure is logged and never propagates to the transition
// that triggered it.
type Notifier struct {
	Inbox *repository.NotificationRepo
	Users *repository.UserRepo
	Pub   *queue.Publisher
	Mail  *mailer.Mailer
}

func NewNotifier(inbox *repository.NotificationRepo, users *repository.UserRepo, pub *queue.Publisher, mail *mailer.Mailer) *Notifier {
	return &Notifier{Inbox: inbox, Users: users, Pub: pub, Mail: mail}
}

// Notify writes the inbox row for userID and publishes the event.
func (n *Notifier) Notify(ctx context.Context, userID uint64, ev queue.LifecycleEvent) {
	row := &model.Notification{
		UserID:    userID,
		Kind:      ev.Kind,
		Title:     ev.Title,
		Body:      ev.Body,
		RelatedID: ev.SourceID,
	}
	if err := n.Inbox.Create(ctx, row); err != nil {
		logrus.WithError(err).WithField("kind", ev.Kind).Warn("notify: inbox write failed")
	}
	ev.UserID = userID
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	if n.Pub != nil {
		_ = n.Pub.Publish(ctx, ev)
	}
}

// Email looks up the user's address and sends, best-effort.
func (n *Notifier) Email(ctx context.Context, userID uint64, subject, body string) {
	if n.Mail == nil {
		return
	}
	u, err := n.Users.GetByID(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("notify: email lookup failed")
		return
	}
	n.Mail.Send(ctx, u.Email, subject, body)
}
