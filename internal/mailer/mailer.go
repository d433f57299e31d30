// Package mailer sends transactional email through Mailgun. It is an
// optional side channel: a nil Mailer silently drops every send, so callers
// never need to branch on whether email is configured.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/sirupsen/logrus"
)

type Mailer struct {
	mg       *mailgun.MailgunImpl
	fromName string
	fromAddr string
}

// New returns a Mailer, or nil when domain or apiKey is empty.
func New(domain, apiKey, fromName, fromAddr string) *Mailer {
	if domain == "" || apiKey == "" {
		return nil
	}
	if fromAddr == "" {
		fromAddr = "noreply@" + domain
	}
	return &Mailer{
		mg:       mailgun.NewMailgun(domain, apiKey),
		fromName: fromName,
		fromAddr: fromAddr,
	}
}

// Send delivers a plain-text message. Failures are logged, never returned;
// email is best-effort.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) {
	if m == nil {
		return
	}
	from := fmt.Sprintf("%s <%s>", m.fromName, m.fromAddr)
	msg := m.mg.NewMessage(from, subject, body, to)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	resp, id, err := m.mg.Send(ctx, msg)
	if err != nil {
		logrus.WithError(err).WithField("subject", subject).Warn("mailgun: send failed")
		return
	}
	logrus.WithFields(logrus.Fields{"id": id, "resp": resp, "subject": subject}).Debug("mailgun: sent")
}
