package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"portfolio-contact-backend/config"
	"portfolio-contact-backend/internal/domain"
	"portfolio-contact-backend/pkg/audit"
	"portfolio-contact-backend/pkg/logger"
	"portfolio-contact-backend/pkg/metrics"
)

const (
	defaultNotifyTimeout = 30 * time.Second
	senderDisplayName    = "Portfolio Contact"
)

// Sender delivers a rendered message over some transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier sends the owner notification (and optional auto-reply) for a
// contact submission. Failures are logged and never returned to the caller.
type Notifier struct {
	transport config.EmailTransport
	sender    Sender
	from      string
	recipient string
	autoReply bool
	location  *time.Location
	timeout   time.Duration
	log       *slog.Logger
	audit     *audit.Logger
	wg        sync.WaitGroup
}

// NewNotifier builds a Notifier from the startup configuration. A configured
// transport without a sender is treated as unconfigured.
func NewNotifier(cfg *config.Config, sender Sender, auditLog *audit.Logger) *Notifier {
	transport := cfg.EmailTransport
	if (transport == config.TransportSMTP || transport == config.TransportGmail) && sender == nil {
		transport = config.TransportUnconfigured
	}

	timeout := cfg.NotifyTimeout
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}

	return &Notifier{
		transport: transport,
		sender:    sender,
		from:      cfg.EmailFrom,
		recipient: cfg.NotificationRecipient,
		autoReply: cfg.AutoReply,
		location:  LoadLocation(cfg.NotifyTimezone),
		timeout:   timeout,
		log:       logger.Log,
		audit:     auditLog,
	}
}

// LoadLocation resolves a display time zone, falling back to local time.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Log.Warn("Unknown notification time zone, using local time", "timezone", name, "error", err)
		return time.Local
	}
	return loc
}

// Transport reports the transport state decided at startup.
func (n *Notifier) Transport() config.EmailTransport {
	return n.transport
}

// Enabled reports whether notifications will reach the network.
func (n *Notifier) Enabled() bool {
	return n.transport == config.TransportSMTP || n.transport == config.TransportGmail
}

// Dispatch runs Notify in the background with its own deadline, so the
// caller's request context being canceled does not abort delivery.
func (n *Notifier) Dispatch(rec domain.ContactRecord) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		n.Notify(ctx, rec)
	}()
}

// Wait blocks until in-flight notifications finish or ctx is done.
func (n *Notifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Notify sends the owner notification synchronously.
func (n *Notifier) Notify(ctx context.Context, rec domain.ContactRecord) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Error("Contact notification panicked", "panic", r)
			metrics.Notification(metrics.ResultFailed)
		}
	}()

	if !n.Enabled() {
		n.log.Warn("Email transport not configured, skipping contact notification",
			"transport", string(n.transport),
			"email", audit.MaskEmail(rec.Email),
		)
		n.audit.NotificationSkipped(ctx, string(n.transport))
		metrics.Notification(metrics.ResultSkipped)
		return
	}

	if err := n.send(ctx, n.ownerMessage, rec, n.recipient); err != nil {
		n.log.Error("Failed to send contact notification", "error", err, "transport", string(n.transport))
		n.audit.NotificationFailed(ctx, "owner", n.recipient, err)
		metrics.Notification(metrics.ResultFailed)
	} else {
		n.log.Info("Contact notification sent", "transport", string(n.transport), "db_saved", rec.DBSaved)
		n.audit.NotificationSent(ctx, "owner", n.recipient)
		metrics.Notification(metrics.ResultOK)
	}

	if n.autoReply {
		if err := n.send(ctx, n.autoReplyMessage, rec, rec.Email); err != nil {
			n.log.Error("Failed to send auto-reply", "error", err, "email", audit.MaskEmail(rec.Email))
			n.audit.NotificationFailed(ctx, "auto_reply", rec.Email, err)
		} else {
			n.log.Info("Auto-reply sent", "email", audit.MaskEmail(rec.Email))
			n.audit.NotificationSent(ctx, "auto_reply", rec.Email)
		}
	}
}

func (n *Notifier) send(ctx context.Context, build func(domain.ContactRecord) (Message, error), rec domain.ContactRecord, to string) error {
	msg, err := build(rec)
	if err != nil {
		return err
	}
	msg.To = to
	return n.sender.Send(ctx, msg)
}

func (n *Notifier) ownerMessage(rec domain.ContactRecord) (Message, error) {
	html, text, err := render(notificationHTMLTmpl, notificationTextTmpl, newTemplateData(rec, n.location))
	if err != nil {
		return Message{}, fmt.Errorf("failed to render notification: %w", err)
	}
	return Message{
		FromName: senderDisplayName,
		From:     n.from,
		ReplyTo:  rec.Email,
		Subject:  "Portfolio Contact: " + rec.Name,
		Text:     text,
		HTML:     html,
	}, nil
}

func (n *Notifier) autoReplyMessage(rec domain.ContactRecord) (Message, error) {
	html, text, err := render(autoReplyHTMLTmpl, autoReplyTextTmpl, newTemplateData(rec, n.location))
	if err != nil {
		return Message{}, fmt.Errorf("failed to render auto-reply: %w", err)
	}
	return Message{
		FromName: senderDisplayName,
		From:     n.from,
		ReplyTo:  n.recipient,
		Subject:  fmt.Sprintf("Thanks for reaching out, %s!", rec.Name),
		Text:     text,
		HTML:     html,
	}, nil
}
