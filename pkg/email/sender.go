package email

import (
	"context"

	"portfolio-contact-backend/config"
)

// NewSender returns the transport matching cfg.EmailTransport, or nil when
// notifications are unconfigured or disabled.
func NewSender(ctx context.Context, cfg *config.Config) (Sender, error) {
	switch cfg.EmailTransport {
	case config.TransportSMTP:
		return NewSMTPSender(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPassword), nil
	case config.TransportGmail:
		sender, err := NewGmailSender(ctx, cfg.OAuthClientID, cfg.OAuthClientSecret, cfg.OAuthRefreshToken)
		if err != nil {
			return nil, err
		}
		return sender, nil
	default:
		return nil, nil
	}
}
