package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/illegalcall/second-opinion/internal/config"
	"github.com/illegalcall/second-opinion/internal/models"
)

// Sender delivers a single outbound message.
type Sender interface {
	Send(ctx context.Context, msg *models.OutboundMessage) error
}

// ErrNoRecipient is returned for messages without a To address.
var ErrNoRecipient = errors.New("email must have a recipient")

// SMTPSender sends messages over SMTP, dialing once per message.
type SMTPSender struct {
	cfg config.SMTPConfig
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, msg *models.OutboundMessage) error {
	m, err := buildMessage(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("Email sent successfully", "recipient", msg.To, "attachments", len(msg.Attachments))
	return nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	var opts []mail.Option
	if s.cfg.Port > 0 {
		opts = append(opts, mail.WithPort(s.cfg.Port))
	}
	if s.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.cfg.Timeout))
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	if s.cfg.SSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(tlsPolicy(s.cfg.TLSPolicy)))
	}
	return opts
}

func tlsPolicy(name string) mail.TLSPolicy {
	switch name {
	case "none":
		return mail.NoTLS
	case "opportunistic":
		return mail.TLSOpportunistic
	default:
		return mail.TLSMandatory
	}
}

func buildMessage(msg *models.OutboundMessage) (*mail.Msg, error) {
	if msg.To == "" {
		return nil, ErrNoRecipient
	}

	m := mail.NewMsg()
	if err := m.FromFormat(msg.FromName, msg.FromAddress); err != nil {
		return nil, fmt.Errorf("failed to set from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("failed to set recipient: %w", err)
	}
	if msg.ReplyToAddress != "" {
		if err := m.ReplyToFormat(msg.ReplyToName, msg.ReplyToAddress); err != nil {
			return nil, fmt.Errorf("failed to set reply-to: %w", err)
		}
	}

	// Strip CR/LF from subject to prevent header injection.
	m.Subject(strings.NewReplacer("\r", "", "\n", " ").Replace(msg.Subject))
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)

	for _, a := range msg.Attachments {
		m.AttachFile(a.Path,
			mail.WithFileName(a.Filename),
			mail.WithFileContentType(mail.ContentType(a.ContentType)),
		)
	}

	return m, nil
}
