package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/core/config"
)

var ErrNotConfigured = errors.New("mail sender is not configured")

// Message is a single alert e-mail. HTMLBody is optional and sent as an alternative part.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
	Enabled() bool
}

// NewSender returns an SMTP sender, or a sender that always fails with ErrNotConfigured when
// the credentials are missing.
func NewSender(cfg config.MailConfig) Sender {
	if !cfg.Enabled() {
		return disabledSender{}
	}
	return &smtpSender{cfg: cfg}
}

type disabledSender struct{}

func (disabledSender) Send(context.Context, Message) error { return ErrNotConfigured }
func (disabledSender) Enabled() bool                       { return false }

type smtpSender struct {
	cfg config.MailConfig
}

func (s *smtpSender) Enabled() bool { return true }

// Send delivers over STARTTLS with PLAIN auth, one connection per message.
func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	m, err := buildMsg(s.cfg.SenderEmail, msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(s.cfg.SMTPServer,
		gomail.WithPort(s.cfg.SMTPPort),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.SenderEmail),
		gomail.WithPassword(s.cfg.AppPassword),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}

	start := time.Now()
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}

	slog.InfoContext(ctx, "alert mail sent",
		"to", msg.To,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func buildMsg(from string, msg Message) (*gomail.Msg, error) {
	if msg.To == "" {
		return nil, fmt.Errorf("mail recipient is required")
	}

	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTMLBody)
	}
	return m, nil
}
