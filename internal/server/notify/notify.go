// Package notify delivers one-time verification and password-reset codes.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/biscotto/internal/logging"
)

// Purpose tells the recipient what a code is for.
type Purpose string

const (
	PurposeVerifyEmail   Purpose = "verify-email"
	PurposePasswordReset Purpose = "password-reset"
)

// Notifier sends a code to a destination (an email address).
type Notifier interface {
	SendCode(ctx context.Context, destination string, purpose Purpose, code string) error
	// EchoCodes reports whether codes must be returned to the API caller
	// because they are not delivered out of band.
	EchoCodes() bool
}

// DemoNotifier only logs codes; the API hands them back in responses.
type DemoNotifier struct {
	logger logging.Logger
}

func NewDemoNotifier(l logging.Logger) *DemoNotifier {
	return &DemoNotifier{logger: l.With("module", "notify")}
}

func (n *DemoNotifier) SendCode(ctx context.Context, destination string, purpose Purpose, code string) error {
	n.logger.Info(ctx, "code issued", "destination", destination, "purpose", string(purpose), "code", code)
	return nil
}

func (n *DemoNotifier) EchoCodes() bool { return true }

// SMTPConfig holds mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// sendMail is a seam for tests.
var sendMail = smtp.SendMail

// SMTPNotifier mails codes through a plain SMTP relay.
type SMTPNotifier struct {
	cfg SMTPConfig
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) EchoCodes() bool { return false }

func (n *SMTPNotifier) SendCode(ctx context.Context, destination string, purpose Purpose, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := n.cfg.Host + ":" + strconv.Itoa(n.cfg.Port)

	var auth smtp.Auth
	if n.cfg.User != "" {
		auth = smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)
	}

	if err := sendMail(addr, auth, n.cfg.From, []string{destination}, buildMessage(n.cfg.From, destination, purpose, code)); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

func buildMessage(from, to string, purpose Purpose, code string) []byte {
	subject := "Your Biscotto verification code"
	body := "Use this code to verify your email address: " + code
	if purpose == PurposePasswordReset {
		subject = "Your Biscotto password reset code"
		body = "Use this code to reset your password: " + code + "\r\nThe code expires in one hour."
	}

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body + "\r\n")
	return []byte(b.String())
}
