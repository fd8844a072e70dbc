package mailer

import (
	"context"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/PUZZ-INC/puzzle/internal/config"
)

// Sender delivers account mail. Implementations make a single synchronous
// attempt and report failure as false rather than an error; there is no
// retry policy.
type Sender interface {
	SendVerificationCode(ctx context.Context, email, code, handle string) bool
	SendWelcome(ctx context.Context, email, handle string) bool
}

// SMTPMailer sends mail over a TLS-upgraded SMTP connection.
type SMTPMailer struct {
	cfg     config.SMTPConfig
	baseURL string
	logger  *zap.Logger
}

// NewSMTPMailer constructs the mailer.
func NewSMTPMailer(cfg config.SMTPConfig, baseURL string, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, baseURL: baseURL, logger: logger}
}

// SendVerificationCode delivers the 4-digit registration code.
func (m *SMTPMailer) SendVerificationCode(ctx context.Context, email, code, handle string) bool {
	return m.send(ctx, email,
		"Your registration code",
		verificationText(handle, code),
		verificationHTML(handle, code),
	)
}

// SendWelcome delivers the post-verification welcome letter. Callers treat a
// failure as non-fatal: the account already exists.
func (m *SMTPMailer) SendWelcome(ctx context.Context, email, handle string) bool {
	return m.send(ctx, email,
		"Welcome! Registration complete",
		welcomeText(handle, m.baseURL),
		welcomeHTML(handle, m.baseURL),
	)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, textBody, htmlBody string) bool {
	if m.cfg.Timeout() > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout())
		defer cancel()
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		m.logger.Warn("invalid from address", zap.String("from", m.cfg.From), zap.Error(err))
		return false
	}
	if err := msg.To(to); err != nil {
		m.logger.Warn("invalid recipient address", zap.String("to", to), zap.Error(err))
		return false
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, textBody)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		m.logger.Warn("smtp client init failed", zap.Error(err))
		return false
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		m.logger.Warn("smtp send failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return false
	}

	m.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return true
}
