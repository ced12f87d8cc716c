package notify

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"sync"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/FACorreiaa/journalhub/app/observability/metrics"
	"github.com/FACorreiaa/journalhub/config"
)

// Notifier sends account emails. Calls never block the caller and never fail it.
type Notifier interface {
	Welcome(ctx context.Context, to, name string)
	ProfileUpdated(ctx context.Context, to, name string)
	PasswordChanged(ctx context.Context, to, name string)
	AccountDeleted(ctx context.Context, to, name string)
	PasswordReset(ctx context.Context, to, name, link string)
}

var (
	_ Notifier = (*Mailer)(nil)
	_ Notifier = NopNotifier{}
)

const sendTimeout = 10 * time.Second

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Mailer delivers notifications over SMTP on background goroutines.
type Mailer struct {
	client sender
	from   string
	logger *slog.Logger
	wg     sync.WaitGroup
}

func NewMailer(cfg config.MailConfig, logger *slog.Logger) (*Mailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithTimeout(sendTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	return newMailer(client, cfg.From, logger), nil
}

func newMailer(client sender, from string, logger *slog.Logger) *Mailer {
	return &Mailer{client: client, from: from, logger: logger.With(slog.String("component", "Mailer"))}
}

func (m *Mailer) Welcome(ctx context.Context, to, name string) {
	m.send(ctx, to, "Welcome to JournalHub", welcomeTmpl, map[string]string{"Name": name})
}

func (m *Mailer) ProfileUpdated(ctx context.Context, to, name string) {
	m.send(ctx, to, "Your profile was updated", profileUpdatedTmpl, map[string]string{"Name": name})
}

func (m *Mailer) PasswordChanged(ctx context.Context, to, name string) {
	m.send(ctx, to, "Your password was changed", passwordChangedTmpl, map[string]string{"Name": name})
}

func (m *Mailer) AccountDeleted(ctx context.Context, to, name string) {
	m.send(ctx, to, "Your account was deleted", accountDeletedTmpl, map[string]string{"Name": name})
}

func (m *Mailer) PasswordReset(ctx context.Context, to, name, link string) {
	m.send(ctx, to, "Password reset request", passwordResetTmpl, map[string]string{"Name": name, "Link": link})
}

// Wait blocks until every queued email has been attempted.
func (m *Mailer) Wait() {
	m.wg.Wait()
}

func (m *Mailer) send(ctx context.Context, to, subject string, tmpl *template.Template, data any) {
	l := m.logger.With(slog.String("to", to), slog.String("subject", subject))

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		l.WarnContext(ctx, "Invalid sender address, email dropped", slog.Any("error", err))
		return
	}
	if err := msg.To(to); err != nil {
		l.WarnContext(ctx, "Invalid recipient address, email dropped", slog.Any("error", err))
		return
	}
	msg.Subject(subject)
	if err := msg.SetBodyHTMLTemplate(tmpl, data); err != nil {
		l.WarnContext(ctx, "Failed to render email body", slog.Any("error", err))
		return
	}

	// detach from the request so the response is not held up
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		if err := m.client.DialAndSendWithContext(sendCtx, msg); err != nil {
			metrics.Get().NotificationsFailedTotal.Add(sendCtx, 1)
			l.WarnContext(sendCtx, "Failed to send email", slog.Any("error", err))
			return
		}
		l.DebugContext(sendCtx, "Email sent")
	}()
}

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) Welcome(context.Context, string, string) {}
func (NopNotifier) ProfileUpdated(context.Context, string, string) {}
func (NopNotifier) PasswordChanged(context.Context, string, string) {}
func (NopNotifier) AccountDeleted(context.Context, string, string) {}
func (NopNotifier) PasswordReset(context.Context, string, string, string) {}
