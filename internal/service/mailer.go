package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/wneessen/go-mail"
)

type MailMessage struct {
	To       string
	Subject  string
	Text     string
	HTML     string
	Template string
	Vars     map[string]string
}

// Mailer is the notification channel used for welcome and password-recovery
// mail.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

var templateVarPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// RenderTemplate substitutes {{name}} placeholders; unknown placeholders
// render as the empty string.
func RenderTemplate(template string, vars map[string]string) string {
	return templateVarPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := templateVarPattern.FindStringSubmatch(match)[1]
		return vars[key]
	})
}

type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailer(host string, port int, username string, password string, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password, from: from}
}

func (m *SMTPMailer) Send(ctx context.Context, msg MailMessage) error {
	message := mail.NewMsg()
	if err := message.From(m.from); err != nil {
		return fmt.Errorf("set mail sender: %w", err)
	}
	if err := message.To(msg.To); err != nil {
		return fmt.Errorf("set mail recipient: %w", err)
	}
	message.Subject(msg.Subject)

	html := msg.HTML
	if html == "" && msg.Template != "" {
		html = RenderTemplate(msg.Template, msg.Vars)
	}

	switch {
	case msg.Text != "" && html != "":
		message.SetBodyString(mail.TypeTextPlain, msg.Text)
		message.AddAlternativeString(mail.TypeTextHTML, html)
	case html != "":
		message.SetBodyString(mail.TypeTextHTML, html)
	default:
		message.SetBodyString(mail.TypeTextPlain, msg.Text)
	}

	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if m.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.username),
			mail.WithPassword(m.password),
		)
	}

	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// LogMailer is used when no SMTP host is configured. Outgoing mail is logged
// instead of delivered.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(_ context.Context, msg MailMessage) error {
	slog.Info("mail delivery skipped (no SMTP host configured)",
		"to", msg.To, "subject", msg.Subject)
	return nil
}
