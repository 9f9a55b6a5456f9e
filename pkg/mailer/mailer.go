package mailer

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"text/template"
)

// Mailer delivers notification mail. Implementations own rendering and
// transport; callers only hand over the recipient and the task facts.
type Mailer interface {
	SendTaskReminder(ctx context.Context, to, name, title string) error
}

// Config holds the SMTP transport settings
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

const reminderBody = `Hello {{.Name}},

This is a reminder that your task "{{.Title}}" has been marked as "In Progress".

Please ensure to complete the task as soon as possible.

Thank you!
`

// SMTPMailer implements Mailer using net/smtp
type SMTPMailer struct {
	config *Config
	auth   smtp.Auth
	tmpl   *template.Template
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		auth:   smtp.PlainAuth("", config.Username, config.Password, config.Host),
		tmpl:   template.Must(template.New("task_reminder").Parse(reminderBody)),
	}
}

// SendTaskReminder sends the reminder mail for a task to its owner
func (m *SMTPMailer) SendTaskReminder(ctx context.Context, to, name, title string) error {
	var body bytes.Buffer
	data := struct {
		Name  string
		Title string
	}{Name: name, Title: title}
	if err := m.tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("execute reminder template: %w", err)
	}

	message := m.buildMessage(to, "Task Reminder", body.String())

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	if err := smtp.SendMail(addr, m.auth, m.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("send reminder mail: %w", err)
	}
	return nil
}

func (m *SMTPMailer) buildMessage(to, subject, body string) []byte {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.config.FromName, m.config.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return msg.Bytes()
}
