package mail

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"
)

//go:embed templates/outreach.html
var templatesFS embed.FS

var outreachTemplate = template.Must(template.ParseFS(templatesFS, "templates/outreach.html"))

// Dialer is the part of *gomail.Dialer the sender needs.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// WithDialer swaps the SMTP dialer, for tests.
func (s *EmailSender) WithDialer(d Dialer) *EmailSender {
	s.dialer = d
	return s
}

// Configured reports whether an SMTP host was given.
func (s *EmailSender) Configured() bool {
	return s.Host != ""
}

// SendOutreach mails an approved outreach draft as HTML with a plain text
// alternative.
func (s *EmailSender) SendOutreach(ctx context.Context, to, name, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.Configured() {
		return errors.New("smtp is not configured")
	}
	if strings.TrimSpace(to) == "" {
		return errors.New("recipient address is empty")
	}

	m, err := s.buildMessage(to, name, subject, body)
	if err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send smtp email: %w", err)
	}
	return nil
}

func (s *EmailSender) buildMessage(to, name, subject, body string) (*gomail.Message, error) {
	data := OutreachEmailData{Name: name, Paragraphs: paragraphs(body)}

	var html bytes.Buffer
	if err := outreachTemplate.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("render outreach template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	if name != "" {
		m.SetHeader("To", m.FormatAddress(to, name))
	} else {
		m.SetHeader("To", to)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	m.AddAlternative("text/html", html.String())
	return m, nil
}

func paragraphs(body string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
