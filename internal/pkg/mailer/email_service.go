package mailer

import (
	"context"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"
)

// CaseReadyMail is the content of the message sent once a case document
// has been generated.
type CaseReadyMail struct {
	FullName        string
	ReferenceNumber string
	IssueType       string
	DocumentTitle   string
	Authority       string
	NextSteps       []string
}

type IEmailService interface {
	SendCaseReady(ctx context.Context, toEmail string, mail CaseReadyMail) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
	}
}

func (s *emailService) SendCaseReady(ctx context.Context, toEmail string, mail CaseReadyMail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, htmlBody, textBody := RenderCaseReady(mail)

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send case mail to %s: %w", toEmail, err)
	}
	return nil
}

// RenderCaseReady returns the subject, HTML and plain text bodies.
func RenderCaseReady(mail CaseReadyMail) (string, string, string) {
	subject := fmt.Sprintf("Your case %s is ready", mail.ReferenceNumber)

	name := mail.FullName
	if name == "" {
		name = "there"
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Hello %s,\n\n", name)
	fmt.Fprintf(&text, "Your %s document for case %s has been prepared.\n", mail.DocumentTitle, mail.ReferenceNumber)
	if mail.Authority != "" {
		fmt.Fprintf(&text, "File it with: %s\n", mail.Authority)
	}
	if len(mail.NextSteps) > 0 {
		text.WriteString("\nNext steps:\n")
		for i, step := range mail.NextSteps {
			fmt.Fprintf(&text, "%d. %s\n", i+1, step)
		}
	}

	var steps strings.Builder
	for _, step := range mail.NextSteps {
		fmt.Fprintf(&steps, "<li>%s</li>", html.EscapeString(step))
	}
	authority := ""
	if mail.Authority != "" {
		authority = fmt.Sprintf("<p>File it with: <strong>%s</strong></p>", html.EscapeString(mail.Authority))
	}
	htmlBody := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hello %s,</h2>
			<p>Your <strong>%s</strong> document for case <strong>%s</strong> has been prepared.</p>
			%s
			<ol>%s</ol>
		</div>
	`, html.EscapeString(name), html.EscapeString(mail.DocumentTitle), html.EscapeString(mail.ReferenceNumber), authority, steps.String())

	return subject, htmlBody, text.String()
}

// NopEmailService drops every message. It is used when email is disabled.
type NopEmailService struct{}

func (NopEmailService) SendCaseReady(context.Context, string, CaseReadyMail) error {
	return nil
}
