// Package mailer sends transactional email via the Mailtrap API, including
// rendered PDF attachments. Delivery failures are surfaced to the caller;
// there is no retry queue.
package mailer

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

var (
	apiKey    = os.Getenv("MAILTRAP_API_KEY")
	apiURL    = os.Getenv("MAILTRAP_API_URL")
	fromEmail = os.Getenv("MAIL_FROM_EMAIL")
	fromName  = os.Getenv("MAIL_FROM_NAME")
)

// Service is the notification surface the handlers depend on.
type Service interface {
	SendPasswordReset(toEmail, toName, resetToken, resetURL string) error
	SendDocument(toEmail, toName, subject, bodyHTML, filename string, pdf []byte) error
}

type MailerService struct {
	APIKey string
	URL    string
	From   EmailRecipient
}

func NewMailerService() *MailerService {
	from := EmailRecipient{Email: fromEmail, Name: fromName}
	if from.Email == "" {
		from.Email = "noreply@ledgerdesk.local"
	}
	return &MailerService{
		APIKey: apiKey,
		URL:    apiURL,
		From:   from,
	}
}

// EmailRecipient represents an email recipient
type EmailRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// EmailAttachment carries a base64-encoded file
type EmailAttachment struct {
	Content     string `json:"content"`
	Filename    string `json:"filename"`
	Type        string `json:"type,omitempty"`
	Disposition string `json:"disposition,omitempty"`
}

// EmailRequest represents the request payload for sending an email
type EmailRequest struct {
	From        EmailRecipient    `json:"from"`
	To          []EmailRecipient  `json:"to"`
	Subject     string            `json:"subject"`
	HTML        string            `json:"html,omitempty"`
	Text        string            `json:"text,omitempty"`
	Category    string            `json:"category,omitempty"`
	Attachments []EmailAttachment `json:"attachments,omitempty"`
}

// SendPasswordReset sends a password recovery email
func (m *MailerService) SendPasswordReset(toEmail, toName, resetToken, resetURL string) error {
	link := fmt.Sprintf("%s?token=%s", resetURL, resetToken)

	htmlBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<title>Password Recovery</title>
		</head>
		<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
			<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
				<h2>Password Recovery Request</h2>
				<p>Hello %s,</p>
				<p>We received a request to reset your password. Click the button below to reset it:</p>
				<p style="margin: 30px 0;">
					<a href="%s" style="background-color: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">Reset Password</a>
				</p>
				<p>Or copy and paste this link into your browser:</p>
				<p style="word-break: break-all; color: #007bff;">%s</p>
				<p>This link will expire in 1 hour.</p>
				<p>If you didn't request a password reset, please ignore this email or contact support if you have concerns.</p>
				<hr style="border: none; border-top: 1px solid #ddd; margin: 30px 0;">
				<p style="font-size: 12px; color: #666;">This is an automated message, please do not reply.</p>
			</div>
		</body>
		</html>
	`, toName, link, link)

	textBody := fmt.Sprintf(`
Password Recovery Request

Hello %s,

We received a request to reset your password. Click the link below to reset it:

%s

This link will expire in 1 hour.

If you didn't request a password reset, please ignore this email or contact support if you have concerns.

---
This is an automated message, please do not reply.
	`, toName, link)

	emailReq := EmailRequest{
		From:     m.From,
		To:       []EmailRecipient{{Email: toEmail, Name: toName}},
		Subject:  "Password Recovery Request",
		HTML:     htmlBody,
		Text:     textBody,
		Category: "password_recovery",
	}

	return m.sendEmail(emailReq)
}

// SendDocument delivers an email with a rendered PDF attached. Used for
// invoice and receipt delivery.
func (m *MailerService) SendDocument(toEmail, toName, subject, bodyHTML, filename string, pdf []byte) error {
	emailReq := EmailRequest{
		From:     m.From,
		To:       []EmailRecipient{{Email: toEmail, Name: toName}},
		Subject:  subject,
		HTML:     bodyHTML,
		Category: "document_delivery",
		Attachments: []EmailAttachment{
			{
				Content:     base64.StdEncoding.EncodeToString(pdf),
				Filename:    filename,
				Type:        "application/pdf",
				Disposition: "attachment",
			},
		},
	}

	return m.sendEmail(emailReq)
}

// sendEmail submits an email via the Mailtrap API
func (m *MailerService) sendEmail(emailReq EmailRequest) error {
	payload, err := json.Marshal(emailReq)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequest("POST", m.URL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mailtrap API returned status: %d", resp.StatusCode)
	}

	return nil
}
