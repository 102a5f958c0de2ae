package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Mailer sends study reminder emails via Amazon SES
type Mailer struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
}

// NewMailer creates a new mailer. If fromEmail is empty the mailer is
// disabled and silently skips all sends.
func NewMailer(awsRegion, fromEmail, fromName string, debug bool) (*Mailer, error) {
	if fromEmail == "" {
		log.Println("Mailer disabled: SES_FROM_EMAIL not configured")
		return &Mailer{
			enabled: false,
			debug:   debug,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)
	log.Printf("Mailer enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &Mailer{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		debug:     debug,
	}, nil
}

// IsEnabled returns whether the mailer can send email
func (m *Mailer) IsEnabled() bool {
	return m.enabled
}

// SendReminderEmail sends one study reminder
func (m *Mailer) SendReminderEmail(ctx context.Context, toEmail, toName, message string) error {
	if !m.enabled {
		log.Printf("Skipping email send (mailer disabled): reminder to %s", toEmail)
		return nil
	}

	subject := "Time to study!"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Study Reminder</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>%s</p>
			<p>A few minutes of review today keeps your streak alive.</p>
		</div>
		<div class="footer">
			<p>This is an automated email from BookMe. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, toName, message)

	textBody := fmt.Sprintf(`Hi %s,

%s

A few minutes of review today keeps your streak alive.

---
This is an automated email from BookMe. Please do not reply.
`, toName, message)

	if m.debug {
		log.Printf("[DEBUG] Sending reminder email: to=%s, subject=%s", toEmail, subject)
	}

	return m.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func (m *Mailer) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := m.fromEmail
	if m.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if m.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
