package service

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"photo-vault/internal/config"
)

type EmailService interface {
	SendShareEmail(ctx context.Context, toEmail, itemTitle, shareURL string) error
}

type emailService struct {
	client *resend.Client
	config *config.Config
}

func NewEmailService(cfg *config.Config) EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &emailService{
		client: client,
		config: cfg,
	}
}

func (s *emailService) SendShareEmail(ctx context.Context, toEmail, itemTitle, shareURL string) error {
	subject := fmt.Sprintf("Photos shared with you: %s", itemTitle)

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Photos shared with you</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9fafb;">

	<div style="background-color: #111827; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
		<h1 style="color: #ffffff; margin: 0; font-size: 28px;">
			Photo Vault
		</h1>
	</div>

	<div style="background-color: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px;">

		<h2 style="color: #111827; margin-top: 0;">
			Someone shared photos with you
		</h2>

		<p>
			<strong>%s</strong> is waiting for you. Open the link below to view it.
		</p>

		<div style="text-align: center; margin: 30px 0;">
			<a href="%s"
			   style="background-color: #10b981; color: #ffffff; padding: 14px 28px; text-decoration: none; border-radius: 6px; font-weight: bold; display: inline-block;">
				View photos
			</a>
		</div>

		<p style="font-size: 14px; color: #6b7280;">
			If the button does not work, copy and paste this link into your browser:
			<br>
			<a href="%s" style="color: #10b981; word-break: break-all;">
				%s
			</a>
		</p>
	</div>

</body>
</html>`, itemTitle, shareURL, shareURL, shareURL)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Photo Vault <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    html,
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}
