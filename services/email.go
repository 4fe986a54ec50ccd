package services

import (
	"fmt"
	"log"

	"lexsync_app_go/config"
	"lexsync_app_go/services/i18n"

	"github.com/resend/resend-go/v2"
)

// Email is an outbound notification message
type Email struct {
	To       []string
	Subject  string
	TextBody string
}

// BuildBootstrapEmail notifies the case owner that the registry import
// completed, localized to the user's language
func BuildBootstrapEmail(toEmail, lang, caseID, radicado string, imported int) *Email {
	args := map[string]interface{}{
		"caseId":   caseID,
		"radicado": radicado,
		"count":    imported,
	}
	return &Email{
		To:       []string{toEmail},
		Subject:  i18n.Translate(lang, "sync.notifications.bootstrap_subject", args),
		TextBody: i18n.Translate(lang, "sync.notifications.bootstrap_body", args),
	}
}

// SendEmail delivers the message via Resend. In test mode the email is
// logged to the console instead of sent.
func SendEmail(cfg *config.Config, email *Email) error {
	if cfg.EmailTestMode {
		log.Printf("[EMAIL] (test mode) To: %v | Subject: %s | Body: %s", email.To, email.Subject, email.TextBody)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Text:    email.TextBody,
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendEmailAsync sends an email in a goroutine; failures are logged,
// never surfaced
func SendEmailAsync(cfg *config.Config, email *Email) {
	go func() {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("[EMAIL] Failed to send email to %v: %v", email.To, err)
		}
	}()
}
