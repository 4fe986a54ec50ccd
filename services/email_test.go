package services

import (
	"testing"

	"lexsync_app_go/config"
	"lexsync_app_go/services/i18n"

	"github.com/stretchr/testify/assert"
)

func TestBuildBootstrapEmail(t *testing.T) {
	assert.NoError(t, i18n.Load())

	t.Run("English", func(t *testing.T) {
		email := BuildBootstrapEmail("user@example.com", "en", "1001", "11001310300020240012300", 12)

		assert.Equal(t, []string{"user@example.com"}, email.To)
		assert.Contains(t, email.Subject, "1001")
		assert.Contains(t, email.TextBody, "11001310300020240012300")
		assert.Contains(t, email.TextBody, "12")
	})

	t.Run("Spanish", func(t *testing.T) {
		email := BuildBootstrapEmail("user@example.com", "es", "1001", "11001310300020240012300", 12)

		assert.Contains(t, email.Subject, "vinculado")
		assert.Contains(t, email.TextBody, "actuaciones")
	})
}

func TestSendEmailTestMode(t *testing.T) {
	cfg := &config.Config{EmailTestMode: true}
	email := &Email{To: []string{"user@example.com"}, Subject: "s", TextBody: "b"}

	// Test mode only logs; no API key is required
	assert.NoError(t, SendEmail(cfg, email))
}

func TestSendEmailRequiresAPIKey(t *testing.T) {
	cfg := &config.Config{EmailTestMode: false}
	email := &Email{To: []string{"user@example.com"}, Subject: "s", TextBody: "b"}

	assert.Error(t, SendEmail(cfg, email))
}
