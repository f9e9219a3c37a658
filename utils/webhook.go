package utils

import (
	"log"
	"time"

	"lms/config"
	trailModels "lms/models/trail"

	"github.com/go-resty/resty/v2"
)

// SendCertificateWebhook posts a certificate.issued event to the configured
// endpoint. A no-op when CERT_WEBHOOK_URL is unset; delivery failures are
// logged, never retried here.
func SendCertificateWebhook(cert *trailModels.TrailCertificate, trailName, userEmail, verificationURL string) {
	url := config.AppConfig.CertWebhookURL
	if url == "" {
		return
	}

	payload := map[string]interface{}{
		"event":            "certificate.issued",
		"credential_id":    cert.CredentialID,
		"certificate_hash": cert.CertificateHash,
		"user_id":          cert.UserID,
		"user_email":       userEmail,
		"trail_id":         cert.TrailID,
		"trail_name":       trailName,
		"issued_at":        cert.IssuedAt,
		"verification_url": verificationURL,
	}

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(url)
	if err != nil {
		log.Printf("Certificate webhook delivery failed: %v", err)
		return
	}
	if resp.StatusCode() >= 300 {
		log.Printf("Certificate webhook rejected: %d %s", resp.StatusCode(), resp.String())
	}
}
