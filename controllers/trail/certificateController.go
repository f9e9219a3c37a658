package controllers

import (
	"encoding/base64"
	"fmt"
	"log"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	trailModels "lms/models/trail"
	"lms/services/progress"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"
)

func verificationURL(hash string) string {
	return fmt.Sprintf("%s/certificates/%s", config.AppConfig.CertVerifyBaseURL, hash)
}

// qrDataURI renders the verification link as an inline PNG for embedding
// straight into the certificate page.
func qrDataURI(url string) string {
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		log.Println("Failed to encode certificate QR code:", err)
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func certificatePayload(cert *trailModels.TrailCertificate, trail *trailModels.Trail, user *models.User) fiber.Map {
	url := verificationURL(cert.CertificateHash)
	return fiber.Map{
		"credential_id":    cert.CredentialID,
		"certificate_hash": cert.CertificateHash,
		"issued_at":        cert.IssuedAt,
		"trail_id":         cert.TrailID,
		"trail_name":       trail.Name,
		"trail_author":     trail.Author,
		"recipient_name":   user.NameForCertificate(),
		"verification_url": url,
		"qr_code":          qrDataURI(url),
	}
}

// GetCertificateByHash is the public verification endpoint behind the QR code.
// No authentication: anyone holding the link can confirm the certificate.
func GetCertificateByHash(c *fiber.Ctx) error {
	hash := c.Params("hash")
	if hash == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate hash is required!", nil)
	}

	var cert trailModels.TrailCertificate
	if err := database.Database.Db.Where("certificate_hash = ?", hash).First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	var trail trailModels.Trail
	if err := database.Database.Db.First(&trail, cert.TrailID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trail not found!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, cert.UserID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified successfully!", certificatePayload(&cert, &trail, &user))
}

// GetMyTrailCertificate returns the caller's certificate for a trail. A sync
// runs first so a trail finished moments ago still resolves its certificate.
func GetMyTrailCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	trailID := c.Locals("trailID").(int)

	// Only re-sync existing enrollments; a certificate lookup must not
	// enroll the caller as a side effect.
	var enrolled int64
	if err := database.Database.Db.Model(&trailModels.Enrollment{}).
		Where("user_id = ? AND trail_id = ?", userID, trailID).
		Count(&enrolled).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollment!", nil)
	}
	if enrolled > 0 {
		if _, err := progress.Sync(database.Database.Db, userID, uint(trailID)); err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sync trail progress!", nil)
		}
	}

	var cert trailModels.TrailCertificate
	if err := database.Database.Db.Where("user_id = ? AND trail_id = ?", userID, trailID).First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No certificate issued for this trail!", nil)
	}

	var trail trailModels.Trail
	if err := database.Database.Db.First(&trail, cert.TrailID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trail not found!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", certificatePayload(&cert, &trail, &user))
}

// GetUserCertificates lists every certificate the caller has earned.
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var certs []trailModels.TrailCertificate
	if err := database.Database.Db.Where("user_id = ?", userID).Order("issued_at desc").Find(&certs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	list := make([]fiber.Map, 0, len(certs))
	for i := range certs {
		var trail trailModels.Trail
		if err := database.Database.Db.First(&trail, certs[i].TrailID).Error; err != nil {
			continue
		}
		list = append(list, fiber.Map{
			"credential_id":    certs[i].CredentialID,
			"certificate_hash": certs[i].CertificateHash,
			"issued_at":        certs[i].IssuedAt,
			"trail_id":         certs[i].TrailID,
			"trail_name":       trail.Name,
			"verification_url": verificationURL(certs[i].CertificateHash),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", list)
}

// BackfillCertificates issues certificates for enrollments that finished
// before issuance existed. Admin only; the nightly job runs the same sweep.
func BackfillCertificates(c *fiber.Ctx) error {
	issued, err := progress.BackfillCertificates(database.Database.Db)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Certificate backfill failed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate backfill completed!", fiber.Map{
		"issued": issued,
	})
}

// notifyCertificateIssued fans out the email and webhook notifications for a
// freshly issued certificate. Runs on its own goroutine; failures are logged
// and never surface to the request that triggered issuance.
func notifyCertificateIssued(userID, trailID uint, cert *trailModels.TrailCertificate) {
	if cert == nil {
		return
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		log.Println("Certificate notification: failed to load user:", err)
		return
	}

	var trail trailModels.Trail
	if err := database.Database.Db.First(&trail, trailID).Error; err != nil {
		log.Println("Certificate notification: failed to load trail:", err)
		return
	}

	url := verificationURL(cert.CertificateHash)

	if err := utils.SendCertificateEmail(user.Email, user.NameForCertificate(), trail.Name, url); err != nil {
		log.Println("Failed to send certificate email:", err)
	}

	utils.SendCertificateWebhook(cert, trail.Name, user.Email, url)
}
