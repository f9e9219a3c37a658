package utils

import (
	"log"
	"strconv"
	"time"

	"lms/database"
	trailModels "lms/models/trail"
	"lms/services/progress"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[CERT-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// runCertificateBackfill re-syncs every enrollment and issues any missing
// certificates, then logs how many certificates the closing day produced.
func runCertificateBackfill() {
	issued, err := progress.BackfillCertificates(database.Database.Db)
	if err != nil {
		logScheduler("Backfill error: " + err.Error())
		return
	}
	if issued > 0 {
		logScheduler("Backfill issued " + strconv.Itoa(issued) + " missing certificate(s)")
	}

	dayStart := now.BeginningOfDay()
	dayEnd := now.EndOfDay()

	var todayCount int64
	if err := database.Database.Db.Model(&trailModels.TrailCertificate{}).
		Where("issued_at BETWEEN ? AND ?", dayStart, dayEnd).
		Count(&todayCount).Error; err != nil {
		logScheduler("Daily summary error: " + err.Error())
		return
	}
	logScheduler("Certificates issued today: " + strconv.Itoa(int(todayCount)))
}

// StartCertScheduler runs the certificate backfill nightly at 23:55
func StartCertScheduler() *cron.Cron {
	logScheduler("Initializing certificate scheduler...")

	c := cron.New()
	c.AddFunc("55 23 * * *", func() {
		runCertificateBackfill()
	})
	c.Start()

	logScheduler("Certificate scheduler initialized - runs nightly at 23:55")
	return c
}
