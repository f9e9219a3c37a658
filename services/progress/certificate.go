package progress

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	trailModels "lms/models/trail"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// certTokenBytes is the size of the random certificate token; the hex
// encoding doubles it to 32 characters.
const certTokenBytes = 16

// EnsureCertificate returns the certificate for (user, trail), creating it
// exactly once on first call. The returned flag reports whether this call
// created it. Concurrent completion triggers collapse on the unique
// (user_id, trail_id) index: a conflicting insert is treated as "someone
// else already issued it" and the existing row is fetched instead.
func EnsureCertificate(db *gorm.DB, userID, trailID uint) (*trailModels.TrailCertificate, bool, error) {
	var cert trailModels.TrailCertificate
	err := db.Where("user_id = ? AND trail_id = ?", userID, trailID).First(&cert).Error
	if err == nil {
		return &cert, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	for {
		token, err := uniqueCertificateToken(db)
		if err != nil {
			return nil, false, err
		}

		fresh := trailModels.TrailCertificate{
			UserID:          userID,
			TrailID:         trailID,
			CertificateHash: token,
			CredentialID:    token,
			IssuedAt:        time.Now(),
		}
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "trail_id"}},
			DoNothing: true,
		}).Create(&fresh)
		if res.Error != nil {
			// A token collision slipping past the pre-check trips the unique
			// hash index; retry with a new token rather than surfacing it.
			if isDuplicateKey(res.Error) {
				continue
			}
			return nil, false, res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race on (user, trail); return the winner's row
			if err := db.Where("user_id = ? AND trail_id = ?", userID, trailID).First(&cert).Error; err != nil {
				return nil, false, err
			}
			return &cert, false, nil
		}
		return &fresh, true, nil
	}
}

// uniqueCertificateToken draws random hex tokens until one is unused. The
// collision odds are astronomically low, but the loop must exist for
// correctness.
func uniqueCertificateToken(db *gorm.DB) (string, error) {
	for {
		buf := make([]byte, certTokenBytes)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		token := hex.EncodeToString(buf)

		var count int64
		if err := db.Model(&trailModels.TrailCertificate{}).
			Where("certificate_hash = ?", token).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return token, nil
		}
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
