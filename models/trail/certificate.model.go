package trail

import (
	"time"

	"gorm.io/gorm"
)

// TrailCertificate is an issued proof of trail completion. At most one per
// (user, trail), enforced by the unique index; never mutated after creation.
// CertificateHash doubles as the public verification token.
type TrailCertificate struct {
	gorm.Model
	UserID          uint      `json:"user_id" gorm:"uniqueIndex:idx_certificate_user_trail;not null"`
	TrailID         uint      `json:"trail_id" gorm:"uniqueIndex:idx_certificate_user_trail;not null"`
	CertificateHash string    `json:"certificate_hash" gorm:"uniqueIndex;size:64;not null"`
	CredentialID    string    `json:"credential_id" gorm:"uniqueIndex;size:64;not null"`
	IssuedAt        time.Time `json:"issued_at"`
}
