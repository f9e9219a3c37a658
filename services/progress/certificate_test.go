package progress

import (
	"encoding/hex"
	"testing"

	trailModels "lms/models/trail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCertificateIssuesOnce(t *testing.T) {
	db := setupTestDB(t)

	cert, issued, err := EnsureCertificate(db, 1, 10)
	require.NoError(t, err)
	assert.True(t, issued)
	assert.False(t, cert.IssuedAt.IsZero())

	// 16 random bytes, hex encoded
	assert.Len(t, cert.CertificateHash, 32)
	_, err = hex.DecodeString(cert.CertificateHash)
	assert.NoError(t, err)

	again, issued, err := EnsureCertificate(db, 1, 10)
	require.NoError(t, err)
	assert.False(t, issued)
	assert.Equal(t, cert.CertificateHash, again.CertificateHash)
	assert.Equal(t, cert.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&trailModels.TrailCertificate{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnsureCertificatePerUserAndTrail(t *testing.T) {
	db := setupTestDB(t)

	a, _, err := EnsureCertificate(db, 1, 10)
	require.NoError(t, err)
	b, _, err := EnsureCertificate(db, 1, 11)
	require.NoError(t, err)
	c, _, err := EnsureCertificate(db, 2, 10)
	require.NoError(t, err)

	assert.NotEqual(t, a.CertificateHash, b.CertificateHash)
	assert.NotEqual(t, a.CertificateHash, c.CertificateHash)
}

func TestEnsureCertificateSurvivesLostInsertRace(t *testing.T) {
	db := setupTestDB(t)

	// A row appearing between the pre-check and the insert must resolve to
	// the existing certificate, not an error or a duplicate.
	existing := trailModels.TrailCertificate{
		UserID:          1,
		TrailID:         10,
		CertificateHash: "feedfacefeedfacefeedfacefeedface",
		CredentialID:    "feedfacefeedfacefeedfacefeedface",
	}
	require.NoError(t, db.Create(&existing).Error)

	cert, issued, err := EnsureCertificate(db, 1, 10)
	require.NoError(t, err)
	assert.False(t, issued)
	assert.Equal(t, existing.CertificateHash, cert.CertificateHash)
}
