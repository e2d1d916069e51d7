package resource

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academic-records-api/internal/models"
)

func userDesc(t *testing.T) *Descriptor {
	t.Helper()
	reg, err := DefaultRegistry()
	require.NoError(t, err)
	d, ok := reg.Get("user")
	require.True(t, ok)
	return d
}

func TestValidateWriteRequiredFields(t *testing.T) {
	d := userDesc(t)

	messages := d.ValidateWrite(models.Record{"username": "ada"}, false)
	require.Contains(t, messages, "email is required")
	require.Contains(t, messages, "full_name is required")
	require.Contains(t, messages, "password is required")
	require.Contains(t, messages, "role is required")
	require.NotContains(t, messages, "username is required")
}

func TestValidateWritePartialSkipsRequired(t *testing.T) {
	d := userDesc(t)

	messages := d.ValidateWrite(models.Record{"full_name": "Ada Lovelace"}, true)
	require.Empty(t, messages)
}

func TestValidateWriteKindChecks(t *testing.T) {
	d := userDesc(t)

	messages := d.ValidateWrite(models.Record{
		"username":  "ada",
		"email":     "ada@example.com",
		"full_name": "Ada Lovelace",
		"password":  "s3cret",
		"role":      "SUPERUSER",
		"active":    "yes",
		"profile":   "not an object",
	}, false)

	require.Contains(t, messages, "role must be one of [ADMIN TEACHER STUDENT]")
	require.Contains(t, messages, "active must be a boolean")
	require.Contains(t, messages, "profile must be an object")
}

func TestValidateWriteNumberAndDate(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)
	record, ok := reg.Get("academicRecord")
	require.True(t, ok)

	messages := record.ValidateWrite(models.Record{"score": "ninety"}, true)
	require.Contains(t, messages, "score must be a number")

	messages = record.ValidateWrite(models.Record{"score": 91.5}, true)
	require.Empty(t, messages)

	attendance, ok := reg.Get("attendance")
	require.True(t, ok)

	messages = attendance.ValidateWrite(models.Record{"date": "last tuesday"}, true)
	require.Contains(t, messages, "date must be an RFC3339 or YYYY-MM-DD date")

	messages = attendance.ValidateWrite(models.Record{"date": "2026-02-14"}, true)
	require.Empty(t, messages)
}

func TestValidateWriteIgnoresUnknownAndNilFields(t *testing.T) {
	d := userDesc(t)

	messages := d.ValidateWrite(models.Record{"full_name": "Ada", "mystery": 1, "profile": nil}, true)
	require.Empty(t, messages)
}

func TestPrepareWriteHashesPassword(t *testing.T) {
	d := userDesc(t)

	rec := models.Record{"password": "s3cret"}
	require.NoError(t, d.PrepareWrite(rec))

	hashed, ok := rec["password"].(string)
	require.True(t, ok)
	require.NotEqual(t, "s3cret", hashed)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("s3cret")))
}

func TestPrepareWriteLeavesAbsentPassword(t *testing.T) {
	d := userDesc(t)

	rec := models.Record{"full_name": "Ada"}
	require.NoError(t, d.PrepareWrite(rec))
	_, present := rec["password"]
	require.False(t, present)
}
