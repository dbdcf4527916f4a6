package services

import (
	"encoding/json"
	"testing"

	"github.com/bursary-dev/bursary/db"
	"github.com/bursary-dev/bursary/internal/mailer"
	"github.com/bursary-dev/bursary/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps every query on the same in-memory database.
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(
		&models.User{},
		&models.Scholarship{},
		&models.EligibilityItem{},
		&models.Application{},
		&models.ApplicationDocument{},
		&models.ScholarshipSave{},
	))

	previous := db.DB
	db.DB = database
	t.Cleanup(func() { db.DB = previous })
}

func silenceMailer(t *testing.T) {
	t.Helper()

	previous := mailer.Send
	mailer.Send = func(to, subject, body string) error { return nil }
	t.Cleanup(func() { mailer.Send = previous })
}

func createUser(t *testing.T, role, email string) models.User {
	t.Helper()

	user := models.User{
		Name:         "Test " + role,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.DB.Create(&user).Error)

	return user
}

func createScholarship(t *testing.T, donorID uint, status string) models.Scholarship {
	t.Helper()

	scholarship := models.Scholarship{
		DonorID:     donorID,
		Title:       "UTG Excellence Award",
		AmountGmd:   500000,
		Degree:      "Masters",
		Field:       "Computer Science",
		Description: "Full tuition support for graduate study.",
		Status:      status,
	}
	require.NoError(t, db.DB.Create(&scholarship).Error)

	return scholarship
}

func asIdentity(user models.User) Identity {
	return Identity{ID: user.ID, Role: user.Role}
}

func rawJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	return data
}
