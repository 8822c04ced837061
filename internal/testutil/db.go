package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
)

// NewDB opens a fresh in-memory database with the full schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Proposal{},
		&models.TimeEntry{},
		&models.Notification{},
		&models.Review{},
		&models.Message{},
	))

	return db
}

// NewUser inserts a user with a unique email and returns it.
func NewUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	u := models.User{
		Email:     uuid.New().String() + "@example.com",
		Password:  "x",
		FirstName: "Test",
		LastName:  string(role),
		Role:      role,
		Status:    models.UserStatusActive,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

// NewProject inserts an open project owned by clientID.
func NewProject(t *testing.T, db *gorm.DB, clientID uuid.UUID) *models.Project {
	t.Helper()

	p := models.Project{
		ClientID:    clientID,
		Title:       "Build a landing page",
		Description: "Static landing page with a contact form",
		Category:    "web",
		Budget:      500,
		Timeline:    "2 weeks",
		Status:      models.ProjectStatusOpen,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}
