// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"autonation/internal/database"
	"autonation/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory SQLite database. The pool is capped at
// one connection because every :memory: connection is a separate database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given subject id.
func CreateUser(t *testing.T, db *gorm.DB, subject string) *models.User {
	t.Helper()
	user := &models.User{ClerkID: subject, Email: subject + "@example.com"}
	if err := db.WithContext(context.Background()).Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateAutomation inserts an automation for ownerID with a MESSAGE listener
// and the given keywords. createdAt controls list ordering.
func CreateAutomation(t *testing.T, db *gorm.DB, ownerID, name string, createdAt time.Time, keywords ...string) *models.Automation {
	t.Helper()
	a := &models.Automation{Name: name, UserID: ownerID, CreatedAt: createdAt}
	if err := db.Omit("Trigger", "Listener", "Keywords", "Posts", "Dms").Create(a).Error; err != nil {
		t.Fatalf("create automation: %v", err)
	}
	if err := db.Create(&models.Listener{AutomationID: a.ID, Listener: models.ListenerMessage}).Error; err != nil {
		t.Fatalf("create listener: %v", err)
	}
	for _, w := range keywords {
		if err := db.Create(&models.Keyword{AutomationID: a.ID, Word: w}).Error; err != nil {
			t.Fatalf("create keyword: %v", err)
		}
	}
	return a
}

// AddPost attaches a post to an automation.
func AddPost(t *testing.T, db *gorm.DB, automationID, postID string) *models.Post {
	t.Helper()
	p := &models.Post{AutomationID: automationID, PostID: postID, Media: "https://cdn.example.com/" + postID, MediaType: models.MediaImage}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// AddDm attaches a direct message to an automation.
func AddDm(t *testing.T, db *gorm.DB, automationID, message string) *models.Dm {
	t.Helper()
	d := &models.Dm{AutomationID: automationID, Message: &message}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("create dm: %v", err)
	}
	return d
}

// AddIntegration attaches an Instagram integration to a user.
func AddIntegration(t *testing.T, db *gorm.DB, ownerID, instagramID string) *models.Integration {
	t.Helper()
	i := &models.Integration{UserID: ownerID, Name: models.IntegrationInstagram, Token: "secret-token", InstagramID: &instagramID}
	if err := db.Create(i).Error; err != nil {
		t.Fatalf("create integration: %v", err)
	}
	return i
}
