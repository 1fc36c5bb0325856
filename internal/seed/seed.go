package seed

import (
	"context"
	"fmt"
	"time"

	"autonation/internal/models"

	"gorm.io/gorm"
)

// Result summarizes what Run created.
type Result struct {
	User        *models.User
	Automations int
	Posts       int
	Dms         int
}

// Run creates (or recreates) the demo account described by p. Any automations
// and integrations the account already owns are removed first, so running it
// twice leaves the same shape of data behind.
func Run(ctx context.Context, db *gorm.DB, p Preset) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	db = db.WithContext(ctx)

	user, err := upsertUser(db, p)
	if err != nil {
		return nil, err
	}
	if err := clearOwned(db, user.ID); err != nil {
		return nil, err
	}

	f := NewFactory(db, p.RandomSeed)
	res := &Result{User: user}

	if p.Integration {
		if _, err := f.AddIntegration(user.ID); err != nil {
			return nil, err
		}
	}

	for i := 0; i < p.Automations; i++ {
		automation, err := f.CreateAutomation(user.ID, p.KeywordsPerAutomation, time.Duration(i)*time.Hour)
		if err != nil {
			return nil, err
		}
		res.Automations++
		for j := 0; j < p.PostsPerAutomation; j++ {
			if _, err := f.AddPost(automation.ID); err != nil {
				return nil, err
			}
			res.Posts++
		}
		for j := 0; j < p.DmsPerAutomation; j++ {
			if _, err := f.AddDm(automation.ID); err != nil {
				return nil, err
			}
			res.Dms++
		}
	}
	return res, nil
}

func upsertUser(db *gorm.DB, p Preset) (*models.User, error) {
	var user models.User
	err := db.Where(models.User{ClerkID: p.Subject}).
		Attrs(models.User{Email: p.Email}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("upsert demo user: %w", err)
	}

	updates := map[string]interface{}{
		"email":      p.Email,
		"first_name": optional(p.FirstName),
		"last_name":  optional(p.LastName),
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update demo user: %w", err)
	}

	sub := models.Subscription{UserID: user.ID}
	if err := db.Where("user_id = ?", user.ID).FirstOrCreate(&sub).Error; err != nil {
		return nil, fmt.Errorf("upsert subscription: %w", err)
	}
	if err := db.Model(&sub).Update("plan", models.SubscriptionPlan(p.Plan)).Error; err != nil {
		return nil, fmt.Errorf("set plan: %w", err)
	}

	if err := db.Preload("Subscription").First(&user, "id = ?", user.ID).Error; err != nil {
		return nil, fmt.Errorf("reload demo user: %w", err)
	}
	return &user, nil
}

// clearOwned removes the automations (with their children) and integrations
// owned by userID.
func clearOwned(db *gorm.DB, userID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.Automation{}).Select("id").Where("user_id = ?", userID)
		for _, child := range []interface{}{&models.Dm{}, &models.Post{}, &models.Keyword{}, &models.Listener{}, &models.Trigger{}} {
			if err := tx.Where("automation_id IN (?)", owned).Delete(child).Error; err != nil {
				return fmt.Errorf("clear automation children: %w", err)
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Automation{}).Error; err != nil {
			return fmt.Errorf("clear automations: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Integration{}).Error; err != nil {
			return fmt.Errorf("clear integrations: %w", err)
		}
		return nil
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
