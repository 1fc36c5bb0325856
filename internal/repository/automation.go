package repository

import (
	"context"
	"time"

	"autonation/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AutomationPatch describes a partial automation update. Nil pointers leave
// the column unchanged; a nil Keywords slice leaves the keyword set alone and
// a non-nil one (including empty) replaces it.
type AutomationPatch struct {
	Name         *string
	Active       *bool
	Prompt       *string
	CommentReply *string
	Keywords     []string
}

// AutomationRepository defines persistence operations for the automation
// aggregate. Every method is scoped by owner id.
type AutomationRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Automation, error)
	GetByOwner(ctx context.Context, ownerID, id string) (*models.Automation, error)
	Create(ctx context.Context, automation *models.Automation) error
	Update(ctx context.Context, ownerID, id string, patch AutomationPatch) (*models.Automation, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type automationRepository struct {
	base
}

// NewAutomationRepository returns a new AutomationRepository implementation.
func NewAutomationRepository(db *gorm.DB, opts ...Option) AutomationRepository {
	return &automationRepository{base: newBase(db, opts)}
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Trigger").
		Preload("Listener").
		Preload("Keywords", func(db *gorm.DB) *gorm.DB { return db.Order("word ASC") }).
		Preload("Posts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Dms", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") })
}

func (r *automationRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Automation, error) {
	defer r.metrics.TrackQuery("list_by_owner", "automations")()

	automations := []models.Automation{}
	if err := withChildren(r.readDB().WithContext(ctx)).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&automations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range automations {
		automations[i].EnsureCollections()
	}
	return automations, nil
}

func (r *automationRepository) GetByOwner(ctx context.Context, ownerID, id string) (*models.Automation, error) {
	defer r.metrics.TrackQuery("get_by_owner", "automations")()
	return findOwned(withChildren(r.readDB().WithContext(ctx)), ownerID, id)
}

func findOwned(db *gorm.DB, ownerID, id string) (*models.Automation, error) {
	var automation models.Automation
	if err := db.Where("id = ? AND user_id = ?", id, ownerID).First(&automation).Error; err != nil {
		return nil, notFoundOr(err, "Automation", id)
	}
	automation.EnsureCollections()
	return &automation, nil
}

// Create inserts the automation and its Listener, Trigger and Keywords in one
// transaction. It fails with NotFound when the owner does not exist.
func (r *automationRepository) Create(ctx context.Context, automation *models.Automation) error {
	defer r.metrics.TrackQuery("create", "automations")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner int64
		if err := tx.Model(&models.User{}).Where("id = ?", automation.UserID).Count(&owner).Error; err != nil {
			return err
		}
		if owner == 0 {
			return models.NewNotFoundError("User", automation.UserID)
		}

		if err := tx.Omit(clause.Associations).Create(automation).Error; err != nil {
			return err
		}

		if automation.Listener != nil {
			automation.Listener.AutomationID = automation.ID
			if err := tx.Create(automation.Listener).Error; err != nil {
				return err
			}
		}
		if automation.Trigger != nil {
			automation.Trigger.AutomationID = automation.ID
			if err := tx.Create(automation.Trigger).Error; err != nil {
				return err
			}
		}
		for i := range automation.Keywords {
			automation.Keywords[i].AutomationID = automation.ID
		}
		if len(automation.Keywords) > 0 {
			if err := tx.Create(&automation.Keywords).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isKeywordConflict(err) {
			return models.NewValidationError("Duplicate keyword")
		}
		return notFoundOr(err, "Automation", automation.ID)
	}
	automation.EnsureCollections()
	return nil
}

// Update applies patch to an owned automation. The ownership check, column
// updates, listener upsert and keyword replacement commit or roll back together.
func (r *automationRepository) Update(ctx context.Context, ownerID, id string, patch AutomationPatch) (*models.Automation, error) {
	defer r.metrics.TrackQuery("update", "automations")()

	var updated *models.Automation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findOwned(tx.Preload("Listener"), ownerID, id)
		if err != nil {
			return err
		}

		columns := map[string]interface{}{"updated_at": time.Now()}
		if patch.Name != nil {
			columns["name"] = *patch.Name
		}
		if patch.Active != nil {
			columns["active"] = *patch.Active
		}
		if err := tx.Model(&models.Automation{}).
			Where("id = ? AND user_id = ?", id, ownerID).
			Updates(columns).Error; err != nil {
			return err
		}

		if patch.Prompt != nil || patch.CommentReply != nil {
			if err := upsertListener(tx, current, patch); err != nil {
				return err
			}
		}

		if patch.Keywords != nil {
			if err := replaceKeywords(tx, id, patch.Keywords); err != nil {
				return err
			}
		}

		updated, err = findOwned(withChildren(tx), ownerID, id)
		return err
	})
	if err != nil {
		if isKeywordConflict(err) {
			return nil, models.NewValidationError("Duplicate keyword")
		}
		return nil, notFoundOr(err, "Automation", id)
	}
	return updated, nil
}

// upsertListener patches the existing listener or creates a MESSAGE listener
// when the row is missing.
func upsertListener(tx *gorm.DB, current *models.Automation, patch AutomationPatch) error {
	if current.Listener == nil {
		listener := models.Listener{
			AutomationID: current.ID,
			Listener:     models.ListenerMessage,
		}
		if patch.Prompt != nil {
			listener.Prompt = *patch.Prompt
		}
		if patch.CommentReply != nil {
			listener.CommentReply = *patch.CommentReply
		}
		return tx.Create(&listener).Error
	}

	fields := map[string]interface{}{}
	if patch.Prompt != nil {
		fields["prompt"] = *patch.Prompt
	}
	if patch.CommentReply != nil {
		fields["comment_reply"] = *patch.CommentReply
	}
	return tx.Model(&models.Listener{}).
		Where("automation_id = ?", current.ID).
		Updates(fields).Error
}

func replaceKeywords(tx *gorm.DB, automationID string, words []string) error {
	if err := tx.Where("automation_id = ?", automationID).Delete(&models.Keyword{}).Error; err != nil {
		return err
	}
	if len(words) == 0 {
		return nil
	}
	keywords := make([]models.Keyword, 0, len(words))
	for _, w := range words {
		keywords = append(keywords, models.Keyword{AutomationID: automationID, Word: w})
	}
	return tx.Create(&keywords).Error
}

// Delete removes an owned automation and its children. Another owner's
// automation is reported as NotFound and left untouched.
func (r *automationRepository) Delete(ctx context.Context, ownerID, id string) error {
	defer r.metrics.TrackQuery("delete", "automations")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Automation{}).
			Where("id = ? AND user_id = ?", id, ownerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return models.NewNotFoundError("Automation", id)
		}

		for _, child := range []interface{}{&models.Dm{}, &models.Post{}, &models.Keyword{}, &models.Listener{}, &models.Trigger{}} {
			if err := tx.Where("automation_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Automation{}).Error
	})
	if err != nil {
		return notFoundOr(err, "Automation", id)
	}
	return nil
}
