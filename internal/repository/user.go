package repository

import (
	"context"

	"autonation/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileUpdate holds the user columns a profile update may change. Nil
// fields are left unchanged.
type ProfileUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// UserRepository defines persistence operations for users, keyed by the
// identity-provider subject id.
type UserRepository interface {
	GetBySubject(ctx context.Context, subject string) (*models.User, error)
	GetFullBySubject(ctx context.Context, subject string) (*models.User, error)
	GetIDBySubject(ctx context.Context, subject string) (string, error)
	CreateIfMissing(ctx context.Context, user *models.User) (*models.User, error)
	UpdateProfile(ctx context.Context, subject string, update ProfileUpdate) (*models.User, error)
}

type userRepository struct {
	base
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB, opts ...Option) UserRepository {
	return &userRepository{base: newBase(db, opts)}
}

func withProfile(db *gorm.DB) *gorm.DB {
	return db.Preload("Subscription").Preload("Integrations", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

func (r *userRepository) findBySubject(ctx context.Context, db *gorm.DB, subject string) (*models.User, error) {
	var user models.User
	if err := withProfile(db.WithContext(ctx)).Where("clerk_id = ?", subject).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "User", subject)
	}
	user.EnsureCollections()
	return &user, nil
}

// GetBySubject returns the user with Subscription and Integrations attached.
func (r *userRepository) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	defer r.metrics.TrackQuery("get_by_subject", "users")()
	return r.findBySubject(ctx, r.readDB(), subject)
}

// GetFullBySubject additionally attaches the user's automations, newest first,
// each with Trigger, Listener and Keywords.
func (r *userRepository) GetFullBySubject(ctx context.Context, subject string) (*models.User, error) {
	defer r.metrics.TrackQuery("get_full_by_subject", "users")()

	var user models.User
	err := withProfile(r.readDB().WithContext(ctx)).
		Preload("Automations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Automations.Trigger").
		Preload("Automations.Listener").
		Preload("Automations.Keywords").
		Where("clerk_id = ?", subject).
		First(&user).Error
	if err != nil {
		return nil, notFoundOr(err, "User", subject)
	}
	if user.Automations == nil {
		user.Automations = []models.Automation{}
	}
	user.EnsureCollections()
	return &user, nil
}

// GetIDBySubject returns only the internal user id for subject.
func (r *userRepository) GetIDBySubject(ctx context.Context, subject string) (string, error) {
	defer r.metrics.TrackQuery("get_id_by_subject", "users")()

	var user models.User
	if err := r.readDB().WithContext(ctx).Select("id").Where("clerk_id = ?", subject).First(&user).Error; err != nil {
		return "", notFoundOr(err, "User", subject)
	}
	return user.ID, nil
}

// CreateIfMissing inserts user unless a row with the same clerk_id exists and
// returns whichever row won. Reads go to the primary so a fresh insert is visible.
func (r *userRepository) CreateIfMissing(ctx context.Context, user *models.User) (*models.User, error) {
	defer r.metrics.TrackQuery("create_if_missing", "users")()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "clerk_id"}},
			DoNothing: true,
		}).
		Omit(clause.Associations).
		Create(user).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return r.findBySubject(ctx, r.db, user.ClerkID)
}

// UpdateProfile applies the non-nil fields of update to the user with subject.
func (r *userRepository) UpdateProfile(ctx context.Context, subject string, update ProfileUpdate) (*models.User, error) {
	defer r.metrics.TrackQuery("update_profile", "users")()

	updates := map[string]interface{}{}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.FirstName != nil {
		updates["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		updates["last_name"] = *update.LastName
	}

	var user *models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.Select("id").Where("clerk_id = ?", subject).First(&existing).Error; err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
		}
		var err error
		user, err = r.findBySubject(ctx, tx, subject)
		return err
	})
	if err != nil {
		return nil, notFoundOr(err, "User", subject)
	}
	return user, nil
}
