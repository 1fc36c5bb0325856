package database

import "autonation/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models,
// parents before children.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Subscription{},
		&models.Integration{},
		&models.Automation{},
		&models.Trigger{},
		&models.Listener{},
		&models.Keyword{},
		&models.Post{},
		&models.Dm{},
	}
}
