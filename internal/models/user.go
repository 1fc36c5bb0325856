// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionPlan is the billing tier of a user.
type SubscriptionPlan string

const (
	SubscriptionPlanFree SubscriptionPlan = "FREE"
	SubscriptionPlanPro  SubscriptionPlan = "PRO"
)

// IntegrationName identifies the external platform an integration connects to.
type IntegrationName string

const (
	IntegrationInstagram IntegrationName = "INSTAGRAM"
)

// User is an AutoNation account, keyed externally by the identity provider's subject id.
type User struct {
	ID           string        `gorm:"primaryKey;size:36" json:"id"`
	ClerkID      string        `gorm:"uniqueIndex;not null;size:255" json:"clerkId"`
	Email        string        `gorm:"not null" json:"email"`
	FirstName    *string       `json:"firstName"`
	LastName     *string       `json:"lastName"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	Subscription *Subscription `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"subscription"`
	Integrations []Integration `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"integrations"`
	Automations  []Automation  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"automations,omitempty"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// EnsureCollections replaces nil has-many slices with empty ones so they
// serialize as [] rather than null.
func (u *User) EnsureCollections() {
	if u.Integrations == nil {
		u.Integrations = []Integration{}
	}
	for i := range u.Automations {
		u.Automations[i].EnsureCollections()
	}
}

// Subscription holds the plan a user is on.
type Subscription struct {
	ID         string           `gorm:"primaryKey;size:36" json:"id"`
	UserID     string           `gorm:"uniqueIndex;not null;size:36" json:"userId"`
	Plan       SubscriptionPlan `gorm:"size:16;not null;default:FREE" json:"plan"`
	CustomerID *string          `gorm:"uniqueIndex" json:"customerId"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

func (s *Subscription) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Integration is a connected Instagram account. The access token is never serialized.
type Integration struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	Name        IntegrationName `gorm:"size:32;not null;default:INSTAGRAM" json:"name"`
	UserID      string          `gorm:"index;not null;size:36" json:"userId"`
	Token       string          `gorm:"not null" json:"-"`
	ExpiresAt   *time.Time      `json:"expiresAt"`
	InstagramID *string         `gorm:"uniqueIndex" json:"instagramId"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (i *Integration) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
