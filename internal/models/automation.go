package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultAutomationName is used when an automation is created without a name.
const DefaultAutomationName = "Untitled Automation"

// ListenerKind selects how an automation responds once triggered.
type ListenerKind string

const (
	ListenerMessage ListenerKind = "MESSAGE"
	ListenerSmartAI ListenerKind = "SMARTAI"
)

// Valid reports whether k is a known listener kind.
func (k ListenerKind) Valid() bool {
	switch k {
	case ListenerMessage, ListenerSmartAI:
		return true
	}
	return false
}

// TriggerType is the Instagram event that activates an automation.
type TriggerType string

const (
	TriggerComment TriggerType = "COMMENT"
	TriggerDM      TriggerType = "DM"
	TriggerMention TriggerType = "MENTION"
)

// Valid reports whether t is a known trigger type.
func (t TriggerType) Valid() bool {
	switch t {
	case TriggerComment, TriggerDM, TriggerMention:
		return true
	}
	return false
}

// MediaType is the Instagram media kind of an attached post.
type MediaType string

const (
	MediaImage    MediaType = "IMAGE"
	MediaVideo    MediaType = "VIDEO"
	MediaCarousel MediaType = "CAROUSEL_ALBUM"
)

// Automation is the aggregate root: a keyword-triggered auto-reply owned by one user.
type Automation struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Active    bool      `gorm:"not null;default:false" json:"active"`
	UserID    string    `gorm:"index;not null;size:36" json:"userId"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Trigger   *Trigger  `gorm:"foreignKey:AutomationID;constraint:OnDelete:CASCADE" json:"trigger"`
	Listener  *Listener `gorm:"foreignKey:AutomationID;constraint:OnDelete:CASCADE" json:"listener"`
	Keywords  []Keyword `gorm:"foreignKey:AutomationID;constraint:OnDelete:CASCADE" json:"keywords"`
	Posts     []Post    `gorm:"foreignKey:AutomationID;constraint:OnDelete:CASCADE" json:"posts"`
	Dms       []Dm      `gorm:"foreignKey:AutomationID;constraint:OnDelete:CASCADE" json:"dms"`
}

func (a *Automation) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// EnsureCollections replaces nil child slices with empty ones.
func (a *Automation) EnsureCollections() {
	if a.Keywords == nil {
		a.Keywords = []Keyword{}
	}
	if a.Posts == nil {
		a.Posts = []Post{}
	}
	if a.Dms == nil {
		a.Dms = []Dm{}
	}
}

// Words returns the keyword strings in stored order.
func (a *Automation) Words() []string {
	words := make([]string, 0, len(a.Keywords))
	for _, k := range a.Keywords {
		words = append(words, k.Word)
	}
	return words
}

// Listener is the configured response behavior of an automation (1:1).
type Listener struct {
	ID           string       `gorm:"primaryKey;size:36" json:"id"`
	AutomationID string       `gorm:"uniqueIndex;not null;size:36" json:"automationId"`
	Listener     ListenerKind `gorm:"column:listener;size:16;not null;default:MESSAGE" json:"listener"`
	Prompt       string       `gorm:"not null" json:"prompt"`
	CommentReply string       `gorm:"not null" json:"commentReply"`
	DmCount      int          `gorm:"not null;default:0" json:"dmCount"`
	CommentCount int          `gorm:"not null;default:0" json:"commentCount"`
}

func (l *Listener) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Trigger is the event type that activates an automation (optional 1:1).
type Trigger struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	AutomationID string      `gorm:"uniqueIndex;not null;size:36" json:"automationId"`
	Type         TriggerType `gorm:"size:16;not null" json:"type"`
}

func (t *Trigger) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Keyword is one word of an automation's keyword set.
type Keyword struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	AutomationID string `gorm:"not null;size:36;uniqueIndex:idx_keywords_automation_word" json:"automationId"`
	Word         string `gorm:"not null;uniqueIndex:idx_keywords_automation_word" json:"word"`
}

func (k *Keyword) BeforeCreate(*gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	return nil
}

// Post is an Instagram post an automation is attached to.
type Post struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	AutomationID string    `gorm:"index;not null;size:36" json:"automationId"`
	PostID       string    `gorm:"column:postid;not null" json:"postid"`
	Caption      *string   `json:"caption"`
	Media        string    `gorm:"not null" json:"media"`
	MediaType    MediaType `gorm:"size:32;not null;default:IMAGE" json:"mediaType"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Dm is a direct message sent on behalf of an automation.
type Dm struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	AutomationID string    `gorm:"index;not null;size:36" json:"automationId"`
	SenderID     *string   `json:"senderId"`
	Receiver     *string   `json:"receiver"`
	Message      *string   `json:"message"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (d *Dm) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
