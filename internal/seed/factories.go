// Package seed creates demo data for local development. It is not used by
// the API server.
package seed

import (
	"fmt"
	"strings"
	"time"

	"autonation/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them through db.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	now   time.Time
}

// NewFactory creates a Factory whose generated content is reproducible for a
// given seed.
func NewFactory(db *gorm.DB, seed int64) *Factory {
	return &Factory{db: db, faker: gofakeit.New(seed), now: time.Now()}
}

// CreateAutomation persists an automation owned by ownerID together with its
// listener, trigger and n distinct keywords. age pushes createdAt back so the
// list order is stable.
func (f *Factory) CreateAutomation(ownerID string, n int, age time.Duration) (*models.Automation, error) {
	listenerKind := models.ListenerMessage
	if f.faker.Bool() {
		listenerKind = models.ListenerSmartAI
	}
	triggerType := models.TriggerDM
	if f.faker.Bool() {
		triggerType = models.TriggerComment
	}

	automation := &models.Automation{
		Name:      fmt.Sprintf("%s %s replies", f.faker.BuzzWord(), f.faker.Noun()),
		Active:    f.faker.Bool(),
		UserID:    ownerID,
		CreatedAt: f.now.Add(-age),
		Listener: &models.Listener{
			Listener:     listenerKind,
			Prompt:       f.faker.Sentence(12),
			CommentReply: f.faker.Sentence(6),
			DmCount:      f.faker.Number(0, 500),
			CommentCount: f.faker.Number(0, 500),
		},
		Trigger:  &models.Trigger{Type: triggerType},
		Keywords: f.keywords(n),
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Trigger", "Listener", "Keywords", "Posts", "Dms").Create(automation).Error; err != nil {
			return err
		}
		automation.Listener.AutomationID = automation.ID
		if err := tx.Create(automation.Listener).Error; err != nil {
			return err
		}
		automation.Trigger.AutomationID = automation.ID
		if err := tx.Create(automation.Trigger).Error; err != nil {
			return err
		}
		for i := range automation.Keywords {
			automation.Keywords[i].AutomationID = automation.ID
		}
		if len(automation.Keywords) > 0 {
			return tx.Create(&automation.Keywords).Error
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create automation: %w", err)
	}
	return automation, nil
}

// keywords returns n distinct lower-case words.
func (f *Factory) keywords(n int) []models.Keyword {
	seen := make(map[string]bool, n)
	out := make([]models.Keyword, 0, n)
	for i := 0; len(out) < n; i++ {
		word := strings.ToLower(f.faker.Word())
		if i >= n*4 {
			word = fmt.Sprintf("%s%d", word, i)
		}
		if word == "" || len(word) > 50 || seen[word] {
			continue
		}
		seen[word] = true
		out = append(out, models.Keyword{Word: word})
	}
	return out
}

// AddPost attaches a fake Instagram post to an automation.
func (f *Factory) AddPost(automationID string) (*models.Post, error) {
	caption := f.faker.Sentence(8)
	mediaType := models.MediaImage
	switch f.faker.Number(0, 2) {
	case 1:
		mediaType = models.MediaVideo
	case 2:
		mediaType = models.MediaCarousel
	}
	post := &models.Post{
		AutomationID: automationID,
		PostID:       f.faker.DigitN(17),
		Caption:      &caption,
		Media:        fmt.Sprintf("https://picsum.photos/seed/%s/1080/1080", f.faker.UUID()),
		MediaType:    mediaType,
		CreatedAt:    f.pastTime(),
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// AddDm attaches a fake direct message to an automation.
func (f *Factory) AddDm(automationID string) (*models.Dm, error) {
	sender := f.faker.DigitN(16)
	receiver := f.faker.DigitN(16)
	message := f.faker.Question()
	dm := &models.Dm{
		AutomationID: automationID,
		SenderID:     &sender,
		Receiver:     &receiver,
		Message:      &message,
		CreatedAt:    f.pastTime(),
	}
	if err := f.db.Create(dm).Error; err != nil {
		return nil, fmt.Errorf("create dm: %w", err)
	}
	return dm, nil
}

// AddIntegration connects a fake Instagram account to ownerID.
func (f *Factory) AddIntegration(ownerID string) (*models.Integration, error) {
	instagramID := f.faker.DigitN(17)
	expires := f.now.Add(60 * 24 * time.Hour)
	integration := &models.Integration{
		UserID:      ownerID,
		Name:        models.IntegrationInstagram,
		Token:       f.faker.LetterN(64),
		ExpiresAt:   &expires,
		InstagramID: &instagramID,
	}
	if err := f.db.Create(integration).Error; err != nil {
		return nil, fmt.Errorf("create integration: %w", err)
	}
	return integration, nil
}

// pastTime returns a moment within the last 30 days.
func (f *Factory) pastTime() time.Time {
	return f.now.Add(-time.Duration(f.faker.Number(0, 30*24*60)) * time.Minute)
}
