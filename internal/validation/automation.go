// Package validation normalizes and checks user-supplied automation and
// profile input before it reaches the repositories.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"autonation/internal/models"
)

const (
	MaxNameLength     = 100
	MaxKeywords       = 50
	MaxKeywordLength  = 50
	MaxListenerLength = 2000
)

// NormalizeName trims name and enforces the length limit. An empty result is
// returned as-is so callers can apply their own default.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("name too long (max %d characters)", MaxNameLength)
	}
	return name, nil
}

// NormalizeKeywords trims every word, rejects blanks and over-long entries,
// and drops exact duplicates while keeping first-seen order. A nil input
// stays nil.
func NormalizeKeywords(words []string) ([]string, error) {
	if words == nil {
		return nil, nil
	}
	if len(words) > MaxKeywords {
		return nil, fmt.Errorf("too many keywords (max %d)", MaxKeywords)
	}

	out := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			return nil, fmt.Errorf("keywords cannot be blank")
		}
		if utf8.RuneCountInString(w) > MaxKeywordLength {
			return nil, fmt.Errorf("keyword %q too long (max %d characters)", w, MaxKeywordLength)
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out, nil
}

// ListenerKind parses an optional listener kind; empty means MESSAGE.
func ListenerKind(raw string) (models.ListenerKind, error) {
	if raw == "" {
		return models.ListenerMessage, nil
	}
	kind := models.ListenerKind(strings.ToUpper(raw))
	if !kind.Valid() {
		return "", fmt.Errorf("invalid listener type %q (expected MESSAGE or SMARTAI)", raw)
	}
	return kind, nil
}

// TriggerType parses a trigger type. Callers only invoke it when a trigger
// was supplied.
func TriggerType(raw string) (models.TriggerType, error) {
	t := models.TriggerType(strings.ToUpper(raw))
	if !t.Valid() {
		return "", fmt.Errorf("invalid trigger type %q (expected COMMENT, DM or MENTION)", raw)
	}
	return t, nil
}

// ListenerText checks a prompt or comment reply against the length limit.
func ListenerText(field, value string) error {
	if utf8.RuneCountInString(value) > MaxListenerLength {
		return fmt.Errorf("%s too long (max %d characters)", field, MaxListenerLength)
	}
	return nil
}
