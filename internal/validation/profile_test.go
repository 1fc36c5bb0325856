package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
		ok    bool
	}{
		{name: "valid", email: "ada@example.com", ok: true},
		{name: "trimmed", email: "  ada@example.com ", ok: true},
		{name: "plus addressing", email: "ada+ig@example.com", ok: true},
		{name: "missing at", email: "ada.example.com", ok: false},
		{name: "display name", email: "Ada <ada@example.com>", ok: false},
		{name: "empty", email: "", ok: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NormalizeEmail(tt.email)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNamePart(t *testing.T) {
	t.Parallel()

	got, err := NamePart("firstName", " Ada ")
	assert.NoError(t, err)
	assert.Equal(t, "Ada", got)

	_, err = NamePart("lastName", strings.Repeat("x", 101))
	assert.Error(t, err)
}
