package database

import (
	"testing"

	"autonation/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_ParentsBeforeChildren(t *testing.T) {
	index := map[string]int{}
	for i, model := range PersistentModels() {
		switch model.(type) {
		case *models.User:
			index["user"] = i
		case *models.Automation:
			index["automation"] = i
		case *models.Keyword:
			index["keyword"] = i
		case *models.Dm:
			index["dm"] = i
		}
	}
	require.Len(t, index, 4)
	require.Less(t, index["user"], index["automation"])
	require.Less(t, index["automation"], index["keyword"])
	require.Less(t, index["automation"], index["dm"])
}
