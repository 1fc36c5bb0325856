package server

import (
	"net/http"
	"testing"
	"time"

	"autonation/internal/models"
	"autonation/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	profilePath = "/api/v1/protected/profile"
	userPath    = "/api/v1/protected/user"
)

func TestGetProfile_CreatesOnFirstAccess(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, profilePath, "sub_new", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first models.User
	decode(t, resp, &first)
	assert.Equal(t, "sub_new", first.ClerkID)
	assert.Equal(t, "sub_new@example.com", first.Email)
	require.NotNil(t, first.FirstName)
	assert.Equal(t, "Test", *first.FirstName)
	assert.Nil(t, first.Subscription)
	assert.NotNil(t, first.Integrations)

	resp = env.do(t, http.MethodGet, profilePath, "sub_new", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second models.User
	decode(t, resp, &second)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "sub_1")

	resp := env.do(t, http.MethodPut, profilePath, "sub_1", map[string]string{"lastName": "Lovelace"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user models.User
	decode(t, resp, &user)
	require.NotNil(t, user.LastName)
	assert.Equal(t, "Lovelace", *user.LastName)
	assert.Equal(t, "sub_1@example.com", user.Email)

	resp = env.do(t, http.MethodPut, profilePath, "sub_1", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPut, profilePath, "ghost", map[string]string{"firstName": "Nobody"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, userPath, "sub_1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	user := testutil.CreateUser(t, env.db, "sub_1")
	testutil.CreateAutomation(t, env.db, user.ID, "older", time.Now().Add(-time.Hour), "hi")
	testutil.CreateAutomation(t, env.db, user.ID, "newer", time.Now())

	resp = env.do(t, http.MethodGet, userPath, "sub_1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.User
	decode(t, resp, &got)
	require.Len(t, got.Automations, 2)
	assert.Equal(t, "newer", got.Automations[0].Name)
	assert.Equal(t, []string{"hi"}, got.Automations[1].Words())
}
