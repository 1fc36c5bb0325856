package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"autonation/internal/models"
	"autonation/internal/repository"
	"autonation/internal/service"
	"autonation/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const automationsPath = "/api/v1/protected/automations"

func createAutomation(t *testing.T, env *testEnv, subject string, body interface{}) models.Automation {
	t.Helper()
	resp := env.do(t, http.MethodPost, automationsPath, subject, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var a models.Automation
	decode(t, resp, &a)
	return a
}

func TestAutomationLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "owner")

	created := createAutomation(t, env, "owner", map[string]interface{}{
		"name":        "Pricing",
		"keywords":    []string{"price", "cost"},
		"triggerType": "COMMENT",
		"prompt":      "Answer politely",
	})
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Pricing", created.Name)
	assert.False(t, created.Active)
	require.NotNil(t, created.Trigger)
	assert.Equal(t, models.TriggerComment, created.Trigger.Type)
	require.NotNil(t, created.Listener)
	assert.Equal(t, models.ListenerMessage, created.Listener.Listener)
	assert.Len(t, created.Keywords, 2)

	resp := env.do(t, http.MethodGet, automationsPath+"/"+created.ID, "owner", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPut, automationsPath+"/"+created.ID, "owner", map[string]interface{}{"active": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Automation
	decode(t, resp, &updated)
	assert.True(t, updated.Active)
	assert.Equal(t, "Pricing", updated.Name)
	assert.ElementsMatch(t, []string{"price", "cost"}, updated.Words())
	assert.Equal(t, "Answer politely", updated.Listener.Prompt)

	resp = env.do(t, http.MethodPut, automationsPath+"/"+created.ID, "owner", map[string]interface{}{
		"keywords":     []string{"hello"},
		"commentReply": "Sent you a DM",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &updated)
	assert.Equal(t, []string{"hello"}, updated.Words())
	assert.Equal(t, "Sent you a DM", updated.Listener.CommentReply)

	resp = env.do(t, http.MethodDelete, automationsPath+"/"+created.ID, "owner", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, automationsPath+"/"+created.ID, "owner", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateAutomation_Defaults(t *testing.T) {
	env := newTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "owner")

	created := createAutomation(t, env, "owner", nil)
	assert.Equal(t, models.DefaultAutomationName, created.Name)
	assert.Nil(t, created.Trigger)
	require.NotNil(t, created.Listener)
	assert.Equal(t, models.ListenerMessage, created.Listener.Listener)
	assert.Empty(t, created.Keywords)
}

func TestCreateAutomation_Validation(t *testing.T) {
	env := newTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "owner")

	bodies := []map[string]interface{}{
		{"name": strings.Repeat("x", 101)},
		{"keywords": []string{" "}},
		{"listenerType": "EMAIL"},
		{"triggerType": "STORY"},
	}
	for _, body := range bodies {
		resp := env.do(t, http.MethodPost, automationsPath, "owner", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "%v", body)
	}

	req := httptest.NewRequest(http.MethodPost, automationsPath, strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, "owner"))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListAutomations_NewestFirstAndScoped(t *testing.T) {
	env := newTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "owner")
	testutil.CreateUser(t, env.db, "other")

	resp := env.do(t, http.MethodGet, automationsPath, "owner", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []models.Automation
	decode(t, resp, &list)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	createAutomation(t, env, "owner", map[string]string{"name": "first"})
	createAutomation(t, env, "owner", map[string]string{"name": "second"})
	createAutomation(t, env, "other", map[string]string{"name": "theirs"})

	resp = env.do(t, http.MethodGet, automationsPath, "owner", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &list)
	require.Len(t, list, 2)
	for _, a := range list {
		assert.NotEqual(t, "theirs", a.Name)
	}
	assert.False(t, list[0].CreatedAt.Before(list[1].CreatedAt))
}

func TestAutomation_CrossTenantIsNotFound(t *testing.T) {
	env := newTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "owner")
	testutil.CreateUser(t, env.db, "intruder")
	created := createAutomation(t, env, "owner", map[string]string{"name": "mine"})

	path := automationsPath + "/" + created.ID
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		resp := env.do(t, method, path, "intruder", map[string]string{"name": "stolen"})
		require.Equal(t, http.StatusNotFound, resp.StatusCode, method)

		var body models.ErrorResponse
		decode(t, resp, &body)
		assert.Equal(t, models.CodeNotFound, body.Code)
	}

	resp := env.do(t, http.MethodGet, path, "owner", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var still models.Automation
	decode(t, resp, &still)
	assert.Equal(t, "mine", still.Name)
}

func TestAutomation_MalformedID(t *testing.T) {
	env := newTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "owner")

	resp := env.do(t, http.MethodGet, automationsPath+"/not-a-uuid", "owner", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body models.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "Invalid ID", body.Error)
}

func TestAutomations_UnknownUser(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, automationsPath, "never-provisioned", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodPost, automationsPath, "never-provisioned", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// MockAutomationRepository is a testify mock for repository.AutomationRepository.
type MockAutomationRepository struct {
	mock.Mock
}

func (m *MockAutomationRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Automation, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Automation), args.Error(1)
}

func (m *MockAutomationRepository) GetByOwner(ctx context.Context, ownerID, id string) (*models.Automation, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Automation), args.Error(1)
}

func (m *MockAutomationRepository) Create(ctx context.Context, a *models.Automation) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAutomationRepository) Update(ctx context.Context, ownerID, id string, patch repository.AutomationPatch) (*models.Automation, error) {
	args := m.Called(ctx, ownerID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Automation), args.Error(1)
}

func (m *MockAutomationRepository) Delete(ctx context.Context, ownerID, id string) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func TestListAutomations_InternalErrorDoesNotLeak(t *testing.T) {
	mockRepo := new(MockAutomationRepository)
	s := &Server{automationService: service.NewAutomationService(mockRepo)}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(localUserID, "owner-id")
		return c.Next()
	})
	app.Get("/automations", s.ListAutomations)

	mockRepo.On("ListByOwner", mock.Anything, "owner-id").
		Return(nil, models.NewInternalError(errors.New(`pq: relation "automations" does not exist`)))

	req := httptest.NewRequest(http.MethodGet, "/automations", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body models.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, models.ErrorResponse{Error: "Internal server error", Code: models.CodeInternal}, body)
	mockRepo.AssertExpectations(t)
}

func TestDeleteAutomation_PassesScopedIDs(t *testing.T) {
	mockRepo := new(MockAutomationRepository)
	s := &Server{automationService: service.NewAutomationService(mockRepo)}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(localUserID, "owner-id")
		return c.Next()
	})
	app.Delete("/automations/:id", s.DeleteAutomation)

	id := "8d3c1f0e-2b9a-4f7c-9e51-6a0b7c2d4e11"
	mockRepo.On("Delete", mock.Anything, "owner-id", id).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/automations/"+id, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}
