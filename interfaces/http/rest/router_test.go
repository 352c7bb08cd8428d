package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studyforge/application/services"
	"studyforge/domain/questions"
	"studyforge/domain/srs"
	"studyforge/infrastructure/di"
	"studyforge/infrastructure/messaging"
	"studyforge/infrastructure/persistence/jsonfile"
	"studyforge/pkg/auth"
)

type apiResponse struct {
	Success bool                   `json:"success"`
	Data    json.RawMessage        `json:"data"`
	Error   map[string]interface{} `json:"error"`
}

func newTestHandler(t *testing.T, categories []string, validator *auth.JWTValidator) http.Handler {
	t.Helper()

	model, err := srs.NewModel(srs.DefaultParameters())
	require.NoError(t, err)

	logger := zap.NewNop()
	service, err := services.NewStudyService(
		model,
		25*time.Minute,
		jsonfile.NewItemRepository(filepath.Join(t.TempDir(), "items.json"), logger),
		messaging.NewNoopPublisher(),
		questions.NewGenerator(1),
		nil,
		logger,
	)
	require.NoError(t, err)
	require.NoError(t, service.Start(context.Background(), categories, time.Now()))

	router := NewRouter(
		di.ProvideCommandBus(service, logger),
		di.ProvideQueryBus(service),
		validator,
		false,
		logger,
	)
	return router.Setup()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp apiResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestHealthEndpoints(t *testing.T) {
	handler := newTestHandler(t, []string{"energy"}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionNextQuestion(t *testing.T) {
	handler := newTestHandler(t, []string{"dynamics"}, nil)

	rec, resp := doJSON(t, handler, http.MethodGet, "/api/v1/session/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	var q services.NextQuestion
	require.NoError(t, json.Unmarshal(resp.Data, &q))
	assert.Equal(t, "dynamics", q.ItemID)
	assert.NotEmpty(t, q.Question)
	assert.Len(t, q.SolutionSteps, 3)
}

func TestSessionAnswerWithoutQuestion(t *testing.T) {
	handler := newTestHandler(t, []string{"dynamics"}, nil)

	rec, resp := doJSON(t, handler, http.MethodPost, "/api/v1/session/answer",
		map[string]interface{}{"item_id": "dynamics", "answer": 1.0})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Error["code"])
}

func TestSessionReviewFlow(t *testing.T) {
	handler := newTestHandler(t, []string{"kinematics"}, nil)

	// Pull a question first so there is a pending review.
	rec, _ := doJSON(t, handler, http.MethodGet, "/api/v1/session/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := doJSON(t, handler, http.MethodPost, "/api/v1/session/review",
		map[string]interface{}{"item_id": "kinematics", "grade": "Good"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	var status services.ItemStatus
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.Equal(t, "kinematics", status.ItemID)
	assert.Equal(t, "mastered", status.Status)
	assert.Greater(t, status.Stability, 0.1)
}

func TestSessionReviewRejectsUnknownGrade(t *testing.T) {
	handler := newTestHandler(t, []string{"kinematics"}, nil)

	rec, resp := doJSON(t, handler, http.MethodPost, "/api/v1/session/review",
		map[string]interface{}{"item_id": "kinematics", "grade": "Medium"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "INVALID_GRADE", resp.Error["code"])
}

func TestSessionStatus(t *testing.T) {
	handler := newTestHandler(t, []string{"energy", "dynamics"}, nil)

	rec, resp := doJSON(t, handler, http.MethodGet, "/api/v1/session/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status services.SessionStatus
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.False(t, status.Complete)
	assert.Len(t, status.Items, 2)
}

func TestItemEndpoints(t *testing.T) {
	handler := newTestHandler(t, []string{"energy"}, nil)

	rec, resp := doJSON(t, handler, http.MethodGet, "/api/v1/items/energy", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status services.ItemStatus
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.Equal(t, "energy", status.ItemID)

	rec, resp = doJSON(t, handler, http.MethodGet, "/api/v1/items/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", resp.Error["code"])

	rec, resp = doJSON(t, handler, http.MethodGet, "/api/v1/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []services.ItemStatus
	require.NoError(t, json.Unmarshal(resp.Data, &items))
	assert.Len(t, items, 1)
}

func TestCreateItem(t *testing.T) {
	handler := newTestHandler(t, []string{"energy"}, nil)

	rec, resp := doJSON(t, handler, http.MethodPost, "/api/v1/items",
		map[string]interface{}{"category": "circular_motion"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var status services.ItemStatus
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.Equal(t, "circular_motion", status.ItemID)
	assert.Equal(t, "new", status.Status)

	// Introducing the same category twice conflicts.
	rec, resp = doJSON(t, handler, http.MethodPost, "/api/v1/items",
		map[string]interface{}{"category": "circular_motion"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", resp.Error["code"])

	rec, resp = doJSON(t, handler, http.MethodPost, "/api/v1/items",
		map[string]interface{}{"category": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION", resp.Error["code"])
}

func TestAuthRequiredWhenValidatorConfigured(t *testing.T) {
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "test-secret", Issuer: "studyforge"})
	require.NoError(t, err)
	handler := newTestHandler(t, []string{"energy"}, validator)

	// No token: API routes reject, health stays open.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Garbage token rejects too.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
