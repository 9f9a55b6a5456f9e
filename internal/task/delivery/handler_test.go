package delivery_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	api "taskflow-backend/cmd/api"
	authdomain "taskflow-backend/internal/auth/domain"
	authdto "taskflow-backend/internal/auth/dto"
	authRepo "taskflow-backend/internal/auth/repository"
	authUsecase "taskflow-backend/internal/auth/usecase"
	taskDelivery "taskflow-backend/internal/task/delivery"
	"taskflow-backend/internal/task/domain"
	taskRepo "taskflow-backend/internal/task/repository"
	taskUsecase "taskflow-backend/internal/task/usecase"
	"taskflow-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testServer struct {
	router *gin.Engine
	tasks  taskUsecase.TaskUsecase
	auth   authUsecase.AuthUsecase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&authdomain.User{}, &authdomain.RefreshToken{},
		&domain.Task{}, &domain.Reminder{},
	))

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}

	auth := authUsecase.NewAuthUsecase(authRepo.NewUserRepository(db), cfg)
	tasks := taskUsecase.NewTaskUsecase(taskRepo.NewGormTaskRepository(db))

	r := gin.New()
	api.SetupRoutes(r, auth, taskDelivery.NewTaskHandler(tasks))

	return &testServer{router: r, tasks: tasks, auth: auth}
}

func (s *testServer) registerUser(t *testing.T, email string) *authdto.TokenResponse {
	t.Helper()
	result, err := s.auth.Register(&authdto.RegisterRequest{
		Name:     "Test User",
		Email:    email,
		Password: "supersecret",
	})
	require.NoError(t, err)
	return result
}

func (s *testServer) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) *domain.Task {
	t.Helper()
	var task domain.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	return &task
}

func TestCreateTask_OwnerComesFromPrincipalNotPayload(t *testing.T) {
	s := newTestServer(t)
	session := s.registerUser(t, "alice@example.com")

	w := s.request(t, http.MethodPost, "/api/tasks", session.AccessToken, map[string]any{
		"title":   "mine",
		"user_id": "someone-else",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	task := decodeTask(t, w)
	assert.Equal(t, session.User.ID, task.UserID, "client-supplied user_id must be ignored")
	assert.Equal(t, domain.TaskStatusTodo, task.Status)
	require.NotNil(t, task.User)
	assert.Equal(t, "alice@example.com", task.User.Email)
}

func TestTaskRoutes_RequireAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateTask_OwnershipGate(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerUser(t, "alice@example.com")
	bob := s.registerUser(t, "bob@example.com")

	w := s.request(t, http.MethodPost, "/api/tasks", alice.AccessToken, map[string]any{"title": "alice's"})
	require.Equal(t, http.StatusCreated, w.Code)
	task := decodeTask(t, w)

	// Bob may read but not mutate.
	w = s.request(t, http.MethodGet, "/api/tasks/"+task.ID, bob.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.request(t, http.MethodPut, "/api/tasks/"+task.ID, bob.AccessToken, map[string]any{"title": "bob's now"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.request(t, http.MethodDelete, "/api/tasks/"+task.ID, bob.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.request(t, http.MethodPut, "/api/tasks/"+task.ID+"/done", bob.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStatusEndpoints(t *testing.T) {
	s := newTestServer(t)
	session := s.registerUser(t, "alice@example.com")

	w := s.request(t, http.MethodPost, "/api/tasks", session.AccessToken, map[string]any{"title": "parent"})
	require.Equal(t, http.StatusCreated, w.Code)
	parent := decodeTask(t, w)

	w = s.request(t, http.MethodPost, "/api/tasks", session.AccessToken, map[string]any{
		"title": "child", "parent_id": parent.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	child := decodeTask(t, w)

	// Parent blocked while the child is still todo.
	w = s.request(t, http.MethodPut, "/api/tasks/"+parent.ID+"/in-progress", session.AccessToken, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "All subtasks must be in progress")

	// Move the child first, then the parent.
	w = s.request(t, http.MethodPut, "/api/tasks/"+child.ID+"/in-progress", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.request(t, http.MethodPut, "/api/tasks/"+parent.ID+"/in-progress", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.TaskStatusInProgress, decodeTask(t, w).Status)
}

func TestChangeParentEndpoint(t *testing.T) {
	s := newTestServer(t)
	session := s.registerUser(t, "alice@example.com")

	w := s.request(t, http.MethodPost, "/api/tasks", session.AccessToken, map[string]any{"title": "a"})
	a := decodeTask(t, w)
	w = s.request(t, http.MethodPost, "/api/tasks", session.AccessToken, map[string]any{"title": "b"})
	b := decodeTask(t, w)

	w = s.request(t, http.MethodPut, "/api/tasks/"+b.ID+"/change-parent", session.AccessToken, map[string]any{"parent_id": a.ID})
	require.Equal(t, http.StatusOK, w.Code)
	moved := decodeTask(t, w)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, a.ID, *moved.ParentID)

	// Unknown parent id.
	w = s.request(t, http.MethodPut, "/api/tasks/"+b.ID+"/change-parent", session.AccessToken, map[string]any{"parent_id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Reparenting under its own subtask is rejected.
	w = s.request(t, http.MethodPut, "/api/tasks/"+a.ID+"/change-parent", session.AccessToken, map[string]any{"parent_id": b.ID})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Back to root level.
	w = s.request(t, http.MethodPut, "/api/tasks/"+b.ID+"/change-parent", session.AccessToken, map[string]any{"parent_id": nil})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeTask(t, w).ParentID)
}

func TestDeleteTask_ChildSurvivesWithDanglingParent(t *testing.T) {
	s := newTestServer(t)
	session := s.registerUser(t, "alice@example.com")

	w := s.request(t, http.MethodPost, "/api/tasks", session.AccessToken, map[string]any{"title": "parent"})
	parent := decodeTask(t, w)
	w = s.request(t, http.MethodPost, "/api/tasks", session.AccessToken, map[string]any{
		"title": "child", "parent_id": parent.ID,
	})
	child := decodeTask(t, w)

	w = s.request(t, http.MethodDelete, "/api/tasks/"+parent.ID, session.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.request(t, http.MethodGet, "/api/tasks/"+parent.ID, session.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.request(t, http.MethodGet, "/api/tasks/"+child.ID, session.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stored := decodeTask(t, w)
	require.NotNil(t, stored.ParentID)
	assert.Equal(t, parent.ID, *stored.ParentID)
}

func TestGetTasks_ListsEveryTask(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerUser(t, "alice@example.com")
	bob := s.registerUser(t, "bob@example.com")

	s.request(t, http.MethodPost, "/api/tasks", alice.AccessToken, map[string]any{"title": "a"})
	s.request(t, http.MethodPost, "/api/tasks", bob.AccessToken, map[string]any{"title": "b"})

	w := s.request(t, http.MethodGet, "/api/tasks", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []*domain.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 2, "the list is not scoped to the caller")
}

func TestUpdateTask_RejectsUnknownStatus(t *testing.T) {
	s := newTestServer(t)
	session := s.registerUser(t, "alice@example.com")

	w := s.request(t, http.MethodPost, "/api/tasks", session.AccessToken, map[string]any{"title": "a"})
	task := decodeTask(t, w)

	w = s.request(t, http.MethodPut, "/api/tasks/"+task.ID, session.AccessToken, map[string]any{"status": "blocked"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
