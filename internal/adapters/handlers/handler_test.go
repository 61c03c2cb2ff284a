package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"OT2Connect/internal/domain/entities"
	"OT2Connect/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUsecase — управляемая заглушка операторских операций.
type stubUsecase struct {
	startErr  error
	pauseErr  error
	snapshot  *entities.RunSnapshot
	outcome   *entities.ConnectionOutcome
	lastStart entities.StartRunRequest
}

func (s *stubUsecase) Connect() (string, error) { return "sess-1", nil }

func (s *stubUsecase) CheckConnection(ctx context.Context) entities.ConnectionOutcome {
	if s.outcome != nil {
		return *s.outcome
	}
	return entities.ConnectionOutcome{Success: true, Message: "Robot is reachable"}
}

func (s *stubUsecase) ConnectionStatus() (entities.ConnectionOutcome, bool) {
	if s.outcome == nil {
		return entities.ConnectionOutcome{}, false
	}
	return *s.outcome, true
}

func (s *stubUsecase) StartRun(volume float64, racks int) (string, error) {
	if s.startErr != nil {
		return "", s.startErr
	}
	s.lastStart = entities.StartRunRequest{Volume: volume, Racks: racks}
	return "sess-1", nil
}

func (s *stubUsecase) Pause() error   { return s.pauseErr }
func (s *stubUsecase) Resume() error  { return s.pauseErr }
func (s *stubUsecase) StopRun() error { return s.pauseErr }

func (s *stubUsecase) CurrentRun() (entities.RunSnapshot, bool) {
	if s.snapshot == nil {
		return entities.RunSnapshot{}, false
	}
	return *s.snapshot, true
}

func (s *stubUsecase) Events() []entities.StatusEvent { return nil }

func newTestRouter(stub *stubUsecase) http.Handler {
	gin.SetMode(gin.TestMode)
	return ProvideRouter(NewHandler(stub))
}

func TestStartRunAccepted(t *testing.T) {
	stub := &stubUsecase{}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/runs", strings.NewReader(`{"Volume":4.5,"Racks":2}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 4.5, stub.lastStart.Volume)
	assert.Equal(t, 2, stub.lastStart.Racks)
	assert.Contains(t, w.Body.String(), "sess-1")
}

func TestStartRunValidation(t *testing.T) {
	router := newTestRouter(&stubUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/api/runs", strings.NewReader(`{"Volume":4.5}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartRunConflict(t *testing.T) {
	router := newTestRouter(&stubUsecase{startErr: usecases.ErrRunInProgress})

	req := httptest.NewRequest(http.MethodPost, "/api/runs", strings.NewReader(`{"Volume":4.5,"Racks":2}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetCurrentRun(t *testing.T) {
	stub := &stubUsecase{snapshot: &entities.RunSnapshot{SessionID: "sess-1", Status: entities.StatusRunning}}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/runs/current", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Status":"running"`)
}

func TestGetCurrentRunEmpty(t *testing.T) {
	router := newTestRouter(&stubUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/api/runs/current", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPauseWithoutRun(t *testing.T) {
	router := newTestRouter(&stubUsecase{pauseErr: usecases.ErrNoActiveRun})

	req := httptest.NewRequest(http.MethodPost, "/api/runs/current/pause", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckConnectionUnavailable(t *testing.T) {
	stub := &stubUsecase{outcome: &entities.ConnectionOutcome{Success: false, Message: "unreachable"}}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/connection/check", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestConnectAccepted(t *testing.T) {
	router := newTestRouter(&stubUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/api/connection/connect", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
}
