package shell_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/gymtracker/internal/shell"
	"github.com/2beens/gymtracker/internal/storage"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestRouter(t *testing.T, registration *MockshellRegistration, store storage.Store) *mux.Router {
	t.Helper()
	h, err := shell.NewHandler(registration, store, shell.DefaultManifest())
	require.NoError(t, err)
	r := mux.NewRouter()
	h.SetupRoutes(r)
	return r
}

func TestHandler_HandleStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	registration := NewMockshellRegistration(ctrl)
	store := storage.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), storage.KeySettings, []byte(`{"units":"kg"}`)))
	router := newTestRouter(t, registration, store)

	registration.EXPECT().Status(gomock.Any()).Return(shell.Status{
		State:         shell.StateActivated,
		ActiveVersion: "v1",
		Partitions:    map[string]int{"gym-tracker-v1": 2},
	}).Times(1)

	req := httptest.NewRequest(http.MethodGet, "/shell/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp shell.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, shell.StateActivated, resp.State)
	assert.Equal(t, "v1", resp.ActiveVersion)
	assert.Equal(t, map[string]int{"gym-tracker-v1": 2}, resp.Partitions)
	require.NotNil(t, resp.Storage)
	assert.Equal(t, 14, resp.Storage.Total)
}

func TestHandler_HandleUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	registration := NewMockshellRegistration(ctrl)
	router := newTestRouter(t, registration, nil)

	// invalid body
	req := httptest.NewRequest(http.MethodPost, "/shell/update", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// missing version
	req = httptest.NewRequest(http.MethodPost, "/shell/update", bytes.NewBufferString(`{}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	registration.EXPECT().Update(gomock.Any(), "v2").Return(shell.ErrInstallInProgress).Times(1)
	req = httptest.NewRequest(http.MethodPost, "/shell/update", bytes.NewBufferString(`{"version":"v2"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	registration.EXPECT().Update(gomock.Any(), "v2").Return(shell.ErrInstallFailed).Times(1)
	req = httptest.NewRequest(http.MethodPost, "/shell/update", bytes.NewBufferString(`{"version":"v2"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	registration.EXPECT().Update(gomock.Any(), "v2").Return(nil).Times(1)
	registration.EXPECT().Status(gomock.Any()).Return(shell.Status{
		State:          shell.StateActivated,
		ActiveVersion:  "v1",
		WaitingVersion: "v2",
	}).Times(1)
	req = httptest.NewRequest(http.MethodPost, "/shell/update", bytes.NewBufferString(`{"version":"v2"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp shell.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "v2", resp.WaitingVersion)
	assert.Nil(t, resp.Storage)
}

func TestHandler_HandleSkipWaiting(t *testing.T) {
	ctrl := gomock.NewController(t)
	registration := NewMockshellRegistration(ctrl)
	router := newTestRouter(t, registration, nil)

	registration.EXPECT().SkipWaiting(gomock.Any()).Return(shell.ErrNoWaitingWorker).Times(1)
	req := httptest.NewRequest(http.MethodPost, "/shell/skip-waiting", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	registration.EXPECT().SkipWaiting(gomock.Any()).Return(nil).Times(1)
	registration.EXPECT().Status(gomock.Any()).Return(shell.Status{ActiveVersion: "v2"}).Times(1)
	req = httptest.NewRequest(http.MethodPost, "/shell/skip-waiting", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"activeVersion":"v2"`)
}

func TestHandler_HandleClearCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	registration := NewMockshellRegistration(ctrl)
	router := newTestRouter(t, registration, nil)

	registration.EXPECT().ClearCaches().Return(nil).Times(1)
	req := httptest.NewRequest(http.MethodDelete, "/shell/caches", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":[]}`, rec.Body.String())

	registration.EXPECT().ClearCaches().Return([]string{"gym-tracker-runtime", "gym-tracker-v1"}).Times(1)
	req = httptest.NewRequest(http.MethodDelete, "/shell/caches", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"deleted":["gym-tracker-runtime","gym-tracker-v1"]}`, rec.Body.String())
}

func TestHandler_HandleEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	registration := NewMockshellRegistration(ctrl)
	router := newTestRouter(t, registration, nil)

	notifications := make(chan shell.Notification, 1)
	unsubscribed := false
	registration.EXPECT().Subscribe().Return((<-chan shell.Notification)(notifications), func() { unsubscribed = true }).Times(1)

	notifications <- shell.Notification{
		Kind:      shell.NotificationUpdateAvailable,
		Version:   "v2",
		Timestamp: time.Now(),
	}

	req := httptest.NewRequest(http.MethodGet, "/shell/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var n shell.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &n))
	assert.Equal(t, shell.NotificationUpdateAvailable, n.Kind)
	assert.Equal(t, "v2", n.Version)
	assert.True(t, unsubscribed)

	// closed subscription
	closed := make(chan shell.Notification)
	close(closed)
	registration.EXPECT().Subscribe().Return((<-chan shell.Notification)(closed), func() {}).Times(1)
	req = httptest.NewRequest(http.MethodGet, "/shell/events", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_HandleManifest(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newTestRouter(t, NewMockshellRegistration(ctrl), nil)

	req := httptest.NewRequest(http.MethodGet, "/manifest.webmanifest", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "application/manifest+json", rec.Header().Get("Content-Type"))

	var manifest shell.Manifest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &manifest))
	assert.Equal(t, "/", manifest.StartURL)
	assert.Equal(t, "standalone", manifest.Display)
	assert.Len(t, manifest.Icons, 2)
}
