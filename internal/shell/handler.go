package shell

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/gymtracker/internal/storage"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const DefaultEventsTimeout = 25 * time.Second

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=shell_test

type shellRegistration interface {
	Update(ctx context.Context, version string) error
	SkipWaiting(ctx context.Context) error
	Subscribe() (<-chan Notification, func())
	Status(ctx context.Context) Status
	ClearCaches() []string
}

type StatusResponse struct {
	Status
	Storage *storage.Usage `json:"storage,omitempty"`
}

type UpdateRequest struct {
	Version string `json:"version"`
}

type ClearCachesResponse struct {
	Deleted []string `json:"deleted"`
}

type Handler struct {
	registration  shellRegistration
	store         storage.Store
	manifest      []byte
	eventsTimeout time.Duration
}

func NewHandler(registration shellRegistration, store storage.Store, manifest Manifest) (*Handler, error) {
	manifestJson, err := json.Marshal(manifest)
	if err != nil {
		return nil, err
	}
	return &Handler{
		registration:  registration,
		store:         store,
		manifest:      manifestJson,
		eventsTimeout: DefaultEventsTimeout,
	}, nil
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/shell/status", handler.HandleStatus).Methods("GET", "OPTIONS").Name("shell-status")
	router.HandleFunc("/shell/update", handler.HandleUpdate).Methods("POST", "OPTIONS").Name("shell-update")
	router.HandleFunc("/shell/skip-waiting", handler.HandleSkipWaiting).Methods("POST", "OPTIONS").Name("shell-skip-waiting")
	router.HandleFunc("/shell/caches", handler.HandleClearCaches).Methods("DELETE", "OPTIONS").Name("shell-clear-caches")
	router.HandleFunc("/shell/events", handler.HandleEvents).Methods("GET", "OPTIONS").Name("shell-events")
	router.HandleFunc("/manifest.webmanifest", handler.HandleManifest).Methods("GET", "OPTIONS").Name("manifest")
}

func (handler *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.shell.status")
	defer span.End()

	resp := StatusResponse{
		Status: handler.registration.Status(ctx),
	}
	if handler.store != nil {
		usage, err := storage.GetUsage(ctx, handler.store)
		if err != nil {
			log.Errorf("shell status, storage usage: %s", err)
		} else {
			resp.Storage = usage
		}
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal shell status: %s", err)
		http.Error(w, "failed to get shell status", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.shell.update")
	defer span.End()

	var updateReq UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		http.Error(w, "invalid update request", http.StatusBadRequest)
		return
	}
	if updateReq.Version == "" {
		http.Error(w, "error, version empty", http.StatusBadRequest)
		return
	}

	if err := handler.registration.Update(ctx, updateReq.Version); err != nil {
		log.Errorf("shell update to [%s]: %s", updateReq.Version, err)
		switch {
		case errors.Is(err, ErrInstallInProgress):
			http.Error(w, "another update is in progress", http.StatusConflict)
		case errors.Is(err, ErrInstallFailed):
			http.Error(w, "install failed, current version kept", http.StatusBadGateway)
		default:
			http.Error(w, "update failed", http.StatusInternalServerError)
		}
		return
	}

	handler.HandleStatus(w, r)
}

func (handler *Handler) HandleSkipWaiting(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.shell.skipWaiting")
	defer span.End()

	if err := handler.registration.SkipWaiting(ctx); err != nil {
		if errors.Is(err, ErrNoWaitingWorker) {
			http.Error(w, "no waiting version", http.StatusConflict)
			return
		}
		log.Errorf("shell skip waiting: %s", err)
		http.Error(w, "skip waiting failed", http.StatusInternalServerError)
		return
	}

	handler.HandleStatus(w, r)
}

func (handler *Handler) HandleClearCaches(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.shell.clearCaches")
	defer span.End()

	deleted := handler.registration.ClearCaches()
	if deleted == nil {
		deleted = []string{}
	}
	respJson, err := json.Marshal(ClearCachesResponse{Deleted: deleted})
	if err != nil {
		log.Errorf("marshal clear caches response: %s", err)
		http.Error(w, "failed to clear caches", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// HandleEvents long-polls the next lifecycle notification.
func (handler *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	notifications, unsubscribe := handler.registration.Subscribe()
	defer unsubscribe()

	timer := time.NewTimer(handler.eventsTimeout)
	defer timer.Stop()

	select {
	case notification, ok := <-notifications:
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		respJson, err := json.Marshal(notification)
		if err != nil {
			log.Errorf("marshal shell notification: %s", err)
			http.Error(w, "failed to get shell event", http.StatusInternalServerError)
			return
		}
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
	case <-timer.C:
		w.WriteHeader(http.StatusNoContent)
	case <-r.Context().Done():
	}
}

func (handler *Handler) HandleManifest(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.Manifest, handler.manifest)
}
