package gymtracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/gymtracker/internal/gymtracker/analytics"
	"github.com/2beens/gymtracker/internal/gymtracker/state"
	"github.com/2beens/gymtracker/internal/gymtracker/workouts"
	"github.com/2beens/gymtracker/internal/middleware"
	"github.com/2beens/gymtracker/internal/telemetry/metrics"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultImportRateLimit = 10
	maxImportBytes         = 10 << 20
	defaultAnalyticsRange  = 30
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=gymtracker_test

type workoutState interface {
	Day(date string) (workouts.WorkoutDay, error)
	UpdateDay(ctx context.Context, date string, update state.DayUpdate) (workouts.WorkoutDay, error)
	AddExercise(ctx context.Context, date string, form state.ExerciseForm) (workouts.Exercise, error)
	UpsertExercise(ctx context.Context, date string, exercise workouts.Exercise) (workouts.WorkoutDay, error)
	DeleteExercise(ctx context.Context, date, id string) (workouts.WorkoutDay, error)
	AddSet(ctx context.Context, date, id string) (workouts.Exercise, error)
	RemoveSet(ctx context.Context, date, id string, index int) (workouts.Exercise, error)
	SetCompleted(ctx context.Context, date, id string, index int, completed bool) (workouts.Exercise, error)
	Week(date string) ([]workouts.PlannedDay, error)
	CopyPreviousWeek(ctx context.Context, date string) ([]workouts.PlannedDay, error)
	Settings() workouts.Settings
	UpdateSettings(ctx context.Context, patch workouts.SettingsPatch) (workouts.Settings, error)
	Analytics(rangeDays int, progressFilter string) (*analytics.Summary, error)
	Export() workouts.Export
	Import(ctx context.Context, export workouts.Export) error
}

var _ workoutState = (*state.Container)(nil)

type CompletedRequest struct {
	Completed bool `json:"completed"`
}

type CatalogResponse struct {
	MuscleGroups []string                   `json:"muscleGroups"`
	Exercises    []workouts.CatalogExercise `json:"exercises"`
}

type ImportResponse struct {
	Days     int               `json:"days"`
	Settings workouts.Settings `json:"settings"`
}

type Handler struct {
	state workoutState
}

func NewHandler(state workoutState) *Handler {
	return &Handler{
		state: state,
	}
}

// SetupRoutes registers the /api routes. The import route is rate limited when
// a rate limiter is given.
func (handler *Handler) SetupRoutes(
	router *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	importPerMin int,
	metricsManager *metrics.Manager,
) {
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/days/{date}", handler.HandleGetDay).Methods("GET", "OPTIONS").Name("day")
	api.HandleFunc("/days/{date}", handler.HandleUpdateDay).Methods("PUT", "OPTIONS").Name("day-update")
	api.HandleFunc("/days/{date}/exercises", handler.HandleAddExercise).Methods("POST", "OPTIONS").Name("exercise-add")
	api.HandleFunc("/days/{date}/exercises/{id}", handler.HandleUpsertExercise).Methods("PUT", "OPTIONS").Name("exercise-upsert")
	api.HandleFunc("/days/{date}/exercises/{id}", handler.HandleDeleteExercise).Methods("DELETE", "OPTIONS").Name("exercise-delete")
	api.HandleFunc("/days/{date}/exercises/{id}/sets", handler.HandleAddSet).Methods("POST", "OPTIONS").Name("set-add")
	api.HandleFunc("/days/{date}/exercises/{id}/sets/{index}", handler.HandleRemoveSet).Methods("DELETE", "OPTIONS").Name("set-remove")
	api.HandleFunc("/days/{date}/exercises/{id}/sets/{index}/completed", handler.HandleSetCompleted).Methods("PUT", "OPTIONS").Name("set-completed")
	api.HandleFunc("/weeks/{date}", handler.HandleGetWeek).Methods("GET", "OPTIONS").Name("week")
	api.HandleFunc("/weeks/{date}/copy-previous", handler.HandleCopyPreviousWeek).Methods("POST", "OPTIONS").Name("week-copy-previous")
	api.HandleFunc("/settings", handler.HandleGetSettings).Methods("GET", "OPTIONS").Name("settings")
	api.HandleFunc("/settings", handler.HandleUpdateSettings).Methods("PATCH", "OPTIONS").Name("settings-update")
	api.HandleFunc("/analytics", handler.HandleAnalytics).Methods("GET", "OPTIONS").Name("analytics")
	api.HandleFunc("/catalog", handler.HandleCatalog).Methods("GET", "OPTIONS").Name("catalog")
	api.HandleFunc("/export", handler.HandleExport).Methods("GET", "OPTIONS").Name("export")

	var importHandler http.Handler = http.HandlerFunc(handler.HandleImport)
	if rateLimiter != nil {
		if importPerMin <= 0 {
			importPerMin = DefaultImportRateLimit
		}
		importHandler = middleware.RateLimit(rateLimiter, "import", importPerMin, metricsManager)(importHandler)
	}
	api.Handle("/import", importHandler).Methods("POST", "OPTIONS").Name("import")
}

func (handler *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtracker.day")
	defer span.End()

	day, err := handler.state.Day(mux.Vars(r)["date"])
	if err != nil {
		writeStateError(w, "get day", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, day)
}

func (handler *Handler) HandleUpdateDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtracker.dayUpdate")
	defer span.End()

	var update state.DayUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid day update", http.StatusBadRequest)
		return
	}

	day, err := handler.state.UpdateDay(ctx, mux.Vars(r)["date"], update)
	if err != nil {
		writeStateError(w, "update day", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, day)
}

func (handler *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtracker.exerciseAdd")
	defer span.End()

	var form state.ExerciseForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Errorf("add exercise, unmarshal json params: %s", err)
		http.Error(w, "invalid exercise", http.StatusBadRequest)
		return
	}
	if form.Name == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}

	date := mux.Vars(r)["date"]
	exercise, err := handler.state.AddExercise(ctx, date, form)
	if err != nil {
		writeStateError(w, "add exercise", err)
		return
	}

	log.Debugf("exercise added on %s: [%s] [%s]", date, exercise.Name, exercise.ID)
	pkg.WriteJSON(w, http.StatusCreated, exercise)
}

func (handler *Handler) HandleUpsertExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtracker.exerciseUpsert")
	defer span.End()

	var exercise workouts.Exercise
	if err := json.NewDecoder(r.Body).Decode(&exercise); err != nil {
		http.Error(w, "invalid exercise", http.StatusBadRequest)
		return
	}
	vars := mux.Vars(r)
	if exercise.ID != "" && exercise.ID != vars["id"] {
		http.Error(w, "error, exercise id mismatch", http.StatusBadRequest)
		return
	}
	exercise.ID = vars["id"]

	day, err := handler.state.UpsertExercise(ctx, vars["date"], exercise)
	if err != nil {
		writeStateError(w, "upsert exercise", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, day)
}

func (handler *Handler) HandleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtracker.exerciseDelete")
	defer span.End()

	vars := mux.Vars(r)
	day, err := handler.state.DeleteExercise(ctx, vars["date"], vars["id"])
	if err != nil {
		writeStateError(w, "delete exercise", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, day)
}

func (handler *Handler) HandleAddSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtracker.setAdd")
	defer span.End()

	vars := mux.Vars(r)
	exercise, err := handler.state.AddSet(ctx, vars["date"], vars["id"])
	if err != nil {
		writeStateError(w, "add set", err)
		return
	}
	pkg.WriteJSON(w, http.StatusCreated, exercise)
}

func (handler *Handler) HandleRemoveSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtracker.setRemove")
	defer span.End()

	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		http.Error(w, "error, set index NaN", http.StatusBadRequest)
		return
	}

	exercise, err := handler.state.RemoveSet(ctx, vars["date"], vars["id"], index)
	if err != nil {
		writeStateError(w, "remove set", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, exercise)
}

func (handler *Handler) HandleSetCompleted(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtracker.setCompleted")
	defer span.End()

	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		http.Error(w, "error, set index NaN", http.StatusBadRequest)
		return
	}
	var completedReq CompletedRequest
	if err := json.NewDecoder(r.Body).Decode(&completedReq); err != nil {
		http.Error(w, "invalid completed request", http.StatusBadRequest)
		return
	}

	exercise, err := handler.state.SetCompleted(ctx, vars["date"], vars["id"], index, completedReq.Completed)
	if err != nil {
		writeStateError(w, "set completed", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, exercise)
}

func (handler *Handler) HandleGetWeek(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtracker.week")
	defer span.End()

	week, err := handler.state.Week(mux.Vars(r)["date"])
	if err != nil {
		writeStateError(w, "get week", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, week)
}

func (handler *Handler) HandleCopyPreviousWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtracker.weekCopyPrevious")
	defer span.End()

	week, err := handler.state.CopyPreviousWeek(ctx, mux.Vars(r)["date"])
	if err != nil {
		writeStateError(w, "copy previous week", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, week)
}

func (handler *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtracker.settings")
	defer span.End()

	pkg.WriteJSON(w, http.StatusOK, handler.state.Settings())
}

func (handler *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtracker.settingsUpdate")
	defer span.End()

	var patch workouts.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid settings", http.StatusBadRequest)
		return
	}

	settings, err := handler.state.UpdateSettings(ctx, patch)
	if err != nil {
		writeStateError(w, "update settings", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, settings)
}

func (handler *Handler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtracker.analytics")
	defer span.End()

	rangeDays := defaultAnalyticsRange
	if rangeStr := r.URL.Query().Get("range"); rangeStr != "" {
		var err error
		rangeDays, err = strconv.Atoi(rangeStr)
		if err != nil {
			http.Error(w, "error, range NaN", http.StatusBadRequest)
			return
		}
	}

	summary, err := handler.state.Analytics(rangeDays, r.URL.Query().Get("exercise"))
	if err != nil {
		writeStateError(w, "analytics", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, summary)
}

func (handler *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pkg.WriteJSON(w, http.StatusOK, CatalogResponse{
		MuscleGroups: workouts.MuscleGroups,
		Exercises:    workouts.SuggestExercises(query.Get("q"), query.Get("muscleGroup")),
	})
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtracker.export")
	defer span.End()

	export := handler.state.Export()
	var buf bytes.Buffer
	if err := export.Encode(&buf); err != nil {
		log.Errorf("export: %s", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set(
		"Content-Disposition",
		`attachment; filename="`+workouts.ExportFileName(export.ExportDate)+`"`,
	)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, buf.Bytes())
}

func (handler *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtracker.import")
	defer span.End()

	export, err := workouts.DecodeExport(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		log.Errorf("import, decode: %s", err)
		http.Error(w, "invalid export document", http.StatusBadRequest)
		return
	}

	if err := handler.state.Import(ctx, *export); err != nil {
		writeStateError(w, "import", err)
		return
	}

	log.Infof("imported %d workout days", len(export.Workouts))
	pkg.WriteJSON(w, http.StatusOK, ImportResponse{
		Days:     len(export.Workouts),
		Settings: export.Settings,
	})
}

func writeStateError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, workouts.ErrInvalidDate),
		errors.Is(err, workouts.ErrInvalidLog),
		errors.Is(err, workouts.ErrInvalidSettings),
		errors.Is(err, workouts.ErrInvalidExport),
		errors.Is(err, analytics.ErrInvalidRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, workouts.ErrExerciseNotFound),
		errors.Is(err, workouts.ErrSetIndexOutOfRange):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, workouts.ErrLastSet):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Errorf("%s: %s", action, err)
		http.Error(w, action+" failed", http.StatusInternalServerError)
	}
}
