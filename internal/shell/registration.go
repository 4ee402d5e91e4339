package shell

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/2beens/gymtracker/internal/cache"
	"github.com/2beens/gymtracker/internal/telemetry/metrics"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultVersion          = "v1"
	DefaultCachePrefix      = "gym-tracker-"
	DefaultRuntimeCacheName = "gym-tracker-runtime"
)

var DefaultPrecacheURLs = []string{"/", "/index.html"}

var (
	ErrInstallInProgress = errors.New("another version is being installed")
	ErrNoWaitingWorker   = errors.New("no waiting version")
	ErrEmptyVersion      = errors.New("version cannot be empty")
)

type Options struct {
	Version          string
	CachePrefix      string
	RuntimeCacheName string
	PrecacheURLs     []string
	// SkipWaiting activates a freshly installed version right away.
	SkipWaiting bool
	// Origin is the app origin, requests to other origins pass through.
	Origin *url.URL
	// OriginTransport fetches from the app origin.
	OriginTransport http.RoundTripper
	// ExternalTransport fetches cross origin requests, otelhttp default transport when nil.
	ExternalTransport http.RoundTripper
}

func (o *Options) setDefaults() {
	if o.Version == "" {
		o.Version = DefaultVersion
	}
	if o.CachePrefix == "" {
		o.CachePrefix = DefaultCachePrefix
	}
	if o.RuntimeCacheName == "" {
		o.RuntimeCacheName = DefaultRuntimeCacheName
	}
	if len(o.PrecacheURLs) == 0 {
		o.PrecacheURLs = DefaultPrecacheURLs
	}
	if o.ExternalTransport == nil {
		o.ExternalTransport = otelhttp.NewTransport(http.DefaultTransport)
	}
}

// PrecacheName is the versioned precache partition name.
func (o *Options) PrecacheName(version string) string {
	return o.CachePrefix + version
}

type Status struct {
	State             State          `json:"state,omitempty"`
	ActiveVersion     string         `json:"activeVersion,omitempty"`
	WaitingVersion    string         `json:"waitingVersion,omitempty"`
	InstallingVersion string         `json:"installingVersion,omitempty"`
	Partitions        map[string]int `json:"partitions"`
}

// Registration holds at most one installing, one waiting and one active worker.
type Registration struct {
	opts     Options
	network  *network
	caches   *cache.Storage
	metrics  *metrics.Manager
	notifier *notifier

	mutex        sync.Mutex
	installing   *Worker
	waiting      *Worker
	active       *Worker
	offlineReady bool
	// retired workers being stopped
	retired sync.WaitGroup
}

func NewRegistration(opts Options, caches *cache.Storage, metricsManager *metrics.Manager) (*Registration, error) {
	opts.setDefaults()
	if opts.Origin == nil {
		return nil, errors.New("origin url is required")
	}
	if opts.OriginTransport == nil {
		return nil, errors.New("origin transport is required")
	}

	return &Registration{
		opts: opts,
		network: &network{
			origin:          opts.Origin,
			originTransport: opts.OriginTransport,
			external:        opts.ExternalTransport,
		},
		caches:   caches,
		metrics:  metricsManager,
		notifier: newNotifier(),
	}, nil
}

// Register installs and activates the configured version.
func (r *Registration) Register(ctx context.Context) error {
	return r.Update(ctx, r.opts.Version)
}

// Update installs version. It is a no-op when that version is already active or waiting.
// A failed install leaves the current active version in place.
func (r *Registration) Update(ctx context.Context, version string) (err error) {
	ctx, span := tracing.ShellTracer.Start(ctx, "shell.registration.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("version", version))

	if version == "" {
		return ErrEmptyVersion
	}

	r.mutex.Lock()
	if r.installing != nil {
		r.mutex.Unlock()
		return fmt.Errorf("%w: [%s]", ErrInstallInProgress, r.installing.version)
	}
	if (r.active != nil && r.active.version == version) || (r.waiting != nil && r.waiting.version == version) {
		r.mutex.Unlock()
		log.Debugf("shell version [%s] already registered", version)
		return nil
	}
	worker := newWorker(
		version,
		r.opts.PrecacheURLs,
		newFetchManager(r.network, r.caches, r.opts.PrecacheName(version), r.opts.RuntimeCacheName, r.metrics),
		r.metrics,
	)
	r.installing = worker
	r.mutex.Unlock()

	installErr := worker.Install(ctx)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.installing = nil
	if installErr != nil {
		worker.Stop()
		log.Errorf("shell install [%s]: %s", version, installErr)
		return installErr
	}

	if r.waiting != nil {
		r.retire(r.waiting)
	}
	r.waiting = worker

	if r.active == nil || r.opts.SkipWaiting {
		return r.activateWaiting(ctx)
	}

	log.Infof("shell version [%s] installed and waiting", version)
	r.notifier.publish(NotificationUpdateAvailable, version)
	return nil
}

// SkipWaiting activates the waiting version and asks the app to reload.
func (r *Registration) SkipWaiting(ctx context.Context) (err error) {
	ctx, span := tracing.ShellTracer.Start(ctx, "shell.registration.skipWaiting")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.waiting == nil {
		return ErrNoWaitingWorker
	}
	version := r.waiting.version
	if err := r.activateWaiting(ctx); err != nil {
		return err
	}
	r.notifier.publish(NotificationReload, version)
	return nil
}

// activateWaiting must be called with the mutex held. Stale caches are deleted
// before the new worker takes control.
func (r *Registration) activateWaiting(ctx context.Context) error {
	worker := r.waiting
	r.waiting = nil

	if err := worker.Activate(ctx); err != nil {
		r.retire(worker)
		return fmt.Errorf("activate [%s]: %w", worker.version, err)
	}

	previous := r.active
	r.active = worker
	if previous != nil {
		r.retire(previous)
	}

	log.Infof("shell version [%s] activated", worker.version)
	r.notifier.publish(NotificationControllerChange, worker.version)
	if !r.offlineReady {
		r.offlineReady = true
		r.notifier.publish(NotificationOfflineReady, worker.version)
	}
	return nil
}

// retire marks w redundant and stops it in the background, in flight fetches
// are allowed to finish.
func (r *Registration) retire(w *Worker) {
	r.retired.Add(1)
	go func() {
		defer r.retired.Done()
		if err := w.Retire(context.Background()); err != nil && !errors.Is(err, ErrWorkerStopped) {
			log.Warnf("shell retire [%s]: %s", w.version, err)
		}
		w.Stop()
	}()
}

// Fetch routes a fetch event to the active worker. Without one, requests go
// straight to the network.
func (r *Registration) Fetch(req *http.Request) (*http.Response, error) {
	for attempt := 0; attempt < 3; attempt++ {
		r.mutex.Lock()
		active := r.active
		r.mutex.Unlock()

		if active == nil {
			return r.network.RoundTrip(req)
		}

		resp, err := active.Fetch(req)
		if errors.Is(err, ErrWorkerStopped) || errors.Is(err, ErrWorkerNotActive) {
			// replaced while the event was on its way
			continue
		}
		return resp, err
	}
	return r.network.RoundTrip(req)
}

// Subscribe returns a channel with the lifecycle notifications and a func to unsubscribe.
func (r *Registration) Subscribe() (<-chan Notification, func()) {
	return r.notifier.subscribe()
}

func (r *Registration) Status(ctx context.Context) Status {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	status := Status{
		Partitions: r.caches.EntryCounts(),
	}
	if r.installing != nil {
		status.InstallingVersion = r.installing.version
	}
	if r.waiting != nil {
		status.WaitingVersion = r.waiting.version
	}
	if r.active != nil {
		status.ActiveVersion = r.active.version
		state, err := r.active.State(ctx)
		if err != nil {
			log.Warnf("shell status, active worker state: %s", err)
		}
		status.State = state
	}
	return status
}

// ClearCaches deletes every cache partition and returns the deleted names.
func (r *Registration) ClearCaches() []string {
	deleted := r.caches.Clear()
	log.Infof("shell caches cleared: %v", deleted)
	return deleted
}

// Stop stops all workers and closes the subscriber channels.
func (r *Registration) Stop() {
	r.mutex.Lock()
	workers := []*Worker{r.installing, r.waiting, r.active}
	r.waiting = nil
	r.active = nil
	r.mutex.Unlock()

	for _, w := range workers {
		if w != nil {
			w.Stop()
		}
	}
	r.retired.Wait()
	r.notifier.close()
}
