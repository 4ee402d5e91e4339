package shell

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/2beens/gymtracker/internal/telemetry/metrics"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrWorkerStopped   = errors.New("shell worker stopped")
	ErrWorkerNotActive = errors.New("shell worker not active")
	ErrInstallFailed   = errors.New("shell install failed")
)

type eventKind int

const (
	eventInstall eventKind = iota
	eventActivate
	eventFetch
	eventRetire
	eventState
)

func (k eventKind) String() string {
	switch k {
	case eventInstall:
		return "install"
	case eventActivate:
		return "activate"
	case eventFetch:
		return "fetch"
	case eventRetire:
		return "retire"
	case eventState:
		return "state"
	default:
		return "unknown"
	}
}

type event struct {
	kind  eventKind
	ctx   context.Context
	req   *http.Request
	reply chan eventResult
}

type eventResult struct {
	resp  *http.Response
	state State
	err   error
}

// Worker is one version of the offline shell. Its state is owned by its run
// loop goroutine and only changed through events.
type Worker struct {
	version      string
	precacheURLs []string
	fetcher      *FetchManager
	metrics      *metrics.Manager

	events   chan event
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	// in flight fetches, served apart from the run loop
	fetches sync.WaitGroup

	state State
}

func newWorker(version string, precacheURLs []string, fetcher *FetchManager, metricsManager *metrics.Manager) *Worker {
	w := &Worker{
		version:      version,
		precacheURLs: precacheURLs,
		fetcher:      fetcher,
		metrics:      metricsManager,
		events:       make(chan event),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
		state:        StateParsed,
	}
	go w.run()
	return w
}

func (w *Worker) Version() string {
	return w.version
}

func (w *Worker) run() {
	defer close(w.done)
	for {
		select {
		case <-w.quit:
			return
		case ev := <-w.events:
			w.handle(ev)
		}
	}
}

func (w *Worker) handle(ev event) {
	switch ev.kind {
	case eventInstall:
		ev.reply <- eventResult{err: w.install(ev.ctx)}
	case eventActivate:
		ev.reply <- eventResult{err: w.activate(ev.ctx)}
	case eventRetire:
		var err error
		if w.state != StateRedundant {
			err = w.transition(StateRedundant)
		}
		ev.reply <- eventResult{err: err}
	case eventState:
		ev.reply <- eventResult{state: w.state}
	case eventFetch:
		if w.state != StateActivated {
			ev.reply <- eventResult{err: fmt.Errorf("%w: %s", ErrWorkerNotActive, w.state)}
			return
		}
		w.fetches.Add(1)
		go func() {
			defer w.fetches.Done()
			resp, err := w.fetcher.Fetch(ev.req)
			ev.reply <- eventResult{resp: resp, err: err}
		}()
	default:
		ev.reply <- eventResult{err: fmt.Errorf("unknown event kind: %d", ev.kind)}
	}
}

// send delivers an event to the run loop and waits for the reply.
func (w *Worker) send(ctx context.Context, ev event) (eventResult, error) {
	if err := ctx.Err(); err != nil {
		return eventResult{}, err
	}
	ev.ctx = ctx
	ev.reply = make(chan eventResult, 1)

	select {
	case w.events <- ev:
	case <-w.quit:
		return eventResult{}, ErrWorkerStopped
	case <-ctx.Done():
		return eventResult{}, ctx.Err()
	}

	select {
	case res := <-ev.reply:
		return res, nil
	case <-ctx.Done():
		// an accepted event is always answered, release a late response
		go func() {
			if res := <-ev.reply; res.resp != nil {
				res.resp.Body.Close()
			}
		}()
		return eventResult{}, ctx.Err()
	}
}

func (w *Worker) Install(ctx context.Context) error {
	res, err := w.send(ctx, event{kind: eventInstall})
	if err != nil {
		return err
	}
	return res.err
}

func (w *Worker) Activate(ctx context.Context) error {
	res, err := w.send(ctx, event{kind: eventActivate})
	if err != nil {
		return err
	}
	return res.err
}

// Retire marks the worker redundant, it stops serving fetches.
func (w *Worker) Retire(ctx context.Context) error {
	res, err := w.send(ctx, event{kind: eventRetire})
	if err != nil {
		return err
	}
	return res.err
}

func (w *Worker) State(ctx context.Context) (State, error) {
	res, err := w.send(ctx, event{kind: eventState})
	if err != nil {
		return "", err
	}
	return res.state, nil
}

func (w *Worker) Fetch(req *http.Request) (*http.Response, error) {
	res, err := w.send(req.Context(), event{kind: eventFetch, req: req})
	if err != nil {
		return nil, err
	}
	return res.resp, res.err
}

// Stop terminates the run loop and waits for in flight fetches.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.quit)
	})
	<-w.done
	w.fetches.Wait()
}

func (w *Worker) install(ctx context.Context) (err error) {
	ctx, span := tracing.ShellTracer.Start(ctx, "shell.worker.install")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("version", w.version))

	if err := w.transition(StateInstalling); err != nil {
		return err
	}

	if err := w.fetcher.precache(ctx, w.precacheURLs); err != nil {
		if tErr := w.transition(StateRedundant); tErr != nil {
			log.Errorf("shell worker [%s]: %s", w.version, tErr)
		}
		return fmt.Errorf("%w: version [%s]: %w", ErrInstallFailed, w.version, err)
	}

	return w.transition(StateInstalled)
}

func (w *Worker) activate(ctx context.Context) (err error) {
	_, span := tracing.ShellTracer.Start(ctx, "shell.worker.activate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("version", w.version))

	if err := w.transition(StateActivating); err != nil {
		return err
	}

	deleted := w.fetcher.cleanup()
	if len(deleted) > 0 {
		log.Infof("shell worker [%s]: deleted stale caches %v", w.version, deleted)
	}

	return w.transition(StateActivated)
}

func (w *Worker) transition(next State) error {
	if err := checkTransition(w.state, next); err != nil {
		return err
	}
	log.Debugf("shell worker [%s]: %s -> %s", w.version, w.state, next)
	w.state = next
	w.metrics.CounterLifecycle.WithLabelValues(string(next)).Inc()
	return nil
}
