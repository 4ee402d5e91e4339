package state

import (
	"context"
	"time"

	"github.com/2beens/gymtracker/internal/storage"
	"github.com/2beens/gymtracker/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

var _ Subscriber = (*Persister)(nil)

const saveTimeout = 10 * time.Second

// Persister mirrors every state change to the store. Save failures are logged
// and counted, never returned to the caller.
type Persister struct {
	store   storage.Store
	metrics *metrics.Manager
}

func NewPersister(store storage.Store, metricsManager *metrics.Manager) *Persister {
	return &Persister{
		store:   store,
		metrics: metricsManager,
	}
}

func (p *Persister) OnChange(ctx context.Context, change Change, snapshot Snapshot) {
	if change.Has(ChangeWorkouts) {
		p.save(ctx, storage.KeyWorkouts, snapshot.Workouts)
	}
	if change.Has(ChangeSettings) {
		p.save(ctx, storage.KeySettings, snapshot.Settings)
	}
}

// save outlives the request which made the change, a client hanging up after the
// state changed must not lose the write.
func (p *Persister) save(ctx context.Context, key string, value any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	if err := storage.SaveJSON(ctx, p.store, key, value); err != nil {
		log.Errorf("persist state: %s", err)
		p.metrics.CounterStoreSaveFailures.Inc()
	}
}

// Open loads the stored state into a new container which persists every change.
// When nothing was ever stored under the workouts key and seedSample is set,
// the sample workout is added.
func Open(ctx context.Context, store storage.Store, metricsManager *metrics.Manager, seedSample bool, opts ...Option) *Container {
	loaded, found := storage.LoadWorkouts(ctx, store)
	settings := storage.LoadSettings(ctx, store)

	c := NewContainer(loaded, settings, opts...)
	c.Subscribe(NewPersister(store, metricsManager))

	if !found && seedSample {
		log.Infof("no stored workouts, seeding sample data")
		c.SeedSample(ctx)
	}
	log.Debugf("state loaded: %d workout days", len(loaded))
	return c
}
