package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/gymtracker/internal/gymtracker/workouts"

	log "github.com/sirupsen/logrus"
)

const (
	KeyWorkouts = "workouts"
	KeySettings = "settings"
)

// Keys are all the keys the app keeps in the store.
var Keys = []string{KeyWorkouts, KeySettings}

var (
	ErrNotFound       = errors.New("key not found")
	ErrInvalidKey     = errors.New("invalid key")
	ErrUnknownBackend = errors.New("unknown store backend")
)

// Store is a durable key value storage holding serialized app state.
type Store interface {
	// Load returns ErrNotFound when nothing is stored under key.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

// LoadWorkouts loads the workout log. A missing or corrupt record yields an
// empty log; found is false only when nothing was stored at all.
func LoadWorkouts(ctx context.Context, store Store) (_ workouts.Log, found bool) {
	raw, err := store.Load(ctx, KeyWorkouts)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Errorf("load workouts: %s", err)
		}
		return workouts.Log{}, !errors.Is(err, ErrNotFound)
	}

	var loaded workouts.Log
	if err := json.Unmarshal(raw, &loaded); err != nil {
		log.Errorf("unmarshal stored workouts, falling back to empty log: %s", err)
		return workouts.Log{}, true
	}
	if loaded == nil {
		loaded = workouts.Log{}
	}
	return loaded, true
}

// LoadSettings loads the settings, falling back to the defaults when absent,
// corrupt or invalid.
func LoadSettings(ctx context.Context, store Store) workouts.Settings {
	raw, err := store.Load(ctx, KeySettings)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Errorf("load settings: %s", err)
		}
		return workouts.DefaultSettings()
	}

	settings := workouts.DefaultSettings()
	if err := json.Unmarshal(raw, &settings); err != nil {
		log.Errorf("unmarshal stored settings, using defaults: %s", err)
		return workouts.DefaultSettings()
	}
	if err := settings.Validate(); err != nil {
		log.Errorf("stored settings invalid, using defaults: %s", err)
		return workouts.DefaultSettings()
	}
	return settings
}

func SaveJSON(ctx context.Context, store Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal [%s]: %w", key, err)
	}
	if err := store.Save(ctx, key, raw); err != nil {
		return fmt.Errorf("save [%s]: %w", key, err)
	}
	return nil
}

// Usage reports the stored bytes per key, the storage quota estimate of the app.
type Usage struct {
	Keys  map[string]int `json:"keys"`
	Total int            `json:"total"`
}

func GetUsage(ctx context.Context, store Store) (*Usage, error) {
	usage := &Usage{
		Keys: make(map[string]int, len(Keys)),
	}
	for _, key := range Keys {
		raw, err := store.Load(ctx, key)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				usage.Keys[key] = 0
				continue
			}
			return nil, fmt.Errorf("load [%s]: %w", key, err)
		}
		usage.Keys[key] = len(raw)
		usage.Total += len(raw)
	}
	return usage, nil
}

func validKey(key string) error {
	for _, k := range Keys {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("%w: [%s]", ErrInvalidKey, key)
}
