package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/2beens/gymtracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var _ Store = (*DiskStore)(nil)

// DiskStore keeps every key in its own JSON file under the root dir.
type DiskStore struct {
	rootPath string
	mutex    sync.RWMutex
}

func NewDiskStore(rootPath string) (*DiskStore, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("create root dir: %w", err)
	}
	return &DiskStore{
		rootPath: rootPath,
	}, nil
}

func (ds *DiskStore) path(key string) string {
	return filepath.Join(ds.rootPath, key+".json")
}

func (ds *DiskStore) Load(ctx context.Context, key string) (_ []byte, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	if err := validKey(key); err != nil {
		return nil, err
	}

	ds.mutex.RLock()
	defer ds.mutex.RUnlock()

	raw, err := os.ReadFile(ds.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return raw, nil
}

// Save writes to a temp file first and renames it, so a crash never leaves a half written record.
func (ds *DiskStore) Save(ctx context.Context, key string, value []byte) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))
	span.SetAttributes(attribute.Int("size", len(value)))

	if err := validKey(key); err != nil {
		return err
	}

	ds.mutex.Lock()
	defer ds.mutex.Unlock()

	tmpFile, err := os.CreateTemp(ds.rootPath, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			if rmErr := os.Remove(tmpFile.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				log.Warnf("disk store: remove temp file [%s]: %s", tmpFile.Name(), rmErr)
			}
		}
	}()

	if _, err := tmpFile.Write(value); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), ds.path(key)); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	log.Tracef("disk store: saved [%s] (%d bytes)", key, len(value))
	return nil
}

func (ds *DiskStore) Close() error {
	return nil
}
