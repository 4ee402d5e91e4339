package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/2beens/gymtracker/internal/config"
	"github.com/2beens/gymtracker/internal/db"
	"github.com/2beens/gymtracker/internal/gymtracker/state"
	"github.com/2beens/gymtracker/internal/gymtracker/workouts"
	"github.com/2beens/gymtracker/internal/logging"
	"github.com/2beens/gymtracker/internal/storage"
	"github.com/2beens/gymtracker/internal/telemetry/metrics"
	"github.com/2beens/gymtracker/pkg"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	action := flag.String("action", "export", "action [export | import | archive]")
	file := flag.String("file", "", "export / import json file, or the archive file (defaults to a dated name in the current dir)")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})

	ctx := context.Background()
	now := time.Now()

	switch *action {
	case "export":
		path := *file
		if path == "" {
			path = workouts.ExportFileName(now)
		}
		err = withContainer(ctx, cfg, func(store storage.Store, container *state.Container) error {
			return exportTo(ctx, store, container, path)
		})
	case "import":
		if *file == "" {
			log.Fatalln("import file not specified, use -file")
		}
		err = withContainer(ctx, cfg, func(store storage.Store, container *state.Container) error {
			return importFrom(ctx, store, container, *file)
		})
	case "archive":
		path := *file
		if path == "" {
			path = fmt.Sprintf("gym-tracker-data-%s.tar.gz", workouts.FormatDate(now))
		}
		err = archive(cfg, path)
	default:
		log.Fatalf("unknown action: %s", *action)
	}

	if err != nil {
		log.Fatalf("%s failed: %s", *action, err)
	}
	log.Infof("%s done", *action)
}

// withContainer opens the configured store, loads the workout state from it
// and closes everything once fn returns.
func withContainer(ctx context.Context, cfg *config.Config, fn func(store storage.Store, container *state.Container) error) error {
	params := storage.OpenParams{
		Backend:    cfg.StoreBackend,
		DataDir:    cfg.DataDir,
		SqlitePath: cfg.SqlitePath,
	}

	if cfg.StoreBackend == storage.BackendRedis {
		params.RedisClient = db.NewRedisClient(ctx, db.NewRedisClientParams{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		defer params.RedisClient.Close()
	}

	if cfg.StoreBackend == storage.BackendPostgres {
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBUser:     cfg.PostgresUser,
			DBPassword: cfg.PostgresPass,
		})
		if err != nil {
			return fmt.Errorf("new db pool: %w", err)
		}
		defer dbPool.Close()
		params.DBPool = dbPool
	}

	store, err := storage.Open(ctx, params)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Errorf("close store: %s", err)
		}
	}()

	metricsManager := metrics.NewManager("gymtracker", "export_cmd", prometheus.NewRegistry())
	return fn(store, state.Open(ctx, store, metricsManager, false))
}

// checkReadable fails when a stored key exists but cannot be read, the container
// would otherwise export defaults in its place.
func checkReadable(ctx context.Context, store storage.Store) error {
	for _, key := range []string{storage.KeyWorkouts, storage.KeySettings} {
		if _, err := store.Load(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("load [%s]: %w", key, err)
		}
	}
	return nil
}

func exportTo(ctx context.Context, store storage.Store, container *state.Container, path string) error {
	if err := checkReadable(ctx, store); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	export := container.Export()
	if err := export.Encode(f); err != nil {
		return err
	}
	log.Printf("exported %d days to [%s]", len(export.Workouts), path)
	return f.Sync()
}

func importFrom(ctx context.Context, store storage.Store, container *state.Container, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	export, err := workouts.DecodeExport(f)
	if err != nil {
		return err
	}
	if err := container.Import(ctx, *export); err != nil {
		return err
	}

	// the container only logs failed saves, write again to surface them
	snapshot := container.Snapshot()
	if err := storage.SaveJSON(ctx, store, storage.KeyWorkouts, snapshot.Workouts); err != nil {
		return fmt.Errorf("save workouts: %w", err)
	}
	if err := storage.SaveJSON(ctx, store, storage.KeySettings, snapshot.Settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	log.Printf("imported %d days from [%s]", len(export.Workouts), path)
	return nil
}

// archive packs the whole data dir, only the file based backends keep one.
func archive(cfg *config.Config, path string) error {
	if cfg.StoreBackend != storage.BackendDisk && cfg.StoreBackend != storage.BackendSqlite {
		return fmt.Errorf("store backend [%s] has no data dir to archive", cfg.StoreBackend)
	}
	exists, err := pkg.PathExists(cfg.DataDir, true)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("data dir [%s] does not exist", cfg.DataDir)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	f, err := os.Create(absPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := pkg.Compress(cfg.DataDir, f); err != nil {
		return fmt.Errorf("compress [%s]: %w", cfg.DataDir, err)
	}
	log.Printf("data dir [%s] archived to [%s]", cfg.DataDir, absPath)
	return nil
}
