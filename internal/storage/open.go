package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	BackendDisk     = "disk"
	BackendSqlite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type OpenParams struct {
	Backend    string
	DataDir    string
	SqlitePath string
	// RedisClient is required with the redis backend
	RedisClient *redis.Client
	// DBPool is required with the postgres backend
	DBPool *pgxpool.Pool
}

// Open creates the store for the configured backend.
func Open(ctx context.Context, params OpenParams) (Store, error) {
	switch strings.ToLower(params.Backend) {
	case BackendDisk:
		return NewDiskStore(params.DataDir)
	case "", BackendSqlite:
		return NewSqliteStore(ctx, params.SqlitePath)
	case BackendRedis:
		if params.RedisClient == nil {
			return nil, errors.New("redis backend requires a redis client")
		}
		return NewRedisStore(params.RedisClient), nil
	case BackendPostgres:
		if params.DBPool == nil {
			return nil, errors.New("postgres backend requires a db pool")
		}
		return NewPsqlStore(ctx, params.DBPool)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: [%s]", ErrUnknownBackend, params.Backend)
	}
}
