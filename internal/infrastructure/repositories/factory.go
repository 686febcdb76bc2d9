package repositories

import (
	"context"

	"peerlink/internal/core/ports"
	"peerlink/internal/infrastructure/repositories/file"
	"peerlink/internal/infrastructure/repositories/memory"
	redisrepo "peerlink/internal/infrastructure/repositories/redis"
	"peerlink/internal/infrastructure/repositories/sqlite"
	"peerlink/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RepositoryFactory wires the storage backend chosen in config, falling back
// to the in-memory stores when the configured backend is unavailable.
type RepositoryFactory struct {
	cfg         *config.Config
	backend     string
	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		cfg:     cfg,
		backend: cfg.Storage.Backend,
		logger:  logger,
	}

	if cfg.Storage.Backend == config.StorageBackendRedis {
		client, err := redisrepo.NewRedisClient(
			cfg.Storage.Redis.Address,
			cfg.Storage.Redis.Password,
			cfg.Storage.Redis.DB,
			cfg.Storage.Redis.PoolSize,
			logger,
		)
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory stores",
				"error", err,
			)
			factory.backend = config.StorageBackendMemory
		} else {
			factory.redisClient = client
		}
	}

	logger.Infow("storage backend selected", "backend", factory.backend)
	return factory, nil
}

// CreateMessageLog creates the signaling message log for the active backend.
func (f *RepositoryFactory) CreateMessageLog() (ports.MessageLog, error) {
	switch f.backend {
	case config.StorageBackendRedis:
		return redisrepo.NewRedisMessageLog(f.redisClient, f.cfg.Relay.MessageCapacity, f.logger), nil
	case config.StorageBackendFile:
		return file.NewFileMessageLog(f.cfg.Storage.File.DataDir, f.cfg.Relay.MessageCapacity, f.logger)
	default:
		return memory.NewMemoryMessageLog(f.cfg.Relay.MessageCapacity), nil
	}
}

// CreateSessionRepository creates the session store for the active backend.
func (f *RepositoryFactory) CreateSessionRepository() (ports.SessionRepository, error) {
	switch f.backend {
	case config.StorageBackendRedis:
		return redisrepo.NewRedisSessionRepository(f.redisClient, f.cfg.Relay.SessionTTL, f.logger), nil
	case config.StorageBackendFile:
		return file.NewFileSessionRepository(f.cfg.Storage.File.DataDir, f.cfg.Relay.SessionTTL, f.logger)
	default:
		return memory.NewMemorySessionRepository(f.cfg.Relay.SessionTTL), nil
	}
}

// CreateCustomerRepository creates the customer store. Customers always live
// in SQLite regardless of the signaling backend; memory is the fallback when
// the database cannot be opened.
func (f *RepositoryFactory) CreateCustomerRepository() ports.CustomerRepository {
	repo, err := sqlite.NewSQLiteCustomerRepository(f.cfg.Storage.SQLitePath)
	if err != nil {
		f.logger.Warnw("failed to open customer database, falling back to memory store",
			"path", f.cfg.Storage.SQLitePath,
			"error", err,
		)
		return memory.NewMemoryCustomerRepository()
	}
	return repo
}

// Close closes Redis connection if used
func (f *RepositoryFactory) Close() error {
	if f.redisClient != nil {
		return redisrepo.CloseRedisClient(f.redisClient)
	}
	return nil
}

// HealthCheck checks backend connection health
func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	if f.redisClient != nil {
		return f.redisClient.Ping(ctx).Err()
	}
	return nil
}
