package persistence

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/profile-dashboard/internal/config"
	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

// Store bundles the repositories of the configured driver.
type Store struct {
	Profiles  profile.Repository
	Revisions profile.RevisionRepository
	closeFn   func()
}

func (s *Store) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// OpenStore connects to the backend named by cfg.Store.Driver.
func OpenStore(cfg config.Config, log logger.Logger) (*Store, error) {
	driver := cfg.Store.Driver
	if driver == "" {
		driver = config.StoreDriverPostgres
	}
	log.Info("Opening document store", zap.String("driver", driver))

	switch driver {
	case config.StoreDriverPostgres:
		pool, err := NewPostgresPool(cfg, log)
		if err != nil {
			return nil, err
		}
		return &Store{
			Profiles:  NewPostgresProfileRepo(pool, log),
			Revisions: NewPostgresRevisionRepo(pool, log),
			closeFn:   pool.Close,
		}, nil

	case config.StoreDriverRedis:
		rdb, err := NewRedisClient(cfg, log)
		if err != nil {
			return nil, err
		}
		return &Store{
			Profiles:  NewRedisProfileRepo(rdb, log),
			Revisions: NewRedisRevisionRepo(rdb, log),
			closeFn: func() {
				if err := rdb.Close(); err != nil {
					log.Error("Failed to close Redis client", err)
				}
			},
		}, nil

	case config.StoreDriverMemory:
		log.Warn("Using in-memory store, data is lost on restart")
		return &Store{
			Profiles:  NewMemoryProfileRepo(),
			Revisions: NewMemoryRevisionRepo(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
