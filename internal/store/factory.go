package store

import (
	"github.com/kreuzberg-io/kreuzberg/internal/config"
	"github.com/kreuzberg-io/kreuzberg/internal/domain"
	"github.com/kreuzberg-io/kreuzberg/internal/logger"
)

// Set is the configured subset of backing stores for one run.
type Set struct {
	Stores   []Store
	Required map[domain.TargetName]bool

	// Recorder is the job bookkeeping backend, taken from the first
	// enabled relational target; nil when none is configured.
	Recorder JobRecorder
}

// NewSet builds store adapters for every enabled target in the
// configuration. Adapters connect lazily, so an unreachable backend
// does not fail construction.
// Parameters:
//   - cfg: root configuration.
//   - log: logger for construction-time reporting.
// Returns:
//   - *Set: configured adapters, required flags, and job recorder.
func NewSet(cfg *config.Config, log *logger.Logger) *Set {
	set := &Set{Required: make(map[domain.TargetName]bool)}

	if cfg.Postgres.Enabled {
		pg := NewRelationalStore(&RelationalConfig{
			Driver:          "postgres",
			Target:          domain.TargetPostgres,
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			Database:        cfg.Postgres.Database,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		})
		set.add(pg, cfg.Postgres.Required)
		set.Recorder = pg
	}

	if cfg.MySQL.Enabled {
		my := NewRelationalStore(&RelationalConfig{
			Driver:          "mysql",
			Target:          domain.TargetMySQL,
			Host:            cfg.MySQL.Host,
			Port:            cfg.MySQL.Port,
			User:            cfg.MySQL.User,
			Password:        cfg.MySQL.Password,
			Database:        cfg.MySQL.Database,
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
		})
		set.add(my, cfg.MySQL.Required)
		if set.Recorder == nil {
			set.Recorder = my
		}
	}

	if cfg.MongoDB.Enabled {
		set.add(NewMongoStore(&MongoConfig{
			Host:     cfg.MongoDB.Host,
			Port:     cfg.MongoDB.Port,
			User:     cfg.MongoDB.User,
			Password: cfg.MongoDB.Password,
			Database: cfg.MongoDB.Database,
		}), cfg.MongoDB.Required)
	}

	if cfg.Elastic.Enabled {
		set.add(NewElasticStore(&ElasticConfig{
			URL:      cfg.Elastic.URL,
			Index:    cfg.Elastic.Index,
			User:     cfg.Elastic.User,
			Password: cfg.Elastic.Password,
		}), cfg.Elastic.Required)
	}

	for _, s := range set.Stores {
		log.WithFields(logger.Fields{
			logger.FieldTarget: string(s.Name()),
			"required":         set.Required[s.Name()],
		}).Info("Configured store target")
	}

	return set
}

func (s *Set) add(store Store, required bool) {
	s.Stores = append(s.Stores, store)
	s.Required[store.Name()] = required
}

// Close closes every adapter in the set.
func (s *Set) Close() {
	for _, st := range s.Stores {
		_ = st.Close()
	}
}
