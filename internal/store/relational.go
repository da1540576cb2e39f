package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// RelationalConfig holds the connection profile for a SQL-backed store.
// Driver selects postgres, mysql, or sqlite (the latter mainly for
// tests, mirroring the fallback driver used in development).
type RelationalConfig struct {
	Driver          string
	Target          domain.TargetName
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	Path            string // sqlite only
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN renders the driver-specific connection string.
// Parameters: none.
// Returns:
//   - string: DSN for gorm.Open.
func (c *RelationalConfig) DSN() string {
	switch c.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Host, c.Port, c.User, c.Password, c.Database)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.Database)
	default:
		return c.Path
	}
}

// RelationalStore adapts a SQL database behind the Store interface.
// The connection is established lazily on first use so the coordinator
// can start before the backend is reachable.
type RelationalStore struct {
	cfg *RelationalConfig

	mu sync.Mutex
	db *gorm.DB
}

// NewRelationalStore creates a relational adapter. No connection is
// attempted here.
// Parameters:
//   - cfg: connection profile.
// Returns:
//   - *RelationalStore: adapter bound to the profile.
func NewRelationalStore(cfg *RelationalConfig) *RelationalStore {
	return &RelationalStore{cfg: cfg}
}

// Name returns the target name this adapter serves.
func (s *RelationalStore) Name() domain.TargetName {
	return s.cfg.Target
}

// Capabilities returns the fixed capability flags for this target.
func (s *RelationalStore) Capabilities() domain.Capabilities {
	return domain.CapabilitiesFor(s.cfg.Target)
}

// conn returns the lazily-opened database handle, connecting and
// migrating on first call.
func (s *RelationalStore) conn(ctx context.Context) (*gorm.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var db *gorm.DB
	var err error
	switch s.cfg.Driver {
	case "postgres":
		// PreferSimpleProtocol keeps the adapter compatible with
		// transaction poolers, which reject implicit prepared statements.
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  s.cfg.DSN(),
			PreferSimpleProtocol: true,
		}), gormConfig)
	case "mysql":
		db, err = gorm.Open(mysql.Open(s.cfg.DSN()), gormConfig)
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(s.cfg.DSN()), gormConfig)
	default:
		return nil, permanentOp(s.cfg.Target, "connect", fmt.Errorf("unknown driver %q", s.cfg.Driver))
	}
	if err != nil {
		return nil, transientOp(s.cfg.Target, "connect", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, wrapOp(s.cfg.Target, "connect", err)
	}
	if s.cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(s.cfg.MaxIdleConns)
	}
	if s.cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(s.cfg.MaxOpenConns)
	}
	if s.cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(s.cfg.ConnMaxLifetime)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, transientOp(s.cfg.Target, "connect", err)
	}

	if err := db.AutoMigrate(&domain.Document{}, &domain.IngestionJob{}); err != nil {
		return nil, permanentOp(s.cfg.Target, "migrate", err)
	}

	s.db = db
	return db, nil
}

// Upsert writes the document keyed by content hash via ON CONFLICT, so
// re-running a job on unchanged input is a no-op.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - doc: document to persist.
// Returns:
//   - error: typed *Error on failure.
func (s *RelationalStore) Upsert(ctx context.Context, doc *domain.Document) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "content_hash"}},
		UpdateAll: true,
	}).Create(doc).Error
	if err != nil {
		return wrapOp(s.cfg.Target, "upsert", err)
	}
	return nil
}

// Healthy pings the backend.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - bool: true if the backend answers the ping.
func (s *RelationalStore) Healthy(ctx context.Context) bool {
	db, err := s.conn(ctx)
	if err != nil {
		return false
	}
	sqlDB, err := db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}

// Close releases the connection pool.
func (s *RelationalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db = nil
	return sqlDB.Close()
}

// SaveJob creates or updates an ingestion job row.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - job: job record to persist.
// Returns:
//   - error: typed *Error on failure.
func (s *RelationalStore) SaveJob(ctx context.Context, job *domain.IngestionJob) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(job).Error
	if err != nil {
		return wrapOp(s.cfg.Target, "save job", err)
	}
	return nil
}

// GetJob retrieves a job by ID.
func (s *RelationalStore) GetJob(ctx context.Context, id string) (*domain.IngestionJob, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var job domain.IngestionJob
	if err := db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, wrapOp(s.cfg.Target, "get job", err)
	}
	return &job, nil
}

// ListJobs retrieves the most recent jobs.
func (s *RelationalStore) ListJobs(ctx context.Context, limit int) ([]domain.IngestionJob, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var jobs []domain.IngestionJob
	if err := db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&jobs).Error; err != nil {
		return nil, wrapOp(s.cfg.Target, "list jobs", err)
	}
	return jobs, nil
}
