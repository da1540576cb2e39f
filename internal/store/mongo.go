package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoCollection = "documents"

// MongoConfig holds the connection profile for the document store.
type MongoConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// URI renders the mongodb connection string.
func (c *MongoConfig) URI() string {
	if c.User != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%d", c.User, c.Password, c.Host, c.Port)
	}
	return fmt.Sprintf("mongodb://%s:%d", c.Host, c.Port)
}

// mongoDocument is the BSON shape persisted per document, keyed by
// content hash so upserts are idempotent.
type mongoDocument struct {
	ContentHash string            `bson:"_id"`
	SourcePath  string            `bson:"source_path"`
	JobID       string            `bson:"job_id"`
	MIMEType    string            `bson:"mime_type"`
	FileSize    int64             `bson:"file_size"`
	Text        string            `bson:"text"`
	Metadata    map[string]string `bson:"metadata,omitempty"`
	UpdatedAt   time.Time         `bson:"updated_at"`
}

// MongoStore adapts MongoDB behind the Store interface with lazy
// connection establishment.
type MongoStore struct {
	cfg *MongoConfig

	mu     sync.Mutex
	client *mongo.Client
}

// NewMongoStore creates a MongoDB adapter. No connection is attempted
// here.
// Parameters:
//   - cfg: connection profile.
// Returns:
//   - *MongoStore: adapter bound to the profile.
func NewMongoStore(cfg *MongoConfig) *MongoStore {
	return &MongoStore{cfg: cfg}
}

// Name returns the target name this adapter serves.
func (s *MongoStore) Name() domain.TargetName {
	return domain.TargetMongoDB
}

// Capabilities returns the fixed capability flags for this target.
func (s *MongoStore) Capabilities() domain.Capabilities {
	return domain.CapabilitiesFor(domain.TargetMongoDB)
}

func (s *MongoStore) collection(ctx context.Context) (*mongo.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		opts := options.Client().
			ApplyURI(s.cfg.URI()).
			SetConnectTimeout(5 * time.Second).
			SetServerSelectionTimeout(5 * time.Second)
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, transientOp(domain.TargetMongoDB, "connect", err)
		}
		s.client = client
	}
	return s.client.Database(s.cfg.Database).Collection(mongoCollection), nil
}

// Upsert replaces the document keyed by content hash.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - doc: document to persist.
// Returns:
//   - error: typed *Error on failure.
func (s *MongoStore) Upsert(ctx context.Context, doc *domain.Document) error {
	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}

	record := mongoDocument{
		ContentHash: doc.ContentHash,
		SourcePath:  doc.SourcePath,
		JobID:       doc.JobID,
		MIMEType:    doc.MIMEType,
		FileSize:    doc.FileSize,
		Text:        doc.Text,
		Metadata:    doc.Metadata,
		UpdatedAt:   time.Now(),
	}

	_, err = coll.ReplaceOne(ctx,
		bson.M{"_id": doc.ContentHash},
		record,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
			return transientOp(domain.TargetMongoDB, "upsert", err)
		}
		return wrapOp(domain.TargetMongoDB, "upsert", err)
	}
	return nil
}

// Healthy pings the server with a short deadline.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - bool: true if the server answers the ping.
func (s *MongoStore) Healthy(ctx context.Context) bool {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		if _, err := s.collection(ctx); err != nil {
			return false
		}
		s.mu.Lock()
		client = s.client
		s.mu.Unlock()
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return client.Ping(pingCtx, readpref.Primary()) == nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.client.Disconnect(ctx)
	s.client = nil
	return err
}
