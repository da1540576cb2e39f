package store

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kreuzberg-io/kreuzberg/internal/domain"
)

// ElasticConfig holds the connection profile for the search index.
type ElasticConfig struct {
	URL      string
	Index    string
	User     string
	Password string
}

// elasticDocument is the JSON body indexed per document.
type elasticDocument struct {
	SourcePath string            `json:"source_path"`
	JobID      string            `json:"job_id"`
	MIMEType   string            `json:"mime_type"`
	FileSize   int64             `json:"file_size"`
	Text       string            `json:"text"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	IndexedAt  time.Time         `json:"indexed_at"`
}

// ElasticStore adapts Elasticsearch behind the Store interface using
// its REST API. Documents are indexed with the content hash as the
// document ID, which makes repeat indexing idempotent.
type ElasticStore struct {
	cfg    *ElasticConfig
	client *resty.Client
}

// NewElasticStore creates an Elasticsearch adapter.
// Parameters:
//   - cfg: connection profile.
// Returns:
//   - *ElasticStore: adapter bound to the profile.
func NewElasticStore(cfg *ElasticConfig) *ElasticStore {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.URL, "/"))
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(30 * time.Second)
	if cfg.User != "" {
		client.SetBasicAuth(cfg.User, cfg.Password)
	}

	return &ElasticStore{cfg: cfg, client: client}
}

// Name returns the target name this adapter serves.
func (s *ElasticStore) Name() domain.TargetName {
	return domain.TargetElasticsearch
}

// Capabilities returns the fixed capability flags for this target.
func (s *ElasticStore) Capabilities() domain.Capabilities {
	return domain.CapabilitiesFor(domain.TargetElasticsearch)
}

// Upsert indexes the document under its content hash.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - doc: document to index.
// Returns:
//   - error: typed *Error on failure.
func (s *ElasticStore) Upsert(ctx context.Context, doc *domain.Document) error {
	body := elasticDocument{
		SourcePath: doc.SourcePath,
		JobID:      doc.JobID,
		MIMEType:   doc.MIMEType,
		FileSize:   doc.FileSize,
		Text:       doc.Text,
		Metadata:   doc.Metadata,
		IndexedAt:  time.Now(),
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		Put(fmt.Sprintf("/%s/_doc/%s", s.cfg.Index, doc.ContentHash))
	if err != nil {
		// resty surfaces transport-level failures here
		return transientOp(domain.TargetElasticsearch, "upsert", err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK || resp.StatusCode() == http.StatusCreated:
		return nil
	case resp.StatusCode() >= 500 || resp.StatusCode() == http.StatusTooManyRequests:
		return transientOp(domain.TargetElasticsearch, "upsert",
			fmt.Errorf("index returned %d: %s", resp.StatusCode(), resp.String()))
	default:
		// 4xx means the request itself is bad (mapping conflict etc.)
		return permanentOp(domain.TargetElasticsearch, "upsert",
			fmt.Errorf("index returned %d: %s", resp.StatusCode(), resp.String()))
	}
}

// Healthy checks the cluster health endpoint.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - bool: true when the cluster answers with a non-red status.
func (s *ElasticStore) Healthy(ctx context.Context) bool {
	var health struct {
		Status string `json:"status"`
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&health).
		Get("/_cluster/health")
	if err != nil || resp.StatusCode() != http.StatusOK {
		return false
	}
	return health.Status == "green" || health.Status == "yellow"
}

// Close is a no-op; resty uses the shared HTTP transport.
func (s *ElasticStore) Close() error {
	return nil
}
