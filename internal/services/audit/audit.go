// Package audit selects where refill check records are kept, if anywhere.
package audit

import (
	"context"
	"fmt"
	"strings"

	"refill-eligibility/internal/config"
	"refill-eligibility/internal/models"
	"refill-eligibility/internal/services/database"
	s3service "refill-eligibility/internal/services/s3"
)

// Supported AUDIT_SINK values.
const (
	SinkNone     = "none"
	SinkS3       = "s3"
	SinkPostgres = "postgres"
)

// Recorder persists check records.
type Recorder interface {
	Record(ctx context.Context, record models.CheckRecord) error
	Name() string
	Close()
}

// New builds the recorder named by cfg.Audit.Sink.
func New(ctx context.Context, cfg *config.Config) (Recorder, error) {
	switch sink := strings.ToLower(strings.TrimSpace(cfg.Audit.Sink)); sink {
	case "", SinkNone:
		return Nop{}, nil

	case SinkS3:
		svc, err := s3service.NewService(ctx, cfg.AWSRegion, cfg.Audit.S3Bucket, cfg.Audit.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 audit sink: %w", err)
		}
		return &s3Recorder{svc: svc}, nil

	case SinkPostgres:
		if cfg.Audit.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres audit sink")
		}
		db, err := database.New(ctx, cfg.Audit.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres audit sink: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &postgresRecorder{db: db, repo: database.NewCheckRepository(db)}, nil

	default:
		return nil, fmt.Errorf("unknown audit sink %q", sink)
	}
}

// Nop discards records.
type Nop struct{}

func (Nop) Record(context.Context, models.CheckRecord) error { return nil }
func (Nop) Name() string                                     { return SinkNone }
func (Nop) Close()                                           {}

type s3Recorder struct {
	svc *s3service.Service
}

func (r *s3Recorder) Record(ctx context.Context, record models.CheckRecord) error {
	return r.svc.Record(ctx, record)
}

func (r *s3Recorder) Name() string { return SinkS3 }
func (r *s3Recorder) Close()       {}

type postgresRecorder struct {
	db   *database.DB
	repo *database.CheckRepository
}

func (r *postgresRecorder) Record(ctx context.Context, record models.CheckRecord) error {
	return r.repo.Record(ctx, record)
}

func (r *postgresRecorder) Name() string { return SinkPostgres }
func (r *postgresRecorder) Close()       { r.db.Close() }

// HealthCheck pings the audit database.
func (r *postgresRecorder) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}
