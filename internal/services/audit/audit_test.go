package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refill-eligibility/internal/config"
	"refill-eligibility/internal/models"
	"refill-eligibility/internal/services/audit"
)

func TestNew_None(t *testing.T) {
	for _, sink := range []string{"", "none", " NONE "} {
		t.Run(sink, func(t *testing.T) {
			recorder, err := audit.New(context.Background(), &config.Config{Audit: config.Audit{Sink: sink}})
			require.NoError(t, err)
			assert.Equal(t, audit.SinkNone, recorder.Name())
			assert.NoError(t, recorder.Record(context.Background(), models.CheckRecord{}))
			recorder.Close()
		})
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name  string
		audit config.Audit
		err   string
	}{
		{"unknown sink", config.Audit{Sink: "kafka"}, `unknown audit sink "kafka"`},
		{"postgres without url", config.Audit{Sink: "postgres"}, "DATABASE_URL is required"},
		{"s3 without bucket", config.Audit{Sink: "s3"}, "audit bucket is not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := audit.New(context.Background(), &config.Config{AWSRegion: "us-east-1", Audit: tt.audit})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}
