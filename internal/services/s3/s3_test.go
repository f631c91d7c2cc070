package s3service_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refill-eligibility/internal/models"
	s3service "refill-eligibility/internal/services/s3"
)

type fakePutObject struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakePutObject) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(params.Body)
	f.inputs = append(f.inputs, params)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func testRecord() models.CheckRecord {
	id := int64(42)
	return models.CheckRecord{
		ID:         uuid.MustParse("6f1c3a52-7d2e-4c1b-9a0e-3f5b8d7c2e10"),
		Email:      "a@b.com",
		ShopDomain: "refills.myshopify.com",
		StatusCode: http.StatusOK,
		Eligible:   true,
		CustomerID: &id,
		CheckedAt:  time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC),
	}
}

func TestRecordKey(t *testing.T) {
	svc := s3service.NewWithClient(&fakePutObject{}, "audit-bucket", "checks")

	assert.Equal(t, "checks/2026/03/09/6f1c3a52-7d2e-4c1b-9a0e-3f5b8d7c2e10.json", svc.RecordKey(testRecord()))
}

func TestRecord(t *testing.T) {
	client := &fakePutObject{}
	svc := s3service.NewWithClient(client, "audit-bucket", "checks")

	require.NoError(t, svc.Record(context.Background(), testRecord()))

	require.Len(t, client.inputs, 1)
	assert.Equal(t, "audit-bucket", aws.ToString(client.inputs[0].Bucket))
	assert.Equal(t, "application/json", aws.ToString(client.inputs[0].ContentType))

	var stored models.CheckRecord
	require.NoError(t, json.Unmarshal(client.bodies[0], &stored))
	assert.Equal(t, "a@b.com", stored.Email)
	assert.True(t, stored.Eligible)
	require.NotNil(t, stored.CustomerID)
	assert.Equal(t, int64(42), *stored.CustomerID)
}

func TestRecord_UploadError(t *testing.T) {
	svc := s3service.NewWithClient(&fakePutObject{err: errors.New("access denied")}, "audit-bucket", "checks")

	err := svc.Record(context.Background(), testRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewService_RequiresBucket(t *testing.T) {
	_, err := s3service.NewService(context.Background(), "us-east-1", "", "checks")
	assert.Error(t, err)
}
