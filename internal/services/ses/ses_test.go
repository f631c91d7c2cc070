package ses_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refill-eligibility/internal/models"
	alerts "refill-eligibility/internal/services/ses"
)

type fakeSendEmail struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSendEmail) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, params)
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNotifyFailure_ShopifyAPI(t *testing.T) {
	client := &fakeSendEmail{}
	svc := alerts.NewWithClient(client, "alerts@example.com", "ops@example.com", "prod")

	err := svc.NotifyFailure(context.Background(), models.CheckFailure{
		Kind:       models.FailureKindShopifyAPI,
		Email:      "a@b.com",
		ShopDomain: "refills.myshopify.com",
		Message:    "shopify API returned status 401",
		StatusCode: http.StatusUnauthorized,
		Details:    json.RawMessage(`{"errors":"Unauthorized"}`),
		OccurredAt: time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, client.inputs, 1)
	input := client.inputs[0]
	assert.Equal(t, "alerts@example.com", aws.ToString(input.Source))
	assert.Equal(t, []string{"ops@example.com"}, input.Destination.ToAddresses)
	assert.Equal(t, "[refill-check prod] Shopify API returned 401", aws.ToString(input.Message.Subject.Data))

	text := aws.ToString(input.Message.Body.Text.Data)
	assert.Contains(t, text, "Email:   a@b.com")
	assert.Contains(t, text, "Status:  401")
	assert.Contains(t, text, `{"errors":"Unauthorized"}`)

	html := aws.ToString(input.Message.Body.Html.Data)
	assert.Contains(t, html, "refills.myshopify.com")
	assert.Contains(t, html, "2026-03-09T12:00:00Z")
}

func TestFailureSubject(t *testing.T) {
	assert.Equal(t, "[refill-check dev] Shopify settings missing",
		alerts.FailureSubject("dev", models.CheckFailure{Kind: models.FailureKindMissingConfig}))
	assert.Equal(t, "[refill-check dev] check failed",
		alerts.FailureSubject("dev", models.CheckFailure{Kind: "other"}))
}

func TestNotifyFailure_SendError(t *testing.T) {
	svc := alerts.NewWithClient(&fakeSendEmail{err: errors.New("throttled")}, "alerts@example.com", "ops@example.com", "prod")

	err := svc.NotifyFailure(context.Background(), models.CheckFailure{Kind: models.FailureKindMissingConfig})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
