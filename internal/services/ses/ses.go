// Package ses sends operator alerts via AWS SES
package ses

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"refill-eligibility/internal/models"
	"refill-eligibility/internal/utils"
)

// SendEmailAPI is the part of the SES client the service uses
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Service handles SES email operations
type Service struct {
	client    SendEmailAPI
	fromEmail string
	toEmail   string
	stage     string
}

// EmailParams represents parameters for sending an email
type EmailParams struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmailResult contains the result of sending an email
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// NewService creates a new SES service
func NewService(ctx context.Context, region, fromEmail, toEmail, stage string) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewWithClient(ses.NewFromConfig(cfg), fromEmail, toEmail, stage), nil
}

// NewWithClient creates a service around an existing client
func NewWithClient(client SendEmailAPI, fromEmail, toEmail, stage string) *Service {
	return &Service{
		client:    client,
		fromEmail: fromEmail,
		toEmail:   toEmail,
		stage:     stage,
	}
}

// SendEmail sends a basic email
func (s *Service) SendEmail(ctx context.Context, params EmailParams) (*SendEmailResult, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{params.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}

	if params.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(params.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}

	if params.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(params.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		utils.GetLogger().Error("Failed to send email",
			zap.String("to", params.To),
			zap.String("subject", params.Subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	messageID := aws.ToString(result.MessageId)
	utils.GetLogger().Info("Email sent successfully",
		zap.String("to", params.To),
		zap.String("subject", params.Subject),
		zap.String("messageId", messageID),
	)

	return &SendEmailResult{
		MessageID: messageID,
		SentAt:    time.Now(),
	}, nil
}

// NotifyFailure emails the operator about a failed check. It satisfies eligibility.Notifier.
func (s *Service) NotifyFailure(ctx context.Context, failure models.CheckFailure) error {
	htmlBody, err := renderFailureHTML(s.stage, failure)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	_, err = s.SendEmail(ctx, EmailParams{
		To:       s.toEmail,
		Subject:  FailureSubject(s.stage, failure),
		HTMLBody: htmlBody,
		TextBody: renderFailureText(s.stage, failure),
	})
	return err
}

// FailureSubject returns the alert subject line
func FailureSubject(stage string, failure models.CheckFailure) string {
	switch failure.Kind {
	case models.FailureKindMissingConfig:
		return fmt.Sprintf("[refill-check %s] Shopify settings missing", stage)
	case models.FailureKindShopifyAPI:
		return fmt.Sprintf("[refill-check %s] Shopify API returned %d", stage, failure.StatusCode)
	default:
		return fmt.Sprintf("[refill-check %s] check failed", stage)
	}
}

var failureTemplate = template.Must(template.New("failure_alert").Parse(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: sans-serif; color: #333;">
    <h2>Refill check failed ({{.Stage}})</h2>
    <table>
        <tr><td><b>Kind</b></td><td>{{.Failure.Kind}}</td></tr>
        <tr><td><b>Email</b></td><td>{{.Failure.Email}}</td></tr>
        {{if .Failure.ShopDomain}}<tr><td><b>Shop</b></td><td>{{.Failure.ShopDomain}}</td></tr>{{end}}
        {{if .Failure.StatusCode}}<tr><td><b>Status</b></td><td>{{.Failure.StatusCode}}</td></tr>{{end}}
        <tr><td><b>Message</b></td><td>{{.Failure.Message}}</td></tr>
        <tr><td><b>At</b></td><td>{{.OccurredAt}}</td></tr>
    </table>
    {{if .Details}}<pre>{{.Details}}</pre>{{end}}
</body>
</html>`))

func renderFailureHTML(stage string, failure models.CheckFailure) (string, error) {
	data := struct {
		Stage      string
		Failure    models.CheckFailure
		OccurredAt string
		Details    string
	}{
		Stage:      stage,
		Failure:    failure,
		OccurredAt: failure.OccurredAt.Format(time.RFC3339),
		Details:    string(failure.Details),
	}

	var buf bytes.Buffer
	if err := failureTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderFailureText(stage string, failure models.CheckFailure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Refill check failed (%s)\n\n", stage)
	fmt.Fprintf(&b, "Kind:    %s\n", failure.Kind)
	fmt.Fprintf(&b, "Email:   %s\n", failure.Email)
	if failure.ShopDomain != "" {
		fmt.Fprintf(&b, "Shop:    %s\n", failure.ShopDomain)
	}
	if failure.StatusCode != 0 {
		fmt.Fprintf(&b, "Status:  %d\n", failure.StatusCode)
	}
	fmt.Fprintf(&b, "Message: %s\n", failure.Message)
	fmt.Fprintf(&b, "At:      %s\n", failure.OccurredAt.Format(time.RFC3339))
	if len(failure.Details) > 0 {
		fmt.Fprintf(&b, "\nDetails:\n%s\n", failure.Details)
	}

	return b.String()
}
