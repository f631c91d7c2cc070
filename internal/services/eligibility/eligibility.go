// Package eligibility decides whether a Shopify customer may order a refill.
//
// Service.Check is transport-agnostic: the Lambda and net/http handlers both
// pass it the request method and the raw email query values and write back
// the status and body it returns.
package eligibility

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"refill-eligibility/internal/config"
	"refill-eligibility/internal/models"
	"refill-eligibility/internal/services/shopify"
	"refill-eligibility/internal/utils"
)

// CustomerSearcher looks customers up by email.
type CustomerSearcher interface {
	SearchCustomersByEmail(ctx context.Context, email string) (*shopify.SearchResult, error)
}

// Recorder persists check outcomes.
type Recorder interface {
	Record(ctx context.Context, record models.CheckRecord) error
}

// Notifier tells an operator about configuration and upstream failures.
type Notifier interface {
	NotifyFailure(ctx context.Context, failure models.CheckFailure) error
}

const (
	// DefaultSideEffectTimeout bounds each audit write and alert.
	DefaultSideEffectTimeout = 3 * time.Second
	// DefaultAlertInterval is the minimum gap between two alerts of one kind.
	DefaultAlertInterval = 5 * time.Minute
)

// Service runs refill eligibility checks.
type Service struct {
	settings config.Shopify
	searcher CustomerSearcher
	recorder Recorder
	notifier Notifier

	sideEffectTimeout time.Duration
	alertInterval     time.Duration

	mu         sync.Mutex
	lastAlerts map[models.FailureKind]time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithSearcher replaces the Shopify client, mainly for tests.
func WithSearcher(searcher CustomerSearcher) Option {
	return func(s *Service) { s.searcher = searcher }
}

// WithRecorder enables the audit trail.
func WithRecorder(recorder Recorder) Option {
	return func(s *Service) { s.recorder = recorder }
}

// WithNotifier enables operator alerts.
func WithNotifier(notifier Notifier) Option {
	return func(s *Service) { s.notifier = notifier }
}

// WithSideEffectTimeout changes how long an audit write or alert may take.
func WithSideEffectTimeout(d time.Duration) Option {
	return func(s *Service) { s.sideEffectTimeout = d }
}

// WithAlertInterval changes the minimum gap between alerts of the same kind.
// Zero sends an alert for every failure.
func WithAlertInterval(d time.Duration) Option {
	return func(s *Service) { s.alertInterval = d }
}

// NewService creates a new eligibility service. Unless overridden, searches
// go to the Shopify Admin API described by settings.
func NewService(settings config.Shopify, opts ...Option) *Service {
	s := &Service{
		settings:          settings.WithDefaults(),
		sideEffectTimeout: DefaultSideEffectTimeout,
		alertInterval:     DefaultAlertInterval,
		lastAlerts:        make(map[models.FailureKind]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.searcher == nil {
		s.searcher = shopify.NewClient(s.settings, nil)
	}
	return s
}

// Settings returns the Shopify settings the service was built with.
func (s *Service) Settings() config.Shopify {
	return s.settings
}

// Check handles one refill-check request and returns the HTTP status and body.
// It never returns an error: every failure, including a panic, becomes a JSON
// error envelope.
func (s *Service) Check(ctx context.Context, method string, emails []string) (status int, resp models.RefillCheckResponse) {
	logger := utils.GetLogger()
	email := models.NormalizeEmail(emails)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Refill check panicked",
				utils.String("email", email),
				utils.String("panic", fmt.Sprint(r)))
			status, resp = http.StatusInternalServerError, models.NewErrorResponse(models.MsgServerError, nil)
		}
	}()

	resp, err := s.evaluate(ctx, method, email)
	if err != nil {
		status, resp = s.errorResponse(ctx, email, err)
	} else {
		status = http.StatusOK
		logger.Info("Refill check completed",
			utils.String("email", email),
			utils.Bool("eligible", resp.IsEligible()),
			utils.String("reason", resp.Reason))
	}

	if isLookup(err) {
		s.record(ctx, models.NewCheckRecord(email, s.settings.ShopDomain, status, resp))
	}

	return status, resp
}

// evaluate returns the 200 verdict or the error that replaces it.
func (s *Service) evaluate(ctx context.Context, method, email string) (models.RefillCheckResponse, error) {
	if method != http.MethodGet {
		return models.RefillCheckResponse{}, models.ErrMethodNotAllowed
	}

	if email == "" {
		return models.RefillCheckResponse{}, models.ErrEmailRequired
	}

	if err := s.settings.Validate(); err != nil {
		return models.RefillCheckResponse{}, err
	}

	result, err := s.searcher.SearchCustomersByEmail(ctx, email)
	if err != nil {
		return models.RefillCheckResponse{}, err
	}

	customer := result.First()
	if customer == nil {
		return models.NewNotFoundResponse(), nil
	}

	return models.NewEligibilityResponse(*customer, customer.HasTag(s.settings.RefillTag)), nil
}

// errorResponse maps an evaluate error to its status and envelope.
func (s *Service) errorResponse(ctx context.Context, email string, err error) (int, models.RefillCheckResponse) {
	logger := utils.GetLogger()

	if errors.Is(err, models.ErrMethodNotAllowed) {
		return http.StatusMethodNotAllowed, models.NewErrorResponse(models.MsgMethodNotAllowed, nil)
	}
	if errors.Is(err, models.ErrEmailRequired) {
		return http.StatusBadRequest, models.NewErrorResponse(models.MsgEmailRequired, nil)
	}

	var missing *config.MissingSettingsError
	if errors.As(err, &missing) {
		logger.Error("Shopify settings missing", utils.Error(err))
		s.notify(ctx, models.CheckFailure{
			Kind:    models.FailureKindMissingConfig,
			Email:   email,
			Message: missing.Error(),
		})
		return http.StatusInternalServerError, models.NewErrorResponse(missing.Error(), nil)
	}

	var apiErr *shopify.APIError
	if errors.As(err, &apiErr) {
		s.notify(ctx, models.CheckFailure{
			Kind:       models.FailureKindShopifyAPI,
			Email:      email,
			ShopDomain: s.settings.ShopDomain,
			Message:    apiErr.Error(),
			StatusCode: apiErr.StatusCode,
			Details:    apiErr.Body,
		})
		return http.StatusInternalServerError, models.NewErrorResponse(models.MsgShopifyAPIError, apiErr.Body)
	}

	logger.Error("Refill check failed", utils.String("email", email), utils.Error(err))

	message := err.Error()
	if message == "" {
		message = models.MsgServerError
	}
	return http.StatusInternalServerError, models.NewErrorResponse(message, nil)
}

// isLookup reports whether the request got far enough to be worth recording.
func isLookup(err error) bool {
	return !errors.Is(err, models.ErrMethodNotAllowed) && !errors.Is(err, models.ErrEmailRequired)
}

// sideEffectContext bounds an audit write or alert and ignores request
// cancellation.
func (s *Service) sideEffectContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.sideEffectTimeout)
}

func (s *Service) record(ctx context.Context, record models.CheckRecord) {
	if s.recorder == nil {
		return
	}
	ctx, cancel := s.sideEffectContext(ctx)
	defer cancel()

	if err := s.recorder.Record(ctx, record); err != nil {
		utils.GetLogger().Warn("Failed to record refill check",
			utils.String("checkID", record.ID.String()),
			utils.Error(err))
	}
}

func (s *Service) notify(ctx context.Context, failure models.CheckFailure) {
	if s.notifier == nil {
		return
	}
	failure.OccurredAt = time.Now().UTC()
	if !s.allowAlert(failure.Kind, failure.OccurredAt) {
		utils.GetLogger().Debug("Failure alert suppressed",
			utils.String("kind", string(failure.Kind)))
		return
	}

	ctx, cancel := s.sideEffectContext(ctx)
	defer cancel()

	if err := s.notifier.NotifyFailure(ctx, failure); err != nil {
		utils.GetLogger().Warn("Failed to send failure alert",
			utils.String("kind", string(failure.Kind)),
			utils.Error(err))
	}
}

// allowAlert reports whether an alert of kind may go out at now, and if so
// marks it as sent.
func (s *Service) allowAlert(kind models.FailureKind, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.lastAlerts[kind]; ok && now.Sub(last) < s.alertInterval {
		return false
	}
	s.lastAlerts[kind] = now
	return true
}
