// Package stripe adapts the official Stripe SDK to domain.PaymentProcessor.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"hotel_booking/internal/adapters/outbound"
	"hotel_booking/internal/domain"
)

const DefaultBaseURL = stripe.APIURL

type Client struct {
	api *client.API
}

var _ domain.PaymentProcessor = (*Client)(nil)

// New returns a client. attempts > 1 lets the SDK retry failed calls; creates
// are safe to retry because they carry an idempotency key.
func New(base, key string, rps, attempts int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("stripe API key is required")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	if attempts < 1 {
		attempts = 1
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(strings.TrimRight(base, "/")),
		HTTPClient:        outbound.NewHTTPClient("stripe", rps, endpointName),
		MaxNetworkRetries: stripe.Int64(int64(attempts - 1)),
		LeveledLogger:     sdkLogger{},
	})
	api := &client.API{}
	api.Init(key, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return &Client{api: api}, nil
}

func endpointName(r *http.Request) string {
	if r.Method == http.MethodPost {
		return "create_payment_intent"
	}
	return "get_payment_intent"
}

func toDomain(pi *stripe.PaymentIntent) domain.PaymentIntent {
	return domain.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		Metadata:     pi.Metadata,
	}
}

func (c *Client) CreatePaymentIntent(ctx context.Context, p domain.PaymentIntentParams) (domain.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(p.Currency),
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return domain.PaymentIntent{}, err
	}
	return toDomain(pi), nil
}

func (c *Client) GetPaymentIntent(ctx context.Context, id string) (domain.PaymentIntent, error) {
	if strings.TrimSpace(id) == "" {
		return domain.PaymentIntent{}, domain.ErrNotFound
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := c.api.PaymentIntents.Get(id, params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && (se.HTTPStatusCode == http.StatusNotFound || se.Code == stripe.ErrorCodeResourceMissing) {
			return domain.PaymentIntent{}, domain.ErrNotFound
		}
		return domain.PaymentIntent{}, err
	}
	return toDomain(pi), nil
}

// sdkLogger sends SDK logs to the global zerolog logger.
type sdkLogger struct{}

func (sdkLogger) Debugf(format string, v ...interface{}) {
	log.Debug().Str("sdk", "stripe").Msgf(format, v...)
}
func (sdkLogger) Infof(format string, v ...interface{}) {
	log.Debug().Str("sdk", "stripe").Msgf(format, v...)
}
func (sdkLogger) Warnf(format string, v ...interface{}) {
	log.Warn().Str("sdk", "stripe").Msgf(format, v...)
}
func (sdkLogger) Errorf(format string, v ...interface{}) {
	log.Error().Str("sdk", "stripe").Msgf(format, v...)
}
