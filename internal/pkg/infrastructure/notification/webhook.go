package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	cehttp "github.com/cloudevents/sdk-go/v2/protocol/http"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sys/unix"

	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/logging"
	"github.com/opsflow/temperature-compliance/pkg/types"
)

const (
	TemperatureAlertEventType string = "opsflow.temperatureAlert"
	eventSource               string = "github.com/opsflow/temperature-compliance"
)

type OAuth2Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// WebhookNotifier delivers alerts as CloudEvents to a list of subscriber endpoints
type WebhookNotifier struct {
	client    cloudevents.Client
	endpoints []string
}

// NewWebhookNotifier creates a notifier for the given endpoints. When auth is
// non nil, deliveries carry a client credentials bearer token.
func NewWebhookNotifier(ctx context.Context, endpoints []string, auth *OAuth2Config) (*WebhookNotifier, error) {
	httpClient := http.DefaultClient

	if auth != nil && auth.TokenURL != "" {
		oauthConfig := &clientcredentials.Config{
			ClientID:     auth.ClientID,
			ClientSecret: auth.ClientSecret,
			TokenURL:     auth.TokenURL,
		}
		httpClient = oauthConfig.Client(ctx)
	}

	c, err := cloudevents.NewClientHTTP(cehttp.WithClient(*httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudevents client: %w", err)
	}

	return &WebhookNotifier{
		client:    c,
		endpoints: endpoints,
	}, nil
}

func (w *WebhookNotifier) Name() string {
	return "webhook"
}

func (w *WebhookNotifier) Available() bool {
	return len(w.endpoints) > 0
}

func (w *WebhookNotifier) PublishTemperatureAlert(ctx context.Context, alert types.TemperatureAlert) error {
	event := cloudevents.NewEvent()
	event.SetID(alert.ReadingID)
	event.SetTime(alert.Timestamp)
	event.SetSource(eventSource)
	event.SetType(TemperatureAlertEventType)
	event.SetExtension("tenant", alert.Tenant)

	err := event.SetData(cloudevents.ApplicationJSON, alert)
	if err != nil {
		return err
	}

	logger := logging.GetLoggerFromContext(ctx)

	var errs []error

	for _, endpoint := range w.endpoints {
		ctxWithTarget := cloudevents.ContextWithTarget(ctx, endpoint)

		result := w.client.Send(ctxWithTarget, event)
		if cloudevents.IsUndelivered(result) || errors.Is(result, unix.ECONNREFUSED) || !cloudevents.IsACK(result) {
			logger.Error().Err(result).Msgf("failed to send event to %s", endpoint)
			errs = append(errs, fmt.Errorf("%s: %w", endpoint, result))
		}
	}

	return errors.Join(errs...)
}
