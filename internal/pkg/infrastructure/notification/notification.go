package notification

import (
	"context"
	"errors"

	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/logging"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/metrics"
	"github.com/opsflow/temperature-compliance/pkg/types"
)

// Notifier publishes critical temperature alerts to a real-time channel.
// A notifier that is not Available must not be called.
type Notifier interface {
	Available() bool
	PublishTemperatureAlert(ctx context.Context, alert types.TemperatureAlert) error
}

type named interface {
	Name() string
}

func Unavailable() Notifier {
	return unavailable{}
}

type unavailable struct{}

func (unavailable) Name() string    { return "unavailable" }
func (unavailable) Available() bool { return false }
func (unavailable) PublishTemperatureAlert(context.Context, types.TemperatureAlert) error {
	return nil
}

type multi struct {
	notifiers []Notifier
	metrics   *metrics.Metrics
}

// Multi fans an alert out to every available notifier. It is available
// as long as at least one of them is.
func Multi(m *metrics.Metrics, notifiers ...Notifier) Notifier {
	return &multi{
		notifiers: notifiers,
		metrics:   m,
	}
}

func (n *multi) Available() bool {
	for _, child := range n.notifiers {
		if child.Available() {
			return true
		}
	}
	return false
}

func (n *multi) PublishTemperatureAlert(ctx context.Context, alert types.TemperatureAlert) error {
	log := logging.GetLoggerFromContext(ctx)

	var errs []error

	for _, child := range n.notifiers {
		if !child.Available() {
			continue
		}

		name := nameOf(child)

		err := child.PublishTemperatureAlert(ctx, alert)
		if err != nil {
			log.Warn().Err(err).Str("notifier", name).Msg("failed to publish temperature alert")
			errs = append(errs, err)
			n.count(name, "failure")
			continue
		}

		n.count(name, "success")
	}

	return errors.Join(errs...)
}

func (n *multi) count(name, status string) {
	if n.metrics != nil {
		n.metrics.NotificationsPublished.WithLabelValues(name, status).Inc()
	}
}

func nameOf(n Notifier) string {
	if nn, ok := n.(named); ok {
		return nn.Name()
	}
	return "unknown"
}
