package notification

import (
	"context"
	"net/http"

	gosse "github.com/alexandrevicenzi/go-sse"

	"github.com/opsflow/temperature-compliance/pkg/types"
)

const TemperatureAlertWebEvent string = "temperatureAlert"

// WebEvents streams alerts to browsers as server sent events. Every client
// is attached to the alert channel of its own tenant.
type WebEvents struct {
	s *gosse.Server
}

// NewWebEvents creates the event stream. tenantOf must return the tenant of
// the authenticated caller of a stream request.
func NewWebEvents(tenantOf func(r *http.Request) string) *WebEvents {
	return &WebEvents{
		s: gosse.NewServer(&gosse.Options{
			ChannelNameFunc: func(r *http.Request) string {
				return AlertChannel(tenantOf(r))
			},
		}),
	}
}

func (we *WebEvents) Name() string {
	return "webevents"
}

func (we *WebEvents) Available() bool {
	return we.s != nil
}

func (we *WebEvents) PublishTemperatureAlert(ctx context.Context, alert types.TemperatureAlert) error {
	channel := AlertChannel(alert.Tenant)

	if !we.s.HasChannel(channel) {
		return nil
	}

	message := gosse.NewMessage(alert.ReadingID, string(alert.Body()), TemperatureAlertWebEvent)
	we.s.SendMessage(channel, message)

	return nil
}

func (we *WebEvents) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	we.s.ServeHTTP(w, r)
}

func (we *WebEvents) Close() error {
	we.s.Shutdown()
	return nil
}
