package application

import (
	"io"

	"github.com/samber/lo"
	yaml "gopkg.in/yaml.v2"

	"github.com/opsflow/temperature-compliance/internal/pkg/application/readings"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/notification"
)

type SubscriberConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type Notification struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Type        string             `yaml:"type"`
	Subscribers []SubscriberConfig `yaml:"subscribers"`
}

type OAuth2Config struct {
	TokenURL     string `yaml:"tokenUrl"`
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
}

type WebhookConfig struct {
	OAuth2 *OAuth2Config `yaml:"oauth2"`
}

type Config struct {
	Notifications []Notification    `yaml:"notifications"`
	Webhook       WebhookConfig     `yaml:"webhook"`
	Timeouts      readings.Timeouts `yaml:"timeouts"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := Config{
		Timeouts: readings.DefaultTimeouts(),
	}

	if err := yaml.Unmarshal(buf, &cfg); err == nil {
		return &cfg, nil
	} else {
		return nil, err
	}
}

// Endpoints returns the distinct subscriber endpoints of every notification
// of the given type
func (c *Config) Endpoints(notificationType string) []string {
	matching := lo.Filter(c.Notifications, func(n Notification, _ int) bool {
		return n.Type == notificationType
	})

	endpoints := lo.FlatMap(matching, func(n Notification, _ int) []string {
		return lo.Map(n.Subscribers, func(s SubscriberConfig, _ int) string {
			return s.Endpoint
		})
	})

	return lo.Uniq(lo.Filter(endpoints, func(e string, _ int) bool {
		return e != ""
	}))
}

// WebhookAuth returns the client credentials to use for webhook deliveries, or
// nil when deliveries are unauthenticated
func (c *Config) WebhookAuth() *notification.OAuth2Config {
	if c.Webhook.OAuth2 == nil || c.Webhook.OAuth2.TokenURL == "" {
		return nil
	}

	return &notification.OAuth2Config{
		TokenURL:     c.Webhook.OAuth2.TokenURL,
		ClientID:     c.Webhook.OAuth2.ClientID,
		ClientSecret: c.Webhook.OAuth2.ClientSecret,
	}
}
