package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/opsflow/temperature-compliance/pkg/types"
)

const alertHistorySize int64 = 100

func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return redis.NewClient(opts), nil
}

// RedisNotifier publishes alerts on a per tenant channel and keeps a short
// history of the latest alerts in a list next to it.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier returns a notifier that is unavailable when client is nil
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{
		client: client,
	}
}

func AlertChannel(tenant string) string {
	return fmt.Sprintf("tenant:%s:alerts", tenant)
}

func AlertHistoryKey(tenant string) string {
	return AlertChannel(tenant) + ":history"
}

func (r *RedisNotifier) Name() string {
	return "redis"
}

func (r *RedisNotifier) Available() bool {
	return r.client != nil
}

func (r *RedisNotifier) PublishTemperatureAlert(ctx context.Context, alert types.TemperatureAlert) error {
	if r.client == nil {
		return nil
	}

	body := alert.Body()
	historyKey := AlertHistoryKey(alert.Tenant)

	pipe := r.client.TxPipeline()
	pipe.Publish(ctx, AlertChannel(alert.Tenant), body)
	pipe.LPush(ctx, historyKey, body)
	pipe.LTrim(ctx, historyKey, 0, alertHistorySize-1)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to publish alert to redis: %w", err)
	}

	return nil
}

// RecentAlerts returns the stored alert history of a tenant, newest first
func (r *RedisNotifier) RecentAlerts(ctx context.Context, tenant string) ([]types.TemperatureAlert, error) {
	if r.client == nil {
		return []types.TemperatureAlert{}, nil
	}

	values, err := r.client.LRange(ctx, AlertHistoryKey(tenant), 0, alertHistorySize-1).Result()
	if err != nil {
		return nil, err
	}

	alerts := make([]types.TemperatureAlert, 0, len(values))
	for _, v := range values {
		a := types.TemperatureAlert{}
		if err := json.Unmarshal([]byte(v), &a); err != nil {
			return nil, fmt.Errorf("corrupt alert in history: %w", err)
		}
		alerts = append(alerts, a)
	}

	return alerts, nil
}

func (r *RedisNotifier) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
