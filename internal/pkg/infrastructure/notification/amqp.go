package notification

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/logging"
	"github.com/opsflow/temperature-compliance/pkg/types"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPNotifier publishes alerts as topic messages on a topic exchange,
// using the message topic name as routing key.
type AMQPNotifier struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	isClosed func() bool
}

func NewAMQPNotifier(ctx context.Context, url, exchange string) (*AMQPNotifier, error) {
	log := logging.GetLoggerFromContext(ctx)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to message broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	log.Info().Str("exchange", exchange).Msg("connected to message broker")

	return &AMQPNotifier{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		isClosed: conn.IsClosed,
	}, nil
}

func (n *AMQPNotifier) Name() string {
	return "amqp"
}

func (n *AMQPNotifier) Available() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.channel != nil && !n.isClosed()
}

type topicMessage interface {
	ContentType() string
	TopicName() string
	Body() []byte
}

func (n *AMQPNotifier) PublishTemperatureAlert(ctx context.Context, alert types.TemperatureAlert) error {
	return n.publishOnTopic(ctx, &alert)
}

func (n *AMQPNotifier) publishOnTopic(ctx context.Context, message topicMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.channel == nil {
		return fmt.Errorf("no channel to publish %s on", message.TopicName())
	}

	err := n.channel.PublishWithContext(ctx, n.exchange, message.TopicName(), false, false,
		amqp.Publishing{
			ContentType:  message.ContentType(),
			DeliveryMode: amqp.Persistent,
			Body:         message.Body(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", message.TopicName(), err)
	}

	return nil
}

func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.channel != nil {
		n.channel.Close()
	}

	if n.conn != nil {
		return n.conn.Close()
	}

	return nil
}
