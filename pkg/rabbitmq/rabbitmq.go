package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	amqp "github.com/streadway/amqp"
)

// DefaultQueue receives every domain event published by the service.
const DefaultQueue = "galaxia_events"

// Event is the JSON envelope of a published message.
type Event struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ, opens a channel and declares the event queue.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareQueue(ch, cfg.Queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", cfg.Queue, err)
	}

	log.Info().Str("queue", cfg.Queue).Msg("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
	}, nil
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishEvent wraps data in an Event envelope and publishes it to the event queue.
func (c *Client) PublishEvent(eventType string, data map[string]interface{}) error {
	if c == nil || c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := EncodeEvent(eventType, data, time.Now().UTC())
	if err != nil {
		return err
	}

	err = c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         eventType,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}

	log.Debug().Str("event", eventType).Msg("event published")
	return nil
}

// EncodeEvent marshals the envelope of an event.
func EncodeEvent(eventType string, data map[string]interface{}, at time.Time) ([]byte, error) {
	body, err := json.Marshal(Event{Type: eventType, OccurredAt: at, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	return body, nil
}

// DecodeEvent parses a message body produced by PublishEvent.
func DecodeEvent(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	return ev, nil
}

// ConsumeEvents starts a goroutine that passes every event to handler.
// Messages are acked when handler succeeds and requeued once when it fails;
// a message that fails after redelivery is dropped.
func (c *Client) ConsumeEvents(handler func(Event) error) error {
	if c == nil || c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			handleDelivery(msg, handler)
		}
	}()
	return nil
}

func handleDelivery(msg amqp.Delivery, handler func(Event) error) {
	ev, err := DecodeEvent(msg.Body)
	if err == nil {
		err = handler(ev)
	}
	if err != nil {
		log.Error().Err(err).Uint64("tag", msg.DeliveryTag).Msg("error processing event")
		if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
			log.Error().Err(nackErr).Uint64("tag", msg.DeliveryTag).Msg("error nacking event")
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		log.Error().Err(ackErr).Uint64("tag", msg.DeliveryTag).Msg("error acking event")
	}
}

// LogEvent is the default consumer handler: it records the event in the log.
func LogEvent(ev Event) error {
	log.Info().Str("event", ev.Type).Time("occurred_at", ev.OccurredAt).Interface("data", ev.Data).Msg("event received")
	return nil
}
