package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ratlist/internal/models"

	amqp "github.com/streadway/amqp"
)

// TaskEventsQueue is the durable queue task change events are published to.
const TaskEventsQueue = "task_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the task events queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Printf("RabbitMQ client connected and %s declared.", TaskEventsQueue)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

func declareQueue(ch *amqp.Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		TaskEventsQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return q, fmt.Errorf("failed to declare %s: %w", TaskEventsQueue, err)
	}
	return q, nil
}

// Close closes the RabbitMQ connection and channel.
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
		return fmt.Errorf("errors closing RabbitMQ client: %v", errs)
	}
	return nil
}

// EncodeTaskEvent builds the persistent JSON message for a task event.
func EncodeTaskEvent(event models.TaskEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal task event: %w", err)
	}
	timestamp := event.OccurredAt
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Type:         event.Type,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    timestamp,
	}, nil
}

// DecodeTaskEvent parses a delivered task event.
func DecodeTaskEvent(msg amqp.Delivery) (models.TaskEvent, error) {
	var event models.TaskEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return event, fmt.Errorf("failed to decode task event %d: %w", msg.DeliveryTag, err)
	}
	return event, nil
}

// PublishTaskEvent publishes a task event to the default exchange.
func (c *Client) PublishTaskEvent(event models.TaskEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	msg, err := EncodeTaskEvent(event)
	if err != nil {
		return err
	}

	err = c.channel.Publish(
		"",              // default exchange
		TaskEventsQueue, // routing key
		false,           // mandatory
		false,           // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Printf(" [x] Sent %s event for task %s", event.Type, event.TaskID)
	return nil
}

// ConsumeTaskEvents starts a goroutine delivering task events to handler.
// Messages are acked when handler returns nil. Messages that cannot be
// decoded are dropped; handler failures are requeued once.
func (c *Client) ConsumeTaskEvents(handler func(models.TaskEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declareQueue(c.channel)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		queue.Name,
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

	log.Printf(" [*] Waiting for task events on %s", queue.Name)

	go func() {
		for msg := range msgs {
			settle(msg, handler)
		}
		log.Printf("Task event consumer stopped")
	}()

	return nil
}

func settle(msg amqp.Delivery, handler func(models.TaskEvent) error) {
	event, err := DecodeTaskEvent(msg)
	if err != nil {
		log.Printf("Dropping message: %v", err)
		if nackErr := msg.Nack(false, false); nackErr != nil {
			log.Printf("Error nacking message %d: %v", msg.DeliveryTag, nackErr)
		}
		return
	}

	if err := handler(event); err != nil {
		log.Printf("Error processing message %d: %v", msg.DeliveryTag, err)
		if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
			log.Printf("Error nacking message %d: %v", msg.DeliveryTag, nackErr)
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
	}
}

// LogTaskEvent is the default consumer handler; it records each event.
func LogTaskEvent(event models.TaskEvent) error {
	log.Printf("Task event %s: task=%s user=%s completion=%s at=%s",
		event.Type, event.TaskID, event.Username, event.Completion, event.OccurredAt.Format(time.RFC3339))
	return nil
}
