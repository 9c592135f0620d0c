package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrDrop tells the consumer loop to acknowledge and discard a job that can
// never succeed, instead of requeueing it forever.
var ErrDrop = errors.New("queue: drop message")

// InvoiceJob is the payload published per settled purchase. The worker loads
// everything else from the database, so redeliveries stay harmless.
type InvoiceJob struct {
	PurchaseID uuid.UUID `json:"purchase_id"`
}

// Client wraps one AMQP connection with a declared durable queue. Delivery is
// at least once: publishes are persistent and consumers ack only after the
// handler succeeds.
type Client struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// Dial connects to the broker and declares the durable queue
func Dial(url, queueName string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return &Client{conn: conn, ch: ch, queue: queueName}, nil
}

// Close tears down the channel and connection
func (c *Client) Close() error {
	if err := c.ch.Close(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}

// PublishInvoice enqueues an invoice job for a settled purchase
func (c *Client) PublishInvoice(ctx context.Context, purchaseID uuid.UUID) error {
	body, err := json.Marshal(InvoiceJob{PurchaseID: purchaseID})
	if err != nil {
		return err
	}

	return c.ch.PublishWithContext(ctx,
		"",      // default exchange
		c.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// ConsumeInvoices delivers invoice jobs to handler until ctx is cancelled.
// A nil handler error acks the message; ErrDrop acks and discards; any other
// error nacks with requeue so another worker retries it.
func (c *Client) ConsumeInvoices(ctx context.Context, handler func(ctx context.Context, job InvoiceJob) error) error {
	if err := c.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := c.ch.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("queue: delivery channel closed")
			}

			var job InvoiceJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				log.Printf("Warning: dropping malformed invoice job: %v", err)
				_ = d.Ack(false)
				continue
			}

			err := handler(ctx, job)
			switch {
			case err == nil:
				_ = d.Ack(false)
			case errors.Is(err, ErrDrop):
				log.Printf("Warning: dropping invoice job for purchase %s: %v", job.PurchaseID, err)
				_ = d.Ack(false)
			default:
				log.Printf("Error: invoice job for purchase %s failed, requeueing: %v", job.PurchaseID, err)
				_ = d.Nack(false, true)
			}
		}
	}
}
