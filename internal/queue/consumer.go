package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Sender delivers one mail; the SMTP sender satisfies this.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// StartMailConsumer connects to RabbitMQ, declares the durable
// mail.outbound queue and delivers each message through the sender.  It
// runs a reconnect loop with capped backoff and keeps running until the
// context is cancelled.  A malformed payload is rejected for good; a
// failed delivery is requeued exactly once, then dropped with a log
// line so one dead address cannot spin the consumer.
func StartMailConsumer(ctx context.Context, url string, sender Sender) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("mail-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(ctx, conn, sender); err != nil {
			log.Printf("mail-consumer: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, sender Sender) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		log.Printf("mail-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(mailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(mailQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			var msg MailMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("mail-consumer: unmarshal failed: %v", err)
				_ = d.Nack(false, false) // poison message, drop it
				continue
			}
			if err := sender.Send(ctx, msg.To, msg.Subject, msg.HTML); err != nil {
				if d.Redelivered {
					log.Printf("mail-consumer: giving up on mail to %s: %v", msg.To, err)
					_ = d.Nack(false, false)
				} else {
					log.Printf("mail-consumer: send to %s failed, requeueing once: %v", msg.To, err)
					_ = d.Nack(false, true)
				}
				continue
			}
			_ = d.Ack(false)
		}
	}
}
