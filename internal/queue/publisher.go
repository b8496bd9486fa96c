package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher satisfies the auth service's notifier contract by enqueueing
// mail instead of sending it inline.  Errors are logged and returned so
// the caller can treat delivery as best-effort.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// Send publishes a MailMessage to the mail.outbound queue.  The queue is
// declared durable and messages persistent, so enqueued mail survives a
// broker restart.
func (p *Publisher) Send(ctx context.Context, to, subject, html string) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("mail-queue: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("mail-queue: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(mailQueueName, true, false, false, false, nil); err != nil {
		log.Printf("mail-queue: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(MailMessage{
		To:         to,
		Subject:    subject,
		HTML:       html,
		EnqueuedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", mailQueueName, false, false, pub); err != nil {
		log.Printf("mail-queue: publish failed: %v", err)
		return err
	}
	return nil
}
