// Package queue moves outbound mail through RabbitMQ so a slow or down
// SMTP relay never stalls a request.  The auth service publishes to the
// durable mail.outbound queue and the consumer drains it.
package queue

import "time"

const mailQueueName = "mail.outbound"

// MailMessage is the payload published for each outbound mail.
type MailMessage struct {
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	HTML       string    `json:"html"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
