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

// SubscriberSource yields the recipients for a theme's new posts.
// *repository.SubscriptionRepo satisfies it.
type SubscriberSource interface {
	SubscriberIDs(ctx context.Context, themeID uint64) ([]uint64, error)
}

// NotificationWriter persists one notification row per recipient.
// *repository.NotificationRepo satisfies it.
type NotificationWriter interface {
	Create(ctx context.Context, userID, postID uint64, message string) error
}

// StartPostCreatedConsumer connects to RabbitMQ, declares the post.created
// queue (durable) and consumes it, writing notification rows for every
// subscriber of the post's theme. It runs a reconnect loop with backoff and
// keeps running across broker restarts; failed messages are rejected
// without requeue to avoid tight redelivery loops.
func StartPostCreatedConsumer(url string, subs SubscriberSource, notifs NotificationWriter) error {
	pub := NewPublisher(url) // reuse URL fallback resolution
	backoff := time.Second
	for {
		conn, err := amqp.Dial(pub.URL)
		if err != nil {
			log.Printf("post-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, subs, notifs); err != nil {
			log.Printf("post-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, subs SubscriberSource, notifs NotificationWriter) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("post-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(PostCreatedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(PostCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := HandlePostCreated(context.Background(), d.Body, subs, notifs); err != nil {
			log.Printf("post-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// HandlePostCreated decodes one event and writes a notification for each
// subscriber of the theme except the author.
func HandlePostCreated(ctx context.Context, body []byte, subs SubscriberSource, notifs NotificationWriter) error {
	var ev PostCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	ids, err := subs.SubscriberIDs(ctx, ev.ThemeID)
	if err != nil {
		return fmt.Errorf("load subscribers: %w", err)
	}

	msg := fmt.Sprintf("%s posted in %s: %s", ev.AuthorName, ev.ThemeTitle, ev.Title)
	for _, id := range ids {
		if id == ev.AuthorID {
			continue
		}
		if err := notifs.Create(ctx, id, ev.PostID, msg); err != nil {
			return fmt.Errorf("write notification for user %d: %w", id, err)
		}
	}
	return nil
}
