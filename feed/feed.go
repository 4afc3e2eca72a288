// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ShaikMuktharBasha/realtime-poll-backend/vote"
)

// Connect establishes a connection to RabbitMQ, retrying a few times so the
// service survives the broker coming up after it.
func Connect(amqpURL string) (*amqp.Connection, error) {
	var connection *amqp.Connection
	var err error
	for range 5 {
		if connection, err = amqp.Dial(amqpURL); err == nil {
			slog.Info("connected to RabbitMQ")
			return connection, nil
		}
		slog.Warn("failed to connect to RabbitMQ, retrying in 5 seconds")
		time.Sleep(5 * time.Second)
	}

	return nil, fmt.Errorf("could not connect to RabbitMQ after multiple retries: %w", err)
}

// Publisher mirrors every admitted vote onto a durable queue for downstream
// consumers (analytics, audit). It satisfies vote.EventSink.
type Publisher struct {
	amqpChannel  *amqp.Channel
	amqpQueue    string
	channelMutex sync.Mutex
}

// NewPublisher declares the queue and returns a publisher bound to it.
func NewPublisher(conn *amqp.Connection, queue string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue %q: %w", queue, err)
	}

	return &Publisher{amqpChannel: ch, amqpQueue: queue}, nil
}

// VoteAccepted publishes the event as JSON. Channels are not safe for
// concurrent publishing, hence the mutex.
func (p *Publisher) VoteAccepted(event vote.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode vote event: %w", err)
	}

	p.channelMutex.Lock()
	defer p.channelMutex.Unlock()

	return p.amqpChannel.Publish(
		"",
		p.amqpQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Close releases the channel.
func (p *Publisher) Close() error {
	return p.amqpChannel.Close()
}
