package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"crave/config"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// Publisher pushes notification events onto a durable queue for whatever
// delivery worker sits on the other side. The billing core only enqueues.
type Publisher struct {
	cfg config.RabbitConfig
	log *logrus.Logger

	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex
}

func New(cfg config.RabbitConfig, log *logrus.Logger) (*Publisher, error) {
	p := &Publisher{cfg: cfg, log: log}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%d%s",
		p.cfg.User, p.cfg.Password, p.cfg.Host, p.cfg.Port, p.cfg.VHost)

	conn, err := amqp.Dial(dsn)
	if err != nil {
		return fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(
		p.cfg.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	p.mu.Lock()
	p.conn = conn
	p.channel = ch
	p.mu.Unlock()

	p.log.WithFields(logrus.Fields{
		"host":  p.cfg.Host,
		"queue": p.cfg.Queue,
	}).Info("connected to RabbitMQ")
	return nil
}

// Publish sends one JSON event. Reconnects once on a closed channel; errors
// bubble up for the caller to log and swallow.
func (p *Publisher) Publish(event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	p.mu.Lock()
	ch := p.channel
	p.mu.Unlock()
	if ch == nil || ch.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
		p.mu.Lock()
		ch = p.channel
		p.mu.Unlock()
	}

	return ch.PublishWithContext(ctx,
		"",          // default exchange
		p.cfg.Queue, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
}

func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
	p.log.Info("publisher closed")
}
