package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"cardapiopro-backend/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	ErrPublishQueueFull = errors.New("event queue is full")
	ErrPublisherClosed  = errors.New("event publisher is closed")
	errBrokerBackoff    = errors.New("broker unavailable, waiting before next dial")
)

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

type Logger interface {
	Warnf(format string, args ...interface{})
}

type outbound struct {
	routingKey string
	body       []byte
	at         time.Time
}

// rabbitPublisher hands events to a single worker goroutine. Publish only
// enqueues, so a slow or unreachable broker never holds up the caller.
// conn, ch and retryAt belong to the worker.
type rabbitPublisher struct {
	url            string
	exchange       string
	dialTimeout    time.Duration
	publishTimeout time.Duration
	retryBackoff   time.Duration
	log            Logger

	queue     chan outbound
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time
}

// NewEventPublisher dials lazily, so a broker that is down at boot does not
// keep the API from starting. An empty URL disables publishing.
func NewEventPublisher(cfg config.RabbitMQ, log Logger) EventPublisher {
	if cfg.URL == "" {
		return noopPublisher{}
	}

	p := newRabbitPublisher(cfg, log)
	go p.run()
	return p
}

func newRabbitPublisher(cfg config.RabbitMQ, log Logger) *rabbitPublisher {
	size := cfg.QueueSize
	if size <= 0 {
		size = 1
	}
	return &rabbitPublisher{
		url:            cfg.URL,
		exchange:       cfg.Exchange,
		dialTimeout:    orDefault(cfg.DialTimeout, 2*time.Second),
		publishTimeout: orDefault(cfg.PublishTimeout, 5*time.Second),
		retryBackoff:   orDefault(cfg.RetryBackoff, 15*time.Second),
		log:            log,
		queue:          make(chan outbound, size),
		done:           make(chan struct{}),
		stopped:        make(chan struct{}),
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Publish never waits on the broker. The event is dropped with an error when
// the queue is full or the publisher was closed.
func (p *rabbitPublisher) Publish(_ context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	select {
	case <-p.done:
		return ErrPublisherClosed
	default:
	}

	select {
	case p.queue <- outbound{routingKey: routingKey, body: body, at: time.Now().UTC()}:
		return nil
	default:
		return ErrPublishQueueFull
	}
}

func (p *rabbitPublisher) run() {
	defer close(p.stopped)
	for {
		select {
		case msg := <-p.queue:
			p.handle(msg)
		case <-p.done:
			// flush what was accepted before Close
			for {
				select {
				case msg := <-p.queue:
					p.handle(msg)
				default:
					p.closeConn()
					return
				}
			}
		}
	}
}

func (p *rabbitPublisher) handle(msg outbound) {
	if err := p.deliver(msg); err != nil && p.log != nil {
		p.log.Warnf("drop event %s: %v", msg.routingKey, err)
	}
}

func (p *rabbitPublisher) deliver(msg outbound) error {
	if err := p.connect(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.publishTimeout)
	defer cancel()

	err := p.ch.PublishWithContext(ctx,
		p.exchange,
		msg.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    msg.at,
			Body:         msg.body,
		},
	)
	if err != nil {
		p.closeConn()
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// connect reuses an open channel. After a failed dial it refuses to dial
// again until retryBackoff has passed.
func (p *rabbitPublisher) connect() error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.closeConn()

	if time.Now().Before(p.retryAt) {
		return errBrokerBackoff
	}

	if err := p.dial(); err != nil {
		p.retryAt = time.Now().Add(p.retryBackoff)
		return err
	}
	p.retryAt = time.Time{}
	return nil
}

func (p *rabbitPublisher) dial() error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Dial: amqp.DefaultDial(p.dialTimeout),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // kind
		true,       // durable
		false,      // autoDelete
		false,      // internal
		false,      // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	p.conn, p.ch = conn, ch
	return nil
}

func (p *rabbitPublisher) closeConn() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close stops accepting events, lets the worker flush the queue and waits
// for it to exit.
func (p *rabbitPublisher) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	<-p.stopped
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }
func (noopPublisher) Close() error                               { return nil }
