package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/healthd/healthd/internal/domain/assessment"
)

const (
	reconnectDelay = 5 * time.Second
	publishTimeout = 30 * time.Second
	mailboxSize    = 256

	// maxAttempts bounds the per-event retries so a dead broker cannot
	// wedge shutdown; the event is dropped after the last attempt.
	maxAttempts = 3
)

// ErrClosed is returned when publishing after Close.
var ErrClosed = errors.New("event publisher closed")

// Publisher delivers completed-assessment events to an AMQP queue. A
// single goroutine owns the connection and drains a mailbox channel, so
// callers never block on broker I/O; when the mailbox is full the event
// is dropped with a warning. Delivery is at-most-once by design.
type Publisher struct {
	url        string
	queue      string
	log        zerolog.Logger
	retryDelay time.Duration

	mailbox chan []byte
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPublisher creates the publisher and starts its delivery loop. The
// broker may be unreachable at startup; the loop keeps reconnecting.
func NewPublisher(url, queue string, log zerolog.Logger) *Publisher {
	return newPublisher(url, queue, log, reconnectDelay)
}

func newPublisher(url, queue string, log zerolog.Logger, retryDelay time.Duration) *Publisher {
	p := &Publisher{
		url:        url,
		queue:      queue,
		log:        log,
		retryDelay: retryDelay,
		mailbox:    make(chan []byte, mailboxSize),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// PublishAssessmentCompleted enqueues one record for delivery.
func (p *Publisher) PublishAssessmentCompleted(ctx context.Context, rec *assessment.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode assessment event: %w", err)
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}

	select {
	case p.mailbox <- body:
		return nil
	default:
		p.log.Warn().Str("queue", p.queue).Msg("event mailbox full, dropping assessment event")
		return fmt.Errorf("event mailbox full")
	}
}

// Close stops the delivery loop after draining queued events.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.mailbox)
	p.wg.Wait()
}

func (p *Publisher) run() {
	defer p.wg.Done()

	var conn *amqp.Connection
	var ch *amqp.Channel
	defer func() {
		if ch != nil {
			ch.Close()
		}
		if conn != nil {
			conn.Close()
		}
	}()

	// drop closes both halves of the session; redialing with a stale
	// connection still open would leak one TCP connection per cycle.
	drop := func() {
		if ch != nil {
			ch.Close()
			ch = nil
		}
		if conn != nil {
			conn.Close()
			conn = nil
		}
	}

	for body := range p.mailbox {
		for attempt := 0; attempt < maxAttempts; attempt++ {
			if ch == nil || ch.IsClosed() {
				drop()
				var err error
				conn, ch, err = p.connect()
				if err != nil {
					p.log.Warn().Err(err).Dur("retry_in", p.retryDelay).
						Msg("amqp connect failed")
					time.Sleep(p.retryDelay)
					continue
				}
				p.log.Info().Str("queue", p.queue).Msg("connected to amqp broker")
			}

			if err := p.publish(ch, body); err != nil {
				p.log.Warn().Err(err).Msg("amqp publish failed, reconnecting")
				drop()
				continue
			}
			break
		}
	}
}

func (p *Publisher) connect() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("declare queue %s: %w", p.queue, err)
	}
	return conn, ch, nil
}

func (p *Publisher) publish(ch *amqp.Channel, body []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return ch.PublishWithContext(ctx,
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
}
