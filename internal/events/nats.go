package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// connect dials NATS with the reconnect policy shared by the publisher
// and the subscriber: retry forever, a second apart.
func connect(url string, opts ...nats.Option) (*nats.Conn, error) {
	base := []nats.Option{
		nats.Name("bazaar"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	conn, err := nats.Connect(url, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}
	return conn, nil
}

// NATSPublisher emits the bazaar.* topics over NATS.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: conn}, nil
}

// Publish JSON-encodes one of the event payload types and sends it on
// topic. Publishing is fire-and-forget; delivery is not awaited.
func (p *NATSPublisher) Publish(ctx context.Context, topic string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", topic, err)
	}
	if err := p.conn.Publish(topic, payload); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}

// NATSSubscriber consumes event topics over its own NATS connection.
type NATSSubscriber struct {
	conn *nats.Conn
}

// NewNATSSubscriber dials NATS. Extra options (disconnect and reconnect
// handlers, credentials) are appended after the reconnect defaults.
func NewNATSSubscriber(url string, opts ...nats.Option) (*NATSSubscriber, error) {
	conn, err := connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &NATSSubscriber{conn: conn}, nil
}

// Subscribe delivers messages for topic, which may use NATS wildcards
// such as TopicAll. The returned cancel stops delivery and closes the
// channel; calling it more than once is safe.
func (s *NATSSubscriber) Subscribe(topic string) (<-chan Message, func(), error) {
	inbox := make(chan *nats.Msg, 64)
	sub, err := s.conn.ChanSubscribe(topic, inbox)
	if err != nil {
		return nil, nil, fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	// Flush so the subscription is registered on the server before
	// publishers on other connections send.
	if err := s.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, nil, fmt.Errorf("flush subscription to %s: %w", topic, err)
	}

	out := make(chan Message, 64)
	done := make(chan struct{})
	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case msg, ok := <-inbox:
				if !ok {
					return
				}
				select {
				case out <- Message{Topic: msg.Subject, Payload: msg.Data}:
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			_ = sub.Unsubscribe()
			close(done)
		})
	}
	return out, cancel, nil
}

func (s *NATSSubscriber) Close() error {
	s.conn.Close()
	return nil
}
