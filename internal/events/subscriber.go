package events

// Message is one event received from the bus. Topic is the concrete
// subject it arrived on, which matters for wildcard subscriptions.
type Message struct {
	Topic   string
	Payload []byte
}

// Subscriber receives events published by the server.
type Subscriber interface {
	// Subscribe delivers messages for a topic, wildcards included. The
	// cancel function unsubscribes and closes the channel.
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}
