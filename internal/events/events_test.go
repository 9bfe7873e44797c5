package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestDiscard(t *testing.T) {
	if err := Discard.Publish(context.Background(), TopicDocCreated, DocCreated{}); err != nil {
		t.Fatalf("Discard.Publish returned unexpected error: %v", err)
	}
	if err := Discard.Close(); err != nil {
		t.Fatalf("Discard.Close returned unexpected error: %v", err)
	}
}

func TestNATSPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*NATSPublisher)(nil)
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	sub, err := NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(TopicDocCreated)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	event := DocCreated{Collection: "products", ID: "prd-pub1", Data: map[string]any{"name": "Widget"}}
	if err := pub.Publish(context.Background(), TopicDocCreated, event); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	select {
	case msg := <-ch:
		if msg.Topic != TopicDocCreated {
			t.Errorf("Topic = %q, want %q", msg.Topic, TopicDocCreated)
		}
		var got DocCreated
		if err := json.Unmarshal(msg.Payload, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.ID != "prd-pub1" || got.Collection != "products" {
			t.Errorf("got %s/%s, want products/prd-pub1", got.Collection, got.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNATSPublisher_PublishMultipleTopics(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	sub, err := NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(TopicAll)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	published := []struct {
		topic string
		event any
	}{
		{TopicDocCreated, DocCreated{Collection: "products", ID: "prd-1"}},
		{TopicDocUpdated, DocUpdated{Collection: "products", ID: "prd-1", Changes: map[string]any{"price": 42}}},
		{TopicDocDeleted, DocDeleted{Collection: "products", ID: "prd-2"}},
		{TopicBulkApplied, BulkApplied{Collection: "auctions", Action: "start", IDs: []string{"auc-1"}, SuccessCount: 1}},
	}
	for _, p := range published {
		if err := pub.Publish(context.Background(), p.topic, p.event); err != nil {
			t.Fatalf("Publish(%s): %v", p.topic, err)
		}
	}

	seen := make(map[string]bool)
	for range published {
		select {
		case msg := <-ch:
			seen[msg.Topic] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out, topics seen so far: %v", seen)
		}
	}
	for _, p := range published {
		if !seen[p.topic] {
			t.Errorf("topic %s was never received", p.topic)
		}
	}
}

func TestNATSPublisher_ContextCanceled(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pub.Publish(ctx, TopicDocCreated, DocCreated{}); err == nil {
		t.Error("expected error publishing with a canceled context")
	}
}

func TestNATSPublisher_Close(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}

	if err := pub.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	// Publishing after close should fail.
	err = pub.Publish(context.Background(), TopicDocCreated, DocCreated{})
	if err == nil {
		t.Error("expected error publishing after close")
	}
}
