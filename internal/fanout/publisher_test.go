package fanout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/pkg/enums"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
)

type fakeResult struct {
	err error
}

func (r *fakeResult) Get(ctx context.Context) (string, error) {
	return "msg-1", r.err
}

type fakePublisher struct {
	messages []*gcppubsub.Message
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	p.messages = append(p.messages, msg)
	return &fakeResult{err: p.err}
}

func testPublisher(pub publisher) *Publisher {
	return &Publisher{pub: pub, logg: logger.New(logger.Options{ServiceName: "fanout-test"})}
}

func TestPublishNormalizesAndSerializes(t *testing.T) {
	fake := &fakePublisher{}
	p := testPublisher(fake)

	ev := event.Event{
		ID:        "e1",
		Kind:      enums.EventKindCommission,
		Network:   "Amazon Associates",
		Amount:    decimal.NewFromFloat(45.5),
		Timestamp: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if len(fake.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fake.messages))
	}
	msg := fake.messages[0]
	if msg.Attributes["network"] != "amazon-associates" {
		t.Fatalf("network attribute should be the slug, got %q", msg.Attributes["network"])
	}
	if msg.Attributes["kind"] != "commission" {
		t.Fatalf("unexpected kind attribute %q", msg.Attributes["kind"])
	}

	var decoded event.Event
	if err := json.Unmarshal(msg.Data, &decoded); err != nil {
		t.Fatalf("payload is not a valid event: %v", err)
	}
	if decoded.Network != "amazon-associates" || decoded.NetworkName != "Amazon Associates" {
		t.Fatalf("payload should carry the normalized event, got %+v", decoded)
	}
}

func TestPublishPropagatesFailures(t *testing.T) {
	p := testPublisher(&fakePublisher{err: errors.New("topic gone")})

	err := p.Publish(context.Background(), event.Event{ID: "e1", Kind: enums.EventKindClick, Network: "ClickBank"})
	if err == nil {
		t.Fatal("expected publish error")
	}
}

func TestDisabledPublisherIsNoop(t *testing.T) {
	p := New(nil, logger.New(logger.Options{ServiceName: "fanout-test"}))
	if p.Enabled() {
		t.Fatal("nil handle should disable fan-out")
	}
	if err := p.Publish(context.Background(), event.Event{ID: "e1"}); err != nil {
		t.Fatalf("disabled publisher must not error, got %v", err)
	}
}
