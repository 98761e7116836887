// Package fanout republishes normalized events to Pub/Sub for downstream
// consumers. Publishing is optional; without a topic the publisher is a no-op.
package fanout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
)

const defaultPublishTimeout = 10 * time.Second

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

type publisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) publishResult
}

// Publisher serializes events and pushes them to the configured topic.
type Publisher struct {
	pub  publisher
	logg *logger.Logger
}

// New wraps a Pub/Sub publisher handle. A nil handle disables fan-out.
func New(pub *gcppubsub.Publisher, logg *logger.Logger) *Publisher {
	return &Publisher{pub: newGCPPublisher(pub), logg: logg}
}

// Enabled reports whether events will actually be published.
func (p *Publisher) Enabled() bool {
	return p != nil && p.pub != nil
}

// Publish fans one normalized event out. Failures are returned, not fatal;
// the aggregation pipeline has already folded the event by the time this runs.
func (p *Publisher) Publish(ctx context.Context, ev event.Event) error {
	if !p.Enabled() {
		return nil
	}

	normalized := ev.Normalized()
	payload, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("encoding event %s: %w", normalized.ID, err)
	}

	msg := &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_id":    normalized.ID,
			"kind":        string(normalized.Kind),
			"network":     normalized.Network,
			"occurred_at": normalized.Timestamp.Format(time.RFC3339Nano),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()

	result := p.pub.Publish(publishCtx, msg)
	if result == nil {
		return errors.New("publisher returned nil result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publishing event %s: %w", normalized.ID, err)
	}
	return nil
}

func newGCPPublisher(p *gcppubsub.Publisher) publisher {
	if p == nil {
		return nil
	}
	return &gcpPublisher{Publisher: p}
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return &gcpPublishResult{PublishResult: p.Publisher.Publish(ctx, msg)}
}

type gcpPublishResult struct {
	*gcppubsub.PublishResult
}

func (r *gcpPublishResult) Get(ctx context.Context) (string, error) {
	if r == nil || r.PublishResult == nil {
		return "", errors.New("publish result is nil")
	}
	return r.PublishResult.Get(ctx)
}
