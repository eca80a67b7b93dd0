package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rbxassets/platform/services/payments/internal/contracts"
)

// LoggingPublisher emits outbox events to the structured log. The platform bus
// consumes these from the log shipper in environments without a broker.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(ctx context.Context, envelope contracts.EventEnvelope) error {
	p.logger.InfoContext(ctx, "event published",
		"module", "events",
		"layer", "adapter",
		"operation", "publish",
		"outcome", "success",
		"event_id", envelope.EventID,
		"event_type", envelope.EventType,
		"event_class", envelope.EventClass,
		"partition_key", envelope.PartitionKey,
	)
	return nil
}

// MemoryPublisher records published envelopes for assertions in tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []contracts.EventEnvelope
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{events: []contracts.EventEnvelope{}}
}

func (p *MemoryPublisher) Publish(_ context.Context, envelope contracts.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, envelope)
	return nil
}

func (p *MemoryPublisher) Events() []contracts.EventEnvelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]contracts.EventEnvelope, len(p.events))
	copy(out, p.events)
	return out
}
