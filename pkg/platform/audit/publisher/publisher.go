// Package publisher delivers audit events to a store, either synchronously or
// through a buffered channel drained by a background goroutine. Emission is
// fire-and-forget from the caller's perspective: a full buffer drops the
// event rather than blocking the mutating operation.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	id "tapestry/pkg/domain"
	audit "tapestry/pkg/platform/audit"
)

type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	inbox chan audit.Event
	done  chan struct{}
	once  sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to asynchronous mode with the given
// channel capacity.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, size)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, done: make(chan struct{})}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		go p.drain()
	}
	return p
}

// Emit records one audit event. In async mode a full buffer drops the event
// with a warning; the state mutation it describes has already succeeded and
// must not be failed or rolled back for audit delivery.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		if p.logger != nil {
			p.logger.Warn("audit buffer full, dropping event", "action", event.Action, "record_id", event.RecordID)
		}
		return nil
	}
}

// List returns the audit trail for one record.
func (p *Publisher) List(ctx context.Context, recordID id.RecordID) ([]audit.Event, error) {
	return p.store.ListByRecord(ctx, recordID)
}

func (p *Publisher) drain() {
	for {
		select {
		case <-p.done:
			// Flush what's already buffered before exiting.
			for {
				select {
				case event := <-p.inbox:
					p.append(event)
				default:
					return
				}
			}
		case event := <-p.inbox:
			p.append(event)
		}
	}
}

func (p *Publisher) append(event audit.Event) {
	if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
		p.logger.Warn("failed to append audit event", "action", event.Action, "error", err)
	}
}

// Close stops the drain goroutine after flushing buffered events.
func (p *Publisher) Close() {
	p.once.Do(func() { close(p.done) })
}
