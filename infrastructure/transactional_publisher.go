package infrastructure

import (
	"context"

	"matka/domain/events"
	"matka/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// TransactionalPublisher holds events until flush, keeping event delivery
// consistent with database transactions: a unit of work publishes through
// this buffer, and events reach the real publisher only after commit.
type TransactionalPublisher struct {
	realPublisher interfaces.EventPublisher
	pending       []events.Event
}

// NewTransactionalPublisher creates a new transactional publisher
func NewTransactionalPublisher(realPublisher interfaces.EventPublisher) interfaces.TransactionalEventPublisher {
	return &TransactionalPublisher{
		realPublisher: realPublisher,
		pending:       make([]events.Event, 0),
	}
}

// Publish stores an event in the pending queue without immediately publishing
func (p *TransactionalPublisher) Publish(event events.Event) error {
	p.pending = append(p.pending, event)
	return nil
}

// Flush publishes all pending events, called after successful commit
func (p *TransactionalPublisher) Flush(ctx context.Context) error {
	for _, event := range p.pending {
		if err := p.realPublisher.Publish(event); err != nil {
			// Partial failure must not block the remaining events
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to publish event during flush")
		}
	}

	p.pending = p.pending[:0]
	return nil
}

// Discard clears all pending events without publishing, called on rollback
func (p *TransactionalPublisher) Discard() {
	if len(p.pending) > 0 {
		log.WithField("discardedEventCount", len(p.pending)).Debug("Discarding pending events")
	}
	p.pending = p.pending[:0]
}
