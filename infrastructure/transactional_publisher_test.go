package infrastructure

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matka/domain/events"
)

// capturingPublisher records published events for assertions
type capturingPublisher struct {
	published    []events.Event
	publishError error
}

func (p *capturingPublisher) Publish(event events.Event) error {
	if p.publishError != nil {
		return p.publishError
	}
	p.published = append(p.published, event)
	return nil
}

func TestTransactionalPublisher_FlushAfterCommit(t *testing.T) {
	real := &capturingPublisher{}
	publisher := NewTransactionalPublisher(real)

	settled := events.BetSettledEvent{BetID: 10, UserID: 100, BazaarID: 1, Won: true, Amount: 90}
	change := events.BalanceChangeEvent{UserID: 100, NewBalance: 1090, ChangeAmount: 90}

	require.NoError(t, publisher.Publish(settled))
	require.NoError(t, publisher.Publish(change))

	// Nothing reaches the real publisher until flush
	assert.Empty(t, real.published)

	require.NoError(t, publisher.Flush(context.Background()))
	require.Len(t, real.published, 2)
	assert.Equal(t, settled, real.published[0])
	assert.Equal(t, change, real.published[1])

	// A second flush publishes nothing further
	require.NoError(t, publisher.Flush(context.Background()))
	assert.Len(t, real.published, 2)
}

func TestTransactionalPublisher_DiscardOnRollback(t *testing.T) {
	real := &capturingPublisher{}
	publisher := NewTransactionalPublisher(real)

	require.NoError(t, publisher.Publish(events.BetPlacedEvent{BetID: 10}))
	publisher.Discard()

	require.NoError(t, publisher.Flush(context.Background()))
	assert.Empty(t, real.published)
}

func TestTransactionalPublisher_FlushToleratesPublishErrors(t *testing.T) {
	real := &capturingPublisher{publishError: errors.New("nats down")}
	publisher := NewTransactionalPublisher(real)

	require.NoError(t, publisher.Publish(events.BetPlacedEvent{BetID: 10}))

	// Delivery failure is logged, not surfaced; the commit already happened
	assert.NoError(t, publisher.Flush(context.Background()))
}
