package infrastructure

import (
	"encoding/json"
	"fmt"
	"time"

	"matka/domain/events"
	"matka/domain/interfaces"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const subjectPrefix = "matka.events."

// eventEnvelope wraps every published event with identity and provenance so
// downstream notifiers can deduplicate and route without parsing the payload
type eventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventPublisher implements the EventPublisher interface using NATS
type NATSEventPublisher struct {
	nc *nats.Conn
}

// NewNATSEventPublisher connects to NATS and returns a publisher
func NewNATSEventPublisher(servers string) (*NATSEventPublisher, error) {
	nc, err := nats.Connect(servers,
		nats.Name("matka-settlement"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.WithField("servers", servers).Info("Connected to NATS")
	return &NATSEventPublisher{nc: nc}, nil
}

// Publish serializes the event into an envelope and publishes it on the
// subject derived from its type, e.g. matka.events.bet_settled
func (p *NATSEventPublisher) Publish(event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := eventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     string(event.Type()),
		Timestamp:     time.Now().UTC(),
		SourceService: "matka-settlement",
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := subjectPrefix + string(event.Type())
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Published event to NATS")

	return nil
}

// Close drains the NATS connection
func (p *NATSEventPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		log.WithError(err).Warn("Failed to drain NATS connection")
	}
}

var _ interfaces.EventPublisher = (*NATSEventPublisher)(nil)
