package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Zethembe177/Job-Portal/internal/domain"
	"github.com/Zethembe177/Job-Portal/internal/platform/logger"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	subjectListingCreated = "listing.created"
	subjectListingUpdated = "listing.updated"
	subjectListingDeleted = "listing.deleted"
)

// Publisher emits listing lifecycle events on NATS subjects. Consumers are
// other services; delivery is fire-and-forget.
type Publisher struct {
	conn   *nats.Conn
	logger *logger.Logger
}

func Connect(url string, log *logger.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	log.Info("Connected to NATS", zap.String("url", url))
	return &Publisher{conn: conn, logger: log.Named("NATSPublisher")}, nil
}

// Close drains the connection so buffered messages flush before shutdown.
func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("Failed to drain NATS connection", zap.Error(err))
	}
}

type listingEvent struct {
	ID       string    `json:"id"`
	Title    string    `json:"title,omitempty"`
	Category string    `json:"category,omitempty"`
	OwnerID  string    `json:"owner,omitempty"`
	At       time.Time `json:"at"`
}

func (p *Publisher) publish(subject string, event listingEvent) error {
	event.At = time.Now().UTC()
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", subject, err)
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", subject, err)
	}
	p.logger.Debug("Published event", zap.String("subject", subject), zap.String("listing_id", event.ID))
	return nil
}

func (p *Publisher) ListingCreated(_ context.Context, listing *domain.Listing) error {
	return p.publish(subjectListingCreated, listingEvent{
		ID:       listing.ID,
		Title:    listing.Title,
		Category: listing.Category,
		OwnerID:  listing.OwnerID,
	})
}

func (p *Publisher) ListingUpdated(_ context.Context, listing *domain.Listing) error {
	return p.publish(subjectListingUpdated, listingEvent{
		ID:       listing.ID,
		Title:    listing.Title,
		Category: listing.Category,
		OwnerID:  listing.OwnerID,
	})
}

func (p *Publisher) ListingDeleted(_ context.Context, id string) error {
	return p.publish(subjectListingDeleted, listingEvent{ID: id})
}

var _ domain.ListingEvents = (*Publisher)(nil)
