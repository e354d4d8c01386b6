package domain

import (
	"context"
	"time"
)

// ListingRepository is the persistence port for listings. Implementations
// own timestamps and identifier assignment.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*Listing, error)
	FindFiltered(ctx context.Context, filter ListingFilter) ([]*Listing, error)
	// FindNearby runs a spatial query centered at (lng, lat) with the given
	// maximum distance in meters, nearest first, at most limit results.
	FindNearby(ctx context.Context, lat, lng, maxDistanceMeters float64, limit int64) ([]*Listing, error)
	AnalyticsSummary(ctx context.Context) (*AnalyticsSummary, error)
}

type UserRepository interface {
	// Create persists the user with a hashed password and returns the
	// assigned identifier. Duplicate emails map to ErrDuplicateEmail.
	Create(ctx context.Context, user *User) (string, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

// Geocoder resolves a free-text address to coordinates. An unresolvable
// address yields ErrGeocodeNoResults.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (Coordinates, error)
}

// ImageStore is the remote attachment store.
type ImageStore interface {
	Upload(ctx context.Context, fileName string, data []byte) (Image, error)
	Delete(ctx context.Context, publicID string) error
}

// ListingEvents publishes lifecycle notifications. Publishing is
// best-effort; callers log failures and move on.
type ListingEvents interface {
	ListingCreated(ctx context.Context, listing *Listing) error
	ListingUpdated(ctx context.Context, listing *Listing) error
	ListingDeleted(ctx context.Context, id string) error
}

// ListingCache is a read-through cache keyed by listing id. Get returns
// (nil, nil) on a miss.
type ListingCache interface {
	Get(ctx context.Context, id string) (*Listing, error)
	Set(ctx context.Context, listing *Listing, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Mailer sends account notifications. Failures never block the operation
// that triggered them.
type Mailer interface {
	SendWelcome(to, name string) error
}
