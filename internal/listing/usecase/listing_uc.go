package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Zethembe177/Job-Portal/internal/domain"
	"github.com/Zethembe177/Job-Portal/internal/platform/logger"
	"github.com/Zethembe177/Job-Portal/internal/platform/metrics"
	"go.uber.org/zap"
)

const (
	defaultNearbyRadiusKm = 10
	nearbyResultLimit     = 50
	listingCacheTTL       = 5 * time.Minute
)

// ImageUpload points at a request attachment spooled to local disk. The
// usecase reads it, pushes it to the object store, and removes the spool
// file.
type ImageUpload struct {
	LocalPath string
	FileName  string
}

// CreateListingInput carries the fields of a new listing.
type CreateListingInput struct {
	Title     string
	Category  string
	Address   string
	SalaryMin float64
	SalaryMax float64
	OwnerID   string
	Image     *ImageUpload
}

// UpdateListingInput is a partial patch. Empty strings leave the field
// untouched; salary changes only when both bounds are present.
type UpdateListingInput struct {
	Title     string
	Category  string
	Address   string
	SalaryMin *float64
	SalaryMax *float64
	Image     *ImageUpload
}

// ListingUsecase implements listing lifecycle, search, and analytics on top
// of the persistence, geocoding, storage, cache, and messaging ports.
type ListingUsecase struct {
	listings domain.ListingRepository
	geocoder domain.Geocoder
	images   domain.ImageStore
	cache    domain.ListingCache
	events   domain.ListingEvents
	metrics  *metrics.MetricsManager
	logger   *logger.Logger
}

func NewListingUsecase(
	listings domain.ListingRepository,
	geocoder domain.Geocoder,
	images domain.ImageStore,
	cache domain.ListingCache,
	events domain.ListingEvents,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		listings: listings,
		geocoder: geocoder,
		images:   images,
		cache:    cache,
		events:   events,
		metrics:  m,
		logger:   log.Named("ListingUsecase"),
	}
}

// Create geocodes the address, uploads the attachment if any, and persists
// the listing. A failed geocode or upload aborts the whole operation and
// nothing is stored.
func (uc *ListingUsecase) Create(ctx context.Context, input CreateListingInput) (*domain.Listing, error) {
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Category) == "" ||
		strings.TrimSpace(input.Address) == "" {
		return nil, fmt.Errorf("%w: title, category and address are required", domain.ErrInvalidInput)
	}
	// Zero doubles as absent here, so a salary bound of 0 is not accepted.
	if input.SalaryMin == 0 || input.SalaryMax == 0 {
		return nil, fmt.Errorf("%w: salary min and max are required", domain.ErrInvalidInput)
	}

	coords, err := uc.geocoder.Resolve(ctx, input.Address)
	if err != nil {
		uc.logger.Warn("Geocoding failed during listing creation",
			zap.String("address", input.Address), zap.Error(err))
		return nil, err
	}

	listing := &domain.Listing{
		Title:    input.Title,
		Category: input.Category,
		Salary:   domain.SalaryRange{Min: input.SalaryMin, Max: input.SalaryMax},
		Address:  input.Address,
		Location: domain.NewGeoPoint(coords.Lng, coords.Lat),
		OwnerID:  input.OwnerID,
		Images:   []domain.Image{},
	}

	if input.Image != nil {
		image, err := uc.uploadAttachment(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		listing.Images = []domain.Image{image}
	}

	if err := uc.listings.Create(ctx, listing); err != nil {
		uc.evictImages(ctx, listing.Images)
		return nil, err
	}

	uc.metrics.ListingsCreatedTotal.Inc()
	if err := uc.events.ListingCreated(ctx, listing); err != nil {
		uc.logger.Warn("Failed to publish listing created event", zap.String("listing_id", listing.ID), zap.Error(err))
	}

	uc.logger.Info("Listing created", zap.String("listing_id", listing.ID), zap.String("owner_id", listing.OwnerID))
	return listing, nil
}

// Update applies a partial patch to a listing owned by actorID. A changed
// address is re-geocoded; if that fails, the old address and location are
// kept and the rest of the patch still applies.
func (uc *ListingUsecase) Update(ctx context.Context, id, actorID string, input UpdateListingInput) (*domain.Listing, error) {
	listing, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}

	if input.Title != "" {
		listing.Title = input.Title
	}
	if input.Category != "" {
		listing.Category = input.Category
	}
	if input.SalaryMin != nil && input.SalaryMax != nil {
		listing.Salary = domain.SalaryRange{Min: *input.SalaryMin, Max: *input.SalaryMax}
	}

	if input.Address != "" && input.Address != listing.Address {
		coords, err := uc.geocoder.Resolve(ctx, input.Address)
		if err != nil {
			uc.logger.Warn("Re-geocoding failed during update, keeping previous address and location",
				zap.String("listing_id", id), zap.String("address", input.Address), zap.Error(err))
		} else {
			listing.Address = input.Address
			listing.Location = domain.NewGeoPoint(coords.Lng, coords.Lat)
		}
	}

	var replaced []domain.Image
	if input.Image != nil {
		image, err := uc.uploadAttachment(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		replaced = listing.Images
		listing.Images = []domain.Image{image}
	}

	if err := uc.listings.Update(ctx, listing); err != nil {
		uc.evictImages(ctx, listing.Images)
		return nil, err
	}
	uc.evictImages(ctx, replaced)

	if err := uc.cache.Delete(ctx, id); err != nil {
		uc.logger.Warn("Failed to invalidate listing cache", zap.String("listing_id", id), zap.Error(err))
	}

	uc.metrics.ListingUpdatesTotal.Inc()
	if err := uc.events.ListingUpdated(ctx, listing); err != nil {
		uc.logger.Warn("Failed to publish listing updated event", zap.String("listing_id", id), zap.Error(err))
	}

	uc.logger.Info("Listing updated", zap.String("listing_id", id))
	return listing, nil
}

// Delete removes a listing owned by actorID. Attachment and cache cleanup
// are best-effort once the document is gone.
func (uc *ListingUsecase) Delete(ctx context.Context, id, actorID string) error {
	listing, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.OwnerID != actorID {
		return domain.ErrForbidden
	}

	if err := uc.listings.Delete(ctx, id); err != nil {
		return err
	}

	uc.evictImages(ctx, listing.Images)
	if err := uc.cache.Delete(ctx, id); err != nil {
		uc.logger.Warn("Failed to invalidate listing cache", zap.String("listing_id", id), zap.Error(err))
	}

	uc.metrics.ListingDeletesTotal.Inc()
	if err := uc.events.ListingDeleted(ctx, id); err != nil {
		uc.logger.Warn("Failed to publish listing deleted event", zap.String("listing_id", id), zap.Error(err))
	}

	uc.logger.Info("Listing deleted", zap.String("listing_id", id))
	return nil
}

// GetByID serves a single listing, cache first.
func (uc *ListingUsecase) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	if cached, err := uc.cache.Get(ctx, id); err != nil {
		uc.logger.Warn("Listing cache read failed", zap.String("listing_id", id), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	listing, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Set(ctx, listing, listingCacheTTL); err != nil {
		uc.logger.Warn("Listing cache write failed", zap.String("listing_id", id), zap.Error(err))
	}
	return listing, nil
}

// Search returns listings matching the public filter.
func (uc *ListingUsecase) Search(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	return uc.listings.FindFiltered(ctx, filter)
}

// Nearby returns listings within radiusKm of the point, nearest first. A
// zero latitude or longitude is rejected, which makes points on the equator
// and the prime meridian unreachable.
func (uc *ListingUsecase) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]*domain.Listing, error) {
	if lat == 0 || lng == 0 {
		return nil, fmt.Errorf("%w: latitude and longitude are required", domain.ErrInvalidInput)
	}
	if radiusKm <= 0 {
		radiusKm = defaultNearbyRadiusKm
	}

	uc.metrics.NearbySearchesTotal.Inc()
	return uc.listings.FindNearby(ctx, lat, lng, radiusKm*1000, nearbyResultLimit)
}

// MyListings returns the caller's own listings, newest first.
func (uc *ListingUsecase) MyListings(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	return uc.listings.FindByOwner(ctx, ownerID)
}

// AnalyticsSummary aggregates listing counts and average top salaries.
func (uc *ListingUsecase) AnalyticsSummary(ctx context.Context) (*domain.AnalyticsSummary, error) {
	return uc.listings.AnalyticsSummary(ctx)
}

// uploadAttachment pushes a spooled file to the object store and removes the
// spool file regardless of outcome.
func (uc *ListingUsecase) uploadAttachment(ctx context.Context, upload *ImageUpload) (domain.Image, error) {
	defer func() {
		if err := os.Remove(upload.LocalPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			uc.logger.Warn("Failed to remove spooled upload", zap.String("path", upload.LocalPath), zap.Error(err))
		}
	}()

	data, err := os.ReadFile(upload.LocalPath)
	if err != nil {
		return domain.Image{}, fmt.Errorf("failed to read spooled upload: %w", err)
	}

	image, err := uc.images.Upload(ctx, upload.FileName, data)
	if err != nil {
		uc.logger.Error("Image upload failed", zap.String("file_name", upload.FileName), zap.Error(err))
		return domain.Image{}, err
	}
	return image, nil
}

// evictImages deletes stored attachments best-effort. A failure leaves an
// orphaned object behind, so the key is logged for manual cleanup.
func (uc *ListingUsecase) evictImages(ctx context.Context, images []domain.Image) {
	for _, img := range images {
		if img.PublicID == "" {
			continue
		}
		if err := uc.images.Delete(ctx, img.PublicID); err != nil {
			uc.logger.Warn("Failed to delete stored image",
				zap.String("orphaned_object_key", img.PublicID), zap.Error(err))
		}
	}
}
