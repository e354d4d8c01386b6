package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/Zethembe177/Job-Portal/internal/domain"
	"github.com/Zethembe177/Job-Portal/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const listingCollectionName = "listings"

// ownerLookupStages joins the owning user and projects name and email only.
// Public read paths never expose other owner fields.
func ownerLookupStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         userCollectionName,
			"localField":   "owner",
			"foreignField": "_id",
			"as":           "owner_info",
		}}},
		{{Key: "$project", Value: bson.M{
			"owner_info.password":   0,
			"owner_info.role":       0,
			"owner_info.created_at": 0,
		}}},
	}
}

// ListingRepository implements domain.ListingRepository using MongoDB.
type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewListingRepository creates the repository and ensures its indexes: a
// 2dsphere index over location for proximity queries and a secondary index
// over owner.
func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	collection := db.Collection(listingCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for listings collection", zap.Error(err))
		// Indexes may already exist or be created manually; don't fail startup.
	} else {
		log.Info("Successfully ensured indexes for listings collection")
	}

	return &ListingRepository{
		collection: collection,
		logger:     log.Named("ListingRepository"),
	}
}

// Create inserts a new listing and assigns id and timestamps.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	r.logger.Info("Creating listing in DB", zap.String("title", listing.Title), zap.String("owner", listing.OwnerID))

	doc, err := fromDomainListing(listing)
	if err != nil {
		r.logger.Error("Failed to convert domain.Listing to document for Create", zap.Error(err))
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	listing.ID = doc.ID.Hex()

	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	listing.CreatedAt = now
	listing.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert listing into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	r.logger.Info("Listing created successfully in DB", zap.String("listing_id", listing.ID))
	return nil
}

// Update replaces the mutable fields of an existing listing.
func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	r.logger.Info("Updating listing in DB", zap.String("listing_id", listing.ID))

	doc, err := fromDomainListing(listing)
	if err != nil {
		r.logger.Error("Failed to convert domain.Listing to document for Update", zap.Error(err))
		return err
	}
	doc.UpdatedAt = time.Now().UTC()
	listing.UpdatedAt = doc.UpdatedAt

	updatePayload := bson.M{
		"$set": bson.M{
			"title":      doc.Title,
			"category":   doc.Category,
			"salary":     doc.Salary,
			"address":    doc.Address,
			"location":   doc.Location,
			"images":     doc.Images,
			"updated_at": doc.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, updatePayload)
	if err != nil {
		r.logger.Error("Failed to update listing in DB", zap.Error(err), zap.String("listing_id", listing.ID))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		r.logger.Warn("Listing not found for update in DB", zap.String("listing_id", listing.ID))
		return domain.ErrListingNotFound
	}
	return nil
}

// Delete removes a listing record.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	r.logger.Info("Deleting listing from DB", zap.String("listing_id", id))
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid listing id", domain.ErrInvalidInput)
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("Failed to delete listing from DB", zap.Error(err), zap.String("listing_id", id))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if result.DeletedCount == 0 {
		r.logger.Warn("Listing not found for deletion in DB", zap.String("listing_id", id))
		return domain.ErrListingNotFound
	}
	return nil
}

// FindByID fetches one listing with the owner's name and email joined in.
func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid listing id", domain.ErrInvalidInput)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": oid}}},
	}
	pipeline = append(pipeline, ownerLookupStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to get listing by ID from DB", zap.Error(err), zap.String("listing_id", id))
		return nil, fmt.Errorf("db aggregate failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingWithOwner
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode listing by ID", zap.Error(err))
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}
	if len(docs) == 0 {
		r.logger.Warn("Listing not found in DB", zap.String("listing_id", id))
		return nil, domain.ErrListingNotFound
	}
	return docs[0].toDomainListing(), nil
}

// FindByOwner returns all listings owned by the given user, newest first.
func (r *ListingRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid owner id", domain.ErrInvalidInput)
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner": oid}, findOptions)
	if err != nil {
		r.logger.Error("Failed to find listings by owner", zap.Error(err), zap.String("owner", ownerID))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode listings by owner", zap.Error(err))
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	listings := make([]*domain.Listing, len(docs))
	for i, doc := range docs {
		listings[i] = doc.toDomainListing()
	}
	return listings, nil
}

// FindFiltered runs the public search. Both salary bounds constrain
// salary.max; the lower bound intentionally does not look at salary.min.
func (r *ListingRepository) FindFiltered(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	r.logger.Debug("Finding listings by filter", zap.Any("filter", filter))

	match := bson.M{}
	if filter.Search != "" {
		match["title"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}
	if filter.Category != "" {
		match["category"] = filter.Category
	}
	if filter.MinSalary != nil || filter.MaxSalary != nil {
		salary := bson.M{}
		if filter.MinSalary != nil {
			salary["$gte"] = *filter.MinSalary
		}
		if filter.MaxSalary != nil {
			salary["$lte"] = *filter.MaxSalary
		}
		match["salary.max"] = salary
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
	}
	pipeline = append(pipeline, ownerLookupStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to find listings by filter", zap.Error(err))
		return nil, fmt.Errorf("db aggregate failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingWithOwner
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode filtered listings", zap.Error(err))
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	listings := make([]*domain.Listing, len(docs))
	for i, doc := range docs {
		listings[i] = doc.toDomainListing()
	}
	return listings, nil
}

// FindNearby runs a $near query against the 2dsphere index. Results come
// back nearest first, which is the ordering the index defines.
func (r *ListingRepository) FindNearby(ctx context.Context, lat, lng, maxDistanceMeters float64, limit int64) ([]*domain.Listing, error) {
	r.logger.Debug("Finding nearby listings",
		zap.Float64("lat", lat), zap.Float64("lng", lng),
		zap.Float64("max_distance_m", maxDistanceMeters), zap.Int64("limit", limit))

	query := bson.M{
		"location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{lng, lat}, // GeoJSON order
				},
				"$maxDistance": maxDistanceMeters,
			},
		},
	}

	findOptions := options.Find().SetLimit(limit)
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		r.logger.Error("Nearby search query failed", zap.Error(err))
		return nil, fmt.Errorf("db geo query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode nearby listings", zap.Error(err))
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	listings := make([]*domain.Listing, len(docs))
	for i, doc := range docs {
		listings[i] = doc.toDomainListing()
	}
	return listings, nil
}

// AnalyticsSummary aggregates listing counts and average top salary per
// category, most-listed category first, plus an overall group.
func (r *ListingRepository) AnalyticsSummary(ctx context.Context) (*domain.AnalyticsSummary, error) {
	perCategoryPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "totalListings", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avgSalary", Value: bson.D{{Key: "$avg", Value: "$salary.max"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalListings", Value: -1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, perCategoryPipeline)
	if err != nil {
		r.logger.Error("Failed to aggregate per-category stats", zap.Error(err))
		return nil, fmt.Errorf("db aggregate failed: %w", err)
	}
	defer cursor.Close(ctx)

	var perCategory []struct {
		Category      string  `bson:"_id"`
		TotalListings int64   `bson:"totalListings"`
		AvgSalary     float64 `bson:"avgSalary"`
	}
	if err := cursor.All(ctx, &perCategory); err != nil {
		r.logger.Error("Failed to decode per-category stats", zap.Error(err))
		return nil, fmt.Errorf("db cursor all for aggregate failed: %w", err)
	}

	overallPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalListings", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "averageSalary", Value: bson.D{{Key: "$avg", Value: "$salary.max"}}},
		}}},
	}

	overallCursor, err := r.collection.Aggregate(ctx, overallPipeline)
	if err != nil {
		r.logger.Error("Failed to aggregate overall stats", zap.Error(err))
		return nil, fmt.Errorf("db aggregate failed: %w", err)
	}
	defer overallCursor.Close(ctx)

	var overall []struct {
		TotalListings int64   `bson:"totalListings"`
		AverageSalary float64 `bson:"averageSalary"`
	}
	if err := overallCursor.All(ctx, &overall); err != nil {
		r.logger.Error("Failed to decode overall stats", zap.Error(err))
		return nil, fmt.Errorf("db cursor all for aggregate failed: %w", err)
	}

	summary := &domain.AnalyticsSummary{
		PerCategory: make([]domain.CategoryStats, len(perCategory)),
	}
	for i, c := range perCategory {
		summary.PerCategory[i] = domain.CategoryStats{
			Category:      c.Category,
			TotalListings: c.TotalListings,
			AvgSalary:     c.AvgSalary,
		}
	}
	if len(overall) > 0 {
		summary.Overall = domain.OverallStats{
			TotalListings: overall[0].TotalListings,
			AverageSalary: overall[0].AverageSalary,
		}
	}
	return summary, nil
}

var _ domain.ListingRepository = (*ListingRepository)(nil)
