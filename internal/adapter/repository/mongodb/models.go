package mongodb

import (
	"fmt"
	"time"

	"github.com/Zethembe177/Job-Portal/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type salaryDocument struct {
	Min float64 `bson:"min"`
	Max float64 `bson:"max"`
}

type geoPointDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type imageDocument struct {
	URL      string `bson:"url"`
	PublicID string `bson:"public_id"`
}

type ownerDocument struct {
	Name  string `bson:"name"`
	Email string `bson:"email"`
}

type listingDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Category  string             `bson:"category"`
	Salary    salaryDocument     `bson:"salary"`
	Address   string             `bson:"address"`
	Location  geoPointDocument   `bson:"location"`
	Owner     primitive.ObjectID `bson:"owner"`
	Images    []imageDocument    `bson:"images"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// listingWithOwner carries the $lookup result alongside the listing fields.
type listingWithOwner struct {
	listingDocument `bson:",inline"`
	OwnerInfo       []ownerDocument `bson:"owner_info,omitempty"`
}

func fromDomainListing(l *domain.Listing) (*listingDocument, error) {
	doc := &listingDocument{
		Title:    l.Title,
		Category: l.Category,
		Salary:   salaryDocument{Min: l.Salary.Min, Max: l.Salary.Max},
		Address:  l.Address,
		Location: geoPointDocument{
			Type:        l.Location.Type,
			Coordinates: []float64{l.Location.Coordinates[0], l.Location.Coordinates[1]},
		},
		Images:    make([]imageDocument, 0, len(l.Images)),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	for _, img := range l.Images {
		doc.Images = append(doc.Images, imageDocument{URL: img.URL, PublicID: img.PublicID})
	}
	if l.ID != "" {
		id, err := primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid listing id", domain.ErrInvalidInput)
		}
		doc.ID = id
	}
	owner, err := primitive.ObjectIDFromHex(l.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid owner id", domain.ErrInvalidInput)
	}
	doc.Owner = owner
	return doc, nil
}

func (d *listingDocument) toDomainListing() *domain.Listing {
	l := &domain.Listing{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Category:  d.Category,
		Salary:    domain.SalaryRange{Min: d.Salary.Min, Max: d.Salary.Max},
		Address:   d.Address,
		OwnerID:   d.Owner.Hex(),
		Images:    make([]domain.Image, 0, len(d.Images)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if len(d.Location.Coordinates) == 2 {
		l.Location = domain.NewGeoPoint(d.Location.Coordinates[0], d.Location.Coordinates[1])
	}
	for _, img := range d.Images {
		l.Images = append(l.Images, domain.Image{URL: img.URL, PublicID: img.PublicID})
	}
	return l
}

func (d *listingWithOwner) toDomainListing() *domain.Listing {
	l := d.listingDocument.toDomainListing()
	if len(d.OwnerInfo) > 0 {
		l.Owner = &domain.OwnerInfo{Name: d.OwnerInfo[0].Name, Email: d.OwnerInfo[0].Email}
	}
	return l
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *userDocument) toDomainUser() *domain.User {
	return &domain.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		Role:      domain.Role(d.Role),
		CreatedAt: d.CreatedAt,
	}
}
