package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles. Authorization decisions match on
// it exhaustively instead of scanning a free-form role list.
type Role string

const (
	RoleEmployer  Role = "employer"
	RoleCandidate Role = "candidate"
)

// ParseRole maps a wire-level role string onto the enum.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEmployer:
		return RoleEmployer, nil
	case RoleCandidate:
		return RoleCandidate, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
}

// SalaryRange is an inclusive monthly salary band. Min <= Max is not
// enforced; filters compare against Max only.
type SalaryRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

func (p GeoPoint) Longitude() float64 { return p.Coordinates[0] }
func (p GeoPoint) Latitude() float64  { return p.Coordinates[1] }

// Valid reports whether the coordinates fall within WGS84 bounds.
func (p GeoPoint) Valid() bool {
	lng, lat := p.Longitude(), p.Latitude()
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

// Image is a remotely stored attachment: public URL plus the store's object
// identifier, which is what eviction uses.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// OwnerInfo is the denormalized slice of the owning user exposed on public
// read paths: name and email only.
type OwnerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Listing struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Category string      `json:"category"`
	Salary   SalaryRange `json:"salary"`
	Address  string      `json:"address"`
	Location GeoPoint    `json:"location"`
	OwnerID  string      `json:"owner"`
	Owner    *OwnerInfo  `json:"ownerInfo,omitempty"`
	// Images holds at most one element in practice; it is replaced
	// wholesale, never appended.
	Images    []Image   `json:"images"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListingFilter narrows a public listing search. Nil salary bounds mean
// unconstrained; both bounds apply to salary.max.
type ListingFilter struct {
	Search    string
	Category  string
	MinSalary *float64
	MaxSalary *float64
}

// Coordinates is a geocoder result.
type Coordinates struct {
	Lat float64
	Lng float64
}

type CategoryStats struct {
	Category      string  `json:"_id"`
	TotalListings int64   `json:"totalListings"`
	AvgSalary     float64 `json:"avgSalary"`
}

type OverallStats struct {
	TotalListings int64   `json:"totalListings"`
	AverageSalary float64 `json:"averageSalary"`
}

type AnalyticsSummary struct {
	PerCategory []CategoryStats `json:"perCategory"`
	Overall     OverallStats    `json:"overall"`
}
