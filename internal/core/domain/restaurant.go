package domain

import (
	"strings"
	"time"
)

// Restaurant is the root aggregate. Exactly one exists per owner.
type Restaurant struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	SecretKey string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RestaurantFields carries the data collected during onboarding.
type RestaurantFields struct {
	Name      string
	Phone     *string
	Address   *string
	Latitude  *float64
	Longitude *float64
}

func (f RestaurantFields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return Invalid("name", "is required")
	}
	return validateCoordinates(f.Latitude, f.Longitude)
}

// RestaurantPatch is a partial update from the settings screen. Nil fields are left untouched;
// an empty Phone or Address clears the stored value. Coordinates are always written as a pair.
type RestaurantPatch struct {
	Name        *string
	Phone       *string
	Address     *string
	Latitude    *float64
	Longitude   *float64
	ClearCoords bool
}

func (p RestaurantPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return Invalid("name", "must not be empty")
	}
	if p.ClearCoords && (p.Latitude != nil || p.Longitude != nil) {
		return Invalid("coordinates", "cannot be set and cleared at once")
	}
	return validateCoordinates(p.Latitude, p.Longitude)
}

// Apply returns a copy of r with the patch applied.
func (p RestaurantPatch) Apply(r Restaurant) Restaurant {
	if p.Name != nil {
		r.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		r.Phone = NullableString(*p.Phone)
	}
	if p.Address != nil {
		r.Address = NullableString(*p.Address)
	}
	if p.ClearCoords {
		r.Latitude, r.Longitude = nil, nil
	}
	if p.Latitude != nil && p.Longitude != nil {
		lat, lng := *p.Latitude, *p.Longitude
		r.Latitude, r.Longitude = &lat, &lng
	}
	return r
}

func validateCoordinates(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return Invalid("coordinates", "latitude and longitude must be given together")
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 {
		return Invalid("latitude", "must be between -90 and 90")
	}
	if *lng < -180 || *lng > 180 {
		return Invalid("longitude", "must be between -180 and 180")
	}
	return nil
}

// NullableString trims s and maps the empty string to nil.
func NullableString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
