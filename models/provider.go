package models

import "time"

// ProviderStatus is a provider's current acceptance posture.
type ProviderStatus string

const (
	ProviderAvailable  ProviderStatus = "AVAILABLE"
	ProviderBusy       ProviderStatus = "BUSY"
	ProviderClosed     ProviderStatus = "CLOSED"
	ProviderRestricted ProviderStatus = "RESTRICTED"
)

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// Valid reports whether the point carries a longitude/latitude pair.
func (g GeoPoint) Valid() bool {
	return g.Type == "Point" && len(g.Coordinates) == 2
}

// Provider is a therapist, massage place or facial place account.
type Provider struct {
	ID                string         `bson:"id" json:"id"`
	Name              string         `bson:"name" json:"name"`
	ProviderType      string         `bson:"providerType" json:"providerType"`
	Status            ProviderStatus `bson:"status" json:"status"`
	BusyUntil         *time.Time     `bson:"busyUntil,omitempty" json:"busyUntil,omitempty"`
	LocationGeo       GeoPoint       `bson:"locationGeo" json:"locationGeo"`
	RestrictionReason string         `bson:"restrictionReason,omitempty" json:"restrictionReason,omitempty"`
	RestrictedAt      *time.Time     `bson:"restrictedAt,omitempty" json:"restrictedAt,omitempty"`
	CreatedAt         time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// ProviderAvailabilityDTO is the public view of a provider's posture.
type ProviderAvailabilityDTO struct {
	ID                 string         `json:"id"`
	Status             ProviderStatus `json:"status"`
	BusyUntil          *time.Time     `json:"busyUntil,omitempty"`
	CanAcceptImmediate bool           `json:"canAcceptImmediate"`
	CanAcceptScheduled bool           `json:"canAcceptScheduled"`
}

// SetAvailabilityRequest is sent by providers from their dashboard.
type SetAvailabilityRequest struct {
	Status    ProviderStatus `json:"status" binding:"required"`
	BusyUntil *time.Time     `json:"busyUntil,omitempty"`
}
