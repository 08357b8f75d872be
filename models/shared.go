package models

// BookingTaskPayload is carried by the delayed expiry task.
type BookingTaskPayload struct {
	BookingID string `json:"bookingId"`
}

// ProximityCheckRequest asks whether a customer/provider pair is too close.
type ProximityCheckRequest struct {
	CustomerID       string   `json:"customerId" binding:"required"`
	ProviderID       string   `json:"providerId" binding:"required"`
	CustomerLocation GeoPoint `json:"customerLocation" binding:"required"`
	ProviderLocation GeoPoint `json:"providerLocation" binding:"required"`
}

// ProximityCheckResult is the outcome of a proximity check.
type ProximityCheckResult struct {
	DistanceMeters float64 `json:"distanceMeters"`
	TrackingActive bool    `json:"trackingActive"`
	Tier           int     `json:"tier,omitempty"` // 0 when no tier applies
}
