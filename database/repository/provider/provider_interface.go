package providerRepo

import (
	"context"
	"errors"
	"time"

	"indastreet/models"
)

// ErrNotFound is returned when no provider matches the requested id.
var ErrNotFound = errors.New("provider not found")

// ProviderRepository defines methods for provider data access.
type ProviderRepository interface {
	// GetByID retrieves a provider by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// Create inserts a new provider record.
	Create(ctx context.Context, provider *models.Provider) error
	// SetStatus changes the availability status of a provider that is not
	// restricted. It returns ErrNotFound when no unrestricted provider matched.
	SetStatus(ctx context.Context, id string, status models.ProviderStatus, busyUntil *time.Time) error
	// Restrict marks the provider RESTRICTED with a reason.
	Restrict(ctx context.Context, id, reason string) error
	// LiftRestriction moves a RESTRICTED provider back to CLOSED.
	LiftRestriction(ctx context.Context, id string) error
}
