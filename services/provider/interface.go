package provider

import (
	"context"
	"errors"
	"fmt"

	providerRepo "indastreet/database/repository/provider"
	"indastreet/models"

	"go.uber.org/zap"
)

var (
	ErrStatusNotSettable = errors.New("status cannot be set by a provider")
	ErrProviderNotFound  = providerRepo.ErrNotFound
	// ErrRestricted is returned when a restricted provider tries to change status.
	ErrRestricted = errors.New("provider is restricted")
)

// RestrictionLifter clears the account-level restriction record.
type RestrictionLifter interface {
	LiftAccountRestriction(ctx context.Context, userID string) error
}

type ProviderService interface {
	GetAvailability(ctx context.Context, id string) (*models.ProviderAvailabilityDTO, error)
	SetAvailability(ctx context.Context, id string, req models.SetAvailabilityRequest) (*models.ProviderAvailabilityDTO, error)
	Restrict(ctx context.Context, id, reason string) error
	LiftRestriction(ctx context.Context, id string) error
}

// DefaultProviderService is the production implementation.
type DefaultProviderService struct {
	Repo    providerRepo.ProviderRepository
	Records RestrictionLifter
	Logger  *zap.Logger
}

func NewDefaultProviderService(repo providerRepo.ProviderRepository, records RestrictionLifter, logger *zap.Logger) (*DefaultProviderService, error) {
	if repo == nil || records == nil {
		return nil, fmt.Errorf("provider service initialization error: one or more dependencies are nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultProviderService{Repo: repo, Records: records, Logger: logger}, nil
}
