package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	providerRepo "indastreet/database/repository/provider"
	"indastreet/models"
	"indastreet/services/availability"

	"go.uber.org/zap"
)

func toDTO(p *models.Provider) *models.ProviderAvailabilityDTO {
	return &models.ProviderAvailabilityDTO{
		ID:                 p.ID,
		Status:             p.Status,
		BusyUntil:          p.BusyUntil,
		CanAcceptImmediate: availability.CanAccept(p.Status, models.BookingImmediate),
		CanAcceptScheduled: availability.CanAccept(p.Status, models.BookingScheduled),
	}
}

func (s *DefaultProviderService) GetAvailability(ctx context.Context, id string) (*models.ProviderAvailabilityDTO, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(p), nil
}

// SetAvailability switches a provider between AVAILABLE, BUSY and CLOSED.
// busyUntil is only kept for BUSY.
func (s *DefaultProviderService) SetAvailability(ctx context.Context, id string, req models.SetAvailabilityRequest) (*models.ProviderAvailabilityDTO, error) {
	if !availability.IsSettableByProvider(req.Status) {
		return nil, ErrStatusNotSettable
	}
	busyUntil := req.BusyUntil
	if req.Status != models.ProviderBusy {
		busyUntil = nil
	} else if busyUntil != nil && !busyUntil.After(time.Now()) {
		return nil, fmt.Errorf("%w: busyUntil must be in the future", ErrStatusNotSettable)
	}

	if err := s.Repo.SetStatus(ctx, id, req.Status, busyUntil); err != nil {
		if !errors.Is(err, providerRepo.ErrNotFound) {
			return nil, err
		}
		// SetStatus skips restricted providers; tell the two cases apart.
		p, getErr := s.Repo.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if p.Status == models.ProviderRestricted {
			return nil, ErrRestricted
		}
		return nil, err
	}

	s.Logger.Info("Provider availability updated", zap.String("providerId", id), zap.String("status", string(req.Status)))
	return s.GetAvailability(ctx, id)
}

func (s *DefaultProviderService) Restrict(ctx context.Context, id, reason string) error {
	if err := s.Repo.Restrict(ctx, id, reason); err != nil {
		return err
	}
	s.Logger.Warn("Provider restricted", zap.String("providerId", id), zap.String("reason", reason))
	return nil
}

// LiftRestriction returns the provider to CLOSED and clears the account
// restriction so chat works again.
func (s *DefaultProviderService) LiftRestriction(ctx context.Context, id string) error {
	if err := s.Repo.LiftRestriction(ctx, id); err != nil {
		return err
	}
	if err := s.Records.LiftAccountRestriction(ctx, id); err != nil {
		return fmt.Errorf("LiftRestriction: %w", err)
	}
	s.Logger.Info("Provider restriction lifted", zap.String("providerId", id))
	return nil
}
