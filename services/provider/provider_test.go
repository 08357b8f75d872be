package provider

import (
	"context"
	"testing"
	"time"

	providerRepo "indastreet/database/repository/provider"
	"indastreet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memProviders struct{ byID map[string]*models.Provider }

func (m *memProviders) GetByID(_ context.Context, id string) (*models.Provider, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, providerRepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProviders) Create(_ context.Context, p *models.Provider) error {
	m.byID[p.ID] = p
	return nil
}

func (m *memProviders) SetStatus(_ context.Context, id string, status models.ProviderStatus, busyUntil *time.Time) error {
	p, ok := m.byID[id]
	if !ok || p.Status == models.ProviderRestricted {
		return providerRepo.ErrNotFound
	}
	p.Status = status
	p.BusyUntil = busyUntil
	return nil
}

func (m *memProviders) Restrict(_ context.Context, id, reason string) error {
	p, ok := m.byID[id]
	if !ok {
		return providerRepo.ErrNotFound
	}
	p.Status = models.ProviderRestricted
	p.RestrictionReason = reason
	return nil
}

func (m *memProviders) LiftRestriction(_ context.Context, id string) error {
	p, ok := m.byID[id]
	if !ok || p.Status != models.ProviderRestricted {
		return providerRepo.ErrNotFound
	}
	p.Status = models.ProviderClosed
	p.RestrictionReason = ""
	return nil
}

type lifted []string

func (l *lifted) LiftAccountRestriction(_ context.Context, id string) error {
	*l = append(*l, id)
	return nil
}

func newTestProviderService(t *testing.T) (*DefaultProviderService, *memProviders, *lifted) {
	t.Helper()
	repo := &memProviders{byID: map[string]*models.Provider{
		"p1": {ID: "p1", Status: models.ProviderClosed},
		"p2": {ID: "p2", Status: models.ProviderRestricted},
	}}
	l := &lifted{}
	svc, err := NewDefaultProviderService(repo, l, nil)
	require.NoError(t, err)
	return svc, repo, l
}

func TestGetAvailability(t *testing.T) {
	svc, _, _ := newTestProviderService(t)

	dto, err := svc.GetAvailability(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderClosed, dto.Status)
	assert.False(t, dto.CanAcceptImmediate)
	assert.True(t, dto.CanAcceptScheduled)

	dto, err = svc.GetAvailability(context.Background(), "p2")
	require.NoError(t, err)
	assert.False(t, dto.CanAcceptImmediate)
	assert.False(t, dto.CanAcceptScheduled)

	_, err = svc.GetAvailability(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestSetAvailability(t *testing.T) {
	svc, repo, _ := newTestProviderService(t)
	ctx := context.Background()

	dto, err := svc.SetAvailability(ctx, "p1", models.SetAvailabilityRequest{Status: models.ProviderAvailable})
	require.NoError(t, err)
	assert.True(t, dto.CanAcceptImmediate)

	until := time.Now().Add(time.Hour)
	dto, err = svc.SetAvailability(ctx, "p1", models.SetAvailabilityRequest{Status: models.ProviderBusy, BusyUntil: &until})
	require.NoError(t, err)
	assert.Equal(t, models.ProviderBusy, dto.Status)
	require.NotNil(t, dto.BusyUntil)

	// busyUntil is dropped for non-busy states.
	_, err = svc.SetAvailability(ctx, "p1", models.SetAvailabilityRequest{Status: models.ProviderClosed, BusyUntil: &until})
	require.NoError(t, err)
	assert.Nil(t, repo.byID["p1"].BusyUntil)

	past := time.Now().Add(-time.Hour)
	_, err = svc.SetAvailability(ctx, "p1", models.SetAvailabilityRequest{Status: models.ProviderBusy, BusyUntil: &past})
	assert.ErrorIs(t, err, ErrStatusNotSettable)
}

func TestSetAvailability_Rejections(t *testing.T) {
	svc, repo, _ := newTestProviderService(t)
	ctx := context.Background()

	_, err := svc.SetAvailability(ctx, "p1", models.SetAvailabilityRequest{Status: models.ProviderRestricted})
	assert.ErrorIs(t, err, ErrStatusNotSettable)
	assert.Equal(t, models.ProviderClosed, repo.byID["p1"].Status)

	_, err = svc.SetAvailability(ctx, "p2", models.SetAvailabilityRequest{Status: models.ProviderAvailable})
	assert.ErrorIs(t, err, ErrRestricted)
	assert.Equal(t, models.ProviderRestricted, repo.byID["p2"].Status)

	_, err = svc.SetAvailability(ctx, "missing", models.SetAvailabilityRequest{Status: models.ProviderAvailable})
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestRestrictAndLift(t *testing.T) {
	svc, repo, l := newTestProviderService(t)
	ctx := context.Background()

	require.NoError(t, svc.Restrict(ctx, "p1", "contact sharing"))
	assert.Equal(t, models.ProviderRestricted, repo.byID["p1"].Status)

	require.NoError(t, svc.LiftRestriction(ctx, "p1"))
	assert.Equal(t, models.ProviderClosed, repo.byID["p1"].Status)
	assert.Equal(t, lifted{"p1"}, *l)

	assert.ErrorIs(t, svc.LiftRestriction(ctx, "p1"), ErrProviderNotFound)
}
