package booking

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

const reconcileBatch = 200

// ReconcileCommissions records the commission of every completed booking
// still flagged commissionPending. It returns how many were settled; failures
// are joined and the rest of the batch is still attempted.
func (s *DefaultBookingService) ReconcileCommissions(ctx context.Context) (int, error) {
	pending, err := s.repo.FindCommissionPending(ctx, reconcileBatch)
	if err != nil {
		return 0, err
	}

	settled := 0
	var errs []error
	for i := range pending {
		b := &pending[i]
		if !IsCommissionEligible(b) {
			s.logger.Warn("Clearing commission flag on ineligible booking", zap.String("bookingId", b.ID))
			if err := s.repo.ClearCommissionPending(ctx, b.ID); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if err := s.settleCommission(ctx, b); err != nil {
			errs = append(errs, err)
			continue
		}
		settled++
	}
	if settled > 0 {
		s.logger.Info("Reconciled pending commissions", zap.Int("count", settled))
	}
	return settled, errors.Join(errs...)
}
