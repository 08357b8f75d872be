package booking

import (
	"math"
	"time"

	"indastreet/models"
)

// AdminCommissionRate is the platform's share of a completed booking.
const AdminCommissionRate = 0.30

const commissionPendingCollection = "pending_collection"

// CalculateCommission splits price into the platform commission, rounded to
// the nearest unit, and the provider payout.
func CalculateCommission(price float64) (commission, payout float64) {
	commission = math.Round(price * AdminCommissionRate)
	return commission, price - commission
}

// IsCommissionEligible reports whether b completed through
// Accepted -> Confirmed -> Completed.
func IsCommissionEligible(b *models.Booking) bool {
	return b != nil &&
		b.Status == models.StatusCompleted &&
		b.AcceptedAt != nil &&
		b.ConfirmedAt != nil &&
		b.CompletedAt != nil
}

func commissionRecord(b *models.Booking, now time.Time) models.CommissionRecord {
	commission, payout := CalculateCommission(b.TotalPrice)
	return models.CommissionRecord{
		BookingID:       b.ID,
		ProviderID:      b.ProviderID,
		ProviderType:    b.ProviderType,
		TotalPrice:      b.TotalPrice,
		AdminCommission: commission,
		ProviderPayout:  payout,
		CommissionRate:  AdminCommissionRate,
		Status:          commissionPendingCollection,
		CreatedAt:       now,
		CompletedAt:     *b.CompletedAt,
	}
}
