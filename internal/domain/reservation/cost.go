package reservation

import (
	"librarium/internal/domain/member"
	"librarium/internal/pkg/errs"
)

// CostPolicy prices a reservation from membership type, the book's daily
// price, and the member's recent activity.
type CostPolicy struct {
	RegularMaxDays   int
	PremiumMaxDays   int
	DiscountMinCount int   // active reservations above this earn 30% off
	DiscountMinSpend int64 // trailing two-month spend above this is free
}

// MemberActivity is the slice of history the discount rules look at.
type MemberActivity struct {
	ActiveReservations int
	SpentLastTwoMonths int64
}

func (p CostPolicy) CalculateCost(
	membership member.MembershipType,
	dailyPrice int64,
	durationDays int,
	activity MemberActivity,
) (int64, error) {
	if membership == member.MembershipPremium {
		// Premium members reserve for free within the limit.
		if durationDays > p.PremiumMaxDays {
			return 0, errs.ErrPremiumDurationExceeded
		}
		return 0, nil
	}

	if durationDays > p.RegularMaxDays {
		return 0, errs.ErrRegularDurationExceeded
	}

	total := dailyPrice * int64(durationDays)

	switch {
	case activity.ActiveReservations > p.DiscountMinCount:
		total -= total * 30 / 100
	case activity.SpentLastTwoMonths > p.DiscountMinSpend:
		total = 0
	}

	return total, nil
}
