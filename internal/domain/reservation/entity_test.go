//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"librarium/internal/domain/member"
	"librarium/internal/domain/reservation"
	"librarium/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var policy = reservation.CostPolicy{
	RegularMaxDays:   7,
	PremiumMaxDays:   14,
	DiscountMinCount: 300000,
	DiscountMinSpend: 300000,
}

func TestNewReservation(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("dates derived from duration", func(t *testing.T) {
		r, err := reservation.NewReservation(uuid.New(), uuid.New(), uuid.New(), 7, now, 7000)
		require.NoError(t, err)

		assert.Equal(t, now, r.StartDate())
		assert.Equal(t, now.AddDate(0, 0, 7), r.EndDate())
		assert.Equal(t, int64(7000), r.TotalCost())
		assert.Equal(t, int32(1), r.Version())
	})

	t.Run("zero duration rejected", func(t *testing.T) {
		_, err := reservation.NewReservation(uuid.New(), uuid.New(), uuid.New(), 0, now, 0)
		assert.ErrorIs(t, err, reservation.ErrInvalidDuration)
	})
}

func TestCostPolicy_CalculateCost(t *testing.T) {
	testCases := []struct {
		name       string
		membership member.MembershipType
		dailyPrice int64
		days       int
		activity   reservation.MemberActivity
		want       int64
		errIs      error
	}{
		{
			name:       "regular member pays price times days",
			membership: member.MembershipRegular,
			dailyPrice: 1000,
			days:       7,
			want:       7000,
		},
		{
			name:       "regular member over 7 days",
			membership: member.MembershipRegular,
			dailyPrice: 1000,
			days:       8,
			errIs:      errs.ErrRegularDurationExceeded,
		},
		{
			name:       "premium member reserves free",
			membership: member.MembershipPremium,
			dailyPrice: 1000,
			days:       14,
			want:       0,
		},
		{
			name:       "premium member over 14 days",
			membership: member.MembershipPremium,
			dailyPrice: 1000,
			days:       15,
			errIs:      errs.ErrPremiumDurationExceeded,
		},
		{
			name:       "frequent reserver gets 30 percent off",
			membership: member.MembershipRegular,
			dailyPrice: 1000,
			days:       5,
			activity:   reservation.MemberActivity{ActiveReservations: 300001},
			want:       3500,
		},
		{
			name:       "big spender reserves free",
			membership: member.MembershipRegular,
			dailyPrice: 1000,
			days:       5,
			activity:   reservation.MemberActivity{SpentLastTwoMonths: 300001},
			want:       0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := policy.CalculateCost(tc.membership, tc.dailyPrice, tc.days, tc.activity)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
