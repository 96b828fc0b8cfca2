package response

import (
	"time"

	"librarium/internal/domain/reservation"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID           uuid.UUID `json:"id"`
	BookID       uuid.UUID `json:"bookId"`
	MemberID     uuid.UUID `json:"memberId"`
	DurationDays int       `json:"durationDays"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	TotalCost    int64     `json:"totalCost"`
}

func FromReservation(r *reservation.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:           r.ID(),
		BookID:       r.BookID(),
		MemberID:     r.MemberID(),
		DurationDays: r.DurationDays(),
		StartDate:    r.StartDate(),
		EndDate:      r.EndDate(),
		TotalCost:    r.TotalCost(),
	}
}

func FromReservations(rs []*reservation.Reservation) []*ReservationResponse {
	out := make([]*ReservationResponse, len(rs))
	for i, r := range rs {
		out[i] = FromReservation(r)
	}
	return out
}
