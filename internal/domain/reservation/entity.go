package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidDuration = errors.New("reservation duration must be at least one day")

// Reservation is created once per successful attempt and never updated.
// The version counter exists for parity with the other aggregates should
// an update path ever be added.
type Reservation struct {
	id           uuid.UUID
	bookID       uuid.UUID
	memberID     uuid.UUID
	durationDays int
	startDate    time.Time
	endDate      time.Time
	totalCost    int64
	version      int32
}

func NewReservation(id, bookID, memberID uuid.UUID, durationDays int, now time.Time, totalCost int64) (*Reservation, error) {
	if durationDays < 1 {
		return nil, ErrInvalidDuration
	}

	return &Reservation{
		id:           id,
		bookID:       bookID,
		memberID:     memberID,
		durationDays: durationDays,
		startDate:    now,
		endDate:      now.AddDate(0, 0, durationDays),
		totalCost:    totalCost,
		version:      1,
	}, nil
}

func Reconstruct(
	id, bookID, memberID uuid.UUID,
	durationDays int,
	startDate, endDate time.Time,
	totalCost int64,
	version int32,
) *Reservation {
	return &Reservation{
		id:           id,
		bookID:       bookID,
		memberID:     memberID,
		durationDays: durationDays,
		startDate:    startDate,
		endDate:      endDate,
		totalCost:    totalCost,
		version:      version,
	}
}

func (r *Reservation) ID() uuid.UUID        { return r.id }
func (r *Reservation) BookID() uuid.UUID    { return r.bookID }
func (r *Reservation) MemberID() uuid.UUID  { return r.memberID }
func (r *Reservation) DurationDays() int    { return r.durationDays }
func (r *Reservation) StartDate() time.Time { return r.startDate }
func (r *Reservation) EndDate() time.Time   { return r.endDate }
func (r *Reservation) TotalCost() int64     { return r.totalCost }
func (r *Reservation) Version() int32       { return r.version }
