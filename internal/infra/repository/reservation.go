package repository

import (
	"context"
	"time"

	"librarium/internal/domain/reservation"
	"librarium/internal/infra"
	"librarium/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReservationRepository persists immutable reservation rows. No seen set:
// reservations never record events.
type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

const insertReservation = `
INSERT INTO reservations (id, book_id, member_id, duration_days, start_date, end_date, total_cost, version)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func (r *ReservationRepository) Add(ctx context.Context, rsv *reservation.Reservation) error {
	_, err := r.db.Exec(ctx, insertReservation,
		rsv.ID(), rsv.BookID(), rsv.MemberID(), rsv.DurationDays(),
		rsv.StartDate(), rsv.EndDate(), rsv.TotalCost(), rsv.Version(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("reservation already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert reservation", err)
	}
	return nil
}

const listReservationsByMember = `
SELECT id, book_id, member_id, duration_days, start_date, end_date, total_cost, version
FROM reservations
WHERE member_id = $1
ORDER BY start_date DESC
`

func (r *ReservationRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]*reservation.Reservation, error) {
	rows, err := r.db.Query(ctx, listReservationsByMember, memberID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	var reservations []*reservation.Reservation
	for rows.Next() {
		rsv, err := scanReservation(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		reservations = append(reservations, rsv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservations", err)
	}
	return reservations, nil
}

const countActiveReservations = `
SELECT COUNT(*)
FROM reservations
WHERE member_id = $1 AND end_date > $2
`

// CountActiveByMember counts reservations whose period has not ended.
func (r *ReservationRepository) CountActiveByMember(ctx context.Context, memberID uuid.UUID, now time.Time) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, countActiveReservations, memberID, now).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count active reservations", err)
	}
	return count, nil
}

const sumSpentSince = `
SELECT COALESCE(SUM(total_cost), 0)
FROM reservations
WHERE member_id = $1 AND start_date >= $2
`

func (r *ReservationRepository) TotalSpentSince(ctx context.Context, memberID uuid.UUID, since time.Time) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, sumSpentSince, memberID, since).Scan(&total); err != nil {
		return 0, infra.WrapRepoErr("failed to sum reservation spend", err)
	}
	return total, nil
}

func scanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var (
		id           uuid.UUID
		bookID       uuid.UUID
		memberID     uuid.UUID
		durationDays int
		startDate    time.Time
		endDate      time.Time
		totalCost    int64
		version      int32
	)
	if err := row.Scan(&id, &bookID, &memberID, &durationDays, &startDate, &endDate, &totalCost, &version); err != nil {
		return nil, err
	}
	return reservation.Reconstruct(id, bookID, memberID, durationDays, startDate, endDate, totalCost, version), nil
}
