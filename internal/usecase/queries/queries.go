// Package queries is the read side: point lookups and listings that never
// open a unit-of-work scope. Each call runs against the pool with a fresh
// repository so no seen set outlives the request.
package queries

import (
	"context"

	"librarium/internal/domain/book"
	"librarium/internal/domain/member"
	"librarium/internal/domain/reservation"
	"librarium/internal/infra"
	"librarium/internal/infra/repository"
	"librarium/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Queries struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

func (q *Queries) GetBook(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	b, err := repository.NewBookRepository(q.pool).Get(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (q *Queries) ListBooks(ctx context.Context) ([]*book.Book, error) {
	return repository.NewBookRepository(q.pool).List(ctx)
}

func (q *Queries) GetMember(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	m, err := repository.NewMemberRepository(q.pool).Get(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrMemberNotFound)
		}
		return nil, err
	}
	return m, nil
}

func (q *Queries) GetMemberByPhone(ctx context.Context, phoneNumber string) (*member.Member, error) {
	m, err := repository.NewMemberRepository(q.pool).GetByPhone(ctx, phoneNumber)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrMemberNotFound)
		}
		return nil, err
	}
	return m, nil
}

func (q *Queries) ListMemberReservations(ctx context.Context, memberID uuid.UUID) ([]*reservation.Reservation, error) {
	return repository.NewReservationRepository(q.pool).ListByMember(ctx, memberID)
}
