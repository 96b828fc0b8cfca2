package uow

import (
	"context"
	"errors"
	"log/slog"

	"librarium/internal/domain/message"
	"librarium/internal/infra/repository"
	"librarium/internal/pkg/errs"
	"librarium/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	errTransactionBegin  = errs.New("failed to begin transaction")
	errTransactionCommit = errs.New("failed to commit transaction")
)

// PostgresFactory opens one transaction per unit of work scope.
type PostgresFactory struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgresFactory(pool *pgxpool.Pool, logger *slog.Logger) *PostgresFactory {
	return &PostgresFactory{pool: pool, logger: logger}
}

// ReadCommitted is enough here: conditional version writes guard the races
// that matter.
func (f *PostgresFactory) Begin(ctx context.Context) (shared.UnitOfWork, error) {
	tx, err := f.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, errs.Mark(err, errTransactionBegin)
	}
	return &pgUoW{tx: tx, logger: f.logger}, nil
}

type pgUoW struct {
	tx     pgx.Tx
	logger *slog.Logger

	// Lazy-initialized repositories; cached so the seen sets accumulate
	// across calls within the scope.
	bookRepo        *repository.BookRepository
	memberRepo      *repository.MemberRepository
	reservationRepo *repository.ReservationRepository
}

func (u *pgUoW) Books() shared.BookRepository {
	if u.bookRepo == nil {
		u.bookRepo = repository.NewBookRepository(u.tx)
	}
	return u.bookRepo
}

func (u *pgUoW) Members() shared.MemberRepository {
	if u.memberRepo == nil {
		u.memberRepo = repository.NewMemberRepository(u.tx)
	}
	return u.memberRepo
}

func (u *pgUoW) Reservations() shared.ReservationRepository {
	if u.reservationRepo == nil {
		u.reservationRepo = repository.NewReservationRepository(u.tx)
	}
	return u.reservationRepo
}

func (u *pgUoW) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		return errs.Mark(err, errTransactionCommit)
	}
	return nil
}

func (u *pgUoW) Rollback(ctx context.Context) error {
	if err := u.tx.Rollback(ctx); err != nil {
		if !errors.Is(err, pgx.ErrTxClosed) {
			u.logger.Warn("rollback failed", slog.String("error", err.Error()))
			return err
		}
	}
	return nil
}

// CollectNewEvents drains events from every aggregate the scope touched,
// in the order the repositories saw them.
func (u *pgUoW) CollectNewEvents() []message.Event {
	var events []message.Event
	if u.bookRepo != nil {
		for _, b := range u.bookRepo.Seen() {
			events = append(events, b.PopEvents()...)
		}
	}
	if u.memberRepo != nil {
		for _, m := range u.memberRepo.Seen() {
			events = append(events, m.PopEvents()...)
		}
	}
	return events
}
