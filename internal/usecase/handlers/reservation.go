package handlers

import (
	"context"

	"librarium/internal/domain/message"
	"librarium/internal/domain/reservation"
	"librarium/internal/pkg/clock"
	"librarium/internal/pkg/errs"
	"librarium/internal/usecase/bus"
	"librarium/internal/usecase/commands"
	"librarium/internal/usecase/shared"
)

// ReserveBook creates a reservation and flips the book to RESERVED in one
// transactional scope. The status check rejects an already-reserved book
// early; the repository's conditional write still closes the race between
// check and commit.
func ReserveBook(clk clock.Clock, policy reservation.CostPolicy) bus.CommandHandler {
	return func(ctx context.Context, uow shared.UnitOfWork, cmd message.Command) error {
		c, ok := cmd.(commands.ReserveBook)
		if !ok {
			return wrongMessageType(cmd)
		}

		b, err := uow.Books().Get(ctx, c.BookID)
		if err != nil {
			return mapRepoErr(err, errs.ErrBookNotFound)
		}
		if b.IsReserved() {
			return errs.ErrBookAlreadyReserved
		}

		m, err := uow.Members().Get(ctx, c.MemberID)
		if err != nil {
			return mapRepoErr(err, errs.ErrMemberNotFound)
		}

		now := clk.Now()

		activeCount, err := uow.Reservations().CountActiveByMember(ctx, m.ID(), now)
		if err != nil {
			return err
		}
		spent, err := uow.Reservations().TotalSpentSince(ctx, m.ID(), now.AddDate(0, -2, 0))
		if err != nil {
			return err
		}

		totalCost, err := policy.CalculateCost(m.Membership(), b.DailyPrice(), c.DurationDays, reservation.MemberActivity{
			ActiveReservations: activeCount,
			SpentLastTwoMonths: spent,
		})
		if err != nil {
			return err
		}

		res, err := reservation.NewReservation(c.ReservationID, c.BookID, c.MemberID, c.DurationDays, now, totalCost)
		if err != nil {
			return err
		}
		if err := uow.Reservations().Add(ctx, res); err != nil {
			return err
		}

		if err := b.Reserve(res.ID(), m.ID()); err != nil {
			return err
		}
		return mapRepoErr(uow.Books().MarkReserved(ctx, b), errs.ErrBookNotFound)
	}
}
