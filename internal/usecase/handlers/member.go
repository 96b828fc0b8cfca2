package handlers

import (
	"context"

	"librarium/internal/domain/member"
	"librarium/internal/domain/message"
	"librarium/internal/infra"
	"librarium/internal/pkg/clock"
	"librarium/internal/pkg/errs"
	"librarium/internal/pkg/phone"
	"librarium/internal/usecase/bus"
	"librarium/internal/usecase/commands"
	"librarium/internal/usecase/shared"
)

func AddMember() bus.CommandHandler {
	return func(ctx context.Context, uow shared.UnitOfWork, cmd message.Command) error {
		c, ok := cmd.(commands.CreateMember)
		if !ok {
			return wrongMessageType(cmd)
		}

		m, err := member.NewMember(c.MemberID, c.FirstName, c.LastName, c.PhoneNumber)
		if err != nil {
			return err
		}

		if err := uow.Members().Add(ctx, m); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, errs.ErrDuplicatePhone)
			}
			return err
		}
		return nil
	}
}

func AddToBalance() bus.CommandHandler {
	return func(ctx context.Context, uow shared.UnitOfWork, cmd message.Command) error {
		c, ok := cmd.(commands.AddToMemberBalance)
		if !ok {
			return wrongMessageType(cmd)
		}

		m, err := uow.Members().Get(ctx, c.MemberID)
		if err != nil {
			return mapRepoErr(err, errs.ErrMemberNotFound)
		}

		if err := m.AddToBalance(c.Amount); err != nil {
			return err
		}

		return mapRepoErr(uow.Members().Update(ctx, m), errs.ErrMemberNotFound)
	}
}

// PremiumPolicy is the price and duration of a premium upgrade.
type PremiumPolicy struct {
	Cost         int64
	PeriodMonths int
}

func UpgradeMembership(clk clock.Clock, policy PremiumPolicy) bus.CommandHandler {
	return func(ctx context.Context, uow shared.UnitOfWork, cmd message.Command) error {
		c, ok := cmd.(commands.UpgradeMembership)
		if !ok {
			return wrongMessageType(cmd)
		}

		m, err := uow.Members().Get(ctx, c.MemberID)
		if err != nil {
			return mapRepoErr(err, errs.ErrMemberNotFound)
		}

		if err := m.UpgradeToPremium(clk.Now(), policy.Cost, policy.PeriodMonths); err != nil {
			return err
		}

		return mapRepoErr(uow.Members().Update(ctx, m), errs.ErrMemberNotFound)
	}
}

func RequestLoginCode() bus.CommandHandler {
	return func(ctx context.Context, uow shared.UnitOfWork, cmd message.Command) error {
		c, ok := cmd.(commands.RequestLoginCode)
		if !ok {
			return wrongMessageType(cmd)
		}

		if !phone.IsValidMobile(c.PhoneNumber) {
			return errs.ErrInvalidPhoneNumber
		}

		m, err := uow.Members().GetByPhone(ctx, c.PhoneNumber)
		if err != nil {
			return mapRepoErr(err, errs.ErrMemberNotFound)
		}

		// Records member.otp_requested; the bus cascades it to delivery
		// and the outbound publisher.
		m.RequestLoginCode()
		return nil
	}
}
