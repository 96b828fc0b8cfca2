package components

import (
	"log/slog"

	"librarium/internal/domain/book"
	"librarium/internal/domain/member"
	"librarium/internal/domain/reservation"
	"librarium/internal/handler/api"
	"librarium/internal/infra/uow"
	"librarium/internal/otp"
	"librarium/internal/pkg/clock"
	"librarium/internal/pkg/config"
	"librarium/internal/usecase/bus"
	"librarium/internal/usecase/commands"
	"librarium/internal/usecase/handlers"
	"librarium/internal/usecase/queries"
	"librarium/internal/usecase/shared"

	"go.uber.org/fx"
)

var BusModule = fx.Module("bus",
	fx.Provide(
		clock.NewRealClock,
		fx.Annotate(
			uow.NewPostgresFactory,
			fx.As(new(shared.UnitOfWorkFactory)),
		),
		fx.Annotate(
			queries.New,
			fx.As(new(api.Queries)),
		),
		fx.Annotate(
			NewBus,
			fx.As(new(api.Dispatcher)),
		),
	),
)

// NewBus wires every command and event handler. Registration is explicit:
// a command missing here fails loudly at dispatch, not silently.
func NewBus(
	factory shared.UnitOfWorkFactory,
	logger *slog.Logger,
	clk clock.Clock,
	cfg config.Config,
	otpSvc *otp.Service,
	publish shared.PublishFunc,
) *bus.MessageBus {
	costPolicy := reservation.CostPolicy{
		RegularMaxDays:   cfg.Reservation.RegularMaxDays,
		PremiumMaxDays:   cfg.Reservation.PremiumMaxDays,
		DiscountMinCount: cfg.Reservation.DiscountMinCount,
		DiscountMinSpend: cfg.Reservation.DiscountMinSpend,
	}
	premiumPolicy := handlers.PremiumPolicy{
		Cost:         cfg.Reservation.PremiumCost,
		PeriodMonths: cfg.Reservation.PremiumPeriodMonths,
	}

	b := bus.New(factory, logger)

	b.RegisterCommand(commands.CreateBookName, handlers.AddBook())
	b.RegisterCommand(commands.UpdateBookName, handlers.UpdateBook())
	b.RegisterCommand(commands.CreateMemberName, handlers.AddMember())
	b.RegisterCommand(commands.AddToMemberBalanceName, handlers.AddToBalance())
	b.RegisterCommand(commands.UpgradeMembershipName, handlers.UpgradeMembership(clk, premiumPolicy))
	b.RegisterCommand(commands.ReserveBookName, handlers.ReserveBook(clk, costPolicy))
	b.RegisterCommand(commands.RequestLoginCodeName, handlers.RequestLoginCode())

	b.RegisterEvent(member.OTPRequested{}.EventName(), handlers.DeliverOTP(otpSvc))
	b.RegisterEvent(member.OTPRequested{}.EventName(), handlers.PublishOTPRequested(publish, cfg.OTP.PublishChannel))
	b.RegisterEvent(book.Reserved{}.EventName(), handlers.PublishBookReserved(publish, cfg.Reservation.PublishChannel))

	return b
}
