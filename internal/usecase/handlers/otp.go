package handlers

import (
	"context"

	"librarium/internal/domain/book"
	"librarium/internal/domain/member"
	"librarium/internal/domain/message"
	"librarium/internal/otp"
	"librarium/internal/usecase/bus"
	"librarium/internal/usecase/shared"
)

// PublishOTPRequested hands the event to outbound transport so other
// consumers (audit, analytics) see the request.
func PublishOTPRequested(publish shared.PublishFunc, channel string) bus.EventHandler {
	return func(ctx context.Context, _ shared.UnitOfWork, evt message.Event) error {
		e, ok := evt.(member.OTPRequested)
		if !ok {
			return wrongMessageType(evt)
		}
		return publish(ctx, channel, e)
	}
}

// DeliverOTP issues and sends the one-time code for the requesting member.
func DeliverOTP(svc *otp.Service) bus.EventHandler {
	return func(ctx context.Context, _ shared.UnitOfWork, evt message.Event) error {
		e, ok := evt.(member.OTPRequested)
		if !ok {
			return wrongMessageType(evt)
		}
		_, err := svc.Generate(ctx, e.PhoneNumber)
		return err
	}
}

// PublishBookReserved notifies outbound consumers that a book was reserved.
func PublishBookReserved(publish shared.PublishFunc, channel string) bus.EventHandler {
	return func(ctx context.Context, _ shared.UnitOfWork, evt message.Event) error {
		e, ok := evt.(book.Reserved)
		if !ok {
			return wrongMessageType(evt)
		}
		return publish(ctx, channel, e)
	}
}
