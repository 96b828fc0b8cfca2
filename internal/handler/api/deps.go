package api

import (
	"context"

	"librarium/internal/domain/book"
	"librarium/internal/domain/member"
	"librarium/internal/domain/reservation"

	"github.com/google/uuid"
)

// Dispatcher routes a command and its event cascade through the bus.
type Dispatcher interface {
	Handle(ctx context.Context, msg any) error
}

// Queries is the read side the handlers render responses from.
type Queries interface {
	GetBook(ctx context.Context, id uuid.UUID) (*book.Book, error)
	ListBooks(ctx context.Context) ([]*book.Book, error)
	GetMember(ctx context.Context, id uuid.UUID) (*member.Member, error)
	GetMemberByPhone(ctx context.Context, phoneNumber string) (*member.Member, error)
	ListMemberReservations(ctx context.Context, memberID uuid.UUID) ([]*reservation.Reservation, error)
}

// OTPVerifier checks a submitted login code.
type OTPVerifier interface {
	Verify(ctx context.Context, phoneNumber, code string) error
}
