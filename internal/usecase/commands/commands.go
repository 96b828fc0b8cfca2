// Package commands defines the intents the bus accepts. Commands are
// immutable value objects; construction happens at the transport edge.
package commands

import (
	"time"

	"github.com/google/uuid"
)

const (
	CreateBookName         = "book.create"
	UpdateBookName         = "book.update"
	CreateMemberName       = "member.create"
	AddToMemberBalanceName = "member.add_balance"
	UpgradeMembershipName  = "member.upgrade"
	ReserveBookName        = "reservation.reserve"
	RequestLoginCodeName   = "auth.request_login_code"
)

type CreateBook struct {
	BookID      uuid.UUID
	Title       string
	Genres      string
	ReleaseDate time.Time
	ISBN        string
	DailyPrice  int64
}

func (CreateBook) CommandName() string { return CreateBookName }

type UpdateBook struct {
	BookID      uuid.UUID
	Title       string
	Genres      string
	ReleaseDate time.Time
	ISBN        string
	DailyPrice  int64
}

func (UpdateBook) CommandName() string { return UpdateBookName }

type CreateMember struct {
	MemberID    uuid.UUID
	FirstName   string
	LastName    string
	PhoneNumber string
}

func (CreateMember) CommandName() string { return CreateMemberName }

type AddToMemberBalance struct {
	MemberID uuid.UUID
	Amount   int64
}

func (AddToMemberBalance) CommandName() string { return AddToMemberBalanceName }

type UpgradeMembership struct {
	MemberID uuid.UUID
}

func (UpgradeMembership) CommandName() string { return UpgradeMembershipName }

type ReserveBook struct {
	ReservationID uuid.UUID
	BookID        uuid.UUID
	MemberID      uuid.UUID
	DurationDays  int
}

func (ReserveBook) CommandName() string { return ReserveBookName }

type RequestLoginCode struct {
	PhoneNumber string
}

func (RequestLoginCode) CommandName() string { return RequestLoginCodeName }
