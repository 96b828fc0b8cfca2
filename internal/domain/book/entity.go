package book

import (
	"errors"
	"strings"
	"time"

	"librarium/internal/domain/message"
	"librarium/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle    = errors.New("book title cannot be empty")
	ErrEmptyISBN     = errors.New("book isbn cannot be empty")
	ErrNegativePrice = errors.New("book price cannot be negative")
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusReserved Status = "RESERVED"
)

// Book is a reservable aggregate. It carries a version counter so every
// state-changing write can be expressed as a conditional update; a version
// mismatch at write time means another writer won the race.
type Book struct {
	id            uuid.UUID
	title         string
	genres        string
	releaseDate   time.Time
	isbn          string
	dailyPrice    int64
	status        Status
	reservationID *uuid.UUID
	version       int32

	events []message.Event
}

func NewBook(id uuid.UUID, title, genres string, releaseDate time.Time, isbn string, dailyPrice int64) (*Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if strings.TrimSpace(isbn) == "" {
		return nil, ErrEmptyISBN
	}
	if dailyPrice < 0 {
		return nil, ErrNegativePrice
	}

	return &Book{
		id:          id,
		title:       title,
		genres:      genres,
		releaseDate: releaseDate,
		isbn:        strings.TrimSpace(isbn),
		dailyPrice:  dailyPrice,
		status:      StatusPending,
		version:     1,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	title, genres string,
	releaseDate time.Time,
	isbn string,
	dailyPrice int64,
	status Status,
	reservationID *uuid.UUID,
	version int32,
) *Book {
	return &Book{
		id:            id,
		title:         title,
		genres:        genres,
		releaseDate:   releaseDate,
		isbn:          isbn,
		dailyPrice:    dailyPrice,
		status:        status,
		reservationID: reservationID,
		version:       version,
	}
}

// Reserve transitions the book to RESERVED and records a Reserved event.
// The status check here is a business rule; the repository's conditional
// write still guards the race between check and commit.
func (b *Book) Reserve(reservationID, memberID uuid.UUID) error {
	if b.status == StatusReserved {
		return errs.ErrBookAlreadyReserved
	}
	b.status = StatusReserved
	b.reservationID = &reservationID
	b.record(Reserved{BookID: b.id, ReservationID: reservationID, MemberID: memberID})
	return nil
}

func (b *Book) UpdateDetails(title, genres string, releaseDate time.Time, isbn string, dailyPrice int64) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(isbn) == "" {
		return ErrEmptyISBN
	}
	if dailyPrice < 0 {
		return ErrNegativePrice
	}

	b.title = title
	b.genres = genres
	b.releaseDate = releaseDate
	b.isbn = strings.TrimSpace(isbn)
	b.dailyPrice = dailyPrice
	return nil
}

func (b *Book) IsReserved() bool {
	return b.status == StatusReserved
}

// AdvanceVersion reflects a successful conditional write back onto the
// in-memory aggregate. Only repositories call this.
func (b *Book) AdvanceVersion() {
	b.version++
}

func (b *Book) record(e message.Event) {
	b.events = append(b.events, e)
}

// PopEvents drains recorded events in FIFO order.
func (b *Book) PopEvents() []message.Event {
	evts := b.events
	b.events = nil
	return evts
}

func (b *Book) ID() uuid.UUID             { return b.id }
func (b *Book) Title() string             { return b.title }
func (b *Book) Genres() string            { return b.genres }
func (b *Book) ReleaseDate() time.Time    { return b.releaseDate }
func (b *Book) ISBN() string              { return b.isbn }
func (b *Book) DailyPrice() int64         { return b.dailyPrice }
func (b *Book) Status() Status            { return b.status }
func (b *Book) ReservationID() *uuid.UUID { return b.reservationID }
func (b *Book) Version() int32            { return b.version }
