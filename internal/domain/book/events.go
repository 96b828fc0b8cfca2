package book

import "github.com/google/uuid"

// Reserved is recorded when a book transitions to RESERVED.
type Reserved struct {
	BookID        uuid.UUID `json:"book_id"`
	ReservationID uuid.UUID `json:"reservation_id"`
	MemberID      uuid.UUID `json:"member_id"`
}

func (Reserved) EventName() string { return "book.reserved" }
