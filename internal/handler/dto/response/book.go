package response

import (
	"time"

	"librarium/internal/domain/book"

	"github.com/google/uuid"
)

type BookResponse struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Genres        string     `json:"genres"`
	ReleaseDate   time.Time  `json:"releaseDate"`
	ISBN          string     `json:"isbn"`
	DailyPrice    int64      `json:"dailyPrice"`
	Status        string     `json:"status"`
	ReservationID *uuid.UUID `json:"reservationId,omitempty"`
}

func FromBook(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:            b.ID(),
		Title:         b.Title(),
		Genres:        b.Genres(),
		ReleaseDate:   b.ReleaseDate(),
		ISBN:          b.ISBN(),
		DailyPrice:    b.DailyPrice(),
		Status:        string(b.Status()),
		ReservationID: b.ReservationID(),
	}
}

func FromBooks(books []*book.Book) []*BookResponse {
	out := make([]*BookResponse, len(books))
	for i, b := range books {
		out[i] = FromBook(b)
	}
	return out
}
