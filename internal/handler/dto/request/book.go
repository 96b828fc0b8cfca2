package request

import "time"

type CreateBookRequest struct {
	Title       string    `json:"title" binding:"required"`
	Genres      string    `json:"genres"`
	ReleaseDate time.Time `json:"release_date" binding:"required"`
	ISBN        string    `json:"isbn" binding:"required"`
	DailyPrice  int64     `json:"daily_price" binding:"min=0"`
}

type UpdateBookRequest struct {
	Title       string    `json:"title" binding:"required"`
	Genres      string    `json:"genres"`
	ReleaseDate time.Time `json:"release_date" binding:"required"`
	ISBN        string    `json:"isbn" binding:"required"`
	DailyPrice  int64     `json:"daily_price" binding:"min=0"`
}

type ReserveBookRequest struct {
	DurationDays int `json:"duration_days" binding:"required,min=1"`
}
