package repository

import (
	"context"
	"errors"
	"time"

	"librarium/internal/domain/book"
	"librarium/internal/infra"
	"librarium/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BookRepository tracks every aggregate it hands out or accepts in a seen
// set; the unit of work harvests recorded events from it at commit time.
// All state-changing writes are conditional on the version read at load
// time and bump it by one.
type BookRepository struct {
	db   db.DBTX
	seen map[uuid.UUID]*book.Book
}

func NewBookRepository(dbtx db.DBTX) *BookRepository {
	return &BookRepository{
		db:   dbtx,
		seen: make(map[uuid.UUID]*book.Book),
	}
}

const findBookByID = `
SELECT id, title, genres, release_date, isbn, daily_price, status, reservation_id, version
FROM books
WHERE id = $1
`

func (r *BookRepository) Get(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	// Identity map within the scope: a second Get returns the instance
	// already carrying recorded events.
	if b, ok := r.seen[id]; ok {
		return b, nil
	}

	row := r.db.QueryRow(ctx, findBookByID, id)
	b, err := scanBook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("book not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find book", err)
	}

	r.track(b)
	return b, nil
}

const insertBook = `
INSERT INTO books (id, title, genres, release_date, isbn, daily_price, status, reservation_id, version)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func (r *BookRepository) Add(ctx context.Context, b *book.Book) error {
	_, err := r.db.Exec(ctx, insertBook,
		b.ID(), b.Title(), b.Genres(), b.ReleaseDate(), b.ISBN(),
		b.DailyPrice(), string(b.Status()), b.ReservationID(), b.Version(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("book already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert book", err)
	}

	r.track(b)
	return nil
}

const listBooks = `
SELECT id, title, genres, release_date, isbn, daily_price, status, reservation_id, version
FROM books
ORDER BY title
`

func (r *BookRepository) List(ctx context.Context) ([]*book.Book, error) {
	rows, err := r.db.Query(ctx, listBooks)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list books", err)
	}
	defer rows.Close()

	var books []*book.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan book", err)
		}
		r.track(b)
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate books", err)
	}
	return books, nil
}

const updateBookDetails = `
UPDATE books
SET title = $3, genres = $4, release_date = $5, isbn = $6, daily_price = $7, version = version + 1
WHERE id = $1 AND version = $2
`

func (r *BookRepository) UpdateDetails(ctx context.Context, b *book.Book) error {
	tag, err := r.db.Exec(ctx, updateBookDetails,
		b.ID(), b.Version(),
		b.Title(), b.Genres(), b.ReleaseDate(), b.ISBN(), b.DailyPrice(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update book", err)
	}
	if tag.RowsAffected() == 0 {
		return r.conditionalMiss(ctx, b.ID(), "update book")
	}

	b.AdvanceVersion()
	r.track(b)
	return nil
}

const markBookReserved = `
UPDATE books
SET status = $3, reservation_id = $4, version = version + 1
WHERE id = $1 AND version = $2
`

func (r *BookRepository) MarkReserved(ctx context.Context, b *book.Book) error {
	tag, err := r.db.Exec(ctx, markBookReserved,
		b.ID(), b.Version(),
		string(b.Status()), b.ReservationID(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark book reserved", err)
	}
	if tag.RowsAffected() == 0 {
		return r.conditionalMiss(ctx, b.ID(), "mark book reserved")
	}

	b.AdvanceVersion()
	r.track(b)
	return nil
}

func (r *BookRepository) Seen() []*book.Book {
	books := make([]*book.Book, 0, len(r.seen))
	for _, b := range r.seen {
		books = append(books, b)
	}
	return books
}

func (r *BookRepository) track(b *book.Book) {
	if _, ok := r.seen[b.ID()]; ok {
		return
	}
	r.seen[b.ID()] = b
}

// conditionalMiss distinguishes a concurrent writer from a vanished row:
// the row may still exist at a newer version.
func (r *BookRepository) conditionalMiss(ctx context.Context, id uuid.UUID, op string) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return infra.WrapRepoErr(op+": failed to probe row", err)
	}
	if exists {
		return infra.WrapRepoErr(op+": version conflict", nil, infra.KindStaleWrite)
	}
	return infra.WrapRepoErr(op+": book not found", nil, infra.KindNotFound)
}

func scanBook(row pgx.Row) (*book.Book, error) {
	var (
		id            uuid.UUID
		title         string
		genres        string
		releaseDate   time.Time
		isbn          string
		dailyPrice    int64
		status        string
		reservationID *uuid.UUID
		version       int32
	)
	if err := row.Scan(&id, &title, &genres, &releaseDate, &isbn, &dailyPrice, &status, &reservationID, &version); err != nil {
		return nil, err
	}
	return book.Reconstruct(id, title, genres, releaseDate, isbn, dailyPrice, book.Status(status), reservationID, version), nil
}
