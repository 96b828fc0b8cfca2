package shared

import (
	"context"
	"time"

	"librarium/internal/domain/book"
	"librarium/internal/domain/member"
	"librarium/internal/domain/message"
	"librarium/internal/domain/reservation"

	"github.com/google/uuid"
)

// UnitOfWork demarcates one transactional scope. The bus begins a scope per
// handler invocation, commits on success and rolls back on any failure
// path. Repositories are lazily constructed and cached per scope so the
// seen set accumulates across calls.
type UnitOfWork interface {
	Books() BookRepository
	Members() MemberRepository
	Reservations() ReservationRepository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// CollectNewEvents drains (FIFO) the events recorded on every aggregate
	// in every repository's seen set. This feeds the bus's cascade.
	CollectNewEvents() []message.Event
}

// UnitOfWorkFactory produces a scope bound to a fresh transaction.
type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

type BookRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*book.Book, error)
	Add(ctx context.Context, b *book.Book) error
	List(ctx context.Context) ([]*book.Book, error)
	// UpdateDetails writes scalar fields conditionally on the version read
	// at load time; a miss reports stale-write, never a silent merge.
	UpdateDetails(ctx context.Context, b *book.Book) error
	// MarkReserved persists the RESERVED transition, conditionally on version.
	MarkReserved(ctx context.Context, b *book.Book) error
	Seen() []*book.Book
}

type MemberRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*member.Member, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*member.Member, error)
	Add(ctx context.Context, m *member.Member) error
	// Update writes balance/membership conditionally on version.
	Update(ctx context.Context, m *member.Member) error
	Seen() []*member.Member
}

type ReservationRepository interface {
	Add(ctx context.Context, r *reservation.Reservation) error
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]*reservation.Reservation, error)
	CountActiveByMember(ctx context.Context, memberID uuid.UUID, now time.Time) (int, error)
	TotalSpentSince(ctx context.Context, memberID uuid.UUID, since time.Time) (int64, error)
}

// PublishFunc hands an event to outbound transport (e.g. a pub/sub
// channel). The core treats it as an opaque side effect.
type PublishFunc func(ctx context.Context, channel string, evt message.Event) error
