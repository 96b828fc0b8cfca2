//go:build unit

package handlers_test

import (
	"context"
	"testing"
	"time"

	"librarium/internal/domain/book"
	"librarium/internal/domain/member"
	"librarium/internal/domain/message"
	"librarium/internal/domain/reservation"
	"librarium/internal/pkg/clock"
	"librarium/internal/pkg/errs"
	"librarium/internal/usecase/commands"
	"librarium/internal/usecase/handlers"
	"librarium/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPhone = "0913-555-1234"

type memBookRepo struct {
	books map[uuid.UUID]*book.Book
	seen  []*book.Book
}

func (r *memBookRepo) Get(_ context.Context, id uuid.UUID) (*book.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, errs.ErrBookNotFound
	}
	r.seen = append(r.seen, b)
	return b, nil
}

func (r *memBookRepo) Add(_ context.Context, b *book.Book) error {
	r.books[b.ID()] = b
	r.seen = append(r.seen, b)
	return nil
}

func (r *memBookRepo) List(_ context.Context) ([]*book.Book, error) {
	out := make([]*book.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, b)
	}
	return out, nil
}

func (r *memBookRepo) UpdateDetails(_ context.Context, b *book.Book) error {
	b.AdvanceVersion()
	return nil
}

func (r *memBookRepo) MarkReserved(_ context.Context, b *book.Book) error {
	b.AdvanceVersion()
	return nil
}

func (r *memBookRepo) Seen() []*book.Book { return r.seen }

type memMemberRepo struct {
	members map[uuid.UUID]*member.Member
	seen    []*member.Member
}

func (r *memMemberRepo) Get(_ context.Context, id uuid.UUID) (*member.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, errs.ErrMemberNotFound
	}
	r.seen = append(r.seen, m)
	return m, nil
}

func (r *memMemberRepo) GetByPhone(_ context.Context, phoneNumber string) (*member.Member, error) {
	for _, m := range r.members {
		if m.PhoneNumber() == phoneNumber {
			r.seen = append(r.seen, m)
			return m, nil
		}
	}
	return nil, errs.ErrMemberNotFound
}

func (r *memMemberRepo) Add(_ context.Context, m *member.Member) error {
	r.members[m.ID()] = m
	r.seen = append(r.seen, m)
	return nil
}

func (r *memMemberRepo) Update(_ context.Context, m *member.Member) error {
	m.AdvanceVersion()
	return nil
}

func (r *memMemberRepo) Seen() []*member.Member { return r.seen }

type memReservationRepo struct {
	reservations []*reservation.Reservation
}

func (r *memReservationRepo) Add(_ context.Context, rsv *reservation.Reservation) error {
	r.reservations = append(r.reservations, rsv)
	return nil
}

func (r *memReservationRepo) ListByMember(_ context.Context, memberID uuid.UUID) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	for _, rsv := range r.reservations {
		if rsv.MemberID() == memberID {
			out = append(out, rsv)
		}
	}
	return out, nil
}

func (r *memReservationRepo) CountActiveByMember(_ context.Context, memberID uuid.UUID, now time.Time) (int, error) {
	count := 0
	for _, rsv := range r.reservations {
		if rsv.MemberID() == memberID && rsv.EndDate().After(now) {
			count++
		}
	}
	return count, nil
}

func (r *memReservationRepo) TotalSpentSince(_ context.Context, memberID uuid.UUID, since time.Time) (int64, error) {
	var total int64
	for _, rsv := range r.reservations {
		if rsv.MemberID() == memberID && !rsv.StartDate().Before(since) {
			total += rsv.TotalCost()
		}
	}
	return total, nil
}

type memUoW struct {
	books        *memBookRepo
	members      *memMemberRepo
	reservations *memReservationRepo
	committed    bool
	rolledBack   bool
}

func newMemUoW() *memUoW {
	return &memUoW{
		books:        &memBookRepo{books: make(map[uuid.UUID]*book.Book)},
		members:      &memMemberRepo{members: make(map[uuid.UUID]*member.Member)},
		reservations: &memReservationRepo{},
	}
}

func (u *memUoW) Books() shared.BookRepository               { return u.books }
func (u *memUoW) Members() shared.MemberRepository           { return u.members }
func (u *memUoW) Reservations() shared.ReservationRepository { return u.reservations }
func (u *memUoW) Commit(context.Context) error               { u.committed = true; return nil }
func (u *memUoW) Rollback(context.Context) error             { u.rolledBack = true; return nil }

func (u *memUoW) CollectNewEvents() []message.Event {
	var events []message.Event
	for _, b := range u.books.Seen() {
		events = append(events, b.PopEvents()...)
	}
	for _, m := range u.members.Seen() {
		events = append(events, m.PopEvents()...)
	}
	return events
}

func defaultCostPolicy() reservation.CostPolicy {
	return reservation.CostPolicy{
		RegularMaxDays:   7,
		PremiumMaxDays:   14,
		DiscountMinCount: 300000,
		DiscountMinSpend: 300000,
	}
}

func seedBook(t *testing.T, uow *memUoW, dailyPrice int64) *book.Book {
	t.Helper()
	b, err := book.NewBook(uuid.New(), "Piranesi", "fantasy",
		time.Date(2020, 9, 15, 0, 0, 0, 0, time.UTC), "978-1-5266-2242-6", dailyPrice)
	require.NoError(t, err)
	uow.books.books[b.ID()] = b
	return b
}

func seedMember(t *testing.T, uow *memUoW) *member.Member {
	t.Helper()
	m, err := member.NewMember(uuid.New(), "Sara", "Ahmadi", testPhone)
	require.NoError(t, err)
	uow.members.members[m.ID()] = m
	return m
}

func TestAddBook(t *testing.T) {
	uow := newMemUoW()
	h := handlers.AddBook()

	cmd := commands.CreateBook{
		BookID:      uuid.New(),
		Title:       "Piranesi",
		Genres:      "fantasy",
		ReleaseDate: time.Date(2020, 9, 15, 0, 0, 0, 0, time.UTC),
		ISBN:        "978-1-5266-2242-6",
		DailyPrice:  1000,
	}
	require.NoError(t, h(context.Background(), uow, cmd))

	b, ok := uow.books.books[cmd.BookID]
	require.True(t, ok)
	assert.Equal(t, "Piranesi", b.Title())
	assert.Equal(t, book.StatusPending, b.Status())
}

func TestAddBook_InvalidTitle(t *testing.T) {
	uow := newMemUoW()
	h := handlers.AddBook()

	cmd := commands.CreateBook{
		BookID:      uuid.New(),
		Title:       "  ",
		ReleaseDate: time.Now(),
		ISBN:        "978-1-5266-2242-6",
		DailyPrice:  1000,
	}
	err := h(context.Background(), uow, cmd)
	assert.ErrorIs(t, err, book.ErrEmptyTitle)
}

func TestReserveBook_RegularMemberPaysPricePerDay(t *testing.T) {
	uow := newMemUoW()
	clk := clock.NewMockClock(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	h := handlers.ReserveBook(clk, defaultCostPolicy())

	b := seedBook(t, uow, 1000)
	m := seedMember(t, uow)

	cmd := commands.ReserveBook{
		ReservationID: uuid.New(),
		BookID:        b.ID(),
		MemberID:      m.ID(),
		DurationDays:  7,
	}
	require.NoError(t, h(context.Background(), uow, cmd))

	require.Len(t, uow.reservations.reservations, 1)
	rsv := uow.reservations.reservations[0]
	assert.Equal(t, int64(7000), rsv.TotalCost())
	assert.Equal(t, clk.Now().AddDate(0, 0, 7), rsv.EndDate())

	assert.True(t, b.IsReserved())
	require.NotNil(t, b.ReservationID())
	assert.Equal(t, cmd.ReservationID, *b.ReservationID())
}

func TestReserveBook_PremiumMemberFree(t *testing.T) {
	uow := newMemUoW()
	clk := clock.NewMockClock(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	h := handlers.ReserveBook(clk, defaultCostPolicy())

	b := seedBook(t, uow, 1000)
	m := seedMember(t, uow)
	require.NoError(t, m.AddToBalance(1000))
	require.NoError(t, m.UpgradeToPremium(clk.Now(), 1000, 1))

	cmd := commands.ReserveBook{
		ReservationID: uuid.New(),
		BookID:        b.ID(),
		MemberID:      m.ID(),
		DurationDays:  14,
	}
	require.NoError(t, h(context.Background(), uow, cmd))

	require.Len(t, uow.reservations.reservations, 1)
	assert.Equal(t, int64(0), uow.reservations.reservations[0].TotalCost())
}

func TestReserveBook_RegularDurationExceeded(t *testing.T) {
	uow := newMemUoW()
	clk := clock.NewMockClock(time.Now())
	h := handlers.ReserveBook(clk, defaultCostPolicy())

	b := seedBook(t, uow, 1000)
	m := seedMember(t, uow)

	cmd := commands.ReserveBook{
		ReservationID: uuid.New(),
		BookID:        b.ID(),
		MemberID:      m.ID(),
		DurationDays:  8,
	}
	err := h(context.Background(), uow, cmd)
	assert.ErrorIs(t, err, errs.ErrRegularDurationExceeded)
	assert.Empty(t, uow.reservations.reservations)
	assert.False(t, b.IsReserved())
}

func TestReserveBook_AlreadyReserved(t *testing.T) {
	uow := newMemUoW()
	clk := clock.NewMockClock(time.Now())
	h := handlers.ReserveBook(clk, defaultCostPolicy())

	b := seedBook(t, uow, 1000)
	m := seedMember(t, uow)
	require.NoError(t, b.Reserve(uuid.New(), uuid.New()))
	b.PopEvents()

	cmd := commands.ReserveBook{
		ReservationID: uuid.New(),
		BookID:        b.ID(),
		MemberID:      m.ID(),
		DurationDays:  3,
	}
	err := h(context.Background(), uow, cmd)
	assert.ErrorIs(t, err, errs.ErrBookAlreadyReserved)
}

func TestReserveBook_RecordsReservedEvent(t *testing.T) {
	uow := newMemUoW()
	clk := clock.NewMockClock(time.Now())
	h := handlers.ReserveBook(clk, defaultCostPolicy())

	b := seedBook(t, uow, 1000)
	m := seedMember(t, uow)

	cmd := commands.ReserveBook{
		ReservationID: uuid.New(),
		BookID:        b.ID(),
		MemberID:      m.ID(),
		DurationDays:  3,
	}
	require.NoError(t, h(context.Background(), uow, cmd))

	events := uow.CollectNewEvents()
	require.Len(t, events, 1)
	evt, ok := events[0].(book.Reserved)
	require.True(t, ok)
	assert.Equal(t, b.ID(), evt.BookID)
	assert.Equal(t, cmd.ReservationID, evt.ReservationID)
	assert.Equal(t, m.ID(), evt.MemberID)
}

func TestUpgradeMembership(t *testing.T) {
	uow := newMemUoW()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	h := handlers.UpgradeMembership(clk, handlers.PremiumPolicy{Cost: 1000, PeriodMonths: 1})

	m := seedMember(t, uow)
	require.NoError(t, m.AddToBalance(1500))

	require.NoError(t, h(context.Background(), uow, commands.UpgradeMembership{MemberID: m.ID()}))

	assert.True(t, m.IsPremium())
	assert.Equal(t, int64(500), m.Balance())
	require.NotNil(t, m.MembershipExpiry())
	assert.Equal(t, now.AddDate(0, 1, 0), *m.MembershipExpiry())
}

func TestUpgradeMembership_InsufficientBalance(t *testing.T) {
	uow := newMemUoW()
	clk := clock.NewMockClock(time.Now())
	h := handlers.UpgradeMembership(clk, handlers.PremiumPolicy{Cost: 1000, PeriodMonths: 1})

	m := seedMember(t, uow)

	err := h(context.Background(), uow, commands.UpgradeMembership{MemberID: m.ID()})
	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
	assert.False(t, m.IsPremium())
}

func TestAddToBalance(t *testing.T) {
	uow := newMemUoW()
	h := handlers.AddToBalance()

	m := seedMember(t, uow)

	require.NoError(t, h(context.Background(), uow, commands.AddToMemberBalance{MemberID: m.ID(), Amount: 2500}))
	assert.Equal(t, int64(2500), m.Balance())
}

func TestRequestLoginCode_RecordsEvent(t *testing.T) {
	uow := newMemUoW()
	h := handlers.RequestLoginCode()

	m := seedMember(t, uow)

	require.NoError(t, h(context.Background(), uow, commands.RequestLoginCode{PhoneNumber: testPhone}))

	events := uow.CollectNewEvents()
	require.Len(t, events, 1)
	evt, ok := events[0].(member.OTPRequested)
	require.True(t, ok)
	assert.Equal(t, m.ID(), evt.MemberID)
	assert.Equal(t, testPhone, evt.PhoneNumber)
}

func TestRequestLoginCode_InvalidPhone(t *testing.T) {
	uow := newMemUoW()
	h := handlers.RequestLoginCode()

	err := h(context.Background(), uow, commands.RequestLoginCode{PhoneNumber: "12345"})
	assert.ErrorIs(t, err, errs.ErrInvalidPhoneNumber)
}

func TestRequestLoginCode_UnknownMember(t *testing.T) {
	uow := newMemUoW()
	h := handlers.RequestLoginCode()

	err := h(context.Background(), uow, commands.RequestLoginCode{PhoneNumber: testPhone})
	assert.ErrorIs(t, err, errs.ErrMemberNotFound)
}
