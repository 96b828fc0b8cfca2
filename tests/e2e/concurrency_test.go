//go:build e2e

package e2e

import (
	"context"
	"testing"
	"time"

	"librarium/internal/domain/book"
	"librarium/internal/handler/middleware"
	"librarium/internal/infra"
	"librarium/internal/infra/uow"
	"librarium/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// ConcurrencySuite exercises the conditional writes directly against the
// unit of work, below the HTTP layer.
type ConcurrencySuite struct {
	SharedSuite
	factory shared.UnitOfWorkFactory
}

func TestConcurrencySuite(t *testing.T) {
	suite.Run(t, new(ConcurrencySuite))
}

func (s *ConcurrencySuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	logger := middleware.NewLogger(s.Config.Log).GetSlogLogger()
	s.factory = uow.NewPostgresFactory(s.DB, logger)
}

func (s *ConcurrencySuite) seedBook() uuid.UUID {
	ctx := context.Background()

	b, err := book.NewBook(uuid.New(), "Piranesi", "fantasy",
		time.Date(2020, 9, 15, 0, 0, 0, 0, time.UTC), "978-1-5266-2242-6", 1000)
	s.Require().NoError(err)

	scope, err := s.factory.Begin(ctx)
	s.Require().NoError(err)
	s.Require().NoError(scope.Books().Add(ctx, b))
	s.Require().NoError(scope.Commit(ctx))

	return b.ID()
}

func (s *ConcurrencySuite) TestConcurrentReserve_SecondWriterLoses() {
	ctx := context.Background()
	bookID := s.seedBook()

	scopeA, err := s.factory.Begin(ctx)
	s.Require().NoError(err)
	scopeB, err := s.factory.Begin(ctx)
	s.Require().NoError(err)

	bookA, err := scopeA.Books().Get(ctx, bookID)
	s.Require().NoError(err)
	bookB, err := scopeB.Books().Get(ctx, bookID)
	s.Require().NoError(err)

	// Writer A wins the race.
	s.Require().NoError(bookA.Reserve(uuid.New(), uuid.New()))
	s.Require().NoError(scopeA.Books().MarkReserved(ctx, bookA))
	s.Require().NoError(scopeA.Commit(ctx))

	// Writer B read version 0 and must not silently overwrite A.
	s.Require().NoError(bookB.Reserve(uuid.New(), uuid.New()))
	err = scopeB.Books().MarkReserved(ctx, bookB)
	s.Require().Error(err)
	s.True(infra.IsKind(err, infra.KindStaleWrite), "expected stale-write, got: %v", err)
	s.Require().NoError(scopeB.Rollback(ctx))

	// A's write stands, with the version advanced exactly once.
	scope, err := s.factory.Begin(ctx)
	s.Require().NoError(err)
	defer func() { _ = scope.Rollback(ctx) }()

	current, err := scope.Books().Get(ctx, bookID)
	s.Require().NoError(err)
	s.True(current.IsReserved())
	s.Equal(int32(2), current.Version())
}

func (s *ConcurrencySuite) TestConditionalWrite_MissingRowIsNotFound() {
	ctx := context.Background()
	bookID := s.seedBook()

	scope, err := s.factory.Begin(ctx)
	s.Require().NoError(err)
	defer func() { _ = scope.Rollback(ctx) }()

	b, err := scope.Books().Get(ctx, bookID)
	s.Require().NoError(err)

	// The row disappears under the scope's feet.
	_, err = s.DB.Exec(ctx, `DELETE FROM books WHERE id = $1`, bookID)
	s.Require().NoError(err)

	s.Require().NoError(b.Reserve(uuid.New(), uuid.New()))
	err = scope.Books().MarkReserved(ctx, b)
	s.Require().Error(err)
	s.True(infra.IsKind(err, infra.KindNotFound), "expected not-found, got: %v", err)
	s.False(infra.IsKind(err, infra.KindStaleWrite))
}

func (s *ConcurrencySuite) TestScopeCollectsEventsFromRepeatedGets() {
	ctx := context.Background()
	bookID := s.seedBook()

	scope, err := s.factory.Begin(ctx)
	s.Require().NoError(err)

	first, err := scope.Books().Get(ctx, bookID)
	s.Require().NoError(err)
	second, err := scope.Books().Get(ctx, bookID)
	s.Require().NoError(err)
	s.Same(first, second, "a scope must hand back the same instance")

	s.Require().NoError(second.Reserve(uuid.New(), uuid.New()))
	s.Require().NoError(scope.Books().MarkReserved(ctx, second))
	s.Require().NoError(scope.Commit(ctx))

	events := scope.CollectNewEvents()
	s.Require().Len(events, 1)
	_, ok := events[0].(book.Reserved)
	s.True(ok)
}
