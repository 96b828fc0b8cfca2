package handlers

import (
	"context"
	"fmt"

	"librarium/internal/domain/book"
	"librarium/internal/domain/message"
	"librarium/internal/infra"
	"librarium/internal/pkg/errs"
	"librarium/internal/usecase/bus"
	"librarium/internal/usecase/commands"
	"librarium/internal/usecase/shared"
)

func wrongMessageType(msg any) error {
	return errs.New(fmt.Sprintf("handler received unexpected message type %T", msg))
}

func AddBook() bus.CommandHandler {
	return func(ctx context.Context, uow shared.UnitOfWork, cmd message.Command) error {
		c, ok := cmd.(commands.CreateBook)
		if !ok {
			return wrongMessageType(cmd)
		}

		b, err := book.NewBook(c.BookID, c.Title, c.Genres, c.ReleaseDate, c.ISBN, c.DailyPrice)
		if err != nil {
			return err
		}

		if err := uow.Books().Add(ctx, b); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, errs.ErrDuplicateISBN)
			}
			return err
		}
		return nil
	}
}

func UpdateBook() bus.CommandHandler {
	return func(ctx context.Context, uow shared.UnitOfWork, cmd message.Command) error {
		c, ok := cmd.(commands.UpdateBook)
		if !ok {
			return wrongMessageType(cmd)
		}

		b, err := uow.Books().Get(ctx, c.BookID)
		if err != nil {
			return mapRepoErr(err, errs.ErrBookNotFound)
		}

		if err := b.UpdateDetails(c.Title, c.Genres, c.ReleaseDate, c.ISBN, c.DailyPrice); err != nil {
			return err
		}

		// Conditional on the version read above; a concurrent writer
		// surfaces as a stale-write error, not a silent merge.
		return mapRepoErr(uow.Books().UpdateDetails(ctx, b), errs.ErrBookNotFound)
	}
}
