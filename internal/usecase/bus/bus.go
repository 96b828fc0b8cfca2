// Package bus implements the in-process command/event dispatch core.
package bus

import (
	"context"
	"fmt"
	"log/slog"

	"librarium/internal/domain/message"
	"librarium/internal/pkg/errs"
	"librarium/internal/usecase/shared"
)

// CommandHandler executes one command inside the unit-of-work scope the bus
// opened for it. Returning an error rolls the scope back and propagates to
// the Handle caller.
type CommandHandler func(ctx context.Context, uow shared.UnitOfWork, cmd message.Command) error

// EventHandler reacts to one event inside its own unit-of-work scope.
// Errors are logged and contained; sibling handlers still run.
type EventHandler func(ctx context.Context, uow shared.UnitOfWork, evt message.Event) error

// MessageBus resolves a command or event and every event it cascades into,
// synchronously, before Handle returns. The work queue is local to one
// Handle call; the bus holds no state shared across calls.
type MessageBus struct {
	uowFactory      shared.UnitOfWorkFactory
	commandHandlers map[string]CommandHandler
	eventHandlers   map[string][]EventHandler
	logger          *slog.Logger
}

func New(uowFactory shared.UnitOfWorkFactory, logger *slog.Logger) *MessageBus {
	return &MessageBus{
		uowFactory:      uowFactory,
		commandHandlers: make(map[string]CommandHandler),
		eventHandlers:   make(map[string][]EventHandler),
		logger:          logger,
	}
}

// RegisterCommand binds the single handler for a command name. Registering
// twice is a wiring mistake and panics at startup rather than at dispatch.
func (b *MessageBus) RegisterCommand(name string, h CommandHandler) {
	if _, dup := b.commandHandlers[name]; dup {
		panic("bus: duplicate command handler for " + name)
	}
	b.commandHandlers[name] = h
}

// RegisterEvent appends a handler for an event name; handlers run in
// registration order.
func (b *MessageBus) RegisterEvent(name string, h EventHandler) {
	b.eventHandlers[name] = append(b.eventHandlers[name], h)
}

// Handle drains msg and all its consequences breadth-first: events produced
// by a handler are processed after everything already queued, so a cause is
// fully handled before its effects.
func (b *MessageBus) Handle(ctx context.Context, msg any) error {
	queue := []any{msg}

	for len(queue) > 0 {
		head := queue[0]
		queue = queue[1:]

		switch m := head.(type) {
		case message.Command:
			newEvents, err := b.handleCommand(ctx, m)
			if err != nil {
				return err
			}
			for _, e := range newEvents {
				queue = append(queue, e)
			}
		case message.Event:
			for _, e := range b.handleEvent(ctx, m) {
				queue = append(queue, e)
			}
		default:
			return errs.Mark(errs.New(fmt.Sprintf("unexpected message type %T", head)), errs.ErrUnknownMessage)
		}
	}

	return nil
}

func (b *MessageBus) handleCommand(ctx context.Context, cmd message.Command) ([]message.Event, error) {
	handler, ok := b.commandHandlers[cmd.CommandName()]
	if !ok {
		// Programmer error: commands are never silently dropped.
		return nil, errs.Mark(errs.New("no handler registered for command "+cmd.CommandName()), errs.ErrNoCommandHandler)
	}

	b.logger.Debug("handling command", "command", cmd.CommandName())

	uow, err := b.uowFactory.Begin(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to begin unit of work")
	}

	if err := handler(ctx, uow, cmd); err != nil {
		b.rollback(ctx, uow, cmd.CommandName())
		b.logger.Error("command handler failed", "command", cmd.CommandName(), "error", err.Error())
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		b.rollback(ctx, uow, cmd.CommandName())
		b.logger.Error("command commit failed", "command", cmd.CommandName(), "error", err.Error())
		return nil, errs.Wrap(err, "failed to commit command "+cmd.CommandName())
	}

	return uow.CollectNewEvents(), nil
}

// handleEvent runs every registered handler in its own unit-of-work scope.
// Events are harvested after each handler, successful or not, so a failing
// side effect cannot suppress what its aggregates already recorded.
func (b *MessageBus) handleEvent(ctx context.Context, evt message.Event) []message.Event {
	handlers := b.eventHandlers[evt.EventName()]
	if len(handlers) == 0 {
		b.logger.Debug("no handlers registered for event", "event", evt.EventName())
		return nil
	}

	var cascade []message.Event
	for _, handler := range handlers {
		uow, err := b.uowFactory.Begin(ctx)
		if err != nil {
			b.logger.Error("failed to begin unit of work for event", "event", evt.EventName(), "error", err.Error())
			continue
		}

		if err := handler(ctx, uow, evt); err != nil {
			b.rollback(ctx, uow, evt.EventName())
			b.logger.Error("event handler failed", "event", evt.EventName(), "error", err.Error())
		} else if err := uow.Commit(ctx); err != nil {
			b.rollback(ctx, uow, evt.EventName())
			b.logger.Error("event commit failed", "event", evt.EventName(), "error", err.Error())
		}

		cascade = append(cascade, uow.CollectNewEvents()...)
	}

	return cascade
}

func (b *MessageBus) rollback(ctx context.Context, uow shared.UnitOfWork, name string) {
	if err := uow.Rollback(ctx); err != nil {
		b.logger.Warn("rollback failed", "message", name, "error", err.Error())
	}
}
