// Package message defines the two message kinds the bus dispatches.
package message

// Command is an intent to change state. Exactly one handler is registered
// per command name; handler failure propagates to the caller.
type Command interface {
	CommandName() string
}

// Event is a notification that something happened. Zero or more handlers
// may be registered per event name; each handler's failure is isolated.
type Event interface {
	EventName() string
}
