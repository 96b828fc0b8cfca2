package errs

import "errors"

// Domain-specific sentinel errors. Callers branch with errors.Is; the HTTP
// layer maps each to a status code.
var (
	// Book errors
	ErrBookNotFound        = errors.New("book not found")
	ErrBookAlreadyReserved = errors.New("book is already reserved")
	ErrDuplicateISBN       = errors.New("isbn already registered")

	// Member errors
	ErrMemberNotFound      = errors.New("member not found")
	ErrDuplicatePhone      = errors.New("phone number already registered")
	ErrNegativeAmount      = errors.New("amount must be greater than zero")
	ErrAlreadyPremium      = errors.New("member is already premium")
	ErrInsufficientBalance = errors.New("not enough balance")

	// Reservation errors
	ErrRegularDurationExceeded = errors.New("maximum reservation for regular members is 7 days")
	ErrPremiumDurationExceeded = errors.New("maximum reservation for premium members is 14 days")
	ErrReservationNotFound     = errors.New("reservation not found")

	// Concurrency conflict: the caller should reload and retry, not resubmit
	// unchanged. Distinct from business-rule violations and from not-found.
	ErrStaleWrite = errors.New("aggregate was modified by another writer")

	// OTP errors
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	ErrNoOTPRequest       = errors.New("no otp request found for this phone number")
	ErrOTPExpired         = errors.New("otp has expired")
	ErrInvalidOTPCode     = errors.New("invalid otp code")
	ErrOTPBurstLimit      = errors.New("too many otp requests in the last 2 minutes")
	ErrOTPHourlyLimit     = errors.New("too many otp requests in the last hour")

	// Bus errors (programmer errors, never caught by the bus itself)
	ErrNoCommandHandler = errors.New("no handler registered for command")
	ErrUnknownMessage   = errors.New("message is neither a command nor an event")
)
