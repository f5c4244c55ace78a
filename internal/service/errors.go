package service

import "errors"

// Kind classifies billing failures so handlers map each case explicitly
// instead of catching a broad error type.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidArgument
	KindInsufficientFunds
	KindConflict
	KindFraudFlagged
	KindGateway
)

// Error is the caller-visible failure value of every billing operation.
// Message is safe to surface; Err carries internal detail for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func InvalidArgumentError(msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}

func InsufficientFundsError(msg string) *Error {
	return &Error{Kind: KindInsufficientFunds, Message: msg}
}

func ConflictError(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func FraudFlaggedError() *Error {
	return &Error{Kind: KindFraudFlagged, Message: "transaction declined"}
}

func GatewayError(err error) *Error {
	return &Error{Kind: KindGateway, Message: "payment gateway failure", Err: err}
}

func InternalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf extracts the failure kind, defaulting to internal for anything that
// is not a billing *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
