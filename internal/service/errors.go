package service

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so handlers can map it to an HTTP status
// without string matching.
type Kind int

const (
	// KindValidation: malformed input — the operation was never attempted.
	KindValidation Kind = iota
	// KindConflict: a state invariant would be violated (e.g. opening a
	// second session on a kiosk). Never retried automatically.
	KindConflict
	// KindInvalidState: the target entity is in the wrong lifecycle state
	// for the operation (e.g. closing an already-closed session).
	KindInvalidState
	// KindNotFound: the referenced entity does not exist.
	KindNotFound
	// KindStorage: the backing store failed. Propagated as-is; the caller
	// decides whether to retry.
	KindStorage
)

// Error is the canonical domain error. Msg is always safe to show to users.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a domain *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == k
}

func validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func invalidStatef(format string, args ...any) error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func storageErr(msg string, err error) error {
	return &Error{Kind: KindStorage, Msg: msg, Err: err}
}
