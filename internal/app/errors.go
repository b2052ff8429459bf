package app

import (
	"errors"

	idb "sisnompeg_admin/internal/infra/database"
)

// Kind classifies a service error for the transport layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUpstream // datastore or mail transport failure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "Bad Request"
	case KindNotFound:
		return "Not Found"
	case KindConflict:
		return "Conflict"
	case KindUpstream:
		return "Bad Gateway"
	default:
		return "Internal Server Error"
	}
}

// Error is returned by every service in this package. Msg is the
// human-readable text shown to the caller.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Msg
	case e.Msg == "":
		return e.Err.Error()
	default:
		return e.Msg + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

func WrapValidation(err error, msg string) error {
	return &Error{Kind: KindValidation, Err: err, Msg: msg}
}

func WrapNotFound(err error, msg string) error {
	return &Error{Kind: KindNotFound, Err: err, Msg: msg}
}

func WrapConflict(err error, msg string) error {
	return &Error{Kind: KindConflict, Err: err, Msg: msg}
}

func WrapUpstream(err error, msg string) error {
	return &Error{Kind: KindUpstream, Err: err, Msg: msg}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }

// fromRepo maps repository sentinels to service errors. notFound and
// conflict are the messages used for those cases; failed prefixes any other
// datastore error.
func fromRepo(err error, notFound, conflict, failed string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, idb.ErrNotFound):
		return WrapNotFound(nil, notFound)
	case errors.Is(err, idb.ErrDuplicateKey):
		if conflict == "" {
			conflict = failed
		}
		return WrapConflict(nil, conflict)
	case errors.Is(err, idb.ErrInvalidInput):
		return WrapValidation(err, failed)
	default:
		return WrapUpstream(err, failed)
	}
}
