package fitshdr

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per Kind. They match an *Error of the same kind
// through errors.Is.
var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalid     = errors.New("not a valid FITS file")
	ErrPermission  = errors.New("permission denied")
	ErrWrite       = errors.New("write failed")
	ErrKeyNotFound = errors.New("keyword not found")
)

// Kind is a coarse classification of header access failures.
type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindInvalid     Kind = "invalid"
	KindPermission  Kind = "permission"
	KindWrite       Kind = "write"
	KindKeyNotFound Kind = "key_not_found"
)

var sentinels = map[Kind]error{
	KindNotFound:    ErrNotFound,
	KindInvalid:     ErrInvalid,
	KindPermission:  ErrPermission,
	KindWrite:       ErrWrite,
	KindKeyNotFound: ErrKeyNotFound,
}

// Error wraps an underlying error with the operation, kind and target.
type Error struct {
	Op   string
	Kind Kind
	Path string
	Key  string // keyword, for header operations
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	msg := fmt.Sprintf("fitshdr: %s %s", e.Op, e.Path)
	if e.Key != "" {
		msg += fmt.Sprintf(" [%s]", e.Key)
	}
	if s, ok := sentinels[e.Kind]; ok {
		msg += ": " + s.Error()
	} else {
		msg += ": " + string(e.Kind)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
