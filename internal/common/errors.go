package common

import "errors"

// Per-event error kinds (spec.md §7). Every one of these is recoverable:
// the offending event is dropped and the book is left unchanged.
var (
	ErrMalformedLine    = errors.New("malformed line")
	ErrBadField         = errors.New("field out of range")
	ErrUnknownSide      = errors.New("unknown side tag")
	ErrDuplicateOrderID = errors.New("duplicate order id")
	ErrUnknownOrderID   = errors.New("unknown order id")
)
