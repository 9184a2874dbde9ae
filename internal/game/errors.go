package game

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove        = errors.New("illegal move")
	ErrPromotionRequired  = errors.New("promotion required")
	ErrInvalidFEN         = errors.New("invalid FEN")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrGameOver           = errors.New("game over")
	ErrIndexOutOfRange    = errors.New("history index out of range")
)

// ParseError describes why a FEN string was rejected.
type ParseError struct {
	Field  string
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrInvalidFEN, e.Reason)
	}
	return fmt.Sprintf("%v: %s %q: %s", ErrInvalidFEN, e.Field, e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrInvalidFEN }

func parseErrorf(field, input, format string, args ...any) *ParseError {
	return &ParseError{Field: field, Input: input, Reason: fmt.Sprintf(format, args...)}
}
