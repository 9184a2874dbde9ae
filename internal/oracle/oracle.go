// Package oracle asks a chess engine for a move in a given position. The
// rules core never searches; callers feed the answer back through
// game.Game.MoveCoordinate.
package oracle

import (
	"context"
	"errors"
)

var (
	ErrNoMove   = errors.New("oracle: no move available")
	ErrBadDepth = errors.New("oracle: depth must be positive")
)

// Oracle returns a move in coordinate notation (e2e4, e7e8q) for the side to
// move in fen.
type Oracle interface {
	BestMove(ctx context.Context, fen string, depth int) (string, error)
}

// Result is what Async delivers.
type Result struct {
	Move string
	Err  error
}

// Async runs o.BestMove on its own goroutine. The channel receives exactly
// one Result and is then closed.
func Async(ctx context.Context, o Oracle, fen string, depth int) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		mv, err := o.BestMove(ctx, fen, depth)
		ch <- Result{Move: mv, Err: err}
	}()
	return ch
}
