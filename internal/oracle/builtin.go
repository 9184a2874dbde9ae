package oracle

import (
	"context"
	"math"

	"github.com/notnil/chess"
)

const (
	DefaultMaxDepth = 3
	mateScore       = 1e6
)

var pieceValues = map[chess.PieceType]float64{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
}

// Builtin is an in-process material searcher backed by github.com/notnil/chess.
// It is good enough to play back and to drive tests without an external binary.
type Builtin struct {
	// MaxDepth caps the requested depth. Zero means DefaultMaxDepth.
	MaxDepth int
}

func (b Builtin) BestMove(ctx context.Context, fen string, depth int) (string, error) {
	if depth <= 0 {
		return "", ErrBadDepth
	}
	limit := b.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	depth = min(depth, limit)

	opt, err := chess.FEN(fen)
	if err != nil {
		return "", err
	}
	g := chess.NewGame(opt)
	moves := g.ValidMoves()
	if len(moves) == 0 {
		return "", ErrNoMove
	}

	var best *chess.Move
	alpha := -math.MaxFloat64
	for _, m := range moves {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		child := g.Clone()
		if err := child.Move(m); err != nil {
			continue
		}
		score := -negamax(ctx, child, depth-1, -math.MaxFloat64, -alpha)
		if best == nil || score > alpha {
			best, alpha = m, score
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return chess.UCINotation{}.Encode(g.Position(), best), nil
}

// negamax scores g from the point of view of the side to move.
func negamax(ctx context.Context, g *chess.Game, depth int, alpha, beta float64) float64 {
	switch g.Outcome() {
	case chess.WhiteWon, chess.BlackWon:
		return -mateScore - float64(depth)
	case chess.Draw:
		return 0
	}
	if depth == 0 || ctx.Err() != nil {
		return material(g.Position())
	}
	best := -math.MaxFloat64
	for _, m := range g.ValidMoves() {
		child := g.Clone()
		if err := child.Move(m); err != nil {
			continue
		}
		score := -negamax(ctx, child, depth-1, -beta, -alpha)
		best = max(best, score)
		alpha = max(alpha, score)
		if alpha >= beta {
			break
		}
	}
	return best
}

func material(pos *chess.Position) float64 {
	score := 0.0
	for _, pc := range pos.Board().SquareMap() {
		v := pieceValues[pc.Type()]
		if pc.Color() == pos.Turn() {
			score += v
		} else {
			score -= v
		}
	}
	return score
}
