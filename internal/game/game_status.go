package game

// Status is the externally visible state of a game.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCheck     Status = "check"
	StatusCheckmate Status = "checkmate"
	StatusStalemate Status = "stalemate"
	StatusDraw      Status = "draw"
	StatusResigned  Status = "resigned"
	StatusTimeout   Status = "timeout"
)

// Over reports whether no further moves may be played.
func (s Status) Over() bool {
	switch s {
	case StatusCheckmate, StatusStalemate, StatusDraw, StatusResigned, StatusTimeout:
		return true
	default:
		return false
	}
}

type DrawReason string

const (
	DrawStalemate            DrawReason = "stalemate"
	DrawInsufficientMaterial DrawReason = "insufficient material"
	DrawFiftyMoveRule        DrawReason = "fifty-move rule"
	DrawThreefoldRepetition  DrawReason = "threefold repetition"
)

// fiftyMoveHalfmoves is the halfmove clock value at which the game is drawn.
const fiftyMoveHalfmoves = 100

// IsCheck reports whether the king of color is attacked. A side without a
// king is never in check.
func IsCheck(p *Position, color Color) bool {
	king, ok := p.KingSquare(color)
	if !ok {
		return false
	}
	return IsSquareAttacked(p, king, color.Opposite())
}

func IsCheckmate(p *Position, color Color) bool {
	return IsCheck(p, color) && !HasLegalMove(p, color)
}

func IsStalemate(p *Position, color Color) bool {
	return !IsCheck(p, color) && !HasLegalMove(p, color)
}

// IsInsufficientMaterial reports bare kings, or bare kings plus a single
// bishop or knight.
func IsInsufficientMaterial(p *Position) bool {
	counts := p.CountMaterial()
	minors := 0
	for _, side := range counts {
		if side[Pawn]+side[Rook]+side[Queen] > 0 {
			return false
		}
		minors += side[Bishop] + side[Knight]
	}
	return minors <= 1
}

// DrawReasonFor checks the position-only draw conditions for the side to move.
// Threefold repetition needs the game history and is decided by GameLog.
func DrawReasonFor(p *Position, toMove Color) (DrawReason, bool) {
	switch {
	case IsStalemate(p, toMove):
		return DrawStalemate, true
	case IsInsufficientMaterial(p):
		return DrawInsufficientMaterial, true
	case p.HalfmoveClock >= fiftyMoveHalfmoves:
		return DrawFiftyMoveRule, true
	default:
		return "", false
	}
}
