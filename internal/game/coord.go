package game

import "strings"

// CoordinateMove is a move in from-to form as produced by engines, e.g.
// e2e4 or e7e8q.
type CoordinateMove struct {
	From         Square
	To           Square
	Promotion    PieceType
	HasPromotion bool
}

// Request converts the move into an Apply request.
func (m CoordinateMove) Request() MoveRequest {
	return MoveRequest{From: m.From, To: m.To, Promotion: m.Promotion, HasPromotion: m.HasPromotion}
}

func (m CoordinateMove) String() string {
	s := m.From.String() + m.To.String()
	if m.HasPromotion {
		s += string(NewPiece(Black, m.Promotion).Symbol())
	}
	return s
}

// ParseCoordinateMove translates coordinate text into squares on p. It fails
// on malformed text or when nothing stands on the origin square; legality is
// left to Apply.
func ParseCoordinateMove(p *Position, text string) (CoordinateMove, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(text) != 4 && len(text) != 5 {
		return CoordinateMove{}, false
	}
	from, ok := CoordToSquare(text[0:2])
	if !ok {
		return CoordinateMove{}, false
	}
	to, ok := CoordToSquare(text[2:4])
	if !ok || !p.Occupied(from) {
		return CoordinateMove{}, false
	}
	m := CoordinateMove{From: from, To: to}
	if len(text) == 5 {
		pt, ok := ParsePromotionPiece(text[4:])
		if !ok {
			return CoordinateMove{}, false
		}
		m.Promotion = pt
		m.HasPromotion = true
	}
	return m, true
}
