package game

import "fmt"

// MoveRequest is passed in by an external layer to request a move.
type MoveRequest struct {
	From         Square
	To           Square
	Promotion    PieceType
	HasPromotion bool
}

// AppliedMove describes what a successful Apply did to the position.
type AppliedMove struct {
	Piece         PieceType
	Color         Color
	From          Square
	To            Square
	Captured      PieceType
	HasCapture    bool
	CaptureSquare Square
	EnPassant     bool
	Castle        bool
	CastleSide    CastlingSide
	Promotion     PieceType
	HasPromotion  bool
}

// UCI renders the move in coordinate notation, e.g. e7e8q.
func (mv AppliedMove) UCI() string {
	return CoordinateMove{From: mv.From, To: mv.To, Promotion: mv.Promotion, HasPromotion: mv.HasPromotion}.String()
}

// Apply validates req and executes it on p. On error, and on a broken
// invariant, p is left untouched.
// A promotion choice on a move that does not promote is ignored.
func (p *Position) Apply(req MoveRequest) (AppliedMove, error) {
	pc, ok := p.PieceAt(req.From)
	if !ok {
		return AppliedMove{}, fmt.Errorf("%w: no piece on %s", ErrIllegalMove, req.From)
	}
	if !IsMoveLegal(p, req.From, req.To) {
		return AppliedMove{}, fmt.Errorf("%w: %s %s to %s", ErrIllegalMove, pc.Type.Name(), req.From, req.To)
	}

	promotion := Queen
	if pc.Type == Pawn && req.To.Rank() == pc.Color.PromotionRank() {
		if !req.HasPromotion {
			return AppliedMove{}, fmt.Errorf("%w: pawn on %s", ErrPromotionRequired, req.To)
		}
		if !req.Promotion.CanPromoteTo() {
			return AppliedMove{}, fmt.Errorf("%w: cannot promote to %s", ErrIllegalMove, req.Promotion.Name())
		}
		promotion = req.Promotion
	}

	next := *p
	mv := next.play(req.From, req.To, promotion)
	if err := next.CheckInvariants(); err != nil {
		panic(err)
	}
	*p = next
	return mv, nil
}
