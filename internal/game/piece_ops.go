package game

// play executes from→to on p without any legality checks. A pawn reaching
// its last rank becomes promotion. Callers validate first.
func (p *Position) play(from, to Square, promotion PieceType) AppliedMove {
	pc := p.pieceAt[from]
	mv := AppliedMove{Piece: pc.Type, Color: pc.Color, From: from, To: to}

	if pc.Type == Pawn && from.File() != to.File() && !p.Occupied(to) {
		victim, _ := SquareFromCoords(to.Rank()-pc.Color.Forward(), to.File())
		if captured, ok := p.Remove(victim); ok {
			mv.recordCapture(captured.Type, victim)
			mv.EnPassant = true
		}
	}
	if captured, ok := p.Remove(to); ok {
		mv.recordCapture(captured.Type, to)
	}

	p.Remove(from)
	pc.HasMoved = true
	p.Place(to, pc)

	if pc.Type == King && abs(to.File()-from.File()) == 2 {
		mv.Castle = true
		mv.CastleSide = CastleKingside
		if to.File() < from.File() {
			mv.CastleSide = CastleQueenside
		}
		p.moveCastleRook(pc.Color, from, to, mv.CastleSide)
	}

	p.clearEnPassantFlags()
	p.EnPassant = NoEnPassantTarget()
	if pc.Type == Pawn && abs(to.Rank()-from.Rank()) == 2 {
		mid, _ := SquareFromCoords((from.Rank()+to.Rank())/2, from.File())
		p.EnPassant = NewEnPassantTarget(mid)
		p.pieceAt[to].EnPassantVulnerable = true
	}

	if pc.Type == Pawn || mv.HasCapture {
		p.HalfmoveClock = 0
	} else if p.HalfmoveClock < MaxMoveCounter {
		p.HalfmoveClock++
	}
	if pc.Color == Black && p.FullmoveNumber < MaxMoveCounter {
		p.FullmoveNumber++
	}

	if pc.Type == Pawn && to.Rank() == pc.Color.PromotionRank() {
		promoted := NewPiece(pc.Color, promotion)
		promoted.HasMoved = true
		p.Place(to, promoted)
		mv.Promotion = promotion
		mv.HasPromotion = true
	}
	return mv
}

// moveCastleRook relocates the corner rook onto the square the king crossed.
func (p *Position) moveCastleRook(color Color, kingFrom, kingTo Square, side CastlingSide) {
	rookFrom := castleRookSquare(color, side)
	rook, ok := p.Remove(rookFrom)
	if !ok {
		return
	}
	rook.HasMoved = true
	transit, _ := SquareFromCoords(kingFrom.Rank(), (kingFrom.File()+kingTo.File())/2)
	p.Place(transit, rook)
}

func (mv *AppliedMove) recordCapture(pt PieceType, sq Square) {
	mv.Captured = pt
	mv.HasCapture = true
	mv.CaptureSquare = sq
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
