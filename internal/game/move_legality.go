package game

import "chess_rules/internal/shared"

// PseudoLegalMoves returns the destinations the piece on from could reach by
// its movement pattern, including castling, before king safety is considered.
func PseudoLegalMoves(p *Position, from Square) Bitboard {
	pc, ok := p.PieceAt(from)
	if !ok {
		return 0
	}
	moves := pc.Destinations(p, from)
	if pc.Type == King {
		moves |= castlingDestinations(p, pc, from)
	}
	return moves
}

// LegalMoves returns every destination the piece on from may legally move to.
// An empty square yields an empty set.
func LegalMoves(p *Position, from Square) Bitboard {
	pc, ok := p.PieceAt(from)
	if !ok {
		return 0
	}
	var legal Bitboard
	PseudoLegalMoves(p, from).Iter(func(to Square) {
		if !leavesKingInCheck(p, pc.Color, from, to) {
			legal = legal.Add(to)
		}
	})
	return legal
}

func IsMoveLegal(p *Position, from, to Square) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	return LegalMoves(p, from).Has(to)
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func IsSquareAttacked(p *Position, sq Square, by Color) bool {
	attacked := false
	p.Pieces(by).Iter(func(from Square) {
		if attacked {
			return
		}
		attacked = p.pieceAt[from].Attacks(p, from).Has(sq)
	})
	return attacked
}

// HasLegalMove reports whether color has at least one legal move.
func HasLegalMove(p *Position, color Color) bool {
	found := false
	p.Pieces(color).Iter(func(from Square) {
		if !found {
			found = !LegalMoves(p, from).Empty()
		}
	})
	return found
}

func leavesKingInCheck(p *Position, color Color, from, to Square) bool {
	scratch := *p
	scratch.play(from, to, Queen)
	return IsCheck(&scratch, color)
}

func castlingDestinations(p *Position, king Piece, from Square) Bitboard {
	if king.HasMoved || from != homeKingSquare(king.Color) {
		return 0
	}
	enemy := king.Color.Opposite()
	if IsSquareAttacked(p, from, enemy) {
		return 0
	}
	var out Bitboard
	for _, side := range [2]CastlingSide{CastleKingside, CastleQueenside} {
		rookSq := castleRookSquare(king.Color, side)
		if !p.unmovedOn(rookSq, king.Color, Rook) {
			continue
		}
		pathEmpty := true
		for _, sq := range shared.Line(from, rookSq) {
			if p.Occupied(sq) {
				pathEmpty = false
				break
			}
		}
		if !pathEmpty {
			continue
		}
		target, _ := SquareFromCoords(from.Rank(), side.kingTargetFile())
		transit, _ := SquareFromCoords(from.Rank(), (from.File()+target.File())/2)
		if IsSquareAttacked(p, transit, enemy) || IsSquareAttacked(p, target, enemy) {
			continue
		}
		out = out.Add(target)
	}
	return out
}
