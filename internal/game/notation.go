package game

import "strings"

// Notation renders mv in short algebraic form. before is the position the
// move was played from.
func Notation(before *Position, mv AppliedMove, check, mate bool) string {
	var b strings.Builder
	switch {
	case mv.Castle && mv.CastleSide == CastleKingside:
		b.WriteString("O-O")
	case mv.Castle:
		b.WriteString("O-O-O")
	case mv.Piece == Pawn:
		if mv.HasCapture {
			b.WriteByte(fileLetter(mv.From))
			b.WriteByte('x')
		}
		b.WriteString(mv.To.String())
		if mv.HasPromotion {
			b.WriteByte('=')
			b.WriteString(mv.Promotion.String())
		}
	default:
		b.WriteString(mv.Piece.String())
		b.WriteString(disambiguation(before, mv))
		if mv.HasCapture {
			b.WriteByte('x')
		}
		b.WriteString(mv.To.String())
	}
	switch {
	case mate:
		b.WriteByte('#')
	case check:
		b.WriteByte('+')
	}
	return b.String()
}

func disambiguation(before *Position, mv AppliedMove) string {
	sameFile, sameRank, rivals := false, false, false
	before.Pieces(mv.Color).Iter(func(sq Square) {
		if sq == mv.From || before.pieceAt[sq].Type != mv.Piece {
			return
		}
		if !IsMoveLegal(before, sq, mv.To) {
			return
		}
		rivals = true
		sameFile = sameFile || sq.File() == mv.From.File()
		sameRank = sameRank || sq.Rank() == mv.From.Rank()
	})
	switch {
	case !rivals:
		return ""
	case !sameFile:
		return string(fileLetter(mv.From))
	case !sameRank:
		return string(rankDigit(mv.From))
	default:
		return mv.From.String()
	}
}

func fileLetter(sq Square) byte { return byte('a' + sq.File()) }

func rankDigit(sq Square) byte { return byte('1' + sq.Rank()) }
