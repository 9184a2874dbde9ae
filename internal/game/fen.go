package game

import (
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// MaxMoveCounter bounds both FEN move counters. Play saturates at it so every
// encoded position decodes again.
const MaxMoveCounter = 1 << 20

// EncodeFEN serializes p with toMove as the side to move.
func EncodeFEN(p *Position, toMove Color) string {
	var b strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq, _ := SquareFromCoords(rank, file)
			pc, ok := p.PieceAt(sq)
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			b.WriteByte(pc.Symbol())
		}
		if empty > 0 {
			b.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			b.WriteByte('/')
		}
	}
	b.WriteByte(' ')
	if toMove == White {
		b.WriteByte('w')
	} else {
		b.WriteByte('b')
	}
	b.WriteByte(' ')
	b.WriteString(p.CastlingRights().String())
	b.WriteByte(' ')
	b.WriteString(p.EnPassant.String())
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(uint64(p.HalfmoveClock), 10))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(uint64(p.FullmoveNumber), 10))
	return b.String()
}

// DecodeFEN parses a six-field FEN record. Move flags that FEN does not carry
// are inferred: pawns off their start rank have moved, kings and rooks have
// not moved exactly when the castling field grants a right that uses them.
func DecodeFEN(text string) (Position, Color, error) {
	fields := strings.Fields(text)
	if len(fields) != 6 {
		return Position{}, White, parseErrorf("", text, "expected 6 fields, got %d", len(fields))
	}

	p := NewEmptyPosition()
	if err := decodePlacement(&p, fields[0]); err != nil {
		return Position{}, White, err
	}

	var toMove Color
	switch fields[1] {
	case "w":
		toMove = White
	case "b":
		toMove = Black
	default:
		return Position{}, White, parseErrorf("side to move", fields[1], "want w or b")
	}

	rights, err := ParseCastlingRights(fields[2])
	if err != nil {
		return Position{}, White, parseErrorf("castling", fields[2], "%v", err)
	}
	if err := applyCastlingRights(&p, rights); err != nil {
		return Position{}, White, err
	}

	ep, err := ParseEnPassantTarget(fields[3])
	if err != nil {
		return Position{}, White, parseErrorf("en passant", fields[3], "%v", err)
	}
	if err := applyEnPassant(&p, ep, toMove, fields[3]); err != nil {
		return Position{}, White, err
	}

	halfmove, err := strconv.ParseUint(fields[4], 10, 32)
	if err != nil || halfmove > MaxMoveCounter {
		return Position{}, White, parseErrorf("halfmove clock", fields[4], "not an integer in [0, %d]", MaxMoveCounter)
	}
	fullmove, err := strconv.ParseUint(fields[5], 10, 32)
	if err != nil || fullmove < 1 || fullmove > MaxMoveCounter {
		return Position{}, White, parseErrorf("fullmove number", fields[5], "not an integer in [1, %d]", MaxMoveCounter)
	}
	p.HalfmoveClock = uint32(halfmove)
	p.FullmoveNumber = uint32(fullmove)

	if IsCheck(&p, toMove.Opposite()) {
		return Position{}, White, parseErrorf("", text, "%s to move while %s is in check", toMove, toMove.Opposite())
	}
	return p, toMove, nil
}

func decodePlacement(p *Position, field string) error {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return parseErrorf("placement", field, "expected 8 ranks, got %d", len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			pc, ok := PieceFromSymbol(c)
			if !ok {
				return parseErrorf("placement", row, "unknown piece letter %q", string(c))
			}
			if file > 7 {
				return parseErrorf("placement", row, "rank %d is longer than 8 squares", rank+1)
			}
			if pc.Type == Pawn {
				if rank == 0 || rank == 7 {
					return parseErrorf("placement", row, "pawn on rank %d", rank+1)
				}
				pc.HasMoved = rank != pc.Color.PawnRank()
			}
			sq, _ := SquareFromCoords(rank, file)
			p.Place(sq, pc)
			file++
		}
		if file != 8 {
			return parseErrorf("placement", row, "rank %d covers %d squares", rank+1, file)
		}
	}
	for _, color := range [2]Color{White, Black} {
		if n := p.kings(color).Count(); n != 1 {
			return parseErrorf("placement", field, "%s has %d kings", color, n)
		}
	}
	return nil
}

func applyCastlingRights(p *Position, rights CastlingRights) error {
	p.allOcc.Iter(func(sq Square) {
		if t := p.pieceAt[sq].Type; t == King || t == Rook {
			p.pieceAt[sq].HasMoved = true
		}
	})
	for _, color := range [2]Color{White, Black} {
		for _, side := range [2]CastlingSide{CastleKingside, CastleQueenside} {
			right := CastlingRight(color, side)
			if !rights.Has(right) {
				continue
			}
			kingSq := homeKingSquare(color)
			rookSq := castleRookSquare(color, side)
			if !p.placedOn(kingSq, color, King) || !p.placedOn(rookSq, color, Rook) {
				return parseErrorf("castling", right.String(), "%s %s castling without king and rook at home", color, side)
			}
			p.pieceAt[kingSq].HasMoved = false
			p.pieceAt[rookSq].HasMoved = false
		}
	}
	return nil
}

func applyEnPassant(p *Position, ep EnPassantTarget, toMove Color, field string) error {
	target, ok := ep.Square()
	if !ok {
		return nil
	}
	mover := toMove.Opposite()
	if target.Rank() != mover.PawnRank()+mover.Forward() {
		return parseErrorf("en passant", field, "target not behind a %s pawn", mover)
	}
	victim, _ := SquareFromCoords(target.Rank()+mover.Forward(), target.File())
	origin, _ := SquareFromCoords(mover.PawnRank(), target.File())
	if !p.placedOn(victim, mover, Pawn) || p.Occupied(target) || p.Occupied(origin) {
		return parseErrorf("en passant", field, "no double-stepped pawn in front of target")
	}
	p.EnPassant = ep
	p.pieceAt[victim].EnPassantVulnerable = true
	return nil
}

func (p *Position) placedOn(sq Square, color Color, pt PieceType) bool {
	pc, ok := p.PieceAt(sq)
	return ok && pc.Color == color && pc.Type == pt
}
