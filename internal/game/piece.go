package game

import "chess_rules/internal/shared"

// Piece is a single man on the board. Pieces do not know their square; the
// Position places them.
type Piece struct {
	Type                PieceType `json:"type"`
	Color               Color     `json:"color"`
	HasMoved            bool      `json:"hasMoved"`
	EnPassantVulnerable bool      `json:"enPassantVulnerable,omitempty"`
}

func NewPiece(color Color, pt PieceType) Piece {
	return Piece{Type: pt, Color: color}
}

// Symbol is the FEN letter: uppercase for White, lowercase for Black.
func (pc Piece) Symbol() byte {
	var c byte
	switch pc.Type {
	case Pawn:
		c = 'p'
	case Knight:
		c = 'n'
	case Bishop:
		c = 'b'
	case Rook:
		c = 'r'
	case Queen:
		c = 'q'
	case King:
		c = 'k'
	default:
		c = '?'
	}
	if pc.Color == White {
		c -= 'a' - 'A'
	}
	return c
}

// PieceFromSymbol is the inverse of Symbol.
func PieceFromSymbol(c byte) (Piece, bool) {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c -= 'a' - 'A'
	}
	var pt PieceType
	switch c {
	case 'P':
		pt = Pawn
	case 'N':
		pt = Knight
	case 'B':
		pt = Bishop
	case 'R':
		pt = Rook
	case 'Q':
		pt = Queen
	case 'K':
		pt = King
	default:
		return Piece{}, false
	}
	return NewPiece(color, pt), true
}

// Attacks returns the squares pc standing on from attacks. Pawns attack only
// diagonally forward; sliders stop at the first occupied square, which is
// included.
func (pc Piece) Attacks(p *Position, from Square) Bitboard {
	switch pc.Type {
	case Pawn:
		var out Bitboard
		for _, df := range [2]int{-1, 1} {
			if sq, ok := shared.Step(from, shared.Offset{DR: pc.Color.Forward(), DF: df}); ok {
				out = out.Add(sq)
			}
		}
		return out
	case Knight:
		return offsetSet(from, shared.KnightOffsets[:])
	case King:
		return offsetSet(from, shared.KingOffsets[:])
	case Bishop:
		return slideSet(p, from, shared.BishopDirections[:])
	case Rook:
		return slideSet(p, from, shared.RookDirections[:])
	case Queen:
		return slideSet(p, from, shared.BishopDirections[:]) | slideSet(p, from, shared.RookDirections[:])
	default:
		return 0
	}
}

// Destinations returns the candidate destinations of pc on from, ignoring
// whether the move exposes its own king. Castling is added by the legality
// engine because it depends on attacked squares.
func (pc Piece) Destinations(p *Position, from Square) Bitboard {
	own := p.occupancy[pc.Color.Index()]
	enemyKing := p.kings(pc.Color.Opposite())
	if pc.Type != Pawn {
		return pc.Attacks(p, from) &^ own &^ enemyKing
	}

	var out Bitboard
	one, ok := shared.Step(from, shared.Offset{DR: pc.Color.Forward()})
	if ok && !p.Occupied(one) {
		out = out.Add(one)
		if !pc.HasMoved && from.Rank() == pc.Color.PawnRank() {
			if two, ok := shared.Step(one, shared.Offset{DR: pc.Color.Forward()}); ok && !p.Occupied(two) {
				out = out.Add(two)
			}
		}
	}

	enemies := p.occupancy[pc.Color.Opposite().Index()] &^ enemyKing
	attacks := pc.Attacks(p, from)
	out |= attacks & enemies
	if target, ok := p.EnPassant.Square(); ok && attacks.Has(target) && p.enPassantVictim(target, pc.Color) {
		out = out.Add(target)
	}
	return out
}

func offsetSet(from Square, offsets []shared.Offset) Bitboard {
	var out Bitboard
	for _, o := range offsets {
		if sq, ok := shared.Step(from, o); ok {
			out = out.Add(sq)
		}
	}
	return out
}

func slideSet(p *Position, from Square, dirs []shared.Offset) Bitboard {
	var out Bitboard
	for _, d := range dirs {
		shared.Ray(from, d, func(sq Square) bool {
			out = out.Add(sq)
			return !p.Occupied(sq)
		})
	}
	return out
}
