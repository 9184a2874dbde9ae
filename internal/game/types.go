package game

import (
	"fmt"
	"strings"

	"chess_rules/internal/shared"
)

type Square = shared.Square

const NumSquares = shared.NumSquares

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Index() int { return int(c) }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// HomeRank is the rank a color's pieces start on.
func (c Color) HomeRank() int {
	if c == White {
		return 0
	}
	return 7
}

// PawnRank is the rank a color's pawns start on.
func (c Color) PawnRank() int {
	if c == White {
		return 1
	}
	return 6
}

// PromotionRank is the rank a color's pawns promote on.
func (c Color) PromotionRank() int {
	if c == White {
		return 7
	}
	return 0
}

// Forward is the rank delta of a single pawn push.
func (c Color) Forward() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(text []byte) error {
	parsed, ok := ParseColor(string(text))
	if !ok {
		return fmt.Errorf("invalid color %q", string(text))
	}
	*c = parsed
	return nil
}

func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	default:
		return White, false
	}
}

type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

func (p PieceType) String() string {
	switch p {
	case Pawn:
		return "P"
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return fmt.Sprintf("piece(%d)", p)
	}
}

// Name is the lowercase English name used by the JSON API.
func (p PieceType) Name() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "?"
	}
}

func (p PieceType) MarshalText() ([]byte, error) { return []byte(p.Name()), nil }

func (p *PieceType) UnmarshalText(text []byte) error {
	parsed, ok := ParsePieceType(string(text))
	if !ok {
		return fmt.Errorf("invalid piece type %q", string(text))
	}
	*p = parsed
	return nil
}

func ParsePieceType(s string) (PieceType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "pawn":
		return Pawn, true
	case "n", "knight":
		return Knight, true
	case "b", "bishop":
		return Bishop, true
	case "r", "rook":
		return Rook, true
	case "q", "queen":
		return Queen, true
	case "k", "king":
		return King, true
	default:
		return Pawn, false
	}
}

// IsMinor reports whether p is a bishop or a knight.
func (p PieceType) IsMinor() bool { return p == Bishop || p == Knight }

// CanPromoteTo reports whether a pawn may become p.
func (p PieceType) CanPromoteTo() bool {
	return p == Queen || p == Rook || p == Bishop || p == Knight
}

func ParsePromotionPiece(s string) (PieceType, bool) {
	pt, ok := ParsePieceType(s)
	if !ok || !pt.CanPromoteTo() {
		return 0, false
	}
	return pt, true
}

func CoordToSquare(coord string) (Square, bool) { return shared.CoordToSquare(coord) }

func SquareFromCoords(rank, file int) (Square, bool) { return shared.SquareFromCoords(rank, file) }

// MustSquare converts a literal coordinate and panics on malformed input.
func MustSquare(coord string) Square {
	sq, ok := shared.CoordToSquare(coord)
	if !ok {
		panic(fmt.Sprintf("invalid square %q", coord))
	}
	return sq
}

type CastlingRights uint8

const (
	CastlingNone          CastlingRights = 0
	CastlingWhiteKingside CastlingRights = 1 << iota
	CastlingWhiteQueenside
	CastlingBlackKingside
	CastlingBlackQueenside
	CastlingAll = CastlingWhiteKingside | CastlingWhiteQueenside | CastlingBlackKingside | CastlingBlackQueenside
)

type CastlingSide uint8

const (
	CastleKingside CastlingSide = iota
	CastleQueenside
)

func (cs CastlingSide) String() string {
	switch cs {
	case CastleKingside:
		return "kingside"
	case CastleQueenside:
		return "queenside"
	default:
		return "?"
	}
}

// rookFile is the file of the rook that castles on this side.
func (cs CastlingSide) rookFile() int {
	if cs == CastleQueenside {
		return 0
	}
	return 7
}

// kingTargetFile is the file the king lands on.
func (cs CastlingSide) kingTargetFile() int {
	if cs == CastleQueenside {
		return 2
	}
	return 6
}

func CastlingRight(color Color, side CastlingSide) CastlingRights {
	switch color {
	case White:
		if side == CastleQueenside {
			return CastlingWhiteQueenside
		}
		return CastlingWhiteKingside
	case Black:
		if side == CastleQueenside {
			return CastlingBlackQueenside
		}
		return CastlingBlackKingside
	default:
		return CastlingNone
	}
}

func (cr CastlingRights) Has(right CastlingRights) bool { return cr&right != 0 }

func (cr CastlingRights) HasSide(color Color, side CastlingSide) bool {
	return cr.Has(CastlingRight(color, side))
}

func (cr CastlingRights) With(right CastlingRights) CastlingRights { return cr | right }

func (cr CastlingRights) String() string {
	if cr == CastlingNone {
		return "-"
	}
	var b strings.Builder
	if cr.Has(CastlingWhiteKingside) {
		b.WriteByte('K')
	}
	if cr.Has(CastlingWhiteQueenside) {
		b.WriteByte('Q')
	}
	if cr.Has(CastlingBlackKingside) {
		b.WriteByte('k')
	}
	if cr.Has(CastlingBlackQueenside) {
		b.WriteByte('q')
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

func ParseCastlingRights(s string) (CastlingRights, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return CastlingNone, fmt.Errorf("empty castling field")
	}
	if trimmed == "-" {
		return CastlingNone, nil
	}
	var rights CastlingRights
	for _, r := range trimmed {
		var right CastlingRights
		switch r {
		case 'K':
			right = CastlingWhiteKingside
		case 'Q':
			right = CastlingWhiteQueenside
		case 'k':
			right = CastlingBlackKingside
		case 'q':
			right = CastlingBlackQueenside
		default:
			return CastlingNone, fmt.Errorf("invalid castling flag %q", string(r))
		}
		if rights.Has(right) {
			return CastlingNone, fmt.Errorf("duplicate castling flag %q", string(r))
		}
		rights |= right
	}
	return rights, nil
}

func (cr CastlingRights) MarshalText() ([]byte, error) { return []byte(cr.String()), nil }

func (cr *CastlingRights) UnmarshalText(text []byte) error {
	parsed, err := ParseCastlingRights(string(text))
	if err != nil {
		return err
	}
	*cr = parsed
	return nil
}

// EnPassantTarget is the square a pawn moves to when capturing en passant.
type EnPassantTarget struct {
	square Square
	valid  bool
}

func NewEnPassantTarget(sq Square) EnPassantTarget { return EnPassantTarget{square: sq, valid: true} }

func NoEnPassantTarget() EnPassantTarget { return EnPassantTarget{} }

func (e EnPassantTarget) Valid() bool { return e.valid }

func (e EnPassantTarget) Square() (Square, bool) {
	if !e.valid {
		return 0, false
	}
	return e.square, true
}

func (e EnPassantTarget) String() string {
	if !e.valid {
		return "-"
	}
	return e.square.String()
}

func ParseEnPassantTarget(s string) (EnPassantTarget, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "-" {
		return EnPassantTarget{}, nil
	}
	sq, ok := CoordToSquare(strings.ToLower(trimmed))
	if !ok {
		return EnPassantTarget{}, fmt.Errorf("invalid en-passant square %q", s)
	}
	if sq.Rank() != 2 && sq.Rank() != 5 {
		return EnPassantTarget{}, fmt.Errorf("en-passant square %q not on rank 3 or 6", s)
	}
	return NewEnPassantTarget(sq), nil
}

func (e EnPassantTarget) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *EnPassantTarget) UnmarshalText(text []byte) error {
	parsed, err := ParseEnPassantTarget(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
