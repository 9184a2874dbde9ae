package game

import (
	"fmt"

	"chess_rules/internal/shared"
)

// Position is the board plus the auxiliary state needed to continue the game.
// It is a plain value: assigning it yields an independent copy, which is how
// the legality engine simulates moves.
type Position struct {
	pieceAt        [shared.NumSquares]Piece
	occupancy      [2]Bitboard
	allOcc         Bitboard
	EnPassant      EnPassantTarget
	HalfmoveClock  uint32
	FullmoveNumber uint32
}

// NewEmptyPosition returns a board with no pieces on move one.
func NewEmptyPosition() Position {
	return Position{EnPassant: NoEnPassantTarget(), FullmoveNumber: 1}
}

// NewStartPosition returns the standard initial setup.
func NewStartPosition() Position {
	p := NewEmptyPosition()
	order := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for _, color := range [2]Color{White, Black} {
		for file, pt := range order {
			sq, _ := SquareFromCoords(color.HomeRank(), file)
			p.Place(sq, NewPiece(color, pt))
		}
		for file := 0; file < 8; file++ {
			sq, _ := SquareFromCoords(color.PawnRank(), file)
			p.Place(sq, NewPiece(color, Pawn))
		}
	}
	return p
}

func (p *Position) PieceAt(sq Square) (Piece, bool) {
	if !sq.Valid() || !p.allOcc.Has(sq) {
		return Piece{}, false
	}
	return p.pieceAt[sq], true
}

func (p *Position) Occupied(sq Square) bool { return p.allOcc.Has(sq) }

// Occupancy is the set of occupied squares.
func (p *Position) Occupancy() Bitboard { return p.allOcc }

// Pieces is the set of squares holding pieces of color.
func (p *Position) Pieces(color Color) Bitboard { return p.occupancy[color.Index()] }

// Place puts pc on sq, replacing whatever stood there.
func (p *Position) Place(sq Square, pc Piece) {
	if !sq.Valid() {
		return
	}
	p.Remove(sq)
	p.pieceAt[sq] = pc
	p.occupancy[pc.Color.Index()] = p.occupancy[pc.Color.Index()].Add(sq)
	p.allOcc = p.allOcc.Add(sq)
}

// Remove clears sq and returns the piece that stood there.
func (p *Position) Remove(sq Square) (Piece, bool) {
	pc, ok := p.PieceAt(sq)
	if !ok {
		return Piece{}, false
	}
	p.pieceAt[sq] = Piece{}
	p.occupancy[pc.Color.Index()] = p.occupancy[pc.Color.Index()].Remove(sq)
	p.allOcc = p.allOcc.Remove(sq)
	return pc, true
}

func (p *Position) kings(color Color) Bitboard {
	var out Bitboard
	p.occupancy[color.Index()].Iter(func(sq Square) {
		if p.pieceAt[sq].Type == King {
			out = out.Add(sq)
		}
	})
	return out
}

// KingSquare locates the king of color.
func (p *Position) KingSquare(color Color) (Square, bool) {
	k := p.kings(color)
	if k.Empty() {
		return 0, false
	}
	sq, _ := k.PopLSB()
	return sq, true
}

// CastlingRights derives the FEN castling field from the HasMoved flags of
// kings and rooks that still stand on their home squares.
func (p *Position) CastlingRights() CastlingRights {
	rights := CastlingNone
	for _, color := range [2]Color{White, Black} {
		if !p.unmovedOn(homeKingSquare(color), color, King) {
			continue
		}
		for _, side := range [2]CastlingSide{CastleKingside, CastleQueenside} {
			if p.unmovedOn(castleRookSquare(color, side), color, Rook) {
				rights = rights.With(CastlingRight(color, side))
			}
		}
	}
	return rights
}

func (p *Position) unmovedOn(sq Square, color Color, pt PieceType) bool {
	pc, ok := p.PieceAt(sq)
	return ok && pc.Color == color && pc.Type == pt && !pc.HasMoved
}

func homeKingSquare(color Color) Square {
	sq, _ := SquareFromCoords(color.HomeRank(), 4)
	return sq
}

func castleRookSquare(color Color, side CastlingSide) Square {
	sq, _ := SquareFromCoords(color.HomeRank(), side.rookFile())
	return sq
}

// enPassantVictim reports whether a pawn of capturer may take en passant on
// target: target is empty and an enemy pawn stands just behind it.
func (p *Position) enPassantVictim(target Square, capturer Color) bool {
	if p.Occupied(target) {
		return false
	}
	sq, ok := SquareFromCoords(target.Rank()-capturer.Forward(), target.File())
	if !ok {
		return false
	}
	victim, ok := p.PieceAt(sq)
	return ok && victim.Type == Pawn && victim.Color != capturer
}

func (p *Position) clearEnPassantFlags() {
	p.allOcc.Iter(func(sq Square) {
		p.pieceAt[sq].EnPassantVulnerable = false
	})
}

// CountMaterial returns how many pieces of each type and color are on board.
func (p *Position) CountMaterial() [2][6]int {
	var out [2][6]int
	p.allOcc.Iter(func(sq Square) {
		pc := p.pieceAt[sq]
		out[pc.Color.Index()][pc.Type]++
	})
	return out
}

// CheckInvariants verifies the structural rules every reachable position keeps.
func (p *Position) CheckInvariants() error {
	for _, color := range [2]Color{White, Black} {
		if n := p.kings(color).Count(); n != 1 {
			return fmt.Errorf("%w: %s has %d kings", ErrInvariantViolation, color, n)
		}
	}
	if p.occupancy[0]&p.occupancy[1] != 0 || p.occupancy[0]|p.occupancy[1] != p.allOcc {
		return fmt.Errorf("%w: occupancy sets disagree", ErrInvariantViolation)
	}
	if p.FullmoveNumber < 1 {
		return fmt.Errorf("%w: fullmove number %d", ErrInvariantViolation, p.FullmoveNumber)
	}
	return nil
}
