// Package shared holds the board geometry used by the rules engine: square
// identity, coordinates and the offset tables pieces move along.
package shared

import "strconv"

// Square indexes the 8x8 grid as rank*8+file, so a1 is 0 and h8 is 63.
type Square uint8

const (
	SquareA1 Square = 0
	SquareH8 Square = 63

	NumSquares = 64
)

func (s Square) Rank() int { return int(s) >> 3 }
func (s Square) File() int { return int(s) & 7 }

// Valid reports whether s addresses a square on the board.
func (s Square) Valid() bool { return s < NumSquares }

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	file := byte('a' + s.File())
	rank := byte('1' + s.Rank())
	return string([]byte{file, rank})
}

func (s Square) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Square) UnmarshalText(text []byte) error {
	sq, ok := CoordToSquare(string(text))
	if !ok {
		return &CoordError{Coord: string(text)}
	}
	*s = sq
	return nil
}

// CoordError reports a coordinate that is not in a1..h8 form.
type CoordError struct {
	Coord string
}

func (e *CoordError) Error() string { return "invalid square " + strconv.Quote(e.Coord) }

func CoordToSquare(coord string) (Square, bool) {
	if len(coord) != 2 {
		return 0, false
	}
	file := coord[0]
	rank := coord[1]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, false
	}
	r := int(rank - '1')
	c := int(file - 'a')
	return Square(r*8 + c), true
}

func SquareFromCoords(rank, file int) (Square, bool) {
	if rank < 0 || rank > 7 || file < 0 || file > 7 {
		return 0, false
	}
	return Square(rank*8 + file), true
}
