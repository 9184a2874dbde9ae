package shared

// Offset is a (rank, file) displacement on the grid.
type Offset struct {
	DR int
	DF int
}

var (
	KnightOffsets = [8]Offset{
		{2, 1}, {1, 2}, {-1, 2}, {-2, 1},
		{-2, -1}, {-1, -2}, {1, -2}, {2, -1},
	}
	KingOffsets = [8]Offset{
		{1, 0}, {1, 1}, {0, 1}, {-1, 1},
		{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	}
	RookDirections   = [4]Offset{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	BishopDirections = [4]Offset{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
)

// Step returns the square reached from s by o, or false when it leaves the board.
func Step(s Square, o Offset) (Square, bool) {
	return SquareFromCoords(s.Rank()+o.DR, s.File()+o.DF)
}

// Ray walks from s along o until the edge of the board, calling fn for each
// square. Walking stops early when fn returns false.
func Ray(s Square, o Offset, fn func(Square) bool) {
	cur := s
	for {
		next, ok := Step(cur, o)
		if !ok || !fn(next) {
			return
		}
		cur = next
	}
}

// Line returns the squares strictly between from and to when they share a rank,
// file or diagonal, and nil otherwise.
func Line(from, to Square) []Square {
	dr := to.Rank() - from.Rank()
	df := to.File() - from.File()
	stepR := normalize(dr)
	stepF := normalize(df)

	aligned := false
	switch {
	case dr == 0 && df != 0:
		aligned = true
	case df == 0 && dr != 0:
		aligned = true
	case abs(dr) == abs(df) && dr != 0:
		aligned = true
	}

	if !aligned {
		return nil
	}

	distance := max(abs(dr), abs(df)) - 1
	if distance <= 0 {
		return nil
	}

	squares := make([]Square, 0, distance)
	rank := from.Rank()
	file := from.File()
	for i := 0; i < distance; i++ {
		rank += stepR
		file += stepF
		sq, ok := SquareFromCoords(rank, file)
		if !ok {
			return nil
		}
		squares = append(squares, sq)
	}
	return squares
}

func normalize(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
