package game

// Occupant is what a renderer needs to draw a piece.
type Occupant struct {
	Type    PieceType `json:"type"`
	Color   Color     `json:"color"`
	Present bool      `json:"present"`
}

// SquareView is the per-square state handed to renderers.
type SquareView struct {
	Square             Square   `json:"square"`
	Occupant           Occupant `json:"occupant"`
	IsLegalDestination bool     `json:"isLegalDestination"`
	IsKingInCheck      bool     `json:"isKingInCheck"`
	IsCheckmatedKing   bool     `json:"isCheckmatedKing"`
}

// Squares describes all 64 squares in index order, a1 first. When
// hasSelection is set the legal destinations of the piece on selected are
// marked.
func (g *Game) Squares(selected Square, hasSelection bool) []SquareView {
	var dests Bitboard
	if hasSelection {
		dests = g.LegalMoves(selected)
	}
	checked := IsCheck(&g.pos, g.turn)
	mated := g.status == StatusCheckmate
	king, _ := g.pos.KingSquare(g.turn)

	out := make([]SquareView, NumSquares)
	for i := range out {
		sq := Square(i)
		v := SquareView{Square: sq, IsLegalDestination: dests.Has(sq)}
		if pc, ok := g.pos.PieceAt(sq); ok {
			v.Occupant = Occupant{Type: pc.Type, Color: pc.Color, Present: true}
			if sq == king {
				v.IsKingInCheck = checked
				v.IsCheckmatedKing = mated
			}
		}
		out[i] = v
	}
	return out
}
