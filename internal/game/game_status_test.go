package game

import "testing"

func TestScholarsMate(t *testing.T) {
	g := NewGame()
	playCoords(t, g, "e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7")

	pos := g.Position()
	if !IsCheck(&pos, Black) {
		t.Fatalf("black should be in check")
	}
	if !IsCheckmate(&pos, Black) {
		t.Fatalf("black should be checkmated")
	}
	if IsStalemate(&pos, Black) {
		t.Fatalf("checkmate reported as stalemate")
	}
	if g.Status() != StatusCheckmate {
		t.Fatalf("status = %s, want checkmate", g.Status())
	}
	if winner, ok := g.Winner(); !ok || winner != White {
		t.Fatalf("winner = %v ok=%v, want white", winner, ok)
	}
	if g.Result() != "1-0" {
		t.Fatalf("result = %s, want 1-0", g.Result())
	}
}

func TestStalemate(t *testing.T) {
	p, _ := mustDecode(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if !IsStalemate(&p, Black) {
		t.Fatalf("expected stalemate")
	}
	if IsCheckmate(&p, Black) {
		t.Fatalf("stalemate reported as checkmate")
	}
	reason, ok := DrawReasonFor(&p, Black)
	if !ok || reason != DrawStalemate {
		t.Fatalf("draw reason = %q ok=%v, want stalemate", reason, ok)
	}
	if _, ok := DrawReasonFor(&p, White); ok {
		t.Fatalf("white to move in this position is not a draw")
	}
}

func TestIsInsufficientMaterial(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want bool
	}{
		{"bare kings", "8/8/8/4k3/8/8/8/4K3 w - - 0 1", true},
		{"white knight", "8/8/8/4k3/8/8/8/3NK3 w - - 0 1", true},
		{"black bishop", "8/8/2b5/4k3/8/8/8/4K3 w - - 0 1", true},
		{"two minors same side", "8/8/8/4k3/8/8/8/2BNK3 w - - 0 1", false},
		{"one minor each", "8/8/2n5/4k3/8/8/8/3BK3 w - - 0 1", false},
		{"pawn", "8/8/8/4k3/8/8/4P3/4K3 w - - 0 1", false},
		{"rook", "8/8/8/4k3/8/8/8/R3K3 w - - 0 1", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			p, _ := mustDecode(t, tt.fen)
			if got := IsInsufficientMaterial(&p); got != tt.want {
				t.Fatalf("IsInsufficientMaterial = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFiftyMoveRule(t *testing.T) {
	g, err := NewGameFromFEN("8/8/8/4k3/8/8/R7/4K3 w - - 99 60")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	pos := g.Position()
	if _, ok := DrawReasonFor(&pos, White); ok {
		t.Fatalf("draw reported before the hundredth halfmove")
	}

	playCoords(t, g, "a2a3")
	pos = g.Position()
	if pos.HalfmoveClock != 100 {
		t.Fatalf("halfmove clock = %d, want 100", pos.HalfmoveClock)
	}
	reason, ok := DrawReasonFor(&pos, Black)
	if !ok || reason != DrawFiftyMoveRule {
		t.Fatalf("draw reason = %q ok=%v, want fifty-move rule", reason, ok)
	}
	if g.Status() != StatusDraw || g.Result() != "1/2-1/2" {
		t.Fatalf("status = %s result = %s, want draw", g.Status(), g.Result())
	}
	if _, err := g.MoveCoordinate("e5e4"); err == nil {
		t.Fatalf("move accepted after the game was drawn")
	}
}

func TestMissingKingIsNeverInCheck(t *testing.T) {
	p := NewEmptyPosition()
	p.Place(MustSquare("a1"), NewPiece(Black, Rook))
	if IsCheck(&p, White) {
		t.Fatalf("side without a king reported in check")
	}
}
