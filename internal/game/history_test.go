package game

import (
	"errors"
	"testing"
)

func TestThreefoldRepetition(t *testing.T) {
	g := NewGame()
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}

	playCoords(t, g, shuffle...)
	if g.Log().IsThreefoldRepetition() {
		t.Fatalf("second occurrence flagged as threefold")
	}
	playCoords(t, g, shuffle[:3]...)
	if g.Status().Over() {
		t.Fatalf("game over before the third occurrence: %s", g.Status())
	}
	playCoords(t, g, shuffle[3])

	if !g.Log().IsThreefoldRepetition() {
		t.Fatalf("expected threefold repetition")
	}
	if reason, ok := g.DrawReason(); !ok || reason != DrawThreefoldRepetition {
		t.Fatalf("draw reason = %q ok=%v", reason, ok)
	}
	if g.Status() != StatusDraw {
		t.Fatalf("status = %s, want draw", g.Status())
	}
}

func TestPositionKeyIgnoresCounters(t *testing.T) {
	a := PositionKey("8/8/8/4k3/8/8/8/4K3 w - - 0 1")
	b := PositionKey("8/8/8/4k3/8/8/8/4K3 w - - 37 80")
	if a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
	if c := PositionKey("8/8/8/4k3/8/8/8/4K3 b - - 0 1"); c == a {
		t.Fatalf("side to move must be part of the key")
	}
}

func TestRestoreAndTruncate(t *testing.T) {
	g := NewGame()
	playCoords(t, g, "e2e4", "e7e5", "g1f3")
	if g.Log().Len() != 3 {
		t.Fatalf("log length = %d, want 3", g.Log().Len())
	}

	if err := g.Restore(0); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if g.Turn() != Black {
		t.Fatalf("turn after restore = %s, want black", g.Turn())
	}
	if g.FEN() != g.Log().Records()[0].FEN {
		t.Fatalf("FEN after restore = %s", g.FEN())
	}
	if g.Log().Len() != 3 || g.Log().Cursor() != 0 {
		t.Fatalf("restore must keep the future until a move is made")
	}

	playCoords(t, g, "c7c5")
	records := g.Log().Records()
	if len(records) != 2 {
		t.Fatalf("log length after branching = %d, want 2", len(records))
	}
	if records[1].Notation != "c5" {
		t.Fatalf("last record = %s, want c5", records[1].Notation)
	}
	if fens := g.Log().FENs(); fens[1] != g.FEN() {
		t.Fatalf("snapshot mismatch: %s vs %s", fens[1], g.FEN())
	}

	if err := g.Restore(-1); err != nil {
		t.Fatalf("restore start: %v", err)
	}
	if g.FEN() != StartFEN {
		t.Fatalf("FEN after restoring start = %s", g.FEN())
	}
}

func TestRestoreOutOfRange(t *testing.T) {
	g := NewGame()
	playCoords(t, g, "e2e4")
	before := g.Version()
	for _, idx := range []int{-2, 1, 10} {
		if err := g.Restore(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("Restore(%d) = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
	if g.Version() != before || g.Log().Cursor() != 0 {
		t.Fatalf("failed restore changed the game")
	}
}

func TestRestoreReopensFinishedGame(t *testing.T) {
	g := NewGame()
	playCoords(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
	if g.Status() != StatusCheckmate {
		t.Fatalf("status = %s, want checkmate", g.Status())
	}
	if err := g.Restore(2); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if g.Status().Over() {
		t.Fatalf("status after restore = %s", g.Status())
	}
	playCoords(t, g, "b8c6")
	if g.Log().Len() != 4 {
		t.Fatalf("log length = %d, want 4", g.Log().Len())
	}
}
