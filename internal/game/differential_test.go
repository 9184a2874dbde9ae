package game

import (
	"testing"

	"github.com/notnil/chess"
)

// TestLegalMovesMatchReferenceLibrary compares the from/to pairs of every
// legal move with github.com/notnil/chess on positions rich in special moves.
func TestLegalMovesMatchReferenceLibrary(t *testing.T) {
	fixtures := append([]string{
		"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1",
		"4kr2/8/8/8/8/8/8/R3K2R w KQ - 0 1",
		"8/8/8/KPp4r/8/8/8/7k w - c6 0 2",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
		"4k3/8/8/8/7b/8/3R4/4K3 w - - 0 1",
	}, legalityFixtures...)

	for _, fen := range fixtures {
		fen := fen
		t.Run(fen, func(t *testing.T) {
			opt, err := chess.FEN(fen)
			if err != nil {
				t.Fatalf("reference FEN: %v", err)
			}
			ref := chess.NewGame(opt)
			want := make(map[string]bool)
			for _, m := range ref.ValidMoves() {
				want[m.S1().String()+m.S2().String()] = true
			}

			p, toMove := mustDecode(t, fen)
			got := make(map[string]bool)
			p.Pieces(toMove).Iter(func(from Square) {
				LegalMoves(&p, from).Iter(func(to Square) {
					got[from.String()+to.String()] = true
				})
			})

			for mv := range want {
				if !got[mv] {
					t.Fatalf("missing legal move %s", mv)
				}
			}
			for mv := range got {
				if !want[mv] {
					t.Fatalf("extra move %s", mv)
				}
			}
		})
	}
}
