package game

import "testing"

func TestNotationScholarsMate(t *testing.T) {
	g := NewGame()
	playCoords(t, g, "e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7")

	want := []string{"e4", "e5", "Bc4", "Nc6", "Qh5", "Nf6", "Qxf7#"}
	records := g.Log().Records()
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i, rec := range records {
		if rec.Notation != want[i] {
			t.Fatalf("ply %d notation = %s, want %s", i, rec.Notation, want[i])
		}
	}
}

func TestNotation(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want string
	}{
		{"kingside castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"queenside castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", "O-O-O"},
		{"file disambiguation", "4k3/8/8/8/8/8/8/R4RK1 w - - 0 1", "a1c1", "Rac1"},
		{"rank disambiguation", "4k3/8/8/8/R7/8/8/R3K3 w - - 0 1", "a1a2", "R1a2"},
		{"pawn capture", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "e4d5", "exd5"},
		{"promotion with check", "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8q", "a8=Q+"},
		{"capture with check", "4k3/8/8/8/q7/8/8/R5K1 b - - 0 1", "a4a1", "Qxa1+"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGameFromFEN(tt.fen)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			rec, err := g.MoveCoordinate(tt.move)
			if err != nil {
				t.Fatalf("move %s: %v", tt.move, err)
			}
			if rec.Notation != tt.want {
				t.Fatalf("notation = %s, want %s", rec.Notation, tt.want)
			}
		})
	}
}
