package game

import (
	"sort"
	"strings"
	"testing"
)

var legalityFixtures = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"rnbqkbnr/1pp1pppp/p7/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
	"4k3/4r3/8/8/8/8/4N3/4K3 w - - 0 1",
}

func TestLegalMovesNeverLeaveKingInCheck(t *testing.T) {
	for _, fen := range legalityFixtures {
		fen := fen
		t.Run(fen, func(t *testing.T) {
			p, toMove := mustDecode(t, fen)
			p.Pieces(toMove).Iter(func(from Square) {
				LegalMoves(&p, from).Iter(func(to Square) {
					scratch := p
					req := MoveRequest{From: from, To: to, Promotion: Queen, HasPromotion: true}
					if _, err := scratch.Apply(req); err != nil {
						t.Fatalf("%s%s: %v", from, to, err)
					}
					if IsCheck(&scratch, toMove) {
						t.Fatalf("%s%s leaves %s in check", from, to, toMove)
					}
				})
			})
		})
	}
}

func TestStartPositionHasTwentyMoves(t *testing.T) {
	p := NewStartPosition()
	total := 0
	p.Pieces(White).Iter(func(from Square) {
		total += LegalMoves(&p, from).Count()
	})
	if total != 20 {
		t.Fatalf("expected 20 legal moves, got %d", total)
	}
	if got := LegalMoves(&p, MustSquare("e5")); !got.Empty() {
		t.Fatalf("empty square produced moves: %s", got)
	}
}

func TestLegalMovesFor(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		from string
		want string
	}{
		{
			name: "pinned knight",
			fen:  "4k3/4r3/8/8/8/8/4N3/4K3 w - - 0 1",
			from: "e2",
			want: "",
		},
		{
			name: "king keeps distance from king",
			fen:  "8/8/8/4k3/8/4K3/8/8 w - - 0 1",
			from: "e3",
			want: "d2 e2 f2 d3 f3",
		},
		{
			name: "both castles",
			fen:  "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			from: "e1",
			want: "c1 d1 f1 g1 d2 e2 f2",
		},
		{
			name: "castle through attacked square",
			fen:  "4kr2/8/8/8/8/8/8/R3K2R w KQ - 0 1",
			from: "e1",
			want: "c1 d1 d2 e2",
		},
		{
			name: "no castling out of check",
			fen:  "4k3/4r3/8/8/8/8/8/R3K2R w KQ - 0 1",
			from: "e1",
			want: "d1 f1 d2 f2",
		},
		{
			name: "queenside b-file may be attacked",
			fen:  "1r2k3/8/8/8/8/8/8/R3K3 w Q - 0 1",
			from: "e1",
			want: "c1 d1 f1 d2 e2 f2",
		},
		{
			name: "check evasion by block or capture only",
			fen:  "4k3/8/8/8/7b/8/3R4/4K3 w - - 0 1",
			from: "d2",
			want: "f2",
		},
		{
			name: "pawn double step blocked",
			fen:  "8/8/8/8/4k3/8/4P3/4K3 w - - 0 1",
			from: "e2",
			want: "e3",
		},
		{
			name: "en passant",
			fen:  "rnbqkbnr/1pp1pppp/p7/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
			from: "e5",
			want: "d6 e6",
		},
		{
			name: "en passant exposing king",
			fen:  "8/8/8/KPp4r/8/8/8/7k w - c6 0 2",
			from: "b5",
			want: "b6",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			p, _ := mustDecode(t, tt.fen)
			got := squareSet(LegalMoves(&p, MustSquare(tt.from)).Strings())
			want := squareSet(strings.Fields(tt.want))
			if got != want {
				t.Fatalf("legal moves from %s = [%s], want [%s]", tt.from, got, want)
			}
		})
	}
}

func TestIsSquareAttacked(t *testing.T) {
	p, _ := mustDecode(t, "4k3/8/8/8/8/8/3p4/R3K3 w - - 0 1")
	tests := []struct {
		sq   string
		by   Color
		want bool
	}{
		{"e1", Black, true},
		{"c1", Black, true},
		{"d1", Black, false},
		{"a8", White, true},
		{"b2", White, false},
		{"d2", White, true},
	}
	for _, tt := range tests {
		if got := IsSquareAttacked(&p, MustSquare(tt.sq), tt.by); got != tt.want {
			t.Fatalf("IsSquareAttacked(%s, %s) = %v, want %v", tt.sq, tt.by, got, tt.want)
		}
	}
}

func squareSet(squares []string) string {
	sorted := append([]string(nil), squares...)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}
