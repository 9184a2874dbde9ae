package game

import (
	"errors"
	"testing"
)

func mustDecode(t *testing.T, fen string) (Position, Color) {
	t.Helper()
	p, toMove, err := DecodeFEN(fen)
	if err != nil {
		t.Fatalf("decode %q: %v", fen, err)
	}
	return p, toMove
}

func playCoords(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		if _, err := g.MoveCoordinate(mv); err != nil {
			t.Fatalf("move %s: %v", mv, err)
		}
	}
}

func TestApplyRejectsIllegalMoveWithoutMutation(t *testing.T) {
	p := NewStartPosition()
	before := EncodeFEN(&p, White)

	tests := []struct {
		name string
		req  MoveRequest
	}{
		{name: "empty square", req: MoveRequest{From: MustSquare("e4"), To: MustSquare("e5")}},
		{name: "blocked rook", req: MoveRequest{From: MustSquare("a1"), To: MustSquare("a3")}},
		{name: "pawn triple step", req: MoveRequest{From: MustSquare("e2"), To: MustSquare("e5")}},
		{name: "knight onto own pawn", req: MoveRequest{From: MustSquare("g1"), To: MustSquare("e2")}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Apply(tt.req); !errors.Is(err, ErrIllegalMove) {
				t.Fatalf("expected ErrIllegalMove, got %v", err)
			}
			if after := EncodeFEN(&p, White); after != before {
				t.Fatalf("position changed: %s", after)
			}
		})
	}
}

func TestApplyPromotionIsTwoPhase(t *testing.T) {
	p, _ := mustDecode(t, "8/P7/8/8/8/8/8/k3K3 w - - 0 1")
	before := EncodeFEN(&p, White)
	req := MoveRequest{From: MustSquare("a7"), To: MustSquare("a8")}

	if _, err := p.Apply(req); !errors.Is(err, ErrPromotionRequired) {
		t.Fatalf("expected ErrPromotionRequired, got %v", err)
	}
	if after := EncodeFEN(&p, White); after != before {
		t.Fatalf("position changed after promotion request: %s", after)
	}

	bad := req
	bad.Promotion, bad.HasPromotion = King, true
	if _, err := p.Apply(bad); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for king promotion, got %v", err)
	}

	req.Promotion, req.HasPromotion = Knight, true
	mv, err := p.Apply(req)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if !mv.HasPromotion || mv.Promotion != Knight {
		t.Fatalf("expected knight promotion, got %+v", mv)
	}
	pc, ok := p.PieceAt(MustSquare("a8"))
	if !ok || pc.Type != Knight || pc.Color != White {
		t.Fatalf("expected white knight on a8, got %+v ok=%v", pc, ok)
	}
	if got := mv.UCI(); got != "a7a8n" {
		t.Fatalf("UCI = %s, want a7a8n", got)
	}
}

func TestApplyCastlingMovesRook(t *testing.T) {
	p := NewStartPosition()
	e1, g1 := MustSquare("e1"), MustSquare("g1")
	if IsMoveLegal(&p, e1, g1) {
		t.Fatalf("castling legal with pieces in the way")
	}

	p.Remove(MustSquare("f1"))
	p.Remove(MustSquare("g1"))
	if !IsMoveLegal(&p, e1, g1) {
		t.Fatalf("castling should be legal once f1 and g1 are empty")
	}

	mv, err := p.Apply(MoveRequest{From: e1, To: g1})
	if err != nil {
		t.Fatalf("castle: %v", err)
	}
	if !mv.Castle || mv.CastleSide != CastleKingside {
		t.Fatalf("expected kingside castle, got %+v", mv)
	}
	king, ok := p.PieceAt(g1)
	if !ok || king.Type != King || !king.HasMoved {
		t.Fatalf("expected moved king on g1, got %+v", king)
	}
	rook, ok := p.PieceAt(MustSquare("f1"))
	if !ok || rook.Type != Rook || !rook.HasMoved {
		t.Fatalf("expected moved rook on f1, got %+v", rook)
	}
	if p.Occupied(MustSquare("h1")) {
		t.Fatalf("h1 should be empty after castling")
	}
	if p.CastlingRights().HasSide(White, CastleKingside) || p.CastlingRights().HasSide(White, CastleQueenside) {
		t.Fatalf("white castling rights remain: %s", p.CastlingRights())
	}
}

func TestApplyEnPassantCapture(t *testing.T) {
	g := NewGame()
	playCoords(t, g, "e2e4", "a7a6", "e4e5", "d7d5")

	want := "rnbqkbnr/1pp1pppp/p7/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3"
	if got := g.FEN(); got != want {
		t.Fatalf("FEN = %s, want %s", got, want)
	}

	rec, err := g.MoveCoordinate("e5d6")
	if err != nil {
		t.Fatalf("en passant: %v", err)
	}
	if !rec.HasCapture || rec.Captured != Pawn {
		t.Fatalf("expected pawn capture, got %+v", rec)
	}
	pos := g.Position()
	if pos.Occupied(MustSquare("d5")) {
		t.Fatalf("captured pawn still on d5")
	}
	if pos.EnPassant.Valid() {
		t.Fatalf("en passant target should be cleared, got %s", pos.EnPassant)
	}
	if rec.Notation != "exd6" {
		t.Fatalf("notation = %s, want exd6", rec.Notation)
	}
}

func TestEnPassantExpiresAfterOnePly(t *testing.T) {
	g := NewGame()
	playCoords(t, g, "e2e4", "a7a6", "e4e5", "d7d5", "h2h3", "a6a5")
	if g.LegalMoves(MustSquare("e5")).Has(MustSquare("d6")) {
		t.Fatalf("en passant still available a move later")
	}
	pos := g.Position()
	pc, _ := pos.PieceAt(MustSquare("d5"))
	if pc.EnPassantVulnerable {
		t.Fatalf("d5 pawn still flagged vulnerable")
	}
}

func TestHalfmoveClock(t *testing.T) {
	g := NewGame()
	steps := []struct {
		move string
		want uint32
	}{
		{"g1f3", 1},
		{"g8f6", 2},
		{"e2e4", 0},
		{"f6e4", 0},
		{"b1c3", 1},
	}
	for _, step := range steps {
		playCoords(t, g, step.move)
		if got := g.Position().HalfmoveClock; got != step.want {
			t.Fatalf("after %s halfmove clock = %d, want %d", step.move, got, step.want)
		}
	}
	if got := g.Position().FullmoveNumber; got != 3 {
		t.Fatalf("fullmove number = %d, want 3", got)
	}
}

func TestApplyPanicsOnBrokenInvariant(t *testing.T) {
	p := NewEmptyPosition()
	p.Place(MustSquare("e1"), NewPiece(White, King))
	p.Place(MustSquare("a2"), NewPiece(White, Rook))

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvariantViolation) {
			t.Fatalf("expected invariant panic, got %v", r)
		}
	}()
	p.Apply(MoveRequest{From: MustSquare("a2"), To: MustSquare("a3")})
}

func TestMoveCountersSaturate(t *testing.T) {
	g, err := NewGameFromFEN("4k3/8/8/8/8/8/8/R3K3 b - - 0 1048576")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	playCoords(t, g, "e8d7", "a1a2", "d7e8")
	if pos := g.Position(); pos.FullmoveNumber != MaxMoveCounter {
		t.Fatalf("fullmove = %d, want %d", pos.FullmoveNumber, MaxMoveCounter)
	}
	for i := range g.Log().Records() {
		if err := g.Restore(i); err != nil {
			t.Fatalf("restore %d: %v", i, err)
		}
	}

	p, _ := mustDecode(t, "4k3/8/8/8/8/8/8/R3K3 w - - 1048576 7")
	if _, err := p.Apply(MoveRequest{From: MustSquare("a1"), To: MustSquare("a2")}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if p.HalfmoveClock != MaxMoveCounter {
		t.Fatalf("halfmove = %d, want %d", p.HalfmoveClock, MaxMoveCounter)
	}
}

func TestApplyPanicLeavesPositionUntouched(t *testing.T) {
	p := NewEmptyPosition()
	p.Place(MustSquare("e1"), NewPiece(White, King))
	p.Place(MustSquare("a2"), NewPiece(White, Rook))
	before := EncodeFEN(&p, White)

	func() {
		defer func() { _ = recover() }()
		p.Apply(MoveRequest{From: MustSquare("a2"), To: MustSquare("a3")})
	}()
	if got := EncodeFEN(&p, White); got != before {
		t.Fatalf("position changed by a rejected move: %s, want %s", got, before)
	}
}
