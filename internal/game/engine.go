// Package game implements the chess rules core: positions, legal move
// generation, move application, game status, FEN and the game log.
package game

import (
	"fmt"
)

// Game ties a Position to its side to move, status and log. It is the single
// writer of its position and is not safe for concurrent use.
type Game struct {
	pos        Position
	turn       Color
	log        *GameLog
	status     Status
	drawReason DrawReason
	hasWinner  bool
	winner     Color
	lastNote   string
	version    uint64
}

// PieceState is a serializable view of one piece.
type PieceState struct {
	Square   Square    `json:"square"`
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

// GameState is a serializable snapshot of the game.
type GameState struct {
	Pieces         []PieceState    `json:"pieces"`
	Turn           Color           `json:"turn"`
	FEN            string          `json:"fen"`
	Status         Status          `json:"status"`
	DrawReason     DrawReason      `json:"drawReason,omitempty"`
	InCheck        bool            `json:"inCheck"`
	GameOver       bool            `json:"gameOver"`
	HasWinner      bool            `json:"hasWinner"`
	Winner         string          `json:"winner,omitempty"`
	Result         string          `json:"result"`
	Castling       CastlingRights  `json:"castling"`
	EnPassant      EnPassantTarget `json:"enPassant"`
	HalfmoveClock  uint32          `json:"halfmoveClock"`
	FullmoveNumber uint32          `json:"fullmoveNumber"`
	LastNote       string          `json:"lastNote"`
	Version        uint64          `json:"version"`
	Cursor         int             `json:"cursor"`
	History        []MoveRecord    `json:"history"`
	Clock          string          `json:"clock,omitempty"`
	Captured       CapturedPieces  `json:"captured"`
}

// CapturedPieces lists the pieces of each color taken so far, in capture
// order.
type CapturedPieces struct {
	White []PieceType `json:"white"`
	Black []PieceType `json:"black"`
}

// NewGame creates a game from the standard starting position.
func NewGame() *Game {
	g, err := NewGameFromFEN(StartFEN)
	if err != nil {
		panic(err) // StartFEN always decodes
	}
	g.lastNote = "New game"
	return g
}

// NewGameFromFEN starts a game from an arbitrary legal position.
func NewGameFromFEN(fen string) (*Game, error) {
	pos, turn, err := DecodeFEN(fen)
	if err != nil {
		return nil, err
	}
	g := &Game{
		pos:      pos,
		turn:     turn,
		log:      NewGameLog(EncodeFEN(&pos, turn)),
		lastNote: "Loaded position",
	}
	g.evaluate()
	return g, nil
}

// Move validates and plays req for the side to move.
func (g *Game) Move(req MoveRequest) (MoveRecord, error) {
	if g.status.Over() {
		return MoveRecord{}, fmt.Errorf("%w: %s", ErrGameOver, g.status)
	}
	pc, ok := g.pos.PieceAt(req.From)
	if !ok {
		return MoveRecord{}, fmt.Errorf("%w: no piece on %s", ErrIllegalMove, req.From)
	}
	if pc.Color != g.turn {
		return MoveRecord{}, fmt.Errorf("%w: %s to move", ErrIllegalMove, g.turn)
	}

	before := g.pos
	mv, err := g.pos.Apply(req)
	if err != nil {
		return MoveRecord{}, err
	}
	g.turn = g.turn.Opposite()

	check := IsCheck(&g.pos, g.turn)
	mate := check && !HasLegalMove(&g.pos, g.turn)
	rec := MoveRecord{
		Notation:     Notation(&before, mv, check, mate),
		Piece:        mv.Piece,
		From:         mv.From,
		To:           mv.To,
		Captured:     mv.Captured,
		HasCapture:   mv.HasCapture,
		Promotion:    mv.Promotion,
		HasPromotion: mv.HasPromotion,
		Color:        mv.Color,
		FEN:          EncodeFEN(&g.pos, g.turn),
	}
	g.log.Record(rec)
	g.evaluate()
	g.lastNote = fmt.Sprintf("%s played %s", mv.Color, rec.Notation)
	g.version++
	return rec, nil
}

// MoveCoordinate plays a move given as coordinate text, e.g. from an engine.
func (g *Game) MoveCoordinate(text string) (MoveRecord, error) {
	m, ok := ParseCoordinateMove(&g.pos, text)
	if !ok {
		return MoveRecord{}, fmt.Errorf("%w: cannot read %q", ErrIllegalMove, text)
	}
	return g.Move(m.Request())
}

// LegalMoves lists where the piece on from may go. Only the side to move has
// moves, and none remain once the game is over.
func (g *Game) LegalMoves(from Square) Bitboard {
	if g.status.Over() {
		return 0
	}
	pc, ok := g.pos.PieceAt(from)
	if !ok || pc.Color != g.turn {
		return 0
	}
	return LegalMoves(&g.pos, from)
}

// Restore rewinds or replays the game to the ply at index (-1 for the start).
// A later Move discards the plies after it.
func (g *Game) Restore(index int) error {
	pos, turn, err := g.log.Restore(index)
	if err != nil {
		return err
	}
	g.pos = pos
	g.turn = turn
	g.evaluate()
	g.lastNote = fmt.Sprintf("Restored ply %d", index)
	g.version++
	return nil
}

// Resign ends the game in favour of color's opponent.
func (g *Game) Resign(color Color) error {
	return g.finish(StatusResigned, color, "resigned")
}

// Timeout ends the game after color's clock ran out.
func (g *Game) Timeout(color Color) error {
	return g.finish(StatusTimeout, color, "ran out of time")
}

func (g *Game) finish(status Status, loser Color, note string) error {
	if g.status.Over() {
		return fmt.Errorf("%w: %s", ErrGameOver, g.status)
	}
	g.status = status
	g.drawReason = ""
	g.hasWinner = true
	g.winner = loser.Opposite()
	g.lastNote = fmt.Sprintf("%s %s", loser, note)
	g.version++
	return nil
}

// evaluate classifies the position for the side to move.
func (g *Game) evaluate() {
	g.status = StatusOngoing
	g.drawReason = ""
	g.hasWinner = false
	g.winner = White

	if IsCheckmate(&g.pos, g.turn) {
		g.status = StatusCheckmate
		g.hasWinner = true
		g.winner = g.turn.Opposite()
		return
	}
	if g.log.IsThreefoldRepetition() {
		g.status = StatusDraw
		g.drawReason = DrawThreefoldRepetition
		return
	}
	if reason, ok := DrawReasonFor(&g.pos, g.turn); ok {
		g.status = StatusDraw
		if reason == DrawStalemate {
			g.status = StatusStalemate
		}
		g.drawReason = reason
		return
	}
	if IsCheck(&g.pos, g.turn) {
		g.status = StatusCheck
	}
}

func (g *Game) Turn() Color { return g.turn }

func (g *Game) FEN() string { return EncodeFEN(&g.pos, g.turn) }

func (g *Game) Status() Status { return g.status }

func (g *Game) DrawReason() (DrawReason, bool) { return g.drawReason, g.drawReason != "" }

func (g *Game) Winner() (Color, bool) { return g.winner, g.hasWinner }

// Result is the PGN style score: 1-0, 0-1, 1/2-1/2 or * while playing.
func (g *Game) Result() string {
	switch {
	case !g.status.Over():
		return "*"
	case !g.hasWinner:
		return "1/2-1/2"
	case g.winner == White:
		return "1-0"
	default:
		return "0-1"
	}
}

// Version increases on every change to the game.
func (g *Game) Version() uint64 { return g.version }

// ClockRunning names the side whose clock runs, if any.
func (g *Game) ClockRunning() (Color, bool) { return g.turn, !g.status.Over() }

func (g *Game) Log() *GameLog { return g.log }

// Captured collects the pieces taken in the plies up to the cursor.
func (g *Game) Captured() CapturedPieces {
	out := CapturedPieces{White: []PieceType{}, Black: []PieceType{}}
	for _, rec := range g.log.Played() {
		if !rec.HasCapture {
			continue
		}
		if rec.Color == White {
			out.Black = append(out.Black, rec.Captured)
		} else {
			out.White = append(out.White, rec.Captured)
		}
	}
	return out
}

// Position returns a copy of the current position.
func (g *Game) Position() Position { return g.pos }

func (g *Game) LastNote() string { return g.lastNote }

// State returns a serializable representation of the current game state.
func (g *Game) State() GameState {
	state := GameState{
		Pieces:         make([]PieceState, 0, 32),
		Turn:           g.turn,
		FEN:            g.FEN(),
		Status:         g.status,
		DrawReason:     g.drawReason,
		InCheck:        IsCheck(&g.pos, g.turn),
		GameOver:       g.status.Over(),
		HasWinner:      g.hasWinner,
		Result:         g.Result(),
		Castling:       g.pos.CastlingRights(),
		EnPassant:      g.pos.EnPassant,
		HalfmoveClock:  g.pos.HalfmoveClock,
		FullmoveNumber: g.pos.FullmoveNumber,
		LastNote:       g.lastNote,
		Version:        g.version,
		Cursor:         g.log.Cursor(),
		History:        g.log.Records(),
	}
	if g.hasWinner {
		state.Winner = g.winner.String()
	}
	if side, running := g.ClockRunning(); running {
		state.Clock = side.String()
	}
	state.Captured = g.Captured()
	g.pos.Occupancy().Iter(func(sq Square) {
		pc := g.pos.pieceAt[sq]
		state.Pieces = append(state.Pieces, PieceState{Square: sq, Type: pc.Type, Color: pc.Color, HasMoved: pc.HasMoved})
	})
	return state
}
