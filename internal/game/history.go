package game

import (
	"fmt"
	"strings"
)

// MoveRecord is one ply of the game log.
type MoveRecord struct {
	Notation     string    `json:"notation"`
	Piece        PieceType `json:"piece"`
	From         Square    `json:"from"`
	To           Square    `json:"to"`
	Captured     PieceType `json:"captured"`
	HasCapture   bool      `json:"hasCapture"`
	Promotion    PieceType `json:"promotion"`
	HasPromotion bool      `json:"hasPromotion"`
	Color        Color     `json:"color"`
	FEN          string    `json:"fen"`
}

// GameLog keeps the plies of a game with a FEN snapshot after each one.
// Records and snapshots share one index space; the cursor names the ply the
// game currently stands on, -1 being the start position.
type GameLog struct {
	startFEN string
	records  []MoveRecord
	cursor   int
}

func NewGameLog(startFEN string) *GameLog {
	return &GameLog{startFEN: startFEN, cursor: -1}
}

// Record stores rec after the cursor, dropping any plies that followed it.
func (l *GameLog) Record(rec MoveRecord) {
	l.records = append(l.records[:l.cursor+1], rec)
	l.cursor = len(l.records) - 1
}

// Restore moves the cursor to index and decodes the position stored there.
// Index -1 is the start position.
func (l *GameLog) Restore(index int) (Position, Color, error) {
	if index < -1 || index >= len(l.records) {
		return Position{}, White, fmt.Errorf("%w: %d not in [-1, %d)", ErrIndexOutOfRange, index, len(l.records))
	}
	p, toMove, err := DecodeFEN(l.fenAt(index))
	if err != nil {
		return Position{}, White, err
	}
	l.cursor = index
	return p, toMove, nil
}

func (l *GameLog) Records() []MoveRecord {
	out := make([]MoveRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Played returns the records up to and including the cursor.
func (l *GameLog) Played() []MoveRecord {
	out := make([]MoveRecord, l.cursor+1)
	copy(out, l.records[:l.cursor+1])
	return out
}

// FENs lists the snapshot after each recorded ply.
func (l *GameLog) FENs() []string {
	out := make([]string, len(l.records))
	for i, rec := range l.records {
		out[i] = rec.FEN
	}
	return out
}

func (l *GameLog) Cursor() int { return l.cursor }

func (l *GameLog) Len() int { return len(l.records) }

func (l *GameLog) StartFEN() string { return l.startFEN }

// Current is the FEN at the cursor.
func (l *GameLog) Current() string { return l.fenAt(l.cursor) }

func (l *GameLog) fenAt(index int) string {
	if index < 0 {
		return l.startFEN
	}
	return l.records[index].FEN
}

// PositionKey strips the move counters from a FEN.
func PositionKey(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

// IsThreefoldRepetition reports whether the position at the cursor occurred
// at least twice before, counting the start position.
func (l *GameLog) IsThreefoldRepetition() bool {
	key := PositionKey(l.Current())
	seen := 0
	for i := -1; i < l.cursor; i++ {
		if PositionKey(l.fenAt(i)) == key {
			seen++
		}
	}
	return seen >= 2
}
