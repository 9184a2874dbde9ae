// Package termview draws a game.SquareView board as text for terminals.
package termview

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fatih/color"

	"chess_rules/internal/game"
)

// Options controls how the board is drawn.
type Options struct {
	// Color enables ANSI colors. Without it legal destinations are shown as
	// '*' and a checked king is bracketed.
	Color bool
	// Flip draws the board from Black's side.
	Flip bool
	// Unicode uses chess glyphs instead of FEN letters.
	Unicode bool
}

var glyphs = [2][6]string{
	{"♙", "♘", "♗", "♖", "♕", "♔"},
	{"♟", "♞", "♝", "♜", "♛", "♚"},
}

type palette struct {
	light, dark, dest, check, mate *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		light: color.New(color.BgHiWhite, color.FgBlack),
		dark:  color.New(color.BgHiBlack, color.FgHiWhite),
		dest:  color.New(color.BgGreen, color.FgBlack),
		check: color.New(color.BgRed, color.FgHiWhite, color.Bold),
		mate:  color.New(color.BgHiRed, color.FgHiWhite, color.Bold, color.BlinkSlow),
	}
	for _, c := range []*color.Color{p.light, p.dark, p.dest, p.check, p.mate} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Render writes an 8x8 board followed by file letters. squares must hold all
// 64 squares as returned by game.Game.Squares.
func Render(w io.Writer, squares []game.SquareView, opts Options) error {
	if len(squares) != game.NumSquares {
		return fmt.Errorf("termview: need %d squares, got %d", game.NumSquares, len(squares))
	}
	pal := newPalette(opts.Color)
	bw := bufio.NewWriter(w)

	for row := 0; row < 8; row++ {
		rank := 7 - row
		if opts.Flip {
			rank = row
		}
		fmt.Fprintf(bw, "%d ", rank+1)
		for col := 0; col < 8; col++ {
			file := col
			if opts.Flip {
				file = 7 - col
			}
			sq, _ := game.SquareFromCoords(rank, file)
			v := squares[sq]
			bw.WriteString(cell(v, pal, opts))
		}
		bw.WriteByte('\n')
	}

	bw.WriteString("  ")
	for col := 0; col < 8; col++ {
		file := col
		if opts.Flip {
			file = 7 - col
		}
		fmt.Fprintf(bw, " %c ", 'a'+file)
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

func cell(v game.SquareView, pal palette, opts Options) string {
	piece := " "
	if v.Occupant.Present {
		if opts.Unicode {
			piece = glyphs[v.Occupant.Color.Index()][v.Occupant.Type]
		} else {
			pc := game.NewPiece(v.Occupant.Color, v.Occupant.Type)
			piece = string(pc.Symbol())
		}
	}

	if !opts.Color {
		switch {
		case v.IsCheckmatedKing:
			return "#" + piece + "#"
		case v.IsKingInCheck:
			return "[" + piece + "]"
		case v.IsLegalDestination && !v.Occupant.Present:
			return " * "
		case v.IsLegalDestination:
			return "*" + piece + " "
		default:
			return " " + piece + " "
		}
	}

	text := " " + piece + " "
	switch {
	case v.IsCheckmatedKing:
		return pal.mate.Sprint(text)
	case v.IsKingInCheck:
		return pal.check.Sprint(text)
	case v.IsLegalDestination:
		return pal.dest.Sprint(text)
	case (v.Square.Rank()+v.Square.File())%2 == 0:
		return pal.dark.Sprint(text)
	default:
		return pal.light.Sprint(text)
	}
}
