package sshplay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"chess_rules/internal/game"
	"chess_rules/internal/oracle"
	"chess_rules/internal/registry"
	"chess_rules/internal/termview"
)

const helpText = `commands:
  e2e4 | move e2e4     play a move (append q/r/b/n to promote)
  moves e2             show the legal destinations of a piece
  board                redraw the board
  flip                 turn the board around
  fen                  print the current FEN
  history              list the moves played
  goto N               jump to ply N (-1 is the start position)
  bot                  let the engine play for the side to move
  vs white|black       let the engine hold a side and answer every move
  resign               resign for the side to move
  timeout              the side to move ran out of time
  new [FEN]            start a fresh game
  join NAME            switch to another game
  id                   print the name of this game
  quit                 leave
`

var (
	errGameChanged = errors.New("game changed while the engine was thinking")
	errNoOracle    = errors.New("no engine configured")
)

// Session is one player's view onto a game in the registry.
type Session struct {
	games   *registry.Registry
	oracle  oracle.Oracle
	depth   int
	timeout time.Duration

	id   string
	opts termview.Options
}

// Exec runs one command line and returns the text to show. quit reports
// whether the player asked to leave.
func (s *Session) Exec(ctx context.Context, line string) (out string, quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	var err error
	switch cmd {
	case "quit", "exit":
		return "bye\n", true
	case "help", "?":
		return helpText, false
	case "id":
		return s.id + "\n", false
	case "flip":
		s.opts.Flip = !s.opts.Flip
		return s.board(0, false)
	case "board", "show":
		return s.board(0, false)
	case "new":
		return s.newGame(strings.Join(args, " "))
	case "join":
		if len(args) != 1 {
			return "usage: join NAME\n", false
		}
		if err = s.games.With(args[0], func(*game.Game) error { return nil }); err != nil {
			break
		}
		s.id = args[0]
		return s.board(0, false)
	case "moves":
		if len(args) != 1 {
			return "usage: moves SQUARE\n", false
		}
		sq, ok := game.CoordToSquare(strings.ToLower(args[0]))
		if !ok {
			return fmt.Sprintf("bad square %q\n", args[0]), false
		}
		return s.board(sq, true)
	case "fen":
		var fen string
		err = s.games.With(s.id, func(g *game.Game) error {
			fen = g.FEN()
			return nil
		})
		if err == nil {
			return fen + "\n", false
		}
	case "history":
		return s.history()
	case "goto":
		if len(args) != 1 {
			return "usage: goto N\n", false
		}
		n, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return fmt.Sprintf("bad ply %q\n", args[0]), false
		}
		if err = s.games.With(s.id, func(g *game.Game) error { return g.Restore(n) }); err == nil {
			return s.board(0, false)
		}
	case "resign":
		if err = s.games.With(s.id, func(g *game.Game) error { return g.Resign(g.Turn()) }); err == nil {
			return s.board(0, false)
		}
	case "timeout":
		err = s.games.With(s.id, func(g *game.Game) error {
			side, running := g.ClockRunning()
			if !running {
				return game.ErrGameOver
			}
			return g.Timeout(side)
		})
		if err == nil {
			return s.board(0, false)
		}
	case "bot":
		if err = s.playOracle(ctx); err == nil {
			return s.board(0, false)
		}
	case "vs":
		if len(args) != 1 {
			return "usage: vs white|black\n", false
		}
		color, ok := game.ParseColor(args[0])
		if !ok {
			return fmt.Sprintf("bad color %q\n", args[0]), false
		}
		if s.oracle == nil {
			err = errNoOracle
			break
		}
		if err = s.games.SetBot(s.id, color); err == nil {
			err = s.botReply(ctx)
		}
		if err == nil {
			return s.board(0, false)
		}
	case "move":
		if len(args) != 1 {
			return "usage: move e2e4\n", false
		}
		if err = s.move(ctx, args[0]); err == nil {
			return s.board(0, false)
		}
	default:
		if len(fields) == 1 {
			if err = s.move(ctx, cmd); err == nil {
				return s.board(0, false)
			}
			break
		}
		return fmt.Sprintf("unknown command %q, try help\n", cmd), false
	}
	return describe(err), false
}

func (s *Session) newGame(fen string) (string, bool) {
	g := game.NewGame()
	if fen != "" {
		var err error
		if g, err = game.NewGameFromFEN(fen); err != nil {
			return describe(err), false
		}
	}
	s.id = s.games.Add(g)
	return s.board(0, false)
}

// move plays text and then the seated engine's answer, if any.
func (s *Session) move(ctx context.Context, text string) error {
	err := s.games.With(s.id, func(g *game.Game) error {
		_, err := g.MoveCoordinate(text)
		return err
	})
	if err != nil {
		return err
	}
	return s.botReply(ctx)
}

func (s *Session) botReply(ctx context.Context) error {
	toMove, err := s.games.BotToMove(s.id)
	if err != nil || !toMove {
		return err
	}
	return s.playOracle(ctx)
}

// playOracle releases the game while the engine thinks and refuses the answer
// if someone moved in the meantime.
func (s *Session) playOracle(ctx context.Context) error {
	var (
		fen     string
		version uint64
	)
	err := s.games.With(s.id, func(g *game.Game) error {
		if g.Status().Over() {
			return game.ErrGameOver
		}
		fen, version = g.FEN(), g.Version()
		return nil
	})
	if err != nil {
		return err
	}
	if s.oracle == nil {
		return errNoOracle
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	var res oracle.Result
	select {
	case res = <-oracle.Async(ctx, s.oracle, fen, s.depth):
	case <-ctx.Done():
		res.Err = ctx.Err()
	}
	if res.Err != nil {
		return res.Err
	}
	return s.games.With(s.id, func(g *game.Game) error {
		if g.Version() != version {
			return errGameChanged
		}
		_, err := g.MoveCoordinate(res.Move)
		return err
	})
}

func (s *Session) board(selected game.Square, hasSelection bool) (string, bool) {
	var buf bytes.Buffer
	err := s.games.With(s.id, func(g *game.Game) error {
		if err := termview.Render(&buf, g.Squares(selected, hasSelection), s.opts); err != nil {
			return err
		}
		fmt.Fprintf(&buf, "%s | %s to move | %s\n", s.id, g.Turn(), g.Status())
		if note := g.LastNote(); note != "" {
			fmt.Fprintln(&buf, note)
		}
		return nil
	})
	if err != nil {
		return describe(err), false
	}
	return buf.String(), false
}

func (s *Session) history() (string, bool) {
	var buf bytes.Buffer
	err := s.games.With(s.id, func(g *game.Game) error {
		cursor := g.Log().Cursor()
		for i, rec := range g.Log().Records() {
			marker := " "
			if i == cursor {
				marker = ">"
			}
			if rec.Color == game.White {
				fmt.Fprintf(&buf, "%s %3d. %s\n", marker, i, rec.Notation)
			} else {
				fmt.Fprintf(&buf, "%s %3d. ... %s\n", marker, i, rec.Notation)
			}
		}
		if buf.Len() == 0 {
			buf.WriteString("no moves yet\n")
		}
		return nil
	})
	if err != nil {
		return describe(err), false
	}
	return buf.String(), false
}

func describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, game.ErrPromotionRequired):
		return "promotion required: add q, r, b or n to the move\n"
	case errors.Is(err, game.ErrIllegalMove):
		return "illegal move\n"
	case errors.Is(err, context.DeadlineExceeded):
		return "engine timed out\n"
	default:
		return err.Error() + "\n"
	}
}

// Run reads commands from rw until the player quits or the stream ends.
func (s *Session) Run(ctx context.Context, rw io.ReadWriter) error {
	t := term.NewTerminal(rw, "> ")
	return s.loop(ctx, t)
}

func (s *Session) loop(ctx context.Context, t *term.Terminal) error {
	out, _ := s.board(0, false)
	if _, err := io.WriteString(t, "game "+s.id+", type help for commands\n"+out); err != nil {
		return err
	}
	for {
		line, err := t.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		out, quit := s.Exec(ctx, line)
		if out != "" {
			if _, err := io.WriteString(t, out); err != nil {
				return err
			}
		}
		if quit {
			return nil
		}
	}
}
