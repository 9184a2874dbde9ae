package oracle

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// UCI runs an external engine such as Stockfish for every query.
type UCI struct {
	Path string
	Args []string
}

func (u UCI) BestMove(ctx context.Context, fen string, depth int) (string, error) {
	if depth <= 0 {
		return "", ErrBadDepth
	}
	cmd := exec.CommandContext(ctx, u.Path, u.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", err
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start engine %s: %w", u.Path, err)
	}

	mv, qerr := Query(ctx, stdout, stdin, fen, depth)
	_, _ = io.WriteString(stdin, "quit\n")
	_ = stdin.Close()
	_ = cmd.Wait()
	return mv, qerr
}

// Query speaks the UCI handshake and search commands over w and reads the
// engine's replies from r until it announces a best move.
func Query(ctx context.Context, r io.Reader, w io.Writer, fen string, depth int) (string, error) {
	if depth <= 0 {
		return "", ErrBadDepth
	}
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- strings.TrimSpace(sc.Text()):
			case <-done:
				return
			}
		}
		err := sc.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		readErr <- err
	}()

	await := func(prefix string) (string, error) {
		for {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case err := <-readErr:
				return "", fmt.Errorf("engine closed while waiting for %q: %w", prefix, err)
			case line := <-lines:
				if strings.HasPrefix(line, prefix) {
					return line, nil
				}
			}
		}
	}
	send := func(format string, args ...any) error {
		_, err := fmt.Fprintf(w, format+"\n", args...)
		return err
	}

	if err := send("uci"); err != nil {
		return "", err
	}
	if _, err := await("uciok"); err != nil {
		return "", err
	}
	if err := send("isready"); err != nil {
		return "", err
	}
	if _, err := await("readyok"); err != nil {
		return "", err
	}
	if err := send("position fen %s", fen); err != nil {
		return "", err
	}
	if err := send("go depth %d", depth); err != nil {
		return "", err
	}
	line, err := await("bestmove")
	if err != nil {
		return "", err
	}
	return parseBestMove(line)
}

func parseBestMove(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", errors.New("oracle: malformed bestmove line")
	}
	switch mv := fields[1]; mv {
	case "(none)", "0000":
		return "", ErrNoMove
	default:
		return mv, nil
	}
}
