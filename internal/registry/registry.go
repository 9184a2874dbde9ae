// Package registry keeps the live games served by the HTTP and SSH fronts,
// keyed by a human friendly name.
package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"

	"chess_rules/internal/game"
)

var ErrNotFound = errors.New("game not found")

const nameAttempts = 16

type entry struct {
	mu      sync.Mutex
	game    *game.Game
	touched time.Time
	bot     game.Color
	hasBot  bool
}

// Registry is safe for concurrent use. Each game has its own lock so that a
// slow request on one game does not hold up the others.
type Registry struct {
	mu    sync.Mutex
	games map[string]*entry
	now   func() time.Time
}

func New() *Registry {
	return &Registry{games: make(map[string]*entry), now: time.Now}
}

// Add stores g under a fresh two-word name and returns it.
func (r *Registry) Add(g *game.Game) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := petname.Generate(2, "-")
	for n := 2; r.games[id] != nil; n++ {
		id = petname.Generate(2, "-")
		if n > nameAttempts {
			id = fmt.Sprintf("%s-%d", id, n)
		}
	}
	r.games[id] = &entry{game: g, touched: r.now()}
	return id
}

// With runs fn while holding the lock of game id.
func (r *Registry) With(id string, fn func(*game.Game) error) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = r.now()
	return fn(e.game)
}

// SetBot makes the engine play color in game id.
func (r *Registry) SetBot(id string, color game.Color) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bot, e.hasBot = color, true
	return nil
}

// BotToMove reports whether game id is still running and waits for a move by
// the engine's side.
func (r *Registry) BotToMove(id string) (bool, error) {
	e, err := r.lookup(id)
	if err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	side, running := e.game.ClockRunning()
	return e.hasBot && running && side == e.bot, nil
}

func (r *Registry) lookup(id string) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.games[id]
	delete(r.games, id)
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games)
}

// PruneIdle drops games nobody touched for longer than maxIdle and returns
// their names.
func (r *Registry) PruneIdle(maxIdle time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxIdle)
	var removed []string
	for id, e := range r.games {
		e.mu.Lock()
		idle := e.touched.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(r.games, id)
			removed = append(removed, id)
		}
	}
	return removed
}
