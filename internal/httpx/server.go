package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"chess_rules/internal/game"
	"chess_rules/internal/oracle"
	"chess_rules/internal/registry"
	"chess_rules/internal/termview"
)

// Server wires the HTTP layer to the game registry and the move oracle.
type Server struct {
	games         *registry.Registry
	oracle        oracle.Oracle
	oracleDepth   int
	oracleTimeout time.Duration
	srvMu         sync.Mutex
	srv           *http.Server
}

// Config selects the oracle used by the bot endpoint.
type Config struct {
	Oracle        oracle.Oracle
	OracleDepth   int
	OracleTimeout time.Duration
}

const (
	maxJSONBodyBytes int64 = 1 << 20
	apiCSP                 = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"

	defaultOracleDepth   = 3
	defaultOracleTimeout = 10 * time.Second
)

// NewServer builds a Server around games. A nil oracle disables the bot route.
func NewServer(games *registry.Registry, cfg Config) *Server {
	if cfg.OracleDepth <= 0 {
		cfg.OracleDepth = defaultOracleDepth
	}
	if cfg.OracleTimeout <= 0 {
		cfg.OracleTimeout = defaultOracleTimeout
	}
	return &Server{
		games:         games,
		oracle:        cfg.Oracle,
		oracleDepth:   cfg.OracleDepth,
		oracleTimeout: cfg.OracleTimeout,
	}
}

// Listen starts the HTTP server.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      s.oracleTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	log.Printf("HTTP listening on %s", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Handler configures the ServeMux with the JSON API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/games", s.withJSON(s.handleCreate))
	mux.HandleFunc("GET /api/games/{id}", s.withJSON(s.handleState))
	mux.HandleFunc("GET /api/games/{id}/moves", s.withJSON(s.handleMoves))
	mux.HandleFunc("GET /api/games/{id}/board", s.handleBoard)
	mux.HandleFunc("POST /api/games/{id}/move", s.withJSON(s.handleMove))
	mux.HandleFunc("POST /api/games/{id}/restore", s.withJSON(s.handleRestore))
	mux.HandleFunc("POST /api/games/{id}/resign", s.withJSON(s.handleResign))
	mux.HandleFunc("POST /api/games/{id}/timeout", s.withJSON(s.handleTimeout))
	mux.HandleFunc("POST /api/games/{id}/bot", s.withJSON(s.handleBot))
	mux.HandleFunc("DELETE /api/games/{id}", s.withJSON(s.handleDelete))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ---- JSON helpers ----

func (s *Server) withJSON(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyAPISecurityHeaders(w.Header())
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": msg})
}

// writeGameError maps engine errors onto status codes.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrNotFound), errors.Is(err, game.ErrIndexOutOfRange):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrPromotionRequired), errors.Is(err, game.ErrGameOver), errors.Is(err, errGameChanged):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrIllegalMove), errors.Is(err, game.ErrInvalidFEN):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "move oracle timed out")
	case errors.Is(err, oracle.ErrNoMove):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("api error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func applyAPISecurityHeaders(h http.Header) {
	h.Set("Content-Security-Policy", apiCSP)
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("Cross-Origin-Embedder-Policy", "require-corp")
	h.Set("X-Content-Type-Options", "nosniff")
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// decodeBody reads an optional JSON body into v. It reports false after
// writing the error response.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return true
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return false
		}
		if errors.Is(err, io.EOF) {
			return true
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

type stateResponse struct {
	ID    string         `json:"id"`
	State game.GameState `json:"state"`
	// Bot is the engine's reply in a game where it holds a seat.
	Bot      *botReply `json:"bot,omitempty"`
	BotError string    `json:"botError,omitempty"`
}

type botReply struct {
	Move   string          `json:"move"`
	Record game.MoveRecord `json:"record"`
}

// ---- API: games ----

type createBody struct {
	FEN string `json:"fen"`
	// Bot seats the engine on this color. It replies to every human move.
	Bot string `json:"bot"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body createBody
	if !decodeBody(w, r, &body) {
		return
	}
	var (
		botColor game.Color
		hasBot   = strings.TrimSpace(body.Bot) != ""
	)
	if hasBot {
		if s.oracle == nil {
			writeError(w, http.StatusServiceUnavailable, "no move oracle configured")
			return
		}
		var ok bool
		if botColor, ok = game.ParseColor(body.Bot); !ok {
			writeError(w, http.StatusBadRequest, "invalid bot color")
			return
		}
	}
	g := game.NewGame()
	if fen := strings.TrimSpace(body.FEN); fen != "" {
		var err error
		if g, err = game.NewGameFromFEN(fen); err != nil {
			writeGameError(w, err)
			return
		}
	}
	id := s.games.Add(g)
	resp := stateResponse{ID: id, State: g.State()}
	if hasBot {
		if err := s.games.SetBot(id, botColor); err != nil {
			writeGameError(w, err)
			return
		}
		s.botReply(r.Context(), &resp)
	}
	log.Printf("game %s created", id)
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, resp)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.respondState(w, r, func(*game.Game) error { return nil })
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.games.Remove(r.PathValue("id")) {
		writeGameError(w, registry.ErrNotFound)
		return
	}
	writeJSON(w, map[string]bool{"deleted": true})
}

// respondState runs fn on the game under its lock and answers with the
// resulting state.
func (s *Server) respondState(w http.ResponseWriter, r *http.Request, fn func(*game.Game) error) {
	id := r.PathValue("id")
	var state game.GameState
	err := s.games.With(id, func(g *game.Game) error {
		if err := fn(g); err != nil {
			return err
		}
		state = g.State()
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, stateResponse{ID: id, State: state})
}

func (s *Server) handleMoves(w http.ResponseWriter, r *http.Request) {
	from, ok := game.CoordToSquare(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("from"))))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid from square")
		return
	}
	var dests []string
	err := s.games.With(r.PathValue("id"), func(g *game.Game) error {
		dests = g.LegalMoves(from).Strings()
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, map[string]any{"from": from, "moves": dests})
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	applyAPISecurityHeaders(w.Header())
	q := r.URL.Query()
	selected, hasSelection := game.CoordToSquare(strings.ToLower(q.Get("select")))
	flip, _ := strconv.ParseBool(q.Get("flip"))

	var buf bytes.Buffer
	err := s.games.With(r.PathValue("id"), func(g *game.Game) error {
		return termview.Render(&buf, g.Squares(selected, hasSelection), termview.Options{Flip: flip})
	})
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		writeGameError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// ---- API: move ----

type moveBody struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
	UCI       string `json:"uci"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var body moveBody
	if !decodeBody(w, r, &body) {
		return
	}
	if uci := strings.TrimSpace(body.UCI); uci != "" {
		s.moveAndReply(w, r, func(g *game.Game) error {
			_, err := g.MoveCoordinate(uci)
			return err
		})
		return
	}

	from, ok := game.CoordToSquare(strings.ToLower(strings.TrimSpace(body.From)))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid from square")
		return
	}
	to, ok := game.CoordToSquare(strings.ToLower(strings.TrimSpace(body.To)))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid to square")
		return
	}
	req := game.MoveRequest{From: from, To: to}
	if promotion := strings.TrimSpace(body.Promotion); promotion != "" {
		pt, ok := game.ParsePromotionPiece(promotion)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid promotion choice")
			return
		}
		req.Promotion = pt
		req.HasPromotion = true
	}
	s.moveAndReply(w, r, func(g *game.Game) error {
		_, err := g.Move(req)
		return err
	})
}

// moveAndReply plays the human move, then lets a seated engine answer. A
// failed reply leaves the human move in place and is reported in botError.
func (s *Server) moveAndReply(w http.ResponseWriter, r *http.Request, move func(*game.Game) error) {
	id := r.PathValue("id")
	var resp stateResponse
	err := s.games.With(id, func(g *game.Game) error {
		if err := move(g); err != nil {
			return err
		}
		resp = stateResponse{ID: id, State: g.State()}
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	s.botReply(r.Context(), &resp)
	writeJSON(w, resp)
}

// botReply plays the seated engine's move into resp when it is the engine's
// turn.
func (s *Server) botReply(ctx context.Context, resp *stateResponse) {
	toMove, err := s.games.BotToMove(resp.ID)
	if err != nil || !toMove || s.oracle == nil {
		return
	}
	move, rec, state, err := s.playOracle(ctx, resp.ID)
	if err != nil {
		log.Printf("game %s: bot reply: %v", resp.ID, err)
		resp.BotError = err.Error()
		return
	}
	resp.State = state
	resp.Bot = &botReply{Move: move, Record: rec}
}

type restoreBody struct {
	Index *int `json:"index"`
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	var body restoreBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Index == nil {
		writeError(w, http.StatusBadRequest, "index is required")
		return
	}
	s.respondState(w, r, func(g *game.Game) error {
		return g.Restore(*body.Index)
	})
}

type sideBody struct {
	Color string `json:"color"`
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	s.finishSide(w, r, (*game.Game).Resign)
}

// handleTimeout reports that a clock ran out. Without a color it is the side
// whose clock is running.
func (s *Server) handleTimeout(w http.ResponseWriter, r *http.Request) {
	s.finishSide(w, r, (*game.Game).Timeout)
}

func (s *Server) finishSide(w http.ResponseWriter, r *http.Request, finish func(*game.Game, game.Color) error) {
	var body sideBody
	if !decodeBody(w, r, &body) {
		return
	}
	var color game.Color
	if strings.TrimSpace(body.Color) != "" {
		parsed, ok := game.ParseColor(body.Color)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid color")
			return
		}
		color = parsed
	}
	s.respondState(w, r, func(g *game.Game) error {
		side, running := g.ClockRunning()
		if !running {
			return game.ErrGameOver
		}
		if strings.TrimSpace(body.Color) == "" {
			color = side
		}
		return finish(g, color)
	})
}

// handleBot asks the oracle for a move and plays it.
func (s *Server) handleBot(w http.ResponseWriter, r *http.Request) {
	if s.oracle == nil {
		writeError(w, http.StatusServiceUnavailable, "no move oracle configured")
		return
	}
	id := r.PathValue("id")
	move, rec, state, err := s.playOracle(r.Context(), id)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, map[string]any{"id": id, "move": move, "record": rec, "state": state})
}

var errGameChanged = errors.New("game changed while the oracle was thinking")

// playOracle plays the oracle's move in game id. The game lock is not held
// while the oracle thinks; the move is rejected if the game changed in the
// meantime.
func (s *Server) playOracle(ctx context.Context, id string) (string, game.MoveRecord, game.GameState, error) {
	var (
		fen     string
		version uint64
		rec     game.MoveRecord
		state   game.GameState
	)
	err := s.games.With(id, func(g *game.Game) error {
		if g.Status().Over() {
			return game.ErrGameOver
		}
		fen, version = g.FEN(), g.Version()
		return nil
	})
	if err != nil {
		return "", rec, state, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	defer cancel()
	var res oracle.Result
	select {
	case res = <-oracle.Async(ctx, s.oracle, fen, s.oracleDepth):
	case <-ctx.Done():
		res.Err = ctx.Err()
	}
	if res.Err != nil {
		return "", rec, state, res.Err
	}

	err = s.games.With(id, func(g *game.Game) error {
		if g.Version() != version {
			return errGameChanged
		}
		var err error
		if rec, err = g.MoveCoordinate(res.Move); err != nil {
			return err
		}
		state = g.State()
		return nil
	})
	return res.Move, rec, state, err
}
