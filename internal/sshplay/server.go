// Package sshplay serves games over SSH. Every connection gets a line based
// terminal that shares the registry with the HTTP API, so a game started in
// one can be continued in the other.
package sshplay

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gliderlabs/ssh"
	gossh "golang.org/x/crypto/ssh"
	"golang.org/x/term"

	"chess_rules/internal/oracle"
	"chess_rules/internal/registry"
	"chess_rules/internal/termview"
)

const ServerIdleTimeout = 5 * time.Minute

type Config struct {
	Addr string
	// HostKeyFile is a PEM private key. Empty means a fresh ed25519 key per run.
	HostKeyFile   string
	Oracle        oracle.Oracle
	OracleDepth   int
	OracleTimeout time.Duration
}

type Server struct {
	games *registry.Registry
	cfg   Config
	log   *log.Logger

	mu  sync.Mutex
	srv *ssh.Server
}

func NewServer(games *registry.Registry, cfg Config) *Server {
	if cfg.OracleDepth <= 0 {
		cfg.OracleDepth = 3
	}
	if cfg.OracleTimeout <= 0 {
		cfg.OracleTimeout = 10 * time.Second
	}
	return &Server{
		games: games,
		cfg:   cfg,
		log:   log.New(os.Stderr, "[ssh] ", log.LstdFlags),
	}
}

// ListenAndServe blocks until the server stops. It returns nil after Close.
func (s *Server) ListenAndServe() error {
	srv := &ssh.Server{
		Addr:        s.cfg.Addr,
		IdleTimeout: ServerIdleTimeout,
		Handler:     s.handle,
		PtyCallback: func(ctx ssh.Context, pty ssh.Pty) bool {
			return true
		},
		KeyboardInteractiveHandler: func(ctx ssh.Context, challenger gossh.KeyboardInteractiveChallenge) bool {
			return true
		},
	}
	if s.cfg.HostKeyFile != "" {
		if err := srv.SetOption(ssh.HostKeyFile(s.cfg.HostKeyFile)); err != nil {
			return err
		}
	} else {
		signer, err := ephemeralHostKey()
		if err != nil {
			return err
		}
		srv.AddHostKey(signer)
	}

	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()

	s.log.Printf("listening on %s", s.cfg.Addr)
	err := srv.ListenAndServe()
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func ephemeralHostKey() (gossh.Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return gossh.NewSignerFromKey(priv)
}

func (s *Server) newSession(opts termview.Options) *Session {
	return &Session{
		games:   s.games,
		oracle:  s.cfg.Oracle,
		depth:   s.cfg.OracleDepth,
		timeout: s.cfg.OracleTimeout,
		opts:    opts,
	}
}

// handle attaches the player to the game named on the command line, or to a
// new one.
func (s *Server) handle(sess ssh.Session) {
	// gliderlabs/ssh runs handlers without a recover.
	defer func() {
		if r := recover(); r != nil {
			s.log.Printf("%s: session panic: %v", sess.User(), r)
			sess.Exit(1)
		}
	}()
	ptyReq, winCh, isPty := sess.Pty()
	if !isPty {
		io.WriteString(sess, "non-interactive terminals are not supported\n")
		sess.Exit(1)
		return
	}

	ps := s.newSession(termview.Options{Color: true, Unicode: ptyReq.Term != "dumb"})
	if args := sess.Command(); len(args) == 1 {
		if out, _ := ps.Exec(sess.Context(), "join "+args[0]); ps.id == "" {
			io.WriteString(sess, out)
			sess.Exit(1)
			return
		}
	} else {
		ps.newGame("")
	}
	s.log.Printf("%s@%s joined %s", sess.User(), sess.RemoteAddr(), ps.id)

	t := term.NewTerminal(sess, "> ")
	t.SetSize(ptyReq.Window.Width, ptyReq.Window.Height)
	go func() {
		for win := range winCh {
			t.SetSize(win.Width, win.Height)
		}
	}()

	if err := ps.loop(sess.Context(), t); err != nil {
		s.log.Printf("%s: %v", sess.User(), err)
	}
	s.log.Printf("%s left %s", sess.User(), ps.id)
	sess.Exit(0)
}
