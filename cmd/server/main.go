package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"chess_rules/internal/httpx"
	"chess_rules/internal/oracle"
	"chess_rules/internal/registry"
	"chess_rules/internal/sshplay"
)

func main() {
	// Flags (env fallbacks).
	addr := flag.String("addr", getenv("CHESS_ADDR", ":8080"), "HTTP listen address")
	sshEnable := flag.Bool("ssh", getenb("CHESS_SSH_ENABLE", false), "also serve games over SSH")
	sshAddr := flag.String("ssh-addr", getenv("CHESS_SSH_ADDR", ":2222"), "SSH listen address")
	hostKey := flag.String("ssh-host-key", getenv("CHESS_SSH_HOST_KEY", ""), "SSH host key file (empty: generate one per run)")
	oracleKind := flag.String("oracle", getenv("CHESS_ORACLE", "builtin"), "move oracle: builtin, uci or none")
	uciPath := flag.String("uci-path", getenv("CHESS_UCI_PATH", "stockfish"), "UCI engine binary (used only with -oracle=uci)")
	depth := flag.Int("oracle-depth", getenvInt("CHESS_ORACLE_DEPTH", 3), "oracle search depth")
	timeout := flag.Duration("oracle-timeout", getenvDuration("CHESS_ORACLE_TIMEOUT", 10*time.Second), "oracle time limit per move")
	idle := flag.Duration("idle", getenvDuration("CHESS_IDLE", 2*time.Hour), "drop games untouched for this long (0 disables)")
	flag.Parse()

	var o oracle.Oracle
	switch strings.ToLower(*oracleKind) {
	case "builtin":
		o = oracle.Builtin{MaxDepth: *depth}
	case "uci":
		o = oracle.UCI{Path: *uciPath}
	case "none", "":
	default:
		log.Fatalf("unknown oracle %q; valid: builtin, uci, none", *oracleKind)
	}

	games := registry.New()
	srv := httpx.NewServer(games, httpx.Config{Oracle: o, OracleDepth: *depth, OracleTimeout: *timeout})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sshSrv *sshplay.Server
	if *sshEnable {
		sshSrv = sshplay.NewServer(games, sshplay.Config{
			Addr:          *sshAddr,
			HostKeyFile:   *hostKey,
			Oracle:        o,
			OracleDepth:   *depth,
			OracleTimeout: *timeout,
		})
		go func() {
			if err := sshSrv.ListenAndServe(); err != nil {
				log.Fatalf("ssh: %v", err)
			}
		}()
	}

	if *idle > 0 {
		go pruneLoop(ctx, games, *idle)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if sshSrv != nil {
			if err := sshSrv.Close(shutdownCtx); err != nil {
				log.Printf("ssh shutdown: %v", err)
			}
		}
		if err := srv.Close(shutdownCtx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
	}()

	if err := srv.Listen(*addr); err != nil {
		log.Fatal(err)
	}
	log.Printf("bye")
}

func pruneLoop(ctx context.Context, games *registry.Registry, idle time.Duration) {
	tick := time.NewTicker(max(idle/4, time.Second))
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if removed := games.PruneIdle(idle); len(removed) > 0 {
				log.Printf("pruned %d idle games: %v", len(removed), removed)
			}
		}
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			log.Fatalf("%s: %v", key, err)
		}
		return n
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			log.Fatalf("%s: %v", key, err)
		}
		return d
	}
	return def
}
