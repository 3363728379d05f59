package handlers

import (
	"context"
	"log"
	"net"

	"golang.org/x/sync/semaphore"

	"typefast/internal/typefast/auth"
	"typefast/internal/typefast/game"
	"typefast/internal/typefast/lobby"
	"typefast/internal/typefast/models"
)

const defaultMaxClients = 10

// ServerConfig carries everything the server needs at construction time.
type ServerConfig struct {
	ListenAddr   string
	Words        *game.WordList
	GroupSize    int
	WordsPerGame int
	TimeLimit    int
	MaxClients   int
	Verbose      bool
}

// Server accepts connections and runs one handler per client, bounded by a
// fixed-capacity slot pool. It wires the shared services together: the auth
// registry, the matchmaking queue, and the word pool for game rounds.
type Server struct {
	ListenAddr string

	registry   *auth.Registry
	matchmaker *lobby.Matchmaker
	round      game.RoundConfig
	slots      *semaphore.Weighted
	verbose    bool

	baseCtx context.Context
}

func NewServer(cfg ServerConfig) *Server {
	if cfg.MaxClients < 1 {
		cfg.MaxClients = defaultMaxClients
	}

	s := &Server{
		ListenAddr: cfg.ListenAddr,
		registry:   auth.NewRegistry(),
		round: game.RoundConfig{
			Words:        cfg.Words,
			WordsPerGame: cfg.WordsPerGame,
			TimeLimit:    cfg.TimeLimit,
		},
		slots:   semaphore.NewWeighted(int64(cfg.MaxClients)),
		verbose: cfg.Verbose,
		baseCtx: context.Background(),
	}
	s.matchmaker = lobby.NewMatchmaker(cfg.GroupSize, s.startRound)
	return s
}

// ListenAndServe binds the configured address and accepts until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln, spawning one handler goroutine per
// client. A slot must be free before the next accept proceeds, so clients
// beyond capacity wait in the listener backlog instead of getting a handler.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.baseCtx = ctx
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	log.Printf("server is listening on %s", ln.Addr())

	for {
		if err := s.slots.Acquire(ctx, 1); err != nil {
			return nil
		}

		conn, err := ln.Accept()
		if err != nil {
			s.slots.Release(1)
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("accepting connection error: %v", err)
			continue
		}

		log.Printf("new connection from %s", conn.RemoteAddr())

		go func() {
			defer s.slots.Release(1)
			s.handleConn(conn)
		}()
	}
}

// startRound hands a matched group to a new game round on its own goroutine.
// A round that cannot start (empty word list) ends the game for the group
// immediately instead of leaving it stranded.
func (s *Server) startRound(group []*models.Session) {
	r, err := game.NewRound(group, s.round)
	if err != nil {
		log.Printf("cannot start game: %v", err)
		for _, m := range group {
			m.Send("Game over. Thanks for playing!")
		}
		return
	}

	log.Printf("starting game %s with %d players", r.ID(), len(group))
	go r.Run(s.baseCtx)
}

func (s *Server) logf(format string, args ...any) {
	if s.verbose {
		log.Printf(format, args...)
	}
}
