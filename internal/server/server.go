package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/randutil"
	"github.com/lox/blackjackforbots/internal/sessionid"
)

// DefaultMaxDecks is the largest shoe a client may request unless
// WithMaxDecks says otherwise
const DefaultMaxDecks = 8

// Server exposes Reset/Step over WebSocket. Every connection gets its own Env.
type Server struct {
	router      chi.Router
	upgrader    websocket.Upgrader
	logger      *log.Logger
	clock       quartz.Clock
	ids         *sessionid.Generator
	decks       int
	maxDecks    int
	idleTimeout time.Duration
	seed        int64
	sessions    atomic.Int64

	mu          sync.RWMutex
	connections map[*Connection]struct{}
	httpServer  *http.Server
}

// Option configures a Server
type Option func(*Server)

// WithClock sets the clock used for idle timeouts and pings
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithDecks sets the default number of decks per shoe for new sessions
func WithDecks(decks int) Option {
	return func(s *Server) {
		s.decks = decks
	}
}

// WithMaxDecks caps the decks a client may ask for on reset
func WithMaxDecks(n int) Option {
	return func(s *Server) {
		s.maxDecks = n
	}
}

// WithIdleTimeout sets how long a silent connection is kept open
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.idleTimeout = d
	}
}

// WithSeed sets the base seed each session's RNG is derived from
func WithSeed(seed int64) Option {
	return func(s *Server) {
		s.seed = seed
	}
}

// NewServer creates a new WebSocket server
func NewServer(logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Bots connect from anywhere
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		decks:       1,
		maxDecks:    DefaultMaxDecks,
		idleTimeout: 5 * time.Minute,
		connections: make(map[*Connection]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxDecks < s.decks {
		s.maxDecks = s.decks
	}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	if s.seed == 0 {
		s.seed = s.clock.Now().UnixNano()
	}
	s.ids = sessionid.NewGenerator(s.clock, randutil.New(s.seed))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)
	s.router = r

	return s
}

// Handler returns the HTTP handler serving /ws and /health
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr and serves until Shutdown is called
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", addr, "decks", s.decks, "idleTimeout", s.idleTimeout)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes every open session
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Connections returns the number of open sessions
func (s *Server) Connections() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// newEnv builds the Env for one session. Session n draws from its own stream
// derived from the server seed, so sessions never share an RNG.
func (s *Server) newEnv(decks int) (*game.Env, error) {
	n := int(s.sessions.Add(1))
	return game.NewEnv(
		game.WithDecks(decks),
		game.WithSeed(randutil.Derive(s.seed, n)),
		game.WithLogger(s.logger),
	)
}

// handleWebSocket upgrades the request and starts a session
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	env, err := s.newEnv(s.decks)
	if err != nil {
		s.logger.Error("Failed to create environment", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := newConnection(s.ids.Next(), conn, env, s)

	s.mu.Lock()
	s.connections[client] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "session", client.id, "total", total)

	client.Start()

	go func() {
		<-client.Done()
		s.mu.Lock()
		delete(s.connections, client)
		total := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("Client disconnected", "session", client.id, "total", total)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}
