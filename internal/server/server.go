// Package server exposes game sessions over websockets. Each connection
// plays its own game; the server pushes the full state after every change.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mathrush/mathrush/internal/game"
	"github.com/mathrush/mathrush/internal/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Option configures a Server.
type Option func(*Server)

// WithEventRepo records every served game.
func WithEventRepo(repo store.EventRepo) Option {
	return func(s *Server) { s.events = repo }
}

// WithSessionOptions adds options applied to every new game session.
func WithSessionOptions(opts ...game.Option) Option {
	return func(s *Server) { s.sessionOpts = append(s.sessionOpts, opts...) }
}

// Server hands out one game.Session per websocket connection.
type Server struct {
	cfg         game.Config
	events      store.EventRepo
	sessionOpts []game.Option

	mu     sync.Mutex
	active int
}

// New creates a Server for the given game rules.
func New(cfg game.Config, opts ...Option) *Server {
	s := &Server{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes: /ws for games and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok %d\n", s.Active())
	})
	return mux
}

// Active returns the number of connected players.
func (s *Server) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// SafeConn serializes writes; gorilla connections allow one writer at a time.
type SafeConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (sc *SafeConn) WriteJSON(v any) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.conn.WriteJSON(v)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	defer conn.Close()
	sconn := &SafeConn{conn: conn}

	s.track(1)
	defer s.track(-1)

	changes := make(chan struct{}, 1)
	opts := []game.Option{game.WithListener(func(game.State) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})}
	if s.events != nil {
		opts = append(opts, game.WithEventRepo(s.events))
	}
	session := game.New(s.cfg, append(opts, s.sessionOpts...)...)

	done := make(chan struct{})
	writerDone := make(chan struct{})
	go s.pushState(sconn, session, changes, done, writerDone)
	defer func() {
		session.Close()
		close(done)
		<-writerDone
	}()

	if err := sconn.WriteJSON(stateMessage(session.State())); err != nil {
		log.Println("write:", err)
		return
	}
	session.Start()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("read:", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = sconn.WriteJSON(errorMessage("malformed message"))
			continue
		}
		if err := s.processMessage(sconn, session, msg); err != nil {
			_ = sconn.WriteJSON(errorMessage(err.Error()))
		}
	}
}

// pushState writes the latest state whenever the session signals a change.
// Bursts of changes collapse into one write of the newest state.
func (s *Server) pushState(sconn *SafeConn, session *game.Session, changes <-chan struct{}, done <-chan struct{}, finished chan<- struct{}) {
	defer close(finished)
	for {
		select {
		case <-changes:
			if err := sconn.WriteJSON(stateMessage(session.State())); err != nil {
				log.Println("write:", err)
				return
			}
		case <-done:
			return
		}
	}
}

var errUnknownType = errors.New("unknown message type")

func (s *Server) processMessage(sconn *SafeConn, session *game.Session, msg ClientMessage) error {
	switch msg.Type {
	case TypeAnswer:
		if msg.Value == nil {
			return errors.New("answer needs a value")
		}
		_, err := session.SubmitAnswer(*msg.Value)
		return err
	case TypeRestart:
		return session.Restart()
	case TypeSync:
		return sconn.WriteJSON(stateMessage(session.State()))
	default:
		return fmt.Errorf("%w: %q", errUnknownType, msg.Type)
	}
}

func (s *Server) track(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active += delta
}
