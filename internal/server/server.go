// Package server exposes the board as an HTTP tool surface with a
// real-time WebSocket feed.
//
// Each board operation is one POST tool endpoint under /tools/; connected
// WebSocket clients receive task_update and board_reload events after
// mutations, enabling live views of the table.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/fmoraes/quadro/internal/board"
)

// MessageType defines the type of broadcast message.
type MessageType string

const (
	// MessageTypeTaskUpdate indicates a task was created or updated.
	MessageTypeTaskUpdate MessageType = "task_update"

	// MessageTypeBoardReload indicates the cached table was rebuilt from
	// the backing store (external edit picked up by the watcher).
	MessageTypeBoardReload MessageType = "board_reload"
)

// Message is a broadcast envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// TaskUpdateData describes a mutation for WebSocket clients.
type TaskUpdateData struct {
	Project string `json:"project"`
	TaskID  string `json:"task_id,omitempty"`
	Action  string `json:"action"` // created, updated, batch_created, batch_updated
	Count   int    `json:"count,omitempty"`
}

// Config holds server configuration.
type Config struct {
	// Port to listen on (0 picks a free port, useful in tests).
	Port int

	// Logger for server activity (default: stderr logger).
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:   8080,
		Logger: log.Default(),
	}
}

// Server serves the tool endpoints and manages WebSocket clients.
type Server struct {
	addr     string
	listener net.Listener
	server   *http.Server

	board *board.Board

	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex

	broadcast chan Message

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *log.Logger
}

// NewServer creates a tool server over the given board.
func NewServer(b *board.Board, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr:      fmt.Sprintf(":%d", config.Port),
		board:     b,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Message, 100),
		ctx:       ctx,
		cancel:    cancel,
		logger:    config.Logger,
	}
}

// Start begins serving. Non-blocking; use Stop for graceful shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/tools/query_tasks", s.logged(s.handleQueryTasks))
	mux.HandleFunc("/tools/get_task", s.logged(s.handleGetTask))
	mux.HandleFunc("/tools/add_task", s.logged(s.handleAddTask))
	mux.HandleFunc("/tools/add_tasks_batch", s.logged(s.handleAddTasksBatch))
	mux.HandleFunc("/tools/update_task", s.logged(s.handleUpdateTask))
	mux.HandleFunc("/tools/update_tasks_batch", s.logged(s.handleUpdateTasksBatch))
	mux.HandleFunc("/tools/sprint_stats", s.logged(s.handleSprintStats))
	mux.HandleFunc("/tools/get_valid_configs", s.logged(s.handleGetValidConfigs))
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.wg.Add(1)
	go s.broadcastLoop()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Printf("tool server listening on %s", ln.Addr())
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the server and closes all clients.
func (s *Server) Stop() error {
	s.logger.Println("stopping tool server")
	s.cancel()

	s.clientsMu.Lock()
	for conn := range s.clients {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(s.clients, conn)
	}
	s.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.wg.Wait()
	return nil
}

// Addr returns the listening address once started.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// ClientCount returns the number of connected WebSocket clients.
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// NotifyReload broadcasts a board_reload event. Called by the store
// watcher after an external edit triggered a refresh.
func (s *Server) NotifyReload() {
	s.Broadcast(Message{Type: MessageTypeBoardReload})
}

// Broadcast queues a message for all connected clients.
func (s *Server) Broadcast(msg Message) {
	select {
	case s.broadcast <- msg:
	case <-s.ctx.Done():
	default:
		s.logger.Println("warning: broadcast channel full, dropping message")
	}
}

// notifyTaskUpdate broadcasts a mutation event.
func (s *Server) notifyTaskUpdate(data TaskUpdateData) {
	raw, err := json.Marshal(data)
	if err != nil {
		s.logger.Printf("failed to marshal task update: %v", err)
		return
	}
	s.Broadcast(Message{Type: MessageTypeTaskUpdate, Data: raw})
}

// broadcastLoop fans queued messages out to all clients.
func (s *Server) broadcastLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return

		case msg := <-s.broadcast:
			if msg.Timestamp.IsZero() {
				msg.Timestamp = time.Now()
			}

			data, err := json.Marshal(msg)
			if err != nil {
				s.logger.Printf("failed to marshal message: %v", err)
				continue
			}

			s.clientsMu.RLock()
			clients := make([]*websocket.Conn, 0, len(s.clients))
			for conn := range s.clients {
				clients = append(clients, conn)
			}
			s.clientsMu.RUnlock()

			for _, conn := range clients {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				err := conn.Write(ctx, websocket.MessageText, data)
				cancel()
				if err != nil {
					s.logger.Printf("failed to send to client: %v", err)
					s.removeClient(conn)
				}
			}
		}
	}
}

// handleWebSocket upgrades connections and registers clients.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.Printf("websocket upgrade failed: %v", err)
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	count := len(s.clients)
	s.clientsMu.Unlock()

	s.logger.Printf("client connected (total: %d)", count)

	go s.readLoop(conn)
}

// readLoop keeps the connection alive and detects disconnects. Client
// messages are not processed.
func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.removeClient(conn)

	for {
		if _, _, err := conn.Read(s.ctx); err != nil {
			return
		}
	}
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	if _, exists := s.clients[conn]; exists {
		delete(s.clients, conn)
		count := len(s.clients)
		s.clientsMu.Unlock()

		_ = conn.Close(websocket.StatusNormalClosure, "")
		s.logger.Printf("client disconnected (total: %d)", count)
		return
	}
	s.clientsMu.Unlock()
}

// handleHealth reports liveness and the connected client count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.ClientCount(),
	})
}
