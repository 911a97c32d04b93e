// Package api serves a read-only view of the controller over HTTP: the
// current status as JSON and a websocket stream of samples.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/larsks/joyled/internal/controller"
	"github.com/larsks/joyled/internal/telemetry"
)

// StatusSource is implemented by telemetry.Snapshot.
type StatusSource interface {
	Status() telemetry.Status
	Subscribe(depth int) (<-chan controller.Telemetry, func())
}

// Server represents the status API server.
type Server struct {
	source   StatusSource
	router   *chi.Mux
	upgrader websocket.Upgrader
}

type jsonResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewServer creates a new Server instance.
func NewServer(source StatusSource) *Server {
	s := &Server{
		source: source,
		router: chi.NewRouter(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	s.router.Get("/status", s.statusHandler)
	s.router.Get("/ws", s.streamHandler)
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.sendJSONResponse(w, "error", "not found", http.StatusNotFound)
	})

	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) sendJSONResponse(w http.ResponseWriter, status string, message string, httpCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	json.NewEncoder(w).Encode(jsonResponse{ //nolint:errcheck
		Status:  status,
		Message: message,
	})
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.source.Status()); err != nil {
		log.Printf("failed to encode status: %v", err)
	}
}

func (s *Server) streamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close() //nolint:errcheck

	samples, cancel := s.source.Subscribe(16)
	defer cancel()

	// The client never sends anything useful; reading is how we notice
	// that it went away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case t, ok := <-samples:
			if !ok {
				return
			}
			if err := conn.WriteJSON(t); err != nil {
				log.Printf("websocket write failed: %v", err)
				return
			}
		}
	}
}
