package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"fundwatch/pkg/notes"
	"fundwatch/pkg/watcher"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server exposes the current fund snapshot over HTTP/WebSocket and
// hosts the flat-file justification endpoints.
type Server struct {
	watcher *watcher.Watcher
	store   *notes.Store
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
	mux     *http.ServeMux
}

func NewServer(w *watcher.Watcher, store *notes.Store) *Server {
	s := &Server{
		watcher: w,
		store:   store,
		clients: make(map[*websocket.Conn]bool),
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/api/readFile/", s.handleReadFile)
	s.mux.HandleFunc("/api/saveText", s.handleSaveText)
	s.mux.HandleFunc("/ws", s.handleWS)
}

func (s *Server) Start(port int) error {
	go s.listenToWatcher()

	fmt.Printf("API Server listening on :%d\n", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), s.mux)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"fund": s.watcher.Snapshot(),
	}
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) handleReadFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeJSONError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	filename := strings.TrimPrefix(r.URL.Path, "/api/readFile/")
	if filename == "" || !notes.ValidFilename(filename) {
		writeJSONError(w, http.StatusBadRequest, "Invalid filename.")
		return
	}

	content, err := s.store.Read(filename)
	if os.IsNotExist(err) {
		writeJSONError(w, http.StatusNotFound, "File not found.")
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to read file.")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(content)
}

func (s *Server) handleSaveText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req struct {
		Justification string `json:"justification"`
		ID            uint64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := s.store.Save(req.ID, req.Justification); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to save file.")
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "File saved successfully!"})
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	// Send initial state
	initialData := map[string]interface{}{
		"type": "initial",
		"data": map[string]interface{}{
			"fund": s.watcher.Snapshot(),
		},
	}
	_ = conn.WriteJSON(initialData)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) listenToWatcher() {
	sub := s.watcher.Subscribe()
	defer s.watcher.Unsubscribe(sub)

	for event := range sub {
		s.broadcast(event)
	}
}

func (s *Server) broadcast(event watcher.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for client := range s.clients {
		if err := client.WriteJSON(event); err != nil {
			_ = client.Close()
			delete(s.clients, client)
		}
	}
}
