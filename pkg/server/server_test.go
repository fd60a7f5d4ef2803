package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fundwatch/pkg/notes"
	"fundwatch/pkg/watcher"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	w := watcher.NewWatcher(nil, time.Hour)
	return NewServer(w, notes.NewStore(t.TempDir()))
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t)

	req, _ := http.NewRequest("GET", "/api/status", nil)
	rr := httptest.NewRecorder()

	s.mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Contains(t, resp, "fund")
}

func TestHandleReadFile(t *testing.T) {
	s := newTestServer(t)
	assert.NoError(t, s.store.Save(3, "reduce volatility"))

	req, _ := http.NewRequest("GET", "/api/readFile/3.txt", nil)
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "reduce volatility", rr.Body.String())
}

func TestHandleReadFile_NotFound(t *testing.T) {
	s := newTestServer(t)

	req, _ := http.NewRequest("GET", "/api/readFile/404.txt", nil)
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleReadFile_InvalidName(t *testing.T) {
	s := newTestServer(t)

	req, _ := http.NewRequest("GET", "/api/readFile/..%2Fsecrets.txt", nil)
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)

	assert.NotEqual(t, http.StatusOK, rr.Code)
}

func TestHandleReadFile_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req, _ := http.NewRequest("POST", "/api/readFile/3.txt", nil)
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleSaveText(t *testing.T) {
	s := newTestServer(t)

	body := strings.NewReader(`{"justification": "take profit", "id": 4}`)
	req, _ := http.NewRequest("POST", "/api/saveText", body)
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "File saved successfully!", resp["message"])

	content, err := s.store.Read("4.txt")
	assert.NoError(t, err)
	assert.Equal(t, "take profit", string(content))
}

func TestHandleSaveText_BadBody(t *testing.T) {
	s := newTestServer(t)

	req, _ := http.NewRequest("POST", "/api/saveText", strings.NewReader("{ not json"))
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleWS(t *testing.T) {
	s := newTestServer(t)
	server := httptest.NewServer(s.mux)
	defer server.Close()

	u := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	ws, _, err := websocket.DefaultDialer.Dial(u, nil)
	assert.NoError(t, err)
	defer func() { _ = ws.Close() }()

	// Read initial state
	var msg map[string]interface{}
	err = ws.ReadJSON(&msg)
	assert.NoError(t, err)
	assert.Equal(t, "initial", msg["type"])
}
