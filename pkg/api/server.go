package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vjranagit/queryeditor/pkg/editor"
	"github.com/vjranagit/queryeditor/pkg/types"
	"go.uber.org/zap"
)

// session is one editor instance and the host's copy of its query
type session struct {
	loop   *editor.EventLoop
	ctrl   *editor.Controller
	latest types.Query // written on the loop goroutine only
}

// Server implements the HTTP API over editor sessions
type Server struct {
	catalog editor.ScenarioLister
	addr    string
	timeout time.Duration
	logger  *zap.Logger
	server  *http.Server

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewServer creates a new API server
func NewServer(addr string, catalog editor.ScenarioLister, timeout time.Duration, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Server{
		catalog:  catalog,
		addr:     addr,
		timeout:  timeout,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// Handler returns the request router
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/scenarios", s.handleScenarios)
	mux.HandleFunc("POST /api/v1/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("PUT /api/v1/sessions/{id}/scenario", s.handleSelectScenario)
	mux.HandleFunc("PUT /api/v1/sessions/{id}/fields/{field}", s.handleSetField)
	mux.HandleFunc("POST /api/v1/sessions/{id}/points", s.handleAddPoint)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}/points/{index}", s.handleDeletePoint)

	return mux
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.timeout,
		WriteTimeout: s.timeout,
	}

	return s.server.ListenAndServe()
}

// Stop stops the HTTP server and tears down all sessions
func (s *Server) Stop(ctx context.Context) error {
	var err error
	if s.server != nil {
		err = s.server.Shutdown(ctx)
	}

	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.catalog.ListScenarios(r.Context())
	if err != nil {
		s.logger.Warn("Listing scenarios failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, fmt.Sprintf("List failed: %v", err))
		return
	}
	if scenarios == nil {
		scenarios = []types.Scenario{}
	}
	writeJSON(w, http.StatusOK, scenarios)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var query types.Query
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
			return
		}
	}

	id := uuid.NewString()
	sess := &session{loop: editor.NewEventLoop(16), latest: query.Clone()}
	sess.ctrl = editor.NewController(sess.loop, query, s.catalog, func(q types.Query) {
		sess.latest = q
	}, editor.WithLogger(s.logger.With(zap.String("session", id))))

	// the fetch outlives this request, so it is not tied to r.Context()
	if err := sess.loop.Do(r.Context(), func() { sess.ctrl.Mount(context.Background()) }); err != nil {
		sess.close()
		writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("Mount failed: %v", err))
		return
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.Info("Editor session created", zap.String("session", id))
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session) (any, error) {
		view, ok := sess.ctrl.View()
		if !ok {
			return nil, editor.ErrPending
		}
		return view, nil
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	var final types.Query
	err := sess.loop.Do(r.Context(), func() { final = sess.latest.Clone() })
	sess.close()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("Session unavailable: %v", err))
		return
	}

	s.logger.Info("Editor session closed", zap.String("session", id))
	writeJSON(w, http.StatusOK, final)
}

func (s *Server) handleSelectScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenarioId"`
	}
	if !decode(w, r, &req) {
		return
	}

	s.withSession(w, r, func(sess *session) (any, error) {
		if err := sess.ctrl.SelectScenario(req.ScenarioID); err != nil {
			return nil, err
		}
		return sess.latest, nil
	})
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if !decode(w, r, &req) {
		return
	}
	field := editor.Field(r.PathValue("field"))

	s.withSession(w, r, func(sess *session) (any, error) {
		if err := sess.ctrl.SetField(field, req.Value); err != nil {
			return nil, err
		}
		return sess.latest, nil
	})
}

func (s *Server) handleAddPoint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value float64 `json:"value"`
		Time  string  `json:"time"`
	}
	if !decode(w, r, &req) {
		return
	}

	s.withSession(w, r, func(sess *session) (any, error) {
		if err := sess.ctrl.AddPoint(req.Value, req.Time); err != nil {
			return nil, err
		}
		return sess.latest, nil
	})
}

func (s *Server) handleDeletePoint(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid point index")
		return
	}

	s.withSession(w, r, func(sess *session) (any, error) {
		if err := sess.ctrl.DeletePoint(index); err != nil {
			return nil, err
		}
		return sess.latest, nil
	})
}

// withSession runs fn on the session's event loop and writes its result
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session) (any, error)) {
	id := r.PathValue("id")

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	var result any
	var fnErr error
	if err := sess.loop.Do(r.Context(), func() { result, fnErr = fn(sess) }); err != nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("Session unavailable: %v", err))
		return
	}

	if fnErr != nil {
		// a loading editor renders nothing; reads say so, edits are refused
		if errors.Is(fnErr, editor.ErrPending) && r.Method == http.MethodGet {
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
			return
		}
		writeError(w, statusFor(fnErr), fnErr.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (sess *session) close() {
	_ = sess.loop.Do(context.Background(), sess.ctrl.Close)
	sess.loop.Close()
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, editor.ErrInvalidTimestamp),
		errors.Is(err, editor.ErrIndexOutOfRange),
		errors.Is(err, editor.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, editor.ErrPointListUnavailable),
		errors.Is(err, editor.ErrPending),
		errors.Is(err, editor.ErrClosed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
