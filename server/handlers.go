package server

import (
	"net/http"
	"strings"

	"github.com/wicaksana/tanya/errors"
	"github.com/wicaksana/tanya/session"
)

// queryRequest is the body of POST /api/query.
type queryRequest struct {
	Utterance string `json:"utterance"`
	SessionID string `json:"session_id"`
}

// handleQuery resolves one utterance. Input is validated before the engine
// runs, so a bad request never creates a session.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req queryRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}
	if strings.TrimSpace(req.Utterance) == "" {
		writeError(w, http.StatusBadRequest, "utterance is required")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	res, err := s.engine.Resolve(r.Context(), req.SessionID, req.Utterance)
	if err != nil {
		if errors.IsInvalidRequestError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Errorw("Resolution failed", "error", err, "session_id", req.SessionID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// sessionResponse is the body of GET /api/session/{id}.
type sessionResponse struct {
	ID      string         `json:"id"`
	Context *string        `json:"context"`
	History []session.Turn `json:"history"`
}

// handleSession returns the history and active context of an existing
// session. It never creates one; unknown ids are 404.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id := r.PathValue("id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	sess.Lock()
	resp := sessionResponse{ID: sess.ID, History: sess.History()}
	if ctx := sess.Context(); ctx != "" {
		resp.Context = &ctx
	}
	sess.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// handleStats reports knowledge-base counts.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.base.Stats())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
