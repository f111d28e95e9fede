package server

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/wicaksana/tanya/errors"
)

// wsError is sent for frames the engine rejects; the socket stays open.
type wsError struct {
	Error string `json:"error"`
}

// handleWebSocket runs a chat loop: each inbound frame is a queryRequest,
// each outbound frame a resolution result or an error.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		var req queryRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debugw("WebSocket closed unexpectedly", "error", err)
			}
			if _, ok := err.(*websocket.CloseError); ok {
				return
			}
			// Malformed frame: report and keep reading
			if err := conn.WriteJSON(wsError{Error: "invalid message"}); err != nil {
				return
			}
			continue
		}

		if strings.TrimSpace(req.Utterance) == "" || strings.TrimSpace(req.SessionID) == "" {
			if err := conn.WriteJSON(wsError{Error: "utterance and session_id are required"}); err != nil {
				return
			}
			continue
		}

		res, err := s.engine.Resolve(r.Context(), req.SessionID, req.Utterance)
		if err != nil {
			msg := "internal server error"
			if errors.IsInvalidRequestError(err) {
				msg = err.Error()
			} else {
				s.logger.Errorw("Resolution failed over WebSocket", "error", err)
			}
			if err := conn.WriteJSON(wsError{Error: msg}); err != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(res); err != nil {
			return
		}
	}
}
