package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/tempconv-service/internal/domain"
	"github.com/gorilla/websocket"
)

const streamWriteWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// countFrame is one WebSocket message on the count stream.
type countFrame struct {
	Type  string `json:"type"` // "value" or "done"
	Value *int   `json:"value,omitempty"`
}

// handleCountStream upgrades to a WebSocket and sends one frame per counted
// value followed by a "done" frame. The max query parameter is validated
// before the upgrade so bad requests get a plain HTTP 400.
func (s *Server) handleCountStream(w http.ResponseWriter, r *http.Request) {
	n, err := s.parseCountMax(r.URL.Query().Get("max"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.metrics.CountStreams.Inc()
	defer s.metrics.CountStreams.Dec()

	for i := range domain.CountTo(n) {
		if err := writeFrame(conn, countFrame{Type: "value", Value: &i}); err != nil {
			s.logger.Info("count stream closed by client", "sent", i, "error", err)
			return
		}
	}
	if err := writeFrame(conn, countFrame{Type: "done"}); err != nil {
		return
	}

	deadline := time.Now().Add(streamWriteWait)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
		s.logger.Debug("count stream close frame failed", "error", err)
	}
}

func (s *Server) parseCountMax(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("max query parameter is required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("max must be an integer: %q", raw)
	}
	if limit := s.registry.CountLimit(); limit > 0 && n > limit {
		return 0, fmt.Errorf("max %d exceeds limit %d", n, limit)
	}
	return n, nil
}

type frameWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v any) error
}

func writeFrame(conn frameWriter, frame countFrame) error {
	if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(frame)
}
