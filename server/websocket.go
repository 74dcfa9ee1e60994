// File: server/websocket.go
package server

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

// session is one connected probe client. Writes are serialised because
// broadcasts and replies come from different goroutines.
type session struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func newSession(ws *websocket.Conn) *session {
	return &session{id: uuid.NewString(), conn: ws}
}

func (s *session) send(resp Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return websocket.JSON.Send(s.conn, resp)
}

func (s *Server) openSession(ws *websocket.Conn) *session {
	sess := newSession(ws)
	s.connMu.Lock()
	s.sessions[sess.id] = sess
	s.connMu.Unlock()
	return sess
}

func (s *Server) closeSession(sess *session) {
	s.connMu.Lock()
	delete(s.sessions, sess.id)
	s.connMu.Unlock()
	_ = sess.conn.Close()
}

// SessionCount reports the number of open probe connections.
func (s *Server) SessionCount() int {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return len(s.sessions)
}

// broadcast sends resp to every session except the one with id skip.
func (s *Server) broadcast(resp Response, skip string) {
	s.connMu.Lock()
	targets := make([]*session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		if id != skip {
			targets = append(targets, sess)
		}
	}
	s.connMu.Unlock()

	for _, sess := range targets {
		if err := sess.send(resp); err != nil {
			s.logger.Warn("broadcast failed", zapSession(sess.id), zap.Error(err))
		}
	}
}
