// File: server/handlers.go
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/lguibr/blammo/game"
	"github.com/lguibr/blammo/utils"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

// HandleGetLevel serves a JSON snapshot of every piece and its bounds. The
// level fingerprint is sent as the ETag.
func (s *Server) HandleGetLevel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		snapshot := s.Snapshot()
		etag := `"` + snapshot.Fingerprint + `"`
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snapshot); err != nil {
			s.logger.Error("encode level snapshot", zap.Error(err))
		}
	}
}

// Snapshot copies the current level under the read lock.
func (s *Server) Snapshot() LevelSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := s.level.Config()
	pieces := s.level.Pieces()
	snapshot := LevelSnapshot{
		Fingerprint: fmt.Sprintf("%016x", s.level.Fingerprint()),
		Cols:        s.level.Cols(),
		Rows:        s.level.Rows(),
		PieceWidth:  cfg.PieceWidth,
		PieceHeight: cfg.PieceHeight,
		Pieces:      make([]PieceSnapshot, len(pieces)),
	}
	for i, p := range pieces {
		snapshot.Pieces[i] = snapshotPiece(p)
	}
	return snapshot
}

// HandleProbe greets each connection with its session id and answers probe
// requests until the client goes away.
func (s *Server) HandleProbe() func(ws *websocket.Conn) {
	return func(ws *websocket.Conn) {
		if s.cfg.ReadBufferSize > 0 {
			ws.MaxPayloadBytes = s.cfg.ReadBufferSize
		}
		sess := s.openSession(ws)
		logger := s.logger.With(zapSession(sess.id), zap.String("remote", ws.Request().RemoteAddr))

		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in probe handler", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			}
			s.closeSession(sess)
			logger.Debug("session closed")
		}()

		logger.Debug("session opened")
		if err := sess.send(Response{Type: TypeWelcome, Session: sess.id}); err != nil {
			logger.Warn("welcome failed", zap.Error(err))
			return
		}
		s.readLoop(sess, logger)
	}
}

func (s *Server) readLoop(sess *session, logger *zap.Logger) {
	for {
		var req Request
		err := websocket.JSON.Receive(sess.conn, &req)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				if sendErr := sess.send(errorResponse(req, err)); sendErr != nil {
					return
				}
				continue
			}
			logger.Debug("read failed", zap.Error(err))
			return
		}

		resp, err := s.Dispatch(req)
		if err != nil {
			logger.Debug("request rejected", zap.String("type", req.Type), zap.Error(err))
			resp = errorResponse(req, err)
		}
		if err := sess.send(resp); err != nil {
			logger.Debug("write failed", zap.Error(err))
			return
		}
		if resp.Type == TypePieceChanged {
			notice := resp
			notice.ID = ""
			s.broadcast(notice, sess.id)
		}
	}
}

func errorResponse(req Request, err error) Response {
	return Response{Type: TypeError, ID: req.ID, Error: err.Error()}
}

// Dispatch answers one probe request. Queries share the read lock; hits take
// the write lock since they mutate the level.
func (s *Server) Dispatch(req Request) (Response, error) {
	resp := Response{ID: req.ID}
	switch req.Type {
	case TypeCollide:
		if err := validateCollide(req); err != nil {
			return resp, err
		}
		s.mu.RLock()
		hit, ok := s.level.Collide(s.solver, req.DT, req.Circle, req.Velocity)
		s.mu.RUnlock()
		resp.Type = TypeCollision
		resp.Hit = ok
		if ok {
			resp.Collision = &hit
		}

	case TypeCandidates:
		s.mu.RLock()
		var ids []game.PieceID
		var err error
		if req.Extent != nil {
			if err = validateExtent(*req.Extent); err == nil {
				ids = s.level.CandidatesFor(*req.Extent)
			}
		} else if err = validateCircle(req.Center, req.Radius); err == nil {
			ids = s.level.CandidatesNear(req.Center, req.Radius)
		}
		s.mu.RUnlock()
		if err != nil {
			return resp, err
		}
		resp.Type = TypeCandidateIDs
		resp.Candidates = ids
		resp.Hit = len(ids) > 0

	case TypeRay:
		if err := validateRay(req); err != nil {
			return resp, err
		}
		ray := game.NewRay(req.Origin, req.Direction)
		s.mu.RLock()
		hit, ok := s.level.FirstCollider(ray, game.NewPieceSet(req.Ignore...), req.Tolerance)
		s.mu.RUnlock()
		resp.Type = TypeRayHit
		resp.Hit = ok
		if ok {
			resp.Ray = &hit
		}

	case TypeHit:
		s.mu.Lock()
		count := s.level.Cols() * s.level.Rows()
		if req.PieceID < 0 || int(req.PieceID) >= count {
			s.mu.Unlock()
			return resp, fmt.Errorf("%w: piece id %d out of range [0, %d)", ErrInvalidRequest, req.PieceID, count)
		}
		outcome := s.level.BallHit(req.PieceID)
		s.mu.Unlock()
		resp.Type = TypePieceChanged
		resp.Hit = true
		resp.Outcome = &outcome

	default:
		return resp, fmt.Errorf("%w: %q", ErrUnknownMessage, req.Type)
	}
	return resp, nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if !utils.IsFinite(v) {
			return false
		}
	}
	return true
}

func finiteVector(v utils.Vector2D) bool { return finite(v.X, v.Y) }

func validateCircle(center utils.Vector2D, radius float64) error {
	if !finiteVector(center) || !finite(radius) {
		return fmt.Errorf("%w: circle must be finite", ErrInvalidRequest)
	}
	if radius < 0 {
		return fmt.Errorf("%w: negative radius %g", ErrInvalidRequest, radius)
	}
	return nil
}

func validateCollide(req Request) error {
	if err := validateCircle(req.Circle.Center, req.Circle.Radius); err != nil {
		return err
	}
	if !finiteVector(req.Velocity) || !finite(req.DT) {
		return fmt.Errorf("%w: velocity and dt must be finite", ErrInvalidRequest)
	}
	if req.DT < 0 {
		return fmt.Errorf("%w: negative dt %g", ErrInvalidRequest, req.DT)
	}
	return nil
}

func validateExtent(e game.Extent) error {
	if !finiteVector(e.Center) || !finiteVector(e.Up) || !finiteVector(e.Displacement) || !finite(e.HalfWidth, e.HalfHeight) {
		return fmt.Errorf("%w: extent must be finite", ErrInvalidRequest)
	}
	if e.HalfWidth < 0 || e.HalfHeight < 0 {
		return fmt.Errorf("%w: negative half extent", ErrInvalidRequest)
	}
	return nil
}

func validateRay(req Request) error {
	if !finiteVector(req.Origin) || !finiteVector(req.Direction) || !finite(req.Tolerance) {
		return fmt.Errorf("%w: ray must be finite", ErrInvalidRequest)
	}
	if req.Direction.IsZero() {
		return fmt.Errorf("%w: zero ray direction", ErrInvalidRequest)
	}
	if req.Tolerance < 0 {
		return fmt.Errorf("%w: negative tolerance %g", ErrInvalidRequest, req.Tolerance)
	}
	return nil
}
