// File: server/messages.go
package server

import (
	"github.com/lguibr/blammo/game"
	"github.com/lguibr/blammo/utils"
)

// Request types accepted on the probe socket.
const (
	TypeCollide    = "collide"
	TypeCandidates = "candidates"
	TypeRay        = "ray"
	TypeHit        = "hit"
)

// Response types sent on the probe socket.
const (
	TypeWelcome      = "welcome"
	TypeCollision    = "collision"
	TypeCandidateIDs = "candidates"
	TypeRayHit       = "rayHit"
	TypePieceChanged = "pieceChanged"
	TypeError        = "error"
)

// Request is one probe query. Only the fields of its Type are read.
type Request struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"` // Echoed back in the response

	// collide
	Circle   game.Circle    `json:"circle"`
	Velocity utils.Vector2D `json:"velocity"`
	DT       float64        `json:"dt"`

	// candidates: either Center/Radius or Extent
	Center utils.Vector2D `json:"center"`
	Radius float64        `json:"radius"`
	Extent *game.Extent   `json:"extent,omitempty"`

	// ray
	Origin    utils.Vector2D `json:"origin"`
	Direction utils.Vector2D `json:"direction"`
	Ignore    []game.PieceID `json:"ignore,omitempty"`
	Tolerance float64        `json:"tolerance"`

	// hit
	PieceID game.PieceID `json:"pieceId"`
}

type Response struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Session string `json:"session,omitempty"`

	Hit        bool                 `json:"hit"`
	Collision  *game.LevelCollision `json:"collision,omitempty"`
	Candidates []game.PieceID       `json:"candidates,omitempty"`
	Ray        *game.RayHit         `json:"ray,omitempty"`
	Outcome    *game.HitOutcome     `json:"outcome,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// LevelSnapshot is the body of GET /level.
type LevelSnapshot struct {
	Fingerprint string          `json:"fingerprint"`
	Cols        int             `json:"cols"`
	Rows        int             `json:"rows"`
	PieceWidth  float64         `json:"pieceWidth"`
	PieceHeight float64         `json:"pieceHeight"`
	Pieces      []PieceSnapshot `json:"pieces"`
}

type PieceSnapshot struct {
	game.Piece
	Lines []BoundSnapshot `json:"lines"`
}

type BoundSnapshot struct {
	Line     game.LineSeg   `json:"line"`
	Normal   utils.Vector2D `json:"normal"`
	OnInside bool           `json:"onInside"`
}

func snapshotPiece(p game.Piece) PieceSnapshot {
	lines := make([]BoundSnapshot, p.Bounds.Len())
	for i := range lines {
		lines[i] = BoundSnapshot{Line: p.Bounds.Line(i), Normal: p.Bounds.Normal(i), OnInside: p.Bounds.IsOnInside(i)}
	}
	return PieceSnapshot{Piece: p, Lines: lines}
}
