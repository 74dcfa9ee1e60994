// File: game/level.go
package game

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/lguibr/blammo/utils"
)

// Level owns every piece in a flat arena and indexes them on a grid with one
// cell per piece. It is not safe for concurrent mutation.
type Level struct {
	cfg       utils.LevelConfig
	collision utils.CollisionConfig
	cols      int
	rows      int
	pieces    []Piece
	index     *GridIndex
}

// LevelCollision is the earliest hit of a sweep across the whole level.
type LevelCollision struct {
	PieceID PieceID `json:"pieceId"`
	CollisionResult
}

// NewLevel places layout on a grid of cfg.PieceWidth x cfg.PieceHeight cells
// with the bottom left corner at the origin.
func NewLevel(cfg utils.LevelConfig, collision utils.CollisionConfig, layout Layout) *Level {
	rows, cols := layout.Rows(), layout.Cols()
	if rows == 0 || cols == 0 {
		panic("level: empty layout")
	}
	for _, row := range layout {
		if len(row) != cols {
			panic("level: layout rows differ in length")
		}
	}

	l := &Level{
		cfg:       cfg,
		collision: collision,
		cols:      cols,
		rows:      rows,
		pieces:    make([]Piece, 0, cols*rows),
		index:     NewGridIndex(cfg.PieceWidth, cfg.PieceHeight, cols, rows),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			id := PieceID(len(l.pieces))
			l.pieces = append(l.pieces, Piece{
				ID:        id,
				Col:       col,
				Row:       row,
				Center:    l.cellBox(col, row).Center(),
				PieceSpec: layout[row][col],
			})
			l.index.Insert(id, l.cellBox(col, row))
		}
	}
	for i := range l.pieces {
		l.rebuild(PieceID(i))
	}
	return l
}

func (l *Level) Cols() int { return l.cols }
func (l *Level) Rows() int { return l.rows }

func (l *Level) Config() utils.LevelConfig { return l.cfg }

func (l *Level) Width() float64  { return float64(l.cols) * l.cfg.PieceWidth }
func (l *Level) Height() float64 { return float64(l.rows) * l.cfg.PieceHeight }

func (l *Level) Bounds() AABB {
	return AABB{Max: utils.Vector2D{X: l.Width(), Y: l.Height()}}
}

func (l *Level) cellBox(col, row int) AABB {
	corner := utils.Vector2D{X: float64(col) * l.cfg.PieceWidth, Y: float64(row) * l.cfg.PieceHeight}
	return AABB{Min: corner, Max: corner.Add(utils.Vector2D{X: l.cfg.PieceWidth, Y: l.cfg.PieceHeight})}
}

func (l *Level) mustPiece(id PieceID) *Piece {
	if id < 0 || int(id) >= len(l.pieces) {
		panic(fmt.Sprintf("level: piece id %d out of range", id))
	}
	return &l.pieces[id]
}

// Piece returns a copy of the piece. Its bounds must be treated as read only.
func (l *Level) Piece(id PieceID) Piece { return *l.mustPiece(id) }

func (l *Level) PieceAt(col, row int) (PieceID, bool) {
	if col < 0 || col >= l.cols || row < 0 || row >= l.rows {
		return 0, false
	}
	return PieceID(row*l.cols + col), true
}

// Pieces returns copies of every piece in id order.
func (l *Level) Pieces() []Piece { return append([]Piece(nil), l.pieces...) }

func (l *Level) neighbours(p *Piece) neighbours {
	var n neighbours
	for s := SideLeft; s <= SideTop; s++ {
		if id, ok := l.PieceAt(p.Col+sideOffsets[s][0], p.Row+sideOffsets[s][1]); ok {
			n[s] = &l.pieces[id]
		}
	}
	return n
}

func (l *Level) rebuild(id PieceID) bool {
	p := l.mustPiece(id)
	before := p.Bounds.Fingerprint()
	p.Bounds = boundsBuilders[p.Kind](p, l.neighbours(p), l.cfg.PieceWidth/2, l.cfg.PieceHeight/2)
	return p.Bounds.Fingerprint() != before
}

// UpdatePiece rebuilds the bounds of id and its four neighbours and returns the
// pieces whose bounds changed.
func (l *Level) UpdatePiece(id PieceID) []PieceID {
	p := l.mustPiece(id)
	var changed []PieceID
	if l.rebuild(id) {
		changed = append(changed, id)
	}
	for _, n := range l.neighbours(p) {
		if n != nil && l.rebuild(n.ID) {
			changed = append(changed, n.ID)
		}
	}
	return changed
}

// ReplacePiece swaps the content of a cell keeping its id.
func (l *Level) ReplacePiece(id PieceID, spec PieceSpec) []PieceID {
	if spec.Kind < 0 || spec.Kind >= pieceKindCount {
		panic(fmt.Sprintf("level: invalid piece kind %d", spec.Kind))
	}
	p := l.mustPiece(id)
	p.PieceSpec = spec
	return l.UpdatePiece(id)
}

func (l *Level) SetStatus(id PieceID, status PieceStatus, enabled bool) []PieceID {
	p := l.mustPiece(id)
	if enabled {
		p.Status |= status
	} else {
		p.Status &^= status
	}
	return l.UpdatePiece(id)
}

// BallHit applies the piece's hit reaction and rebuilds the neighbourhood when
// the piece changed.
func (l *Level) BallHit(id PieceID) HitOutcome {
	p := l.mustPiece(id)
	outcome := HitOutcome{ID: id, Before: p.Kind}

	spec, status := react(*p)
	switch {
	case spec.Kind != p.Kind:
		p.Status = status
		outcome.Changed = l.ReplacePiece(id, spec)
	case status != p.Status:
		p.PieceSpec = spec
		p.Status = status
		outcome.Changed = l.UpdatePiece(id)
	default:
		p.PieceSpec = spec
	}

	outcome.After = p.Kind
	outcome.Life = p.Life
	return outcome
}

func (l *Level) CandidatesNear(center utils.Vector2D, radius float64) []PieceID {
	return l.index.CandidatesNear(center, radius)
}

func (l *Level) CandidatesFor(extent Extent) []PieceID {
	return l.index.CandidatesFor(extent)
}

// Collide sweeps a ball through the level and returns the earliest hit across
// all candidate pieces. Equal times resolve to the lower piece id.
func (l *Level) Collide(solver *Solver, dT float64, circle Circle, velocity utils.Vector2D) (LevelCollision, bool) {
	extent := Extent{
		Center:       circle.Center,
		HalfWidth:    circle.Radius,
		HalfHeight:   circle.Radius,
		Displacement: velocity.Scale(dT),
	}

	var best LevelCollision
	found := false
	for _, id := range l.CandidatesFor(extent) {
		p := &l.pieces[id]
		if p.Bounds.IsEmpty() || p.BallPassesThrough(velocity) {
			continue
		}
		result, ok := solver.Collide(dT, circle, velocity, p.Bounds)
		if !ok {
			continue
		}
		if !found || result.TimeToImpact < best.TimeToImpact {
			best = LevelCollision{PieceID: id, CollisionResult: result}
			found = true
		}
	}
	return best, found
}

// Fingerprint changes whenever any piece's content or bounds change.
func (l *Level) Fingerprint() uint64 {
	h := xxhash.New()
	buf := make([]byte, 8)
	for i := range l.pieces {
		p := &l.pieces[i]
		binary.LittleEndian.PutUint64(buf, p.Bounds.Fingerprint())
		_, _ = h.Write(buf)
		_, _ = h.Write([]byte{byte(p.Kind), byte(p.Life), byte(p.Status)})
	}
	return h.Sum64()
}
