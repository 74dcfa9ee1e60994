// File: game/ray.go
package game

import (
	"math"
)

// PieceSet is a set of piece ids, used to exclude pieces from ray queries.
type PieceSet map[PieceID]struct{}

func NewPieceSet(ids ...PieceID) PieceSet {
	set := make(PieceSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s PieceSet) Contains(id PieceID) bool {
	_, ok := s[id]
	return ok
}

// RayHit is the first piece found along a ray and the distance to it.
type RayHit struct {
	PieceID PieceID `json:"pieceId"`
	T       float64 `json:"t"`
}

// FirstCollider walks ray across the level in steps of RayStepFraction of the
// smallest piece dimension and returns the nearest piece whose bounds the ray
// crosses. With toleranceRadius > 0 a piece also counts when a circle of that
// radius at a sample point overlaps it; the hit distance is then the sample's.
// Only the part of the ray inside the level box, grown by the tolerance, is
// walked.
func (l *Level) FirstCollider(ray Ray, ignore PieceSet, toleranceRadius float64) (RayHit, bool) {
	if ray.Direction.IsZero() {
		return RayHit{}, false
	}
	ray.Direction = ray.Direction.Normalize()
	toleranceRadius = math.Max(toleranceRadius, 0)

	enter, exit, ok := l.Bounds().Expand(toleranceRadius).ClipRay(ray)
	if !ok {
		return RayHit{}, false
	}
	step := math.Min(l.cfg.PieceWidth, l.cfg.PieceHeight) * l.collision.RayStepFraction
	queryRadius := math.Max(toleranceRadius, step)
	start := ray.PointAt(enter)
	samples := int(math.Ceil((exit-enter)/step)) + 1

	best := RayHit{T: math.Inf(1)}
	tested := make(map[PieceID]struct{})
	for i := 0; i <= samples; i++ {
		offset := float64(i) * step
		distance := enter + offset
		if distance-step > best.T+toleranceRadius {
			break
		}
		sample := start.Add(ray.Direction.Scale(offset))
		for _, id := range l.CandidatesNear(sample, queryRadius) {
			if ignore.Contains(id) {
				continue
			}
			p := &l.pieces[id]
			if p.Bounds.IsEmpty() {
				continue
			}
			if _, done := tested[id]; !done {
				tested[id] = struct{}{}
				if t, _, ok := p.Bounds.RayCollision(ray); ok && t < best.T {
					best = RayHit{PieceID: id, T: t}
				}
			}
			if toleranceRadius > 0 && distance < best.T &&
				p.Bounds.CollisionCheckCircle(Circle{Center: sample, Radius: toleranceRadius}) {
				best = RayHit{PieceID: id, T: distance}
			}
		}
	}
	return best, !math.IsInf(best.T, 1)
}
