// File: game/collision.go
package game

import (
	"math"

	"github.com/lguibr/blammo/utils"
)

// CollisionResult describes the first contact between a moving circle and a
// BoundingLines within one step.
type CollisionResult struct {
	Normal       utils.Vector2D `json:"normal"` // Unit, pointing from the surface toward the circle
	Line         LineSeg        `json:"line"`
	LineIndex    int            `json:"lineIndex"`
	TimeToImpact float64        `json:"timeToImpact"` // In [0, dT]
	ContactPoint utils.Vector2D `json:"contactPoint"` // Circle centre at first touch
}

// Solver performs swept circle tests. It holds no state besides its tolerances
// and is safe to share between goroutines.
type Solver struct {
	cfg utils.CollisionConfig
}

func NewSolver(cfg utils.CollisionConfig) *Solver {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return &Solver{cfg: cfg}
}

func (s *Solver) Config() utils.CollisionConfig { return s.cfg }

type segmentHit struct {
	index    int
	fraction float64
}

// Collide sweeps circle along velocity*dT against bounds at rest and reports
// the earliest contact. A circle already touching a segment collides at time 0.
func (s *Solver) Collide(dT float64, circle Circle, velocity utils.Vector2D, bounds BoundingLines) (CollisionResult, bool) {
	if circle.Radius < 0 {
		panic("collide: negative circle radius")
	}
	if dT < 0 {
		dT = 0
	}
	travel := velocity.Scale(dT)
	moving := travel.Length() > s.cfg.ParallelEpsilon

	var hits []segmentHit
	minFraction := math.Inf(1)
	for i := 0; i < bounds.Len(); i++ {
		fraction, ok := s.sweepSegment(circle, travel, moving, bounds.Line(i))
		if !ok {
			continue
		}
		hits = append(hits, segmentHit{index: i, fraction: fraction})
		minFraction = math.Min(minFraction, fraction)
	}
	if len(hits) == 0 {
		return CollisionResult{}, false
	}

	tied := hits[:0]
	for _, h := range hits {
		if h.fraction <= minFraction+s.cfg.TimeTieEpsilon {
			tied = append(tied, h)
		}
	}

	impactCenter := circle.Center.Add(travel.Scale(minFraction))
	winner := tied[0].index
	if moving && len(tied) > 1 {
		winner = s.resolveTie(bounds, tied, impactCenter, circle.Radius, travel.Normalize())
	}

	line := bounds.Line(winner)
	normal := bounds.Normal(winner)
	if normal.IsZero() {
		return CollisionResult{}, false
	}
	if impactCenter.Sub(line.ClosestPoint(impactCenter)).Dot(normal) < 0 {
		normal = normal.Neg()
	}

	return CollisionResult{
		Normal:       normal,
		Line:         line,
		LineIndex:    winner,
		TimeToImpact: minFraction * dT,
		ContactPoint: impactCenter,
	}, true
}

// CollideMoving handles bounds that move with boundaryVelocity during the step.
// The sweep runs in the bounds' rest frame; the contact point and the returned
// line are mapped back to world space at the time of impact.
func (s *Solver) CollideMoving(dT float64, circle Circle, velocity utils.Vector2D, bounds BoundingLines, boundaryVelocity utils.Vector2D) (CollisionResult, bool) {
	if boundaryVelocity.IsZero() {
		return s.Collide(dT, circle, velocity, bounds)
	}

	result, ok := s.Collide(dT, circle, velocity.Sub(boundaryVelocity), bounds)
	if !ok {
		return CollisionResult{}, false
	}
	result.ContactPoint = circle.Center.Add(velocity.Scale(result.TimeToImpact))
	result.Line = result.Line.Translate(boundaryVelocity.Scale(result.TimeToImpact))
	return result, true
}

// sweepSegment returns the fraction of travel at which the circle first touches line.
func (s *Solver) sweepSegment(circle Circle, travel utils.Vector2D, moving bool, line LineSeg) (float64, bool) {
	radiusSq := circle.Radius * circle.Radius
	if line.SqDistanceTo(circle.Center) <= radiusSq {
		return 0, true
	}
	if !moving {
		return 0, false
	}

	best := math.Inf(1)
	travelLength := travel.Length()

	// Face: the line offset by the radius toward the circle.
	dir := line.Direction()
	if length := dir.Length(); length > 0 {
		unit := dir.Scale(1 / length)
		normal := unit.Perpendicular()
		height := circle.Center.Sub(line.P1).Dot(normal)
		if height < 0 {
			normal = normal.Neg()
			height = -height
		}
		approach := travel.Dot(normal)
		if height > circle.Radius && approach < -s.cfg.ParallelEpsilon*travelLength {
			fraction := (height - circle.Radius) / -approach
			if fraction <= 1 {
				along := circle.Center.Add(travel.Scale(fraction)).Sub(line.P1).Dot(unit)
				if along >= 0 && along <= length {
					best = fraction
				}
			}
		}
	}

	// Endpoints catch corners, glancing sweeps and sweeps parallel to the line.
	for _, endpoint := range [2]utils.Vector2D{line.P1, line.P2} {
		if fraction, ok := sweepPoint(circle, travel, endpoint); ok && fraction < best {
			best = fraction
		}
	}

	return best, best <= 1
}

// sweepPoint solves |centre + f*travel - point| = radius for the entering root.
func sweepPoint(circle Circle, travel, point utils.Vector2D) (float64, bool) {
	offset := circle.Center.Sub(point)
	b := offset.Dot(travel)
	if b >= 0 {
		return 0, false
	}
	a := travel.LengthSquared()
	c := offset.LengthSquared() - circle.Radius*circle.Radius
	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	fraction := (-b - math.Sqrt(disc)) / a
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		return 0, false
	}
	return fraction, true
}
