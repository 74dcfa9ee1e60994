// File: game/tiebreak.go
package game

import (
	"math"

	"github.com/lguibr/blammo/utils"
)

type tieCandidate struct {
	index    int
	line     LineSeg
	normal   utils.Vector2D
	distance float64
}

// resolveTie picks one segment among those hit at the same instant. Outer
// (not favoured) segments win unless the circle clearly sits in front of an
// inner segment.
func (s *Solver) resolveTie(bounds BoundingLines, tied []segmentHit, impactCenter utils.Vector2D, radius float64, direction utils.Vector2D) int {
	var inside, outside []tieCandidate
	for _, h := range tied {
		line := bounds.Line(h.index)
		c := tieCandidate{
			index:    h.index,
			line:     line,
			normal:   bounds.Normal(h.index),
			distance: line.ClosestPoint(impactCenter).Distance(impactCenter),
		}
		if bounds.IsOnInside(h.index) {
			inside = append(inside, c)
		} else {
			outside = append(outside, c)
		}
	}

	if len(inside) == 0 {
		return s.closestCandidate(outside, direction).index
	}
	if len(outside) == 0 {
		return s.closestCandidate(inside, direction).index
	}

	out := s.closestCandidate(outside, direction)
	in := s.closestCandidate(inside, direction)

	if impactCenter.Sub(out.line.P1).Dot(out.normal) >= 0 {
		return out.index
	}
	if math.Abs(out.distance-in.distance) < radius/s.cfg.InsideOutsideToleranceDivisor {
		return out.index
	}
	if in.distance < out.distance && s.inNormalZone(in, impactCenter, radius) {
		return in.index
	}
	return out.index
}

// closestCandidate prefers the nearest segment, then the normal most opposed to
// the direction of travel, then the lowest index.
func (s *Solver) closestCandidate(candidates []tieCandidate, direction utils.Vector2D) tieCandidate {
	opposed := direction.Neg()
	best := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case c.distance < best.distance-s.cfg.DistanceTieEpsilon:
			best = c
		case math.Abs(c.distance-best.distance) <= s.cfg.DistanceTieEpsilon &&
			c.normal.Dot(opposed) > best.normal.Dot(opposed):
			best = c
		}
	}
	return best
}

// inNormalZone reports whether pt lies in the rectangle spanned by c's segment
// and extruded along its normal by NormalZoneRadiusScale radii.
func (s *Solver) inNormalZone(c tieCandidate, pt utils.Vector2D, radius float64) bool {
	dir := c.line.Direction()
	length := dir.Length()
	if length == 0 {
		return false
	}
	rel := pt.Sub(c.line.P1)
	along := rel.Dot(dir.Scale(1 / length))
	height := rel.Dot(c.normal)
	return along >= 0 && along <= length && height >= 0 && height <= s.cfg.NormalZoneRadiusScale*radius
}
