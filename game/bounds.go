// File: game/bounds.go
package game

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/lguibr/blammo/utils"
)

// BoundingLines is the solid surface of a collidable object: an ordered set of
// segments, each with a unit outward normal and a favoured-inside flag used when
// several segments are hit at the same instant. Indices are stable until the
// lines are removed or replaced.
type BoundingLines struct {
	lines    []LineSeg
	normals  []utils.Vector2D
	onInside []bool
}

// NewBoundingLines panics if the slices disagree in length. A nil onInside marks
// every segment as not favoured.
func NewBoundingLines(lines []LineSeg, normals []utils.Vector2D, onInside []bool) BoundingLines {
	if onInside == nil {
		onInside = make([]bool, len(lines))
	}
	if len(lines) != len(normals) || len(lines) != len(onInside) {
		panic(fmt.Sprintf("bounding lines: %d lines, %d normals, %d inside flags", len(lines), len(normals), len(onInside)))
	}
	b := BoundingLines{
		lines:    make([]LineSeg, 0, len(lines)),
		normals:  make([]utils.Vector2D, 0, len(lines)),
		onInside: make([]bool, 0, len(lines)),
	}
	for i := range lines {
		b.AddBound(lines[i], normals[i], onInside[i])
	}
	return b
}

// NewBoundingLinesFromAABB builds the four sides of box with outward normals,
// ordered left, bottom, right, top.
func NewBoundingLinesFromAABB(box AABB) BoundingLines {
	edges := box.Edges()
	normals := []utils.Vector2D{{X: -1}, {Y: -1}, {X: 1}, {Y: 1}}
	return NewBoundingLines(edges[:], normals, nil)
}

// AddBound appends a segment. The normal is normalized and must not be zero.
func (b *BoundingLines) AddBound(line LineSeg, normal utils.Vector2D, onInside bool) {
	if normal.IsZero() {
		panic("bounding lines: zero normal")
	}
	b.lines = append(b.lines, line)
	b.normals = append(b.normals, normal.Normalize())
	b.onInside = append(b.onInside, onInside)
}

// Merge appends every segment of other, keeping its order.
func (b *BoundingLines) Merge(other BoundingLines) {
	b.lines = append(b.lines, other.lines...)
	b.normals = append(b.normals, other.normals...)
	b.onInside = append(b.onInside, other.onInside...)
}

func (b *BoundingLines) PopLastBound() {
	if len(b.lines) == 0 {
		return
	}
	last := len(b.lines) - 1
	b.lines = b.lines[:last]
	b.normals = b.normals[:last]
	b.onInside = b.onInside[:last]
}

// Set replaces the contents with a copy of other.
func (b *BoundingLines) Set(other BoundingLines) { *b = other.Clone() }

func (b *BoundingLines) Clear() {
	b.lines = b.lines[:0]
	b.normals = b.normals[:0]
	b.onInside = b.onInside[:0]
}

func (b BoundingLines) Clone() BoundingLines {
	return BoundingLines{
		lines:    append([]LineSeg(nil), b.lines...),
		normals:  append([]utils.Vector2D(nil), b.normals...),
		onInside: append([]bool(nil), b.onInside...),
	}
}

func (b BoundingLines) IsEmpty() bool { return len(b.lines) == 0 }
func (b BoundingLines) Len() int      { return len(b.lines) }

func (b BoundingLines) Line(i int) LineSeg          { return b.lines[i] }
func (b BoundingLines) Normal(i int) utils.Vector2D { return b.normals[i] }
func (b BoundingLines) IsOnInside(i int) bool       { return b.onInside[i] }

// Lines returns a copy of the segments.
func (b BoundingLines) Lines() []LineSeg { return append([]LineSeg(nil), b.lines...) }

func (b *BoundingLines) Translate(translation utils.Vector2D) {
	for i := range b.lines {
		b.lines[i] = b.lines[i].Translate(translation)
	}
}

func (b *BoundingLines) Rotate(angleDegrees float64, pivot utils.Vector2D) {
	for i := range b.lines {
		b.lines[i] = b.lines[i].Rotate(angleDegrees, pivot)
		b.normals[i] = b.normals[i].Rotate(angleDegrees).Normalize()
	}
}

// ReflectX mirrors the geometry by negating every x coordinate.
func (b *BoundingLines) ReflectX() {
	for i := range b.lines {
		b.lines[i] = b.lines[i].ReflectX()
		b.normals[i] = utils.Vector2D{X: -b.normals[i].X, Y: b.normals[i].Y}
	}
}

// Transform applies an affine matrix. Normals go through the inverse transpose
// and are renormalized, so they stay perpendicular under non-uniform scale.
func (b *BoundingLines) Transform(m utils.Matrix) {
	for i := range b.lines {
		b.lines[i] = b.lines[i].Transform(m)
		b.normals[i] = m.TransformNormal(b.normals[i])
	}
}

// AABB returns the box around every endpoint; the zero box when empty.
func (b BoundingLines) AABB() AABB {
	if len(b.lines) == 0 {
		return AABB{}
	}
	box := NewAABB(b.lines[0].P1, b.lines[0].P2)
	for _, l := range b.lines[1:] {
		box = box.AddPoint(l.P1).AddPoint(l.P2)
	}
	return box
}

// BoundingCircle is centred on the AABB and reaches the farthest endpoint.
func (b BoundingLines) BoundingCircle() Circle {
	if len(b.lines) == 0 {
		return Circle{}
	}
	center := b.AABB().Center()
	maxSq := 0.0
	for _, l := range b.lines {
		maxSq = math.Max(maxSq, math.Max(center.DistanceSquared(l.P1), center.DistanceSquared(l.P2)))
	}
	return Circle{Center: center, Radius: math.Sqrt(maxSq)}
}

// ClosestPoint returns the nearest point on any segment and that segment's
// index, or -1 when empty.
func (b BoundingLines) ClosestPoint(pt utils.Vector2D) (utils.Vector2D, int) {
	best, bestIndex, bestSq := utils.Vector2D{}, -1, math.Inf(1)
	for i, l := range b.lines {
		p := l.ClosestPoint(pt)
		if d := p.DistanceSquared(pt); d < bestSq {
			best, bestIndex, bestSq = p, i, d
		}
	}
	return best, bestIndex
}

// IsInside is a half plane test against every segment; meaningful for closed
// convex outlines only.
func (b BoundingLines) IsInside(pt utils.Vector2D) bool {
	if len(b.lines) == 0 {
		return false
	}
	for i, l := range b.lines {
		fromLine := pt.Sub(l.P1)
		if fromLine.IsZero() {
			fromLine = pt.Sub(l.P2)
		}
		if fromLine.Dot(b.normals[i]) >= 0 {
			return false
		}
	}
	return true
}

// CollisionCheckCircleIndex returns the first segment overlapping c, or -1.
func (b BoundingLines) CollisionCheckCircleIndex(c Circle) int {
	radiusSq := c.Radius * c.Radius
	for i, l := range b.lines {
		if l.SqDistanceTo(c.Center) <= radiusSq {
			return i
		}
	}
	return -1
}

func (b BoundingLines) CollisionCheckCircle(c Circle) bool { return b.CollisionCheckCircleIndex(c) >= 0 }

// CollisionCheckCircleIndices returns every segment overlapping c.
func (b BoundingLines) CollisionCheckCircleIndices(c Circle) []int {
	radiusSq := c.Radius * c.Radius
	var indices []int
	for i, l := range b.lines {
		if l.SqDistanceTo(c.Center) <= radiusSq {
			indices = append(indices, i)
		}
	}
	return indices
}

func (b BoundingLines) CollisionCheckAABBIndex(box AABB) int {
	for i, l := range b.lines {
		if box.IntersectsSegment(l) {
			return i
		}
	}
	return -1
}

func (b BoundingLines) CollisionCheckAABB(box AABB) bool { return b.CollisionCheckAABBIndex(box) >= 0 }

func (b BoundingLines) CollisionCheckLineIndex(line LineSeg) int {
	for i, l := range b.lines {
		if l.Intersects(line) {
			return i
		}
	}
	return -1
}

func (b BoundingLines) CollisionCheckLine(line LineSeg) bool { return b.CollisionCheckLineIndex(line) >= 0 }

// CollisionCheckBoundsIndices returns the indices of this object's segments
// that cross any segment of other.
func (b BoundingLines) CollisionCheckBoundsIndices(other BoundingLines) []int {
	var indices []int
	for i, l := range b.lines {
		if other.CollisionCheckLine(l) {
			indices = append(indices, i)
		}
	}
	return indices
}

func (b BoundingLines) CollisionCheckBounds(other BoundingLines) bool {
	for _, l := range b.lines {
		if other.CollisionCheckLine(l) {
			return true
		}
	}
	return false
}

// CollisionPoints lists every point where a segment of b crosses a segment of other.
func (b BoundingLines) CollisionPoints(other BoundingLines) []utils.Vector2D {
	var points []utils.Vector2D
	for _, l := range b.lines {
		for _, o := range other.lines {
			if p, ok := l.IntersectionPoint(o); ok {
				points = append(points, p)
			}
		}
	}
	return points
}

// ClosestCollisionIndices returns the segments nearest pt. Segments whose
// squared distance is within tolerance of the nearest one are included.
func (b BoundingLines) ClosestCollisionIndices(pt utils.Vector2D, tolerance float64) []int {
	sqDists := make([]float64, len(b.lines))
	closest := math.Inf(1)
	for i, l := range b.lines {
		sqDists[i] = l.SqDistanceTo(pt)
		closest = math.Min(closest, sqDists[i])
	}
	var indices []int
	for i, d := range sqDists {
		if d-closest <= tolerance {
			indices = append(indices, i)
		}
	}
	return indices
}

// RayCollision returns the smallest ray parameter at which r hits a segment.
func (b BoundingLines) RayCollision(r Ray) (float64, int, bool) {
	best, bestIndex := math.Inf(1), -1
	for i, l := range b.lines {
		if t, ok := r.IntersectSegment(l); ok && t < best {
			best, bestIndex = t, i
		}
	}
	return best, bestIndex, bestIndex >= 0
}

// Fingerprint hashes the exact geometry, so two bounds with the same segments,
// normals and flags in the same order share a value.
func (b BoundingLines) Fingerprint() uint64 {
	h := xxhash.New()
	buf := make([]byte, 8)
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		_, _ = h.Write(buf)
	}
	for i, l := range b.lines {
		writeFloat(l.P1.X)
		writeFloat(l.P1.Y)
		writeFloat(l.P2.X)
		writeFloat(l.P2.Y)
		writeFloat(b.normals[i].X)
		writeFloat(b.normals[i].Y)
		flag := byte(0)
		if b.onInside[i] {
			flag = 1
		}
		_, _ = h.Write([]byte{flag})
	}
	return h.Sum64()
}
