// File: game/shapes.go
package game

import (
	"math"

	"github.com/lguibr/blammo/utils"
)

// LineSeg is a line segment between two points in level space.
type LineSeg struct {
	P1 utils.Vector2D `json:"p1"`
	P2 utils.Vector2D `json:"p2"`
}

func NewLineSeg(p1, p2 utils.Vector2D) LineSeg { return LineSeg{P1: p1, P2: p2} }

func (l LineSeg) Direction() utils.Vector2D { return l.P2.Sub(l.P1) }
func (l LineSeg) Length() float64           { return l.Direction().Length() }
func (l LineSeg) MidPoint() utils.Vector2D  { return utils.MidPoint(l.P1, l.P2) }

func (l LineSeg) Translate(translation utils.Vector2D) LineSeg {
	return LineSeg{P1: l.P1.Add(translation), P2: l.P2.Add(translation)}
}

func (l LineSeg) Rotate(angleDegrees float64, pivot utils.Vector2D) LineSeg {
	return LineSeg{P1: l.P1.RotateAbout(angleDegrees, pivot), P2: l.P2.RotateAbout(angleDegrees, pivot)}
}

// ReflectX negates the x coordinate of both endpoints.
func (l LineSeg) ReflectX() LineSeg {
	return LineSeg{
		P1: utils.Vector2D{X: -l.P1.X, Y: l.P1.Y},
		P2: utils.Vector2D{X: -l.P2.X, Y: l.P2.Y},
	}
}

func (l LineSeg) Transform(m utils.Matrix) LineSeg {
	return LineSeg{P1: m.TransformPoint(l.P1), P2: m.TransformPoint(l.P2)}
}

// ClosestPoint returns the point on the segment nearest to pt.
func (l LineSeg) ClosestPoint(pt utils.Vector2D) utils.Vector2D {
	d := l.Direction()
	lengthSq := d.LengthSquared()
	if lengthSq == 0 {
		return l.P1
	}
	t := pt.Sub(l.P1).Dot(d) / lengthSq
	if t <= 0 {
		return l.P1
	}
	if t >= 1 {
		return l.P2
	}
	return l.P1.Add(d.Scale(t))
}

func (l LineSeg) SqDistanceTo(pt utils.Vector2D) float64 {
	return l.ClosestPoint(pt).DistanceSquared(pt)
}

// Intersects reports whether the two closed segments share at least one point.
func (l LineSeg) Intersects(other LineSeg) bool {
	_, ok := l.IntersectionPoint(other)
	return ok
}

// IntersectionPoint returns a point shared by both segments. Collinear overlapping
// segments report the overlap endpoint closest to l.P1.
func (l LineSeg) IntersectionPoint(other LineSeg) (utils.Vector2D, bool) {
	r := l.Direction()
	s := other.Direction()
	qp := other.P1.Sub(l.P1)
	denom := r.Cross(s)

	if math.Abs(denom) < utils.Epsilon {
		if math.Abs(qp.Cross(r)) >= utils.Epsilon {
			return utils.Vector2D{}, false
		}
		// Collinear: project other's endpoints onto l.
		rr := r.LengthSquared()
		if rr == 0 {
			if other.SqDistanceTo(l.P1) < utils.Epsilon {
				return l.P1, true
			}
			return utils.Vector2D{}, false
		}
		t0 := qp.Dot(r) / rr
		t1 := other.P2.Sub(l.P1).Dot(r) / rr
		lo, hi := math.Min(t0, t1), math.Max(t0, t1)
		if hi < 0 || lo > 1 {
			return utils.Vector2D{}, false
		}
		return l.P1.Add(r.Scale(math.Max(lo, 0))), true
	}

	t := qp.Cross(s) / denom
	u := qp.Cross(r) / denom
	if t < -utils.Epsilon || t > 1+utils.Epsilon || u < -utils.Epsilon || u > 1+utils.Epsilon {
		return utils.Vector2D{}, false
	}
	return l.P1.Add(r.Scale(t)), true
}

// Circle is a moving body's bounds at its current position.
type Circle struct {
	Center utils.Vector2D `json:"center"`
	Radius float64        `json:"radius"`
}

func NewCircle(center utils.Vector2D, radius float64) Circle {
	if radius < 0 {
		panic("circle radius must not be negative")
	}
	return Circle{Center: center, Radius: radius}
}

func (c Circle) Overlaps(other Circle) bool {
	sumRadii := c.Radius + other.Radius
	return c.Center.DistanceSquared(other.Center) <= sumRadii*sumRadii
}

func (c Circle) AABB() AABB {
	r := utils.Vector2D{X: c.Radius, Y: c.Radius}
	return AABB{Min: c.Center.Sub(r), Max: c.Center.Add(r)}
}

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin    utils.Vector2D `json:"origin"`
	Direction utils.Vector2D `json:"direction"`
}

// NewRay normalizes direction. A zero direction produces a ray that hits nothing.
func NewRay(origin, direction utils.Vector2D) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

func (r Ray) PointAt(t float64) utils.Vector2D { return r.Origin.Add(r.Direction.Scale(t)) }

// IntersectSegment returns the ray parameter of the first point of l hit by r.
func (r Ray) IntersectSegment(l LineSeg) (float64, bool) {
	if r.Direction.IsZero() {
		return 0, false
	}
	d := l.Direction()
	ao := l.P1.Sub(r.Origin)
	denom := r.Direction.Cross(d)

	if math.Abs(denom) < utils.Epsilon {
		// Parallel: only a collinear segment can be hit, at its nearest endpoint ahead of the origin.
		if math.Abs(ao.Cross(r.Direction)) >= utils.Epsilon {
			return 0, false
		}
		t1 := ao.Dot(r.Direction)
		t2 := l.P2.Sub(r.Origin).Dot(r.Direction)
		lo, hi := math.Min(t1, t2), math.Max(t1, t2)
		if hi < 0 {
			return 0, false
		}
		return math.Max(lo, 0), true
	}

	t := ao.Cross(d) / denom
	s := ao.Cross(r.Direction) / denom
	if t < 0 || s < -utils.Epsilon || s > 1+utils.Epsilon {
		return 0, false
	}
	return t, true
}

// AABB is an axis aligned bounding box.
type AABB struct {
	Min utils.Vector2D `json:"min"`
	Max utils.Vector2D `json:"max"`
}

func NewAABB(a, b utils.Vector2D) AABB {
	return AABB{
		Min: utils.Vector2D{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: utils.Vector2D{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

func (b AABB) Width() float64         { return b.Max.X - b.Min.X }
func (b AABB) Height() float64        { return b.Max.Y - b.Min.Y }
func (b AABB) Center() utils.Vector2D { return utils.MidPoint(b.Min, b.Max) }
func (b AABB) IsEmpty() bool          { return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y }
func (b AABB) Contains(pt utils.Vector2D) bool {
	return pt.X >= b.Min.X && pt.X <= b.Max.X && pt.Y >= b.Min.Y && pt.Y <= b.Max.Y
}

func (b AABB) AddPoint(pt utils.Vector2D) AABB {
	return AABB{
		Min: utils.Vector2D{X: math.Min(b.Min.X, pt.X), Y: math.Min(b.Min.Y, pt.Y)},
		Max: utils.Vector2D{X: math.Max(b.Max.X, pt.X), Y: math.Max(b.Max.Y, pt.Y)},
	}
}

func (b AABB) Union(other AABB) AABB { return b.AddPoint(other.Min).AddPoint(other.Max) }

func (b AABB) Expand(amount float64) AABB {
	e := utils.Vector2D{X: amount, Y: amount}
	return AABB{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

func (b AABB) Translate(v utils.Vector2D) AABB { return AABB{Min: b.Min.Add(v), Max: b.Max.Add(v)} }

func (b AABB) Intersects(other AABB) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y
}

// SqDistanceTo is zero for points inside the box.
func (b AABB) SqDistanceTo(pt utils.Vector2D) float64 {
	dx := math.Max(0, math.Max(b.Min.X-pt.X, pt.X-b.Max.X))
	dy := math.Max(0, math.Max(b.Min.Y-pt.Y, pt.Y-b.Max.Y))
	return dx*dx + dy*dy
}

// ClipRay returns the ray parameters where r enters and leaves b. The entry is
// clamped to 0 when the origin is inside. ok is false when r misses b.
func (b AABB) ClipRay(r Ray) (enter, exit float64, ok bool) {
	enter, exit = math.Inf(-1), math.Inf(1)
	slab := func(origin, dir, lo, hi float64) bool {
		if dir == 0 {
			return origin >= lo && origin <= hi
		}
		t1, t2 := (lo-origin)/dir, (hi-origin)/dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		enter, exit = math.Max(enter, t1), math.Min(exit, t2)
		return enter <= exit
	}
	if !slab(r.Origin.X, r.Direction.X, b.Min.X, b.Max.X) || !slab(r.Origin.Y, r.Direction.Y, b.Min.Y, b.Max.Y) {
		return 0, 0, false
	}
	if exit < 0 {
		return 0, 0, false
	}
	return math.Max(enter, 0), exit, true
}

func (b AABB) Edges() [4]LineSeg {
	topLeft := utils.Vector2D{X: b.Min.X, Y: b.Max.Y}
	bottomRight := utils.Vector2D{X: b.Max.X, Y: b.Min.Y}
	return [4]LineSeg{
		NewLineSeg(topLeft, b.Min),
		NewLineSeg(b.Min, bottomRight),
		NewLineSeg(bottomRight, b.Max),
		NewLineSeg(b.Max, topLeft),
	}
}

// IntersectsSegment reports whether any point of l lies inside or on the box.
func (b AABB) IntersectsSegment(l LineSeg) bool {
	if b.Contains(l.P1) || b.Contains(l.P2) {
		return true
	}
	for _, edge := range b.Edges() {
		if edge.Intersects(l) {
			return true
		}
	}
	return false
}

// Extent is a possibly rotated rectangle that may be moving during the step, such as a projectile.
type Extent struct {
	Center       utils.Vector2D `json:"center"`
	HalfWidth    float64        `json:"halfWidth"`
	HalfHeight   float64        `json:"halfHeight"`
	Up           utils.Vector2D `json:"up"`           // Zero means axis aligned
	Displacement utils.Vector2D `json:"displacement"` // Travel during the step, zero for a static query
}

// AABB bounds the rectangle at both the start and the end of its displacement.
func (e Extent) AABB() AABB {
	up := e.Up.Normalize()
	if up.IsZero() {
		up = utils.Vector2D{Y: 1}
	}
	right := utils.Vector2D{X: up.Y, Y: -up.X}

	halfX := math.Abs(right.X)*e.HalfWidth + math.Abs(up.X)*e.HalfHeight
	halfY := math.Abs(right.Y)*e.HalfWidth + math.Abs(up.Y)*e.HalfHeight
	half := utils.Vector2D{X: halfX, Y: halfY}

	start := AABB{Min: e.Center.Sub(half), Max: e.Center.Add(half)}
	return start.Union(start.Translate(e.Displacement))
}
