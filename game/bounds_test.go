// File: game/bounds_test.go
package game

import (
	"testing"

	"github.com/lguibr/blammo/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquare() BoundingLines {
	return NewBoundingLinesFromAABB(AABB{Min: v(0, 0), Max: v(1, 1)})
}

func assertUnitNormals(t *testing.T, b BoundingLines) {
	t.Helper()
	for i := 0; i < b.Len(); i++ {
		assert.InDelta(t, 1.0, b.Normal(i).Length(), utils.NormalLengthTolerance, "normal %d", i)
	}
}

func TestNewBoundingLines(t *testing.T) {
	lines := []LineSeg{NewLineSeg(v(0, 0), v(1, 0)), NewLineSeg(v(1, 0), v(1, 1))}

	assert.Panics(t, func() { NewBoundingLines(lines, []utils.Vector2D{{Y: -1}}, nil) }, "fewer normals than lines")
	assert.Panics(t, func() { NewBoundingLines(lines, []utils.Vector2D{{Y: -1}, {X: 1}}, []bool{true}) }, "fewer flags than lines")
	assert.Panics(t, func() { NewBoundingLines(lines, []utils.Vector2D{{Y: -1}, {}}, nil) }, "zero normal")

	b := NewBoundingLines(lines, []utils.Vector2D{{Y: -3}, {X: 0.5}}, []bool{false, true})
	require.Equal(t, 2, b.Len())
	assertVectorNear(t, v(0, -1), b.Normal(0))
	assertVectorNear(t, v(1, 0), b.Normal(1))
	assert.False(t, b.IsOnInside(0))
	assert.True(t, b.IsOnInside(1))
	assert.Panics(t, func() { b.Line(2) }, "index past the end")
}

func TestBoundingLines_FromAABB(t *testing.T) {
	b := unitSquare()
	require.Equal(t, 4, b.Len())
	expected := []utils.Vector2D{v(-1, 0), v(0, -1), v(1, 0), v(0, 1)}
	for i, n := range expected {
		assertVectorNear(t, n, b.Normal(i), "side %d", i)
		assert.Greater(t, b.Line(i).MidPoint().Sub(v(0.5, 0.5)).Dot(n), 0.0, "side %d faces outward", i)
	}
	assert.True(t, b.IsInside(v(0.5, 0.5)))
	assert.False(t, b.IsInside(v(1.5, 0.5)))
	assert.False(t, b.IsInside(v(1, 0.5)), "points on the outline are not inside")
	assert.False(t, BoundingLines{}.IsInside(v(0, 0)))
}

func TestBoundingLines_AddMergePop(t *testing.T) {
	var b BoundingLines
	assert.True(t, b.IsEmpty())
	b.AddBound(NewLineSeg(v(0, 0), v(1, 0)), v(0, 2), true)
	assert.False(t, b.IsEmpty())
	assertVectorNear(t, v(0, 1), b.Normal(0))

	b.Merge(unitSquare())
	assert.Equal(t, 5, b.Len())
	assert.True(t, b.IsOnInside(0))
	assert.False(t, b.IsOnInside(4))

	b.PopLastBound()
	assert.Equal(t, 4, b.Len())
	assertVectorNear(t, v(1, 0), b.Normal(3))

	var empty BoundingLines
	empty.PopLastBound()
	assert.True(t, empty.IsEmpty())

	b.Clear()
	assert.True(t, b.IsEmpty())
}

func TestBoundingLines_CloneAndSet(t *testing.T) {
	original := unitSquare()
	clone := original.Clone()
	clone.Translate(v(5, 0))
	assertVectorNear(t, v(0, 1), original.Line(0).P1, "clone must not share storage")

	var replaced BoundingLines
	replaced.AddBound(NewLineSeg(v(9, 9), v(10, 9)), v(0, 1), false)
	replaced.Set(original)
	assert.Equal(t, original.Len(), replaced.Len())
	assert.Equal(t, original.Fingerprint(), replaced.Fingerprint())
}

func TestBoundingLines_Transforms(t *testing.T) {
	testCases := []struct {
		name   string
		apply  func(b *BoundingLines)
		line   LineSeg
		normal utils.Vector2D
	}{
		{
			"translate",
			func(b *BoundingLines) { b.Translate(v(2, 3)) },
			NewLineSeg(v(2, 4), v(2, 3)), v(-1, 0),
		},
		{
			"rotate a quarter turn about the origin",
			func(b *BoundingLines) { b.Rotate(90, v(0, 0)) },
			NewLineSeg(v(-1, 0), v(0, 0)), v(0, -1),
		},
		{
			"reflect",
			func(b *BoundingLines) { b.ReflectX() },
			NewLineSeg(v(0, 1), v(0, 0)), v(1, 0),
		},
		{
			"non uniform scale",
			func(b *BoundingLines) { b.Transform(utils.NewScaleMatrix(4, 2)) },
			NewLineSeg(v(0, 2), v(0, 0)), v(-1, 0),
		},
		{
			"shear keeps normals perpendicular",
			func(b *BoundingLines) { b.Transform(utils.Matrix{A: 1, B: 1, D: 1}) },
			NewLineSeg(v(1, 1), v(0, 0)), utils.NewVector(-1, 1).Normalize(),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := unitSquare()
			tc.apply(&b)
			assertVectorNear(t, tc.line.P1, b.Line(0).P1)
			assertVectorNear(t, tc.line.P2, b.Line(0).P2)
			assertVectorNear(t, tc.normal, b.Normal(0))
			assertUnitNormals(t, b)
			for i := 0; i < b.Len(); i++ {
				assert.InDelta(t, 0.0, b.Line(i).Direction().Dot(b.Normal(i)), 1e-9, "normal %d must stay perpendicular", i)
			}
		})
	}
}

func TestBoundingLines_AABBAndCircle(t *testing.T) {
	b := unitSquare()
	b.Translate(v(1, 1))
	box := b.AABB()
	assertVectorNear(t, v(1, 1), box.Min)
	assertVectorNear(t, v(2, 2), box.Max)

	c := b.BoundingCircle()
	assertVectorNear(t, v(1.5, 1.5), c.Center)
	assert.InDelta(t, 0.7071067811865476, c.Radius, 1e-9)

	assert.Equal(t, AABB{}, BoundingLines{}.AABB())
}

func TestBoundingLines_ClosestPoint(t *testing.T) {
	b := unitSquare()
	pt, index := b.ClosestPoint(v(3, 0.5))
	assertVectorNear(t, v(1, 0.5), pt)
	assert.Equal(t, 2, index)

	_, index = BoundingLines{}.ClosestPoint(v(0, 0))
	assert.Equal(t, -1, index)

	indices := b.ClosestCollisionIndices(v(2, 2), 1e-9)
	assert.Equal(t, []int{2, 3}, indices, "corner point is equally close to two sides")
	assert.Equal(t, []int{1}, b.ClosestCollisionIndices(v(0.5, -1), 1e-9))
}

func TestBoundingLines_CollisionChecks(t *testing.T) {
	b := unitSquare()

	assert.True(t, b.CollisionCheckCircle(Circle{Center: v(1.4, 0.5), Radius: 0.5}))
	assert.False(t, b.CollisionCheckCircle(Circle{Center: v(1.6, 0.5), Radius: 0.5}))
	assert.Equal(t, 2, b.CollisionCheckCircleIndex(Circle{Center: v(1.4, 0.5), Radius: 0.5}))
	assert.Equal(t, []int{2, 3}, b.CollisionCheckCircleIndices(Circle{Center: v(1.2, 1.2), Radius: 0.3}))

	assert.True(t, b.CollisionCheckAABB(AABB{Min: v(0.9, 0.9), Max: v(2, 2)}))
	assert.False(t, b.CollisionCheckAABB(AABB{Min: v(0.2, 0.2), Max: v(0.8, 0.8)}), "box strictly inside touches no line")
	assert.Equal(t, -1, b.CollisionCheckAABBIndex(AABB{Min: v(3, 3), Max: v(4, 4)}))

	assert.True(t, b.CollisionCheckLine(NewLineSeg(v(-1, 0.5), v(0.5, 0.5))))
	assert.Equal(t, 0, b.CollisionCheckLineIndex(NewLineSeg(v(-1, 0.5), v(0.5, 0.5))))
	assert.False(t, b.CollisionCheckLine(NewLineSeg(v(2, 0), v(2, 1))))

	other := unitSquare()
	other.Translate(v(0.5, 0.5))
	assert.True(t, b.CollisionCheckBounds(other))
	assert.Equal(t, []int{2, 3}, b.CollisionCheckBoundsIndices(other))
	points := b.CollisionPoints(other)
	assert.Len(t, points, 2)

	far := unitSquare()
	far.Translate(v(5, 5))
	assert.False(t, b.CollisionCheckBounds(far))
	assert.Empty(t, b.CollisionCheckBoundsIndices(far))
}

func TestBoundingLines_RayCollision(t *testing.T) {
	b := unitSquare()
	dist, index, ok := b.RayCollision(NewRay(v(-2, 0.5), v(1, 0)))
	assert.True(t, ok)
	assert.InDelta(t, 2.0, dist, 1e-9)
	assert.Equal(t, 0, index)

	_, _, ok = b.RayCollision(NewRay(v(-2, 0.5), v(-1, 0)))
	assert.False(t, ok)
}

func TestBoundingLines_Fingerprint(t *testing.T) {
	a := unitSquare()
	b := unitSquare()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Translate(v(0, 1e-6))
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c := NewBoundingLines(a.Lines(), []utils.Vector2D{a.Normal(0), a.Normal(1), a.Normal(2), a.Normal(3)}, []bool{false, false, false, true})
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint(), "flags take part in the hash")
}
