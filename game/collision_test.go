// File: game/collision_test.go
package game

import (
	"math/rand"
	"testing"

	"github.com/lguibr/blammo/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSolver() *Solver { return NewSolver(utils.DefaultCollisionConfig()) }

func singleLine(p1, p2, normal utils.Vector2D) BoundingLines {
	return NewBoundingLines([]LineSeg{NewLineSeg(p1, p2)}, []utils.Vector2D{normal}, nil)
}

func randomPoint(rng *rand.Rand, extent float64) utils.Vector2D {
	return v((rng.Float64()*2-1)*extent, (rng.Float64()*2-1)*extent)
}

// cornerBounds is two perpendicular segments meeting at the origin.
func cornerBounds(horizontalFirst bool) BoundingLines {
	horizontal := NewLineSeg(v(-5, 0), v(0, 0))
	vertical := NewLineSeg(v(0, 0), v(0, -5))
	if horizontalFirst {
		return NewBoundingLines([]LineSeg{horizontal, vertical}, []utils.Vector2D{v(0, 1), v(1, 0)}, nil)
	}
	return NewBoundingLines([]LineSeg{vertical, horizontal}, []utils.Vector2D{v(1, 0), v(0, 1)}, nil)
}

func TestNewSolver_InvalidConfig(t *testing.T) {
	cfg := utils.DefaultCollisionConfig()
	cfg.InsideOutsideToleranceDivisor = 0
	assert.Panics(t, func() { NewSolver(cfg) })
}

func TestSolver_Collide_Scenarios(t *testing.T) {
	solver := newTestSolver()
	floor := singleLine(v(-5, 0), v(5, 0), v(0, 1))

	testCases := []struct {
		name     string
		circle   Circle
		velocity utils.Vector2D
		dT       float64
		bounds   BoundingLines
		hit      bool
		time     float64
		normal   utils.Vector2D
		contact  utils.Vector2D
	}{
		{
			name:   "falling onto a floor",
			circle: Circle{Center: v(0, 2), Radius: 0.5}, velocity: v(0, -10), dT: 1,
			bounds: floor, hit: true, time: 0.15, normal: v(0, 1), contact: v(0, 0.5),
		},
		{
			name:   "approaching from the back side flips the normal",
			circle: Circle{Center: v(0, -2), Radius: 0.5}, velocity: v(0, 10), dT: 1,
			bounds: floor, hit: true, time: 0.15, normal: v(0, -1), contact: v(0, -0.5),
		},
		{
			name:   "too far to reach within the step",
			circle: Circle{Center: v(0, 20), Radius: 0.5}, velocity: v(0, -10), dT: 1,
			bounds: floor,
		},
		{
			name:   "moving away",
			circle: Circle{Center: v(0, 2), Radius: 0.5}, velocity: v(0, 10), dT: 1,
			bounds: floor,
		},
		{
			name:   "already overlapping and moving away",
			circle: Circle{Center: v(0, 0.3), Radius: 0.5}, velocity: v(0, 10), dT: 1,
			bounds: floor, hit: true, time: 0, normal: v(0, 1), contact: v(0, 0.3),
		},
		{
			name:   "glancing the first endpoint",
			circle: Circle{Center: v(-6, 0.3), Radius: 0.5}, velocity: v(10, 0), dT: 1,
			bounds: floor, hit: true, time: 0.06, normal: v(0, 1), contact: v(-5.4, 0.3),
		},
		{
			name:   "sweeping along the segment's own line",
			circle: Circle{Center: v(-10, 0), Radius: 0.5}, velocity: v(20, 0), dT: 1,
			bounds: floor, hit: true, time: 0.225, normal: v(0, 1), contact: v(-5.5, 0),
		},
		{
			name:   "zero length segment behaves as a point",
			circle: Circle{Center: v(0, 2), Radius: 0.5}, velocity: v(0, -10), dT: 1,
			bounds: singleLine(v(0, 0), v(0, 0), v(0, 1)), hit: true, time: 0.15, normal: v(0, 1), contact: v(0, 0.5),
		},
		{
			name:   "zero radius acts as a ray",
			circle: Circle{Center: v(1, 2), Radius: 0}, velocity: v(0, -10), dT: 1,
			bounds: floor, hit: true, time: 0.2, normal: v(0, 1), contact: v(1, 0),
		},
		{
			name:   "half step",
			circle: Circle{Center: v(0, 2), Radius: 0.5}, velocity: v(0, -4), dT: 0.5,
			bounds: floor, hit: true, time: 0.375, normal: v(0, 1), contact: v(0, 0.5),
		},
		{
			name:   "empty bounds",
			circle: Circle{Center: v(0, 2), Radius: 0.5}, velocity: v(0, -10), dT: 1,
			bounds: BoundingLines{},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, ok := solver.Collide(tc.dT, tc.circle, tc.velocity, tc.bounds)
			require.Equal(t, tc.hit, ok)
			if !tc.hit {
				return
			}
			assert.InDelta(t, tc.time, result.TimeToImpact, 1e-9)
			assertVectorNear(t, tc.normal, result.Normal)
			assertVectorNear(t, tc.contact, result.ContactPoint)
			assert.Equal(t, 0, result.LineIndex)
			assert.Equal(t, tc.bounds.Line(0), result.Line)
		})
	}
}

func TestSolver_Collide_ZeroRadiusMatchesRay(t *testing.T) {
	solver := newTestSolver()
	floor := singleLine(v(-5, 0), v(5, 0), v(0, 1))
	velocity := v(3, -8)
	origin := v(-2, 4)

	result, ok := solver.Collide(1, Circle{Center: origin, Radius: 0}, velocity, floor)
	require.True(t, ok)
	dist, ok := NewRay(origin, velocity).IntersectSegment(floor.Line(0))
	require.True(t, ok)
	assert.InDelta(t, dist/velocity.Length(), result.TimeToImpact, 1e-9)
}

func TestSolver_Collide_ZeroVelocity(t *testing.T) {
	solver := newTestSolver()
	square := NewBoundingLinesFromAABB(AABB{Min: v(0, 0), Max: v(1, 1)})

	_, ok := solver.Collide(1, Circle{Center: v(3, 3), Radius: 0.5}, v(0, 0), square)
	assert.False(t, ok, "a resting circle only reports overlaps")

	result, ok := solver.Collide(1, Circle{Center: v(1.2, 1.2), Radius: 0.5}, v(0, 0), square)
	require.True(t, ok)
	assert.Equal(t, 2, result.LineIndex, "the first overlapping segment wins")
	assert.Equal(t, 0.0, result.TimeToImpact)
}

func TestSolver_Collide_ImmediateOverlapPriority(t *testing.T) {
	solver := newTestSolver()
	rng := rand.New(rand.NewSource(7))
	floor := singleLine(v(-5, 0), v(5, 0), v(0, 1))
	for i := 0; i < 200; i++ {
		circle := Circle{Center: v((rng.Float64()*2-1)*4, (rng.Float64()*2-1)*0.4), Radius: 0.5}
		velocity := randomPoint(rng, 50)
		result, ok := solver.Collide(1, circle, velocity, floor)
		require.True(t, ok, "case %d", i)
		assert.Equal(t, 0.0, result.TimeToImpact, "case %d", i)
		assertVectorNear(t, circle.Center, result.ContactPoint)
	}
}

func TestSolver_Collide_CornerTie(t *testing.T) {
	solver := newTestSolver()
	circle := Circle{Center: v(0, 2), Radius: 0.5}
	velocity := v(0, -10)

	for _, horizontalFirst := range []bool{true, false} {
		bounds := cornerBounds(horizontalFirst)
		result, ok := solver.Collide(1, circle, velocity, bounds)
		require.True(t, ok)
		assert.InDelta(t, 0.15, result.TimeToImpact, 1e-9)
		assert.Equal(t, v(0, 1), result.Normal, "the normal facing the travel wins, never an average")
		assert.Equal(t, NewLineSeg(v(-5, 0), v(0, 0)), result.Line)

		for i := 0; i < 20; i++ {
			again, ok := solver.Collide(1, circle, velocity, bounds)
			require.True(t, ok)
			assert.Equal(t, result, again, "tie resolution must be deterministic")
		}
	}

	// Coming in from the side, the vertical face is the one opposing the travel.
	result, ok := solver.Collide(1, Circle{Center: v(2, -0.5), Radius: 0.5}, v(-10, 0), cornerBounds(true))
	require.True(t, ok)
	assertVectorNear(t, v(1, 0), result.Normal)
}

func TestSolver_Collide_NoTunneling(t *testing.T) {
	solver := newTestSolver()
	rng := rand.New(rand.NewSource(42))
	const steps = 4000

	for i := 0; i < 1500; i++ {
		seg := NewLineSeg(randomPoint(rng, 10), randomPoint(rng, 10))
		normal := seg.Direction().Perpendicular()
		if normal.IsZero() {
			continue
		}
		bounds := singleLine(seg.P1, seg.P2, normal)
		circle := Circle{Center: randomPoint(rng, 10), Radius: 0.05 + rng.Float64()}
		velocity := randomPoint(rng, 20)

		first := -1.0
		for k := 0; k <= steps; k++ {
			s := float64(k) / steps
			center := circle.Center.Add(velocity.Scale(s))
			if seg.ClosestPoint(center).Distance(center) <= circle.Radius-1e-7 {
				first = s
				break
			}
		}

		result, ok := solver.Collide(1, circle, velocity, bounds)
		if first >= 0 {
			require.True(t, ok, "case %d: the path crosses the segment at %v", i, first)
			assert.LessOrEqual(t, result.TimeToImpact, first+1e-9, "case %d", i)
			assert.GreaterOrEqual(t, result.TimeToImpact, first-0.01, "case %d", i)
		}
		if !ok {
			continue
		}

		dist := seg.ClosestPoint(result.ContactPoint).Distance(result.ContactPoint)
		if result.TimeToImpact > 0 {
			assert.InDelta(t, circle.Radius, dist, 1e-6, "case %d: contact must be at first touch", i)
		} else {
			assert.LessOrEqual(t, dist, circle.Radius+1e-9, "case %d", i)
		}

		toCircle := result.ContactPoint.Sub(seg.ClosestPoint(result.ContactPoint))
		assert.GreaterOrEqual(t, toCircle.Dot(result.Normal), -1e-9, "case %d: normal must face the circle", i)
		assert.InDelta(t, 1.0, result.Normal.Length(), 1e-9, "case %d", i)
	}
}

func TestSolver_CollideMoving_FrameInvariance(t *testing.T) {
	solver := newTestSolver()
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 300; i++ {
		bounds := NewBoundingLinesFromAABB(NewAABB(randomPoint(rng, 5), randomPoint(rng, 5)))
		circle := Circle{Center: randomPoint(rng, 8), Radius: 0.1 + rng.Float64()}
		velocity := randomPoint(rng, 15)

		single, okSingle := solver.Collide(1, circle, velocity, bounds)
		moving, okMoving := solver.CollideMoving(1, circle, velocity, bounds, utils.Vector2D{})
		require.Equal(t, okSingle, okMoving, "case %d", i)
		assert.Equal(t, single, moving, "case %d", i)
	}
}

func TestSolver_CollideMoving_RelativeMotion(t *testing.T) {
	solver := newTestSolver()
	rng := rand.New(rand.NewSource(11))
	hits := 0
	for i := 0; i < 500; i++ {
		bounds := NewBoundingLinesFromAABB(NewAABB(randomPoint(rng, 4), randomPoint(rng, 4)))
		circle := Circle{Center: randomPoint(rng, 8), Radius: 0.1 + rng.Float64()}
		velocity := randomPoint(rng, 15)
		boundaryVelocity := randomPoint(rng, 15)

		world, okWorld := solver.CollideMoving(1, circle, velocity, bounds, boundaryVelocity)
		rest, okRest := solver.Collide(1, circle, velocity.Sub(boundaryVelocity), bounds)
		require.Equal(t, okRest, okWorld, "case %d", i)
		if !okWorld {
			continue
		}
		hits++

		assert.InDelta(t, rest.TimeToImpact, world.TimeToImpact, 1e-9, "case %d", i)
		assert.Equal(t, rest.Normal, world.Normal, "case %d", i)
		assert.Equal(t, rest.LineIndex, world.LineIndex, "case %d", i)
		assertVectorNear(t, circle.Center.Add(velocity.Scale(world.TimeToImpact)), world.ContactPoint)

		moved := rest.Line.Translate(boundaryVelocity.Scale(world.TimeToImpact))
		assertVectorNear(t, moved.P1, world.Line.P1)
		assertVectorNear(t, moved.P2, world.Line.P2)
		if world.TimeToImpact > 0 {
			dist := world.Line.ClosestPoint(world.ContactPoint).Distance(world.ContactPoint)
			assert.InDelta(t, circle.Radius, dist, 1e-6, "case %d: touching the moved line", i)
		}
	}
	assert.Greater(t, hits, 0)
}

func TestSolver_CollideMoving_PaddleRisingIntoBall(t *testing.T) {
	solver := newTestSolver()
	paddle := singleLine(v(-5, 0), v(5, 0), v(0, 1))
	result, ok := solver.CollideMoving(1, Circle{Center: v(0, 2), Radius: 0.5}, v(0, 0), paddle, v(0, 10))
	require.True(t, ok)
	assert.InDelta(t, 0.15, result.TimeToImpact, 1e-9)
	assertVectorNear(t, v(0, 2), result.ContactPoint)
	assertVectorNear(t, v(-5, 1.5), result.Line.P1)
	assertVectorNear(t, v(0, 1), result.Normal)
}

func TestSolver_Collide_NegativeRadiusPanics(t *testing.T) {
	solver := newTestSolver()
	assert.Panics(t, func() {
		solver.Collide(1, Circle{Center: v(0, 0), Radius: -1}, v(1, 0), singleLine(v(0, 0), v(1, 0), v(0, 1)))
	})
}
