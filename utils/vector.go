// File: utils/vector.go
package utils

import "math"

// Vector2D is a 2D vector or point in level space.
type Vector2D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func NewVector(x, y float64) Vector2D { return Vector2D{X: x, Y: y} }

func (v Vector2D) Add(other Vector2D) Vector2D { return Vector2D{X: v.X + other.X, Y: v.Y + other.Y} }
func (v Vector2D) Sub(other Vector2D) Vector2D { return Vector2D{X: v.X - other.X, Y: v.Y - other.Y} }
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{X: v.X * factor, Y: v.Y * factor}
}
func (v Vector2D) Neg() Vector2D { return Vector2D{X: -v.X, Y: -v.Y} }

func (v Vector2D) Dot(other Vector2D) float64 { return v.X*other.X + v.Y*other.Y }

// Cross returns the z component of the 3D cross product of v and other.
func (v Vector2D) Cross(other Vector2D) float64 { return v.X*other.Y - v.Y*other.X }

func (v Vector2D) Length() float64        { return math.Sqrt(v.X*v.X + v.Y*v.Y) }
func (v Vector2D) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vector2D) Distance(other Vector2D) float64 { return v.Sub(other).Length() }
func (v Vector2D) DistanceSquared(other Vector2D) float64 {
	return v.Sub(other).LengthSquared()
}

func (v Vector2D) IsZero() bool { return v.X == 0 && v.Y == 0 }

// NearZero reports whether every component is within epsilon of zero.
func (v Vector2D) NearZero(epsilon float64) bool {
	return math.Abs(v.X) <= epsilon && math.Abs(v.Y) <= epsilon
}

// Normalize returns the unit vector in the direction of v, or the zero vector when v is zero.
func (v Vector2D) Normalize() Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	return Vector2D{X: v.X / length, Y: v.Y / length}
}

// Perpendicular returns v rotated 90 degrees counter-clockwise.
func (v Vector2D) Perpendicular() Vector2D { return Vector2D{X: -v.Y, Y: v.X} }

// Rotate rotates v counter-clockwise by the given angle in degrees.
func (v Vector2D) Rotate(angleDegrees float64) Vector2D {
	radians := DegreesToRadians(angleDegrees)
	cos, sin := math.Cos(radians), math.Sin(radians)
	return Vector2D{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// RotateAbout rotates the point v about pivot by angleDegrees.
func (v Vector2D) RotateAbout(angleDegrees float64, pivot Vector2D) Vector2D {
	return v.Sub(pivot).Rotate(angleDegrees).Add(pivot)
}

// Reflect mirrors v about the line through the origin perpendicular to the unit normal n.
func (v Vector2D) Reflect(n Vector2D) Vector2D {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// Lerp linearly interpolates from v towards other.
func (v Vector2D) Lerp(other Vector2D, t float64) Vector2D {
	return v.Add(other.Sub(v).Scale(t))
}

func MidPoint(a, b Vector2D) Vector2D { return Vector2D{X: 0.5 * (a.X + b.X), Y: 0.5 * (a.Y + b.Y)} }

// ApproxEqual compares two vectors component-wise within epsilon.
func ApproxEqual(a, b Vector2D, epsilon float64) bool {
	return math.Abs(a.X-b.X) <= epsilon && math.Abs(a.Y-b.Y) <= epsilon
}

func DegreesToRadians(degrees float64) float64 { return degrees * math.Pi / 180 }
func RadiansToDegrees(radians float64) float64 { return radians * 180 / math.Pi }
