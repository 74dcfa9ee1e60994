// File: utils/matrix.go
package utils

import "math"

// Matrix is a 2D affine transform stored as the top two rows of a 3x3 matrix:
//
//	| A  B  TX |
//	| C  D  TY |
//	| 0  0  1  |
type Matrix struct {
	A, B, TX float64
	C, D, TY float64
}

func IdentityMatrix() Matrix { return Matrix{A: 1, D: 1} }

// NewRotationMatrix rotates counter-clockwise about the origin.
func NewRotationMatrix(angleDegrees float64) Matrix {
	radians := DegreesToRadians(angleDegrees)
	cos, sin := math.Cos(radians), math.Sin(radians)
	return Matrix{A: cos, B: -sin, C: sin, D: cos}
}

// NewRotationAboutMatrix rotates counter-clockwise about pivot.
func NewRotationAboutMatrix(angleDegrees float64, pivot Vector2D) Matrix {
	return NewTranslationMatrix(pivot).
		Multiply(NewRotationMatrix(angleDegrees)).
		Multiply(NewTranslationMatrix(pivot.Neg()))
}

func NewTranslationMatrix(translation Vector2D) Matrix {
	return Matrix{A: 1, D: 1, TX: translation.X, TY: translation.Y}
}

func NewScaleMatrix(sx, sy float64) Matrix { return Matrix{A: sx, D: sy} }

// Multiply returns m*other, the transform that applies other first and then m.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A:  m.A*other.A + m.B*other.C,
		B:  m.A*other.B + m.B*other.D,
		TX: m.A*other.TX + m.B*other.TY + m.TX,
		C:  m.C*other.A + m.D*other.C,
		D:  m.C*other.B + m.D*other.D,
		TY: m.C*other.TX + m.D*other.TY + m.TY,
	}
}

// TransformPoint applies the full affine transform.
func (m Matrix) TransformPoint(p Vector2D) Vector2D {
	return Vector2D{X: m.A*p.X + m.B*p.Y + m.TX, Y: m.C*p.X + m.D*p.Y + m.TY}
}

// TransformVector applies only the linear part, ignoring translation.
func (m Matrix) TransformVector(v Vector2D) Vector2D {
	return Vector2D{X: m.A*v.X + m.B*v.Y, Y: m.C*v.X + m.D*v.Y}
}

func (m Matrix) Determinant() float64 { return m.A*m.D - m.B*m.C }

// TransformNormal maps a surface normal through the inverse transpose of the linear part and
// re-normalizes it. Singular matrices fall back to the linear part.
func (m Matrix) TransformNormal(n Vector2D) Vector2D {
	det := m.Determinant()
	if math.Abs(det) < Epsilon {
		return m.TransformVector(n).Normalize()
	}
	inv := 1 / det
	// inverse transpose of [[A B] [C D]] is 1/det * [[D -C] [-B A]]
	return Vector2D{
		X: inv * (m.D*n.X - m.C*n.Y),
		Y: inv * (-m.B*n.X + m.A*n.Y),
	}.Normalize()
}
