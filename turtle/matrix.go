// Package turtle implements the drawing-side state machine a
// turtlelang program drives: position, heading, pen state, an affine
// transform stack, and a saved-state stack for push/pop. The
// control-point history that t, s and S reflect is kept by the
// PathSink, not here.
package turtle

import "math"

// Matrix2d is a 3x3 homogeneous affine transform stored row-major, the
// same layout and algebra as the original engine's Matrix type: row 2
// is always (0, 0, 1) and is never touched once the identity is built.
type Matrix2d struct {
	m [9]float64
}

// Identity returns the identity transform.
func Identity() Matrix2d {
	return Matrix2d{m: [9]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}}
}

// Translation builds a pure translation matrix.
func Translation(dx, dy float64) Matrix2d {
	mat := Identity()
	mat.m[2] = dx
	mat.m[5] = dy
	return mat
}

// Rotation builds a pure rotation matrix, angle in degrees.
func Rotation(deg float64) Matrix2d {
	r := deg * math.Pi / 180
	c, s := math.Cos(r), math.Sin(r)
	return Matrix2d{m: [9]float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}}
}

// Scaling builds a pure scale matrix.
func Scaling(sx, sy float64) Matrix2d {
	return Matrix2d{m: [9]float64{
		sx, 0, 0,
		0, sy, 0,
		0, 0, 1,
	}}
}

// Shearing builds a pure shear matrix.
func Shearing(shx, shy float64) Matrix2d {
	return Matrix2d{m: [9]float64{
		1, shx, 0,
		shy, 1, 0,
		0, 0, 1,
	}}
}

// Reflection builds a reflection across the line through the origin
// at the given angle (degrees).
func Reflection(deg float64) Matrix2d {
	r := 2 * deg * math.Pi / 180
	c, s := math.Cos(r), math.Sin(r)
	return Matrix2d{m: [9]float64{
		c, s, 0,
		s, -c, 0,
		0, 0, 1,
	}}
}

// Multiply returns a*b in matrix-multiplication order (a applied after b).
func (a Matrix2d) Multiply(b Matrix2d) Matrix2d {
	var out Matrix2d
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a.m[r*3+k] * b.m[k*3+c]
			}
			out.m[r*3+c] = sum
		}
	}
	return out
}

// Combine folds other into this matrix as other * this (other is
// premultiplied, so it's applied to points after this matrix is),
// matching the original Matrix::combine semantics.
func (a *Matrix2d) Combine(other Matrix2d) {
	*a = other.Multiply(*a)
}

// Apply transforms a point by this matrix.
func (a Matrix2d) Apply(x, y float64) (float64, float64) {
	nx := a.m[0]*x + a.m[1]*y + a.m[2]
	ny := a.m[3]*x + a.m[4]*y + a.m[5]
	return nx, ny
}

// ApplyVector transforms a direction (ignoring translation).
func (a Matrix2d) ApplyVector(dx, dy float64) (float64, float64) {
	nx := a.m[0]*dx + a.m[1]*dy
	ny := a.m[3]*dx + a.m[4]*dy
	return nx, ny
}
