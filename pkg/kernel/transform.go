package kernel

import "math"

// Transform is an affine pose: a 3x3 linear part (rotation and scale)
// plus a translation. It is a value type; all methods return new values.
type Transform struct {
	Linear [3][3]float64 `json:"linear"`
	Offset [3]float64    `json:"offset"`
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Linear: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Translation returns a pure translation by (x, y, z).
func Translation(x, y, z float64) Transform {
	t := Identity()
	t.Offset = [3]float64{x, y, z}
	return t
}

// Scaling returns a pure axis-aligned scaling.
func Scaling(sx, sy, sz float64) Transform {
	return Transform{Linear: [3][3]float64{{sx, 0, 0}, {0, sy, 0}, {0, 0, sz}}}
}

// RotationX returns a rotation about the X axis by the given angle in degrees.
func RotationX(deg float64) Transform {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Transform{Linear: [3][3]float64{{1, 0, 0}, {0, c, -s}, {0, s, c}}}
}

// RotationY returns a rotation about the Y axis by the given angle in degrees.
func RotationY(deg float64) Transform {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Transform{Linear: [3][3]float64{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}}
}

// RotationZ returns a rotation about the Z axis by the given angle in degrees.
func RotationZ(deg float64) Transform {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Transform{Linear: [3][3]float64{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}}
}

// Mul composes two transforms: the result applies u first, then t.
func (t Transform) Mul(u Transform) Transform {
	var r Transform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r.Linear[i][j] += t.Linear[i][k] * u.Linear[k][j]
			}
		}
		r.Offset[i] = t.Offset[i]
		for k := 0; k < 3; k++ {
			r.Offset[i] += t.Linear[i][k] * u.Offset[k]
		}
	}
	return r
}

// Apply maps a point through the transform.
func (t Transform) Apply(p [3]float64) [3]float64 {
	var q [3]float64
	for i := 0; i < 3; i++ {
		q[i] = t.Offset[i]
		for k := 0; k < 3; k++ {
			q[i] += t.Linear[i][k] * p[k]
		}
	}
	return q
}

// Det returns the determinant of the linear part.
func (t Transform) Det() float64 {
	m := t.Linear
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse returns the inverse transform. ok is false when the linear
// part is singular.
func (t Transform) Inverse() (inv Transform, ok bool) {
	det := t.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Identity(), false
	}
	m := t.Linear
	adj := [3][3]float64{
		{m[1][1]*m[2][2] - m[1][2]*m[2][1], m[0][2]*m[2][1] - m[0][1]*m[2][2], m[0][1]*m[1][2] - m[0][2]*m[1][1]},
		{m[1][2]*m[2][0] - m[1][0]*m[2][2], m[0][0]*m[2][2] - m[0][2]*m[2][0], m[0][2]*m[1][0] - m[0][0]*m[1][2]},
		{m[1][0]*m[2][1] - m[1][1]*m[2][0], m[0][1]*m[2][0] - m[0][0]*m[2][1], m[0][0]*m[1][1] - m[0][1]*m[1][0]},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			inv.Linear[i][j] = adj[i][j] / det
		}
	}
	// inv.Offset = -inv.Linear * t.Offset
	for i := 0; i < 3; i++ {
		for k := 0; k < 3; k++ {
			inv.Offset[i] -= inv.Linear[i][k] * t.Offset[k]
		}
	}
	return inv, true
}

// IsIdentity reports whether the transform is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// IsFinite reports whether every component is a finite number.
func (t Transform) IsFinite() bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.IsNaN(t.Linear[i][j]) || math.IsInf(t.Linear[i][j], 0) {
				return false
			}
		}
		if math.IsNaN(t.Offset[i]) || math.IsInf(t.Offset[i], 0) {
			return false
		}
	}
	return true
}

// ColumnNorms returns the Euclidean norm of each column of the linear
// part. For a rigid transform all three are 1.
func (t Transform) ColumnNorms() [3]float64 {
	var n [3]float64
	for j := 0; j < 3; j++ {
		n[j] = math.Sqrt(t.Linear[0][j]*t.Linear[0][j] +
			t.Linear[1][j]*t.Linear[1][j] +
			t.Linear[2][j]*t.Linear[2][j])
	}
	return n
}
