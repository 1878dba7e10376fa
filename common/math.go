package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// RotationOrder names the sequence in which Euler rotations are composed.
// For order "ABC" the rotation matrix is R = R_A * R_B * R_C, so C is applied to a vector first.
type RotationOrder string

const (
	OrderXYZ RotationOrder = "XYZ"
	OrderYXZ RotationOrder = "YXZ"
	OrderZXY RotationOrder = "ZXY"
	OrderZYX RotationOrder = "ZYX"
	OrderYZX RotationOrder = "YZX"
	OrderXZY RotationOrder = "XZY"
)

// Valid reports whether the order is one of the six supported permutations.
func (o RotationOrder) Valid() bool {
	switch o {
	case OrderXYZ, OrderYXZ, OrderZXY, OrderZYX, OrderYZX, OrderXZY:
		return true
	}
	return false
}

// Epsilon is the tolerance used when deciding whether a vector is degenerate.
const Epsilon float32 = 1e-8

// Finite reports whether f is neither NaN nor infinite.
func Finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// FiniteVec3 reports whether every component of v is finite.
func FiniteVec3(v mgl32.Vec3) bool {
	return Finite(v[0]) && Finite(v[1]) && Finite(v[2])
}

// Clamp restricts v to the closed interval [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: lower bound
//   - hi: upper bound
//
// Returns:
//   - float32: the clamped value
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SafeNormalize returns v scaled to unit length.
// The second result is false when v is too short to normalize, in which case the zero vector is returned.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - mgl32.Vec3: the normalized vector
//   - bool: false if v was degenerate
func SafeNormalize(v mgl32.Vec3) (mgl32.Vec3, bool) {
	l := v.Len()
	if l < Epsilon || !Finite(l) {
		return mgl32.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// RotationMatrix builds a homogeneous rotation matrix from Euler angles (radians) in the given order.
// An unknown order falls back to XYZ.
//
// Parameters:
//   - rot: rotation angles around X, Y and Z
//   - order: the composition order
//
// Returns:
//   - mgl32.Mat4: the rotation matrix
func RotationMatrix(rot mgl32.Vec3, order RotationOrder) mgl32.Mat4 {
	rx := mgl32.HomogRotate3DX(rot[0])
	ry := mgl32.HomogRotate3DY(rot[1])
	rz := mgl32.HomogRotate3DZ(rot[2])

	switch order {
	case OrderYXZ:
		return ry.Mul4(rx).Mul4(rz)
	case OrderZXY:
		return rz.Mul4(rx).Mul4(ry)
	case OrderZYX:
		return rz.Mul4(ry).Mul4(rx)
	case OrderYZX:
		return ry.Mul4(rz).Mul4(rx)
	case OrderXZY:
		return rx.Mul4(rz).Mul4(ry)
	default:
		return rx.Mul4(ry).Mul4(rz)
	}
}

// ComposeTRS builds a model matrix that scales, then rotates, then translates: M = T * R * S.
//
// Parameters:
//   - pos: translation
//   - rot: Euler rotation in radians
//   - scale: per-axis scale
//   - order: Euler composition order
//
// Returns:
//   - mgl32.Mat4: the composed matrix
func ComposeTRS(pos, rot, scale mgl32.Vec3, order RotationOrder) mgl32.Mat4 {
	t := mgl32.Translate3D(pos[0], pos[1], pos[2])
	s := mgl32.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(RotationMatrix(rot, order)).Mul4(s)
}

// TransformPoint applies m to the point p (w = 1) and returns the resulting position.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// LookRotation returns a rotation matrix whose local +Z axis points along dir.
// When dir is parallel to up an alternative up axis is chosen so the basis stays orthonormal.
// The zero matrix is never returned; a degenerate dir yields the identity.
//
// Parameters:
//   - dir: desired +Z direction (need not be normalized)
//   - up: preferred up vector
//
// Returns:
//   - mgl32.Mat4: rotation matrix with columns (right, up, dir)
func LookRotation(dir, up mgl32.Vec3) mgl32.Mat4 {
	z, ok := SafeNormalize(dir)
	if !ok {
		return mgl32.Ident4()
	}
	x, ok := SafeNormalize(up.Cross(z))
	if !ok {
		// dir is parallel to up, nudge the reference axis
		alt := mgl32.Vec3{0, 0, 1}
		if math32.Abs(z[2]) > 0.9 {
			alt = mgl32.Vec3{1, 0, 0}
		}
		x, _ = SafeNormalize(alt.Cross(z))
	}
	y := z.Cross(x)
	return mgl32.Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		0, 0, 0, 1,
	}
}

// EulerFromMatrix extracts Euler angles (radians) in the given order from the rotation part of m.
// The upper 3x3 of m is assumed to be a pure rotation (unscaled).
//
// Parameters:
//   - m: the rotation matrix
//   - order: the composition order the angles should reproduce
//
// Returns:
//   - mgl32.Vec3: rotation angles around X, Y and Z
func EulerFromMatrix(m mgl32.Mat4, order RotationOrder) mgl32.Vec3 {
	// row/column accessors on the column-major storage
	m11, m12, m13 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m21, m22, m23 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m31, m32, m33 := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	const gimbal = 0.9999999
	var x, y, z float32

	switch order {
	case OrderYXZ:
		x = math32.Asin(-Clamp(m23, -1, 1))
		if math32.Abs(m23) < gimbal {
			y = math32.Atan2(m13, m33)
			z = math32.Atan2(m21, m22)
		} else {
			y = math32.Atan2(-m31, m11)
		}
	case OrderZXY:
		x = math32.Asin(Clamp(m32, -1, 1))
		if math32.Abs(m32) < gimbal {
			y = math32.Atan2(-m31, m33)
			z = math32.Atan2(-m12, m22)
		} else {
			z = math32.Atan2(m21, m11)
		}
	case OrderZYX:
		y = math32.Asin(-Clamp(m31, -1, 1))
		if math32.Abs(m31) < gimbal {
			x = math32.Atan2(m32, m33)
			z = math32.Atan2(m21, m11)
		} else {
			z = math32.Atan2(-m12, m22)
		}
	case OrderYZX:
		z = math32.Asin(Clamp(m21, -1, 1))
		if math32.Abs(m21) < gimbal {
			x = math32.Atan2(-m23, m22)
			y = math32.Atan2(-m31, m11)
		} else {
			y = math32.Atan2(m13, m33)
		}
	case OrderXZY:
		z = math32.Asin(-Clamp(m12, -1, 1))
		if math32.Abs(m12) < gimbal {
			x = math32.Atan2(m32, m22)
			y = math32.Atan2(m13, m11)
		} else {
			x = math32.Atan2(-m23, m33)
		}
	default:
		y = math32.Asin(Clamp(m13, -1, 1))
		if math32.Abs(m13) < gimbal {
			x = math32.Atan2(-m23, m33)
			z = math32.Atan2(-m12, m11)
		} else {
			x = math32.Atan2(m32, m22)
		}
	}
	return mgl32.Vec3{x, y, z}
}
