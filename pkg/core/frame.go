package core

import "math"

// Frame is an orthonormal basis. N is the shading normal; S and T span the
// tangent plane. Local coordinates use N as the z axis.
type Frame struct {
	S, T, N Vec3
}

// NewFrame builds a frame around the unit vector n
func NewFrame(n Vec3) Frame {
	var s Vec3
	if math.Abs(n.X) > math.Abs(n.Y) {
		invLen := 1.0 / math.Sqrt(n.X*n.X+n.Z*n.Z)
		s = NewVec3(n.Z*invLen, 0, -n.X*invLen)
	} else {
		invLen := 1.0 / math.Sqrt(n.Y*n.Y+n.Z*n.Z)
		s = NewVec3(0, n.Z*invLen, -n.Y*invLen)
	}
	// s is built orthogonal to n, so n x s is already unit length
	return Frame{S: s, T: n.Cross(s), N: n}
}

// ToLocal converts a world-space vector into the frame's coordinates
func (f Frame) ToLocal(v Vec3) Vec3 {
	return Vec3{X: v.Dot(f.S), Y: v.Dot(f.T), Z: v.Dot(f.N)}
}

// ToWorld converts a local vector back into world space
func (f Frame) ToWorld(v Vec3) Vec3 {
	return f.S.Multiply(v.X).Add(f.T.Multiply(v.Y)).Add(f.N.Multiply(v.Z))
}

// CosTheta returns the cosine of the angle between a local direction and the normal
func CosTheta(v Vec3) float64 {
	return v.Z
}
