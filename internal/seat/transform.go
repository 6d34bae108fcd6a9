package seat

import "gioui.org/f32"

// DefaultTransform maps global coordinates into the space of a surface
// placed at surfacePos: a translation by -surfacePos.
func DefaultTransform(surfacePos f32.Point) f32.Affine2D {
	return f32.Affine2D{}.Offset(surfacePos.Mul(-1))
}

// ToLocal applies t to a global point.
func ToLocal(t f32.Affine2D, global f32.Point) f32.Point {
	return t.Transform(global)
}
