// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package heading

import "math"

// mat4 is row-major and multiplies column vectors: v' = m * v.
type mat4 [4][4]float64

func (m mat4) mul(n mat4) mat4 {
	var out mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[i][k] * n[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

func (m mat4) apply(v [4]float64) [4]float64 {
	var out [4]float64
	for i := 0; i < 4; i++ {
		out[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2] + m[i][3]*v[3]
	}
	return out
}

// singularEps is the smallest pivot accepted by invert.
const singularEps = 1e-12

// invert uses Gauss-Jordan elimination with partial pivoting.
func (m mat4) invert() (mat4, bool) {
	a := m
	inv := mat4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}

	for col := 0; col < 4; col++ {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		p := a[pivot][col]
		if math.Abs(p) < singularEps || math.IsNaN(p) || math.IsInf(p, 0) {
			return mat4{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		for j := 0; j < 4; j++ {
			a[col][j] /= p
			inv[col][j] /= p
		}
		for r := 0; r < 4; r++ {
			if r == col {
				continue
			}
			f := a[r][col]
			if f == 0 {
				continue
			}
			for j := 0; j < 4; j++ {
				a[r][j] -= f * a[col][j]
				inv[r][j] -= f * inv[col][j]
			}
		}
	}
	return inv, true
}

// perspective is the usual OpenGL projection for a vertical field of view
// in radians.
func perspective(fovy, aspect, near, far float64) mat4 {
	f := 1 / math.Tan(fovy/2)
	return mat4{
		{f / aspect, 0, 0, 0},
		{0, f, 0, 0},
		{0, 0, (far + near) / (near - far), 2 * far * near / (near - far)},
		{0, 0, -1, 0},
	}
}

// rotationView builds the world-to-camera matrix for a device-to-world
// rotation, which is its transpose.
func rotationView(r [3][3]float64) mat4 {
	return mat4{
		{r[0][0], r[1][0], r[2][0], 0},
		{r[0][1], r[1][1], r[2][1], 0},
		{r[0][2], r[1][2], r[2][2], 0},
		{0, 0, 0, 1},
	}
}

// unproject maps window coordinates (x, y, depth in [0,1]) back to world
// space. viewport is x, y, width, height.
func unproject(win [3]float64, view, proj mat4, viewport [4]float64) ([3]float64, bool) {
	inv, ok := proj.mul(view).invert()
	if !ok {
		return [3]float64{}, false
	}
	ndc := [4]float64{
		2*(win[0]-viewport[0])/viewport[2] - 1,
		2*(win[1]-viewport[1])/viewport[3] - 1,
		2*win[2] - 1,
		1,
	}
	p := inv.apply(ndc)
	if p[3] == 0 {
		return [3]float64{}, false
	}
	return [3]float64{p[0] / p[3], p[1] / p[3], p[2] / p[3]}, true
}
