// Package canny implements the C4 Canny edge detector: Gaussian
// smoothing, Sobel gradient, non-maximum suppression, and the
// single-pass threshold policy specified in spec.md §4.4 (deliberately
// not textbook two-pass hysteresis — see spec.md §9 open question 1).
package canny

import (
	"math"

	"github.com/deepteams/pillowfight/internal/gaussian"
	"github.com/deepteams/pillowfight/internal/gradient"
	"github.com/deepteams/pillowfight/internal/matrix"
	"github.com/deepteams/pillowfight/internal/raster"
)

// Low and High are the fixed Canny thresholds of spec.md §4.4.
const (
	Low  = 0.686 * 255
	High = 1.372 * 255
)

// axisOffsets gives the two neighbour offsets to compare against for
// each of the four quantised gradient-direction axes.
var axisOffsets = [4][2]raster.Point{
	{{X: 1, Y: 0}, {X: -1, Y: 0}},
	{{X: 1, Y: 1}, {X: -1, Y: -1}},
	{{X: 0, Y: 1}, {X: 0, Y: -1}},
	{{X: -1, Y: 1}, {X: 1, Y: -1}},
}

// nonMaximumSuppression zeroes any intensity value whose axis-aligned
// neighbour has strictly greater intensity, mutating intensity in place.
func nonMaximumSuppression(intensity, direction matrix.Matrix) {
	w, h := intensity.W, intensity.H
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			angle := direction.At(x, y)
			// Compared as integer-truncated magnitudes, matching
			// _canny.c's int current_intensity/other_intensity.
			current := int(intensity.At(x, y))

			axis := int(math.Round(angle * 4 / math.Pi))
			axis = ((axis % 4) + 4) % 4

			for _, off := range axisOffsets[axis] {
				nx, ny := x+off.X, y+off.Y
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				if int(intensity.At(nx, ny)) > current {
					intensity.Set(x, y, 0)
					break
				}
			}
		}
	}
}

// applyThresholds implements the spec's single-pass "indecisive values
// removed" policy: values > High become 255, values <= Low become 0,
// values in (Low, High] are left unchanged.
func applyThresholds(intensity matrix.Matrix) {
	for i, v := range intensity.V {
		switch {
		case v > High:
			intensity.V[i] = 255
		case v <= Low:
			intensity.V[i] = 0
		}
	}
}

// OnMatrix runs the Canny pipeline on a grayscale matrix and returns the
// edge-intensity matrix: Gaussian(sigma=0, n=3) -> Sobel default kernels
// (no re-blur) -> non-maximum suppression -> thresholding.
func OnMatrix(in matrix.Matrix) matrix.Matrix {
	blurred := gaussian.OnMatrix(in, 0, 3)
	bundle := gradient.SobelOnMatrix(blurred, gradient.SobelX, gradient.SobelY, 0, 0)
	matrix.Release(blurred)
	matrix.Release(bundle.Gx)
	matrix.Release(bundle.Gy)

	nonMaximumSuppression(bundle.Intensity, bundle.Direction)
	applyThresholds(bundle.Intensity)

	return bundle.Intensity
}

// Bitmap runs Canny on a full RGBA bitmap, writing the grayscale edge
// map into out.
func Bitmap(in raster.Bitmap, out raster.Bitmap) {
	gray := matrix.GrayscaleToMatrix(in)
	edges := OnMatrix(gray)
	matrix.GrayscaleToBitmap(edges, out)
}
