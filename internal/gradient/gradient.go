// Package gradient implements the C3 Sobel/Scharr gradient stage: the
// four fixed 3x3 kernels, SobelOnMatrix (directional convolution with
// optional re-blur), and the public Sobel filter.
package gradient

import (
	"math"

	"github.com/deepteams/pillowfight/internal/gaussian"
	"github.com/deepteams/pillowfight/internal/matrix"
	"github.com/deepteams/pillowfight/internal/raster"
)

func kernel3x3(v [9]float64) matrix.Matrix {
	m := matrix.New(3, 3)
	copy(m.V, v[:])
	return m
}

// SobelX, SobelY, ScharrX, ScharrY are the four fixed directional
// kernels named in spec.md §4.3.
var (
	SobelX  = kernel3x3([9]float64{-1, 0, 1, -2, 0, 2, -1, 0, 1})
	SobelY  = kernel3x3([9]float64{-1, -2, -1, 0, 0, 0, 1, 2, 1})
	ScharrX = kernel3x3([9]float64{3, 0, -3, 10, 0, -10, 3, 0, -3})
	ScharrY = kernel3x3([9]float64{3, 10, 3, 0, 0, 0, -3, -10, -3})
)

// Bundle holds the four matrices produced by a gradient pass: the two
// directional derivatives and the derived intensity/direction fields.
type Bundle struct {
	Gx, Gy              matrix.Matrix
	Intensity, Direction matrix.Matrix
}

// SobelOnMatrix convolves in with kx to get g_x and with ky to get g_y.
// If gaussianStddev > 0 a Gaussian blur is applied to each of g_x, g_y
// before intensity/direction are derived (spec.md §4.3).
func SobelOnMatrix(in, kx, ky matrix.Matrix, gaussianSigma float64, gaussianStddev int) Bundle {
	gx := matrix.Convolve(in, kx)
	gy := matrix.Convolve(in, ky)

	if gaussianStddev > 0 {
		gx = gaussian.OnMatrix(gx, gaussianSigma, gaussianStddev)
		gy = gaussian.OnMatrix(gy, gaussianSigma, gaussianStddev)
	}

	intensity := matrix.New(in.W, in.H)
	direction := matrix.New(in.W, in.H)
	for i := range intensity.V {
		a, b := gx.V[i], gy.V[i]
		intensity.V[i] = math.Hypot(a, b)
		direction.V[i] = math.Atan2(b, a)
	}

	return Bundle{Gx: gx, Gy: gy, Intensity: intensity, Direction: direction}
}

// Bitmap applies the default (non-Gaussian-reblurred) Sobel gradient to
// a full bitmap and writes the resulting intensity magnitude, converted
// to grayscale, into out.
func Bitmap(in raster.Bitmap, out raster.Bitmap) {
	gray := matrix.GrayscaleToMatrix(in)
	bundle := SobelOnMatrix(gray, SobelX, SobelY, 0, 0)
	matrix.GrayscaleToBitmap(bundle.Intensity, out)
}
