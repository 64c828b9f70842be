// Package gaussian implements the C2 separable Gaussian blur: 1-D kernel
// generation and two-pass (x then y) convolution over a matrix.Matrix or
// a full RGB raster.Bitmap.
package gaussian

import (
	"math"

	"github.com/deepteams/pillowfight/internal/matrix"
	"github.com/deepteams/pillowfight/internal/raster"
)

// DefaultSigma and DefaultStddev are the filter's documented defaults
// (spec.md §4.2).
const (
	DefaultSigma  = 2.0
	DefaultStddev = 5
)

// Kernel1D generates a length-n 1-D Gaussian kernel as a 1×n matrix. If
// sigma == 0 it is derived as 0.3*((n-1)*0.5-1)+0.8. The kernel is
// normalised so that its values sum to 1.
func Kernel1D(sigma float64, n int) matrix.Matrix {
	if sigma == 0 {
		sigma = 0.3*((float64(n)-1)*0.5-1) + 0.8
	}

	out := matrix.New(n, 1)
	half := n / 2
	for pos := 0; pos < n; pos++ {
		x := float64(pos - half)
		val := 1 / math.Sqrt(math.Pi*2*sigma*sigma)
		val *= math.Exp((-x * x) / (2 * sigma * sigma))
		out.Set(pos, 0, val)
	}

	var sum float64
	for _, v := range out.V {
		sum += v
	}
	factor := 1.0 / sum
	for i := range out.V {
		out.V[i] *= factor
	}
	return out
}

// OnMatrix convolves grayscale with the separable Gaussian kernel: a
// horizontal pass with the 1×n kernel followed by a vertical pass with
// its transpose.
func OnMatrix(grayscale matrix.Matrix, sigma float64, nbStddev int) matrix.Matrix {
	kx := Kernel1D(sigma, nbStddev)
	ky := matrix.Transpose(kx)

	outX := convolvePooled(grayscale, kx)
	outY := matrix.Convolve(outX, ky)
	matrix.Release(outX)
	return outY
}

// convolvePooled is Convolve with its result backed by the arena pool:
// outX above is read once by the vertical pass and then discarded.
func convolvePooled(img, kernel matrix.Matrix) matrix.Matrix {
	out := matrix.NewPooled(img.W, img.H)
	matrix.ConvolveInto(out, img, kernel)
	return out
}

// Bitmap blurs a full RGB raster independently per channel, writing the
// result into out (same shape as in). Alpha is forced to 0xFF.
func Bitmap(in raster.Bitmap, out raster.Bitmap, sigma float64, nbStddev int) {
	kx := Kernel1D(sigma, nbStddev)
	ky := matrix.Transpose(kx)

	for _, ch := range [3]matrix.ChannelIndex{matrix.ChannelR, matrix.ChannelG, matrix.ChannelB} {
		m := matrix.ChannelToMatrix(in, ch)
		x := convolvePooled(m, kx)
		y := matrix.Convolve(x, ky)
		matrix.Release(x)
		matrix.MatrixToChannel(y, out, ch)
	}
}
