// Package matrix implements the C1 matrix primitives: allocation, copy,
// transpose, 2-D convolution, normalization, grayscale reversal, and the
// rectangle-scan helpers (clear/count/mask) shared by every higher-level
// filter. It is the lowest-level numeric package in the pipeline — every
// other internal package (gaussian, gradient, canny, ace, swt, unpaper)
// builds on top of the Matrix type defined here, the same way the
// teacher's internal/dsp package anchors its codec-specific packages.
package matrix

import (
	"math"

	"github.com/deepteams/pillowfight/internal/arena"
	"github.com/deepteams/pillowfight/internal/raster"
)

// Matrix is a rectangular grid of 64-bit floats, row-major, width-major
// stride (index = y*W + x). It is the DoubleMatrix of spec.md §3.
type Matrix struct {
	W, H int
	V    []float64
}

// New allocates a zeroed w×h matrix.
func New(w, h int) Matrix {
	return Matrix{W: w, H: h, V: make([]float64, w*h)}
}

// NewPooled allocates a zeroed w×h matrix from the arena pool, for
// matrices that are handed off to exactly one downstream stage and then
// discarded (spec.md §9: "every pipeline stage returns a freshly-allocated
// matrix; the previous stage's matrix is freed at hand-off"). Pair with
// Release once the matrix's consumer has finished reading it.
func NewPooled(w, h int) Matrix {
	return Matrix{W: w, H: h, V: arena.GetFloat64s(w * h)}
}

// Release returns m's backing storage to the arena pool. m must not be
// read or written after Release. A matrix from New does not need Release;
// releasing one hands its storage to the pool as well (slices under 256
// elements are dropped), where a later GetFloat64s reuses it or, if it is
// too small, replaces it.
func Release(m Matrix) {
	arena.PutFloat64s(m.V)
}

// At returns the value at (x,y). Callers are expected to stay in bounds;
// this is a programmer-error boundary, not a runtime-recoverable one
// (spec.md §7): an out-of-range access panics like a slice index would.
func (m Matrix) At(x, y int) float64 { return m.V[y*m.W+x] }

// Set writes the value at (x,y).
func (m Matrix) Set(x, y int, v float64) { m.V[y*m.W+x] = v }

// Copy returns an independent copy of m.
func Copy(m Matrix) Matrix {
	out := New(m.W, m.H)
	copy(out.V, m.V)
	return out
}

// SameShape reports whether a and b have identical dimensions.
func SameShape(a, b Matrix) bool { return a.W == b.W && a.H == b.H }

// Transpose produces a (h×w) matrix T with T[y,x] = I[x,y].
func Transpose(in Matrix) Matrix {
	out := New(in.H, in.W)
	for x := 0; x < in.W; x++ {
		for y := 0; y < in.H; y++ {
			out.Set(y, x, in.At(x, y))
		}
	}
	return out
}

// Convolve produces O of the same shape as img, convolved with kernel:
//
//	O[x,y] = Σ_{i,j} I[x-i+kw/2, y-j+kh/2] · K[i,j]
//
// where kw/2 and kh/2 use integer division. Any sampled image index
// outside img terminates the current inner scan — the kernel traversal
// order (outer loop over i, inner loop over j) matches the image
// traversal order, matching libpillowfight's util.c
// pf_dbl_matrix_convolution bit-for-bit: once img_x-kernel_x+kw/2 falls
// out of [0,w) the kernel_x loop itself is abandoned (not just skipped),
// and likewise for the inner kernel_y loop against img_y-kernel_y+kh/2.
func Convolve(img, kernel Matrix) Matrix {
	out := New(img.W, img.H)
	ConvolveInto(out, img, kernel)
	return out
}

// ConvolveInto is Convolve with the output written into a caller-supplied
// matrix (e.g. one obtained from NewPooled) instead of a freshly allocated
// one; out must already have img's shape.
func ConvolveInto(out, img, kernel Matrix) {
	kw, kh := kernel.W, kernel.H
	halfW, halfH := kw/2, kh/2

	for ix := 0; ix < img.W; ix++ {
		for iy := 0; iy < img.H; iy++ {
			var val float64
			for kx := 0; kx < kw; kx++ {
				sx := ix - kx + halfW
				if sx < 0 || sx >= img.W {
					break
				}
				for ky := 0; ky < kh; ky++ {
					sy := iy - ky + halfH
					if sy < 0 || sy >= img.H {
						break
					}
					val += img.At(sx, sy) * kernel.At(kx, ky)
				}
			}
			out.Set(ix, iy, val)
		}
	}
}

// Normalize rescales every value in in from [in_min,in_max] to
// [out_min,out_max]. If factor == 0, in_min/in_max are first computed
// over in and factor derived as (out_max-out_min)/(in_max-in_min);
// otherwise in_min=out_min, in_max=out_max are used directly. Undefined
// (division by zero) when in_min == in_max, per spec.md §4.1.
func Normalize(in Matrix, factor, outMin, outMax float64) Matrix {
	inMin, inMax := outMin, outMax
	if factor == 0 {
		inMin, inMax = math.Inf(1), math.Inf(-1)
		for _, v := range in.V {
			if v < inMin {
				inMin = v
			}
			if v > inMax {
				inMax = v
			}
		}
		factor = (outMax - outMin) / (inMax - inMin)
	}

	out := New(in.W, in.H)
	for i, v := range in.V {
		out.V[i] = (v-inMin)*factor + outMin
	}
	return out
}

// GrayscaleReverse maps v -> in_min + in_max - v, i.e. linear inversion
// about the midpoint of in's value range (spec.md §4.1).
func GrayscaleReverse(in Matrix) Matrix {
	inMin, inMax := math.Inf(1), math.Inf(-1)
	for _, v := range in.V {
		if v < inMin {
			inMin = v
		}
		if v > inMax {
			inMax = v
		}
	}
	out := New(in.W, in.H)
	for i, v := range in.V {
		out.V[i] = inMin + inMax - v
	}
	return out
}

// ChannelIndex selects one of the four RGBA channels for ChannelToMatrix
// / MatrixToChannel.
type ChannelIndex int

const (
	ChannelR ChannelIndex = iota
	ChannelG
	ChannelB
	ChannelA
)

// ChannelToMatrix extracts a single 8-bit channel of a Bitmap into a
// freshly allocated Matrix.
func ChannelToMatrix(in raster.Bitmap, ch ChannelIndex) Matrix {
	out := New(in.W, in.H)
	for x := 0; x < in.W; x++ {
		for y := 0; y < in.H; y++ {
			r, g, b, a := in.At(x, y)
			var v uint8
			switch ch {
			case ChannelR:
				v = r
			case ChannelG:
				v = g
			case ChannelB:
				v = b
			case ChannelA:
				v = a
			}
			out.Set(x, y, float64(v))
		}
	}
	return out
}

// MatrixToChannel injects a Matrix's values into one channel of out,
// clamping to [0,255] and forcing alpha to 0xFF (spec.md §4.1). Writing
// ChannelA instead stores the clamped values as alpha.
func MatrixToChannel(in Matrix, out raster.Bitmap, ch ChannelIndex) {
	for x := 0; x < in.W; x++ {
		for y := 0; y < in.H; y++ {
			v := clamp255(in.At(x, y))
			r, g, b, _ := out.At(x, y)
			switch ch {
			case ChannelR:
				r = v
			case ChannelG:
				g = v
			case ChannelB:
				b = v
			case ChannelA:
				out.Set(x, y, r, g, b, v)
				continue
			}
			out.Set(x, y, r, g, b, 0xFF)
		}
	}
}

// GrayscaleToMatrix builds a Matrix of the RGB-averaged grayscale value
// of every pixel of in: gray = (R+G+B)/3, integer arithmetic.
func GrayscaleToMatrix(in raster.Bitmap) Matrix {
	out := New(in.W, in.H)
	for x := 0; x < in.W; x++ {
		for y := 0; y < in.H; y++ {
			out.Set(x, y, float64(in.Grayscale(x, y)))
		}
	}
	return out
}

// GrayscaleToBitmap writes a grayscale Matrix into out's R, G, B
// channels (clamped to [0,255]), forcing alpha to 0xFF.
func GrayscaleToBitmap(in Matrix, out raster.Bitmap) {
	for x := 0; x < in.W; x++ {
		for y := 0; y < in.H; y++ {
			v := clamp255(in.At(x, y))
			out.Set(x, y, v, v, v, 0xFF)
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v >= 256 {
		return 255
	}
	return uint8(v)
}

// ClearRect clips rect to the bitmap and whites out every pixel inside.
func ClearRect(img raster.Bitmap, rect raster.Rectangle) {
	r := rect.Clip(img.W, img.H)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRaw(x, y, raster.DefaultPixel)
		}
	}
}

// CountPixelsRect clips rect to the bitmap and counts grayscale pixels
// with value in [0, maxBrightness].
func CountPixelsRect(img raster.Bitmap, rect raster.Rectangle, maxBrightness int) int {
	r := rect.Clip(img.W, img.H)
	count := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			v := img.Grayscale(x, y)
			if v >= 0 && v <= maxBrightness {
				count++
			}
		}
	}
	return count
}

// ApplyMask whites out every pixel of img that falls outside every one
// of the given rectangles.
func ApplyMask(img raster.Bitmap, masks []raster.Rectangle) {
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			inAny := false
			for _, m := range masks {
				if m.Contains(raster.Point{X: x, Y: y}) {
					inAny = true
					break
				}
			}
			if !inAny {
				img.SetRaw(x, y, raster.DefaultPixel)
			}
		}
	}
}
