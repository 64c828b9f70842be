// Package raster defines the flat, row-major raster types shared by every
// filter package: Bitmap (32-bit RGBA), Point, and Rectangle. Keeping
// these in their own leaf package lets every other internal package
// (matrix, gaussian, gradient, canny, ace, swt, unpaper) and the public
// pillowfight package share one definition without an import cycle —
// the same role the teacher's internal/dsp plays for VP8's raw sample
// buffers, one level up from any container/codec-specific type.
package raster

import "fmt"

// DefaultPixel is the designated out-of-bounds pixel: opaque white.
const DefaultPixel uint32 = 0xFFFFFFFF

// Point is an integer 2-D coordinate.
type Point struct {
	X, Y int
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Rectangle is a half-open rectangle: Min is inclusive, Max is exclusive.
type Rectangle struct {
	Min, Max Point
}

// Rect constructs a Rectangle from corner coordinates.
func Rect(x0, y0, x1, y1 int) Rectangle {
	return Rectangle{Point{x0, y0}, Point{x1, y1}}
}

// Dx returns the rectangle's width.
func (r Rectangle) Dx() int { return r.Max.X - r.Min.X }

// Dy returns the rectangle's height.
func (r Rectangle) Dy() int { return r.Max.Y - r.Min.Y }

// Empty reports whether the rectangle contains no points.
func (r Rectangle) Empty() bool { return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y }

// Contains reports whether p lies within r.
func (r Rectangle) Contains(p Point) bool {
	return r.Min.X <= p.X && p.X < r.Max.X && r.Min.Y <= p.Y && p.Y < r.Max.Y
}

// Clip clips r to the bounds [0,w) x [0,h).
func (r Rectangle) Clip(w, h int) Rectangle {
	out := r
	if out.Min.X < 0 {
		out.Min.X = 0
	}
	if out.Min.Y < 0 {
		out.Min.Y = 0
	}
	if out.Max.X > w {
		out.Max.X = w
	}
	if out.Max.Y > h {
		out.Max.Y = h
	}
	if out.Min.X > out.Max.X {
		out.Min.X = out.Max.X
	}
	if out.Min.Y > out.Max.Y {
		out.Min.Y = out.Max.Y
	}
	return out
}

// Bitmap is a rectangular 32-bit RGBA raster, row-major, one uint32 per
// pixel packed as R | G<<8 | B<<16 | A<<24 — the layout is part of the
// external contract (spec §9: "keep the flat layout; it is part of the
// contract for SIMD vectorisation and debug output formats").
type Bitmap struct {
	W, H int
	Pix  []uint32
}

// New allocates a Bitmap of the given dimensions, initialised to opaque
// white (the designated default pixel).
func New(w, h int) Bitmap {
	pix := make([]uint32, w*h)
	for i := range pix {
		pix[i] = DefaultPixel
	}
	return Bitmap{W: w, H: h, Pix: pix}
}

// NewZero allocates a Bitmap whose pixels are left at the zero value
// (black with A=0, i.e. fully transparent black) — used by
// callers that are about to overwrite every pixel.
func NewZero(w, h int) Bitmap {
	return Bitmap{W: w, H: h, Pix: make([]uint32, w*h)}
}

// SameShape reports whether a and b have identical dimensions.
func SameShape(a, b Bitmap) bool { return a.W == b.W && a.H == b.H }

func pack(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

func unpack(v uint32) (r, g, b, a uint8) {
	return uint8(v), uint8(v >> 8), uint8(v >> 16), uint8(v >> 24)
}

// At returns the pixel at (x,y). Out-of-bounds reads yield DefaultPixel.
func (b Bitmap) At(x, y int) (r, g, b2, a uint8) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return unpack(DefaultPixel)
	}
	return unpack(b.Pix[y*b.W+x])
}

// AtRaw returns the packed pixel at (x,y), or DefaultPixel out of bounds.
func (b Bitmap) AtRaw(x, y int) uint32 {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return DefaultPixel
	}
	return b.Pix[y*b.W+x]
}

// Set writes a pixel at (x,y). Out-of-bounds writes are ignored.
func (b Bitmap) Set(x, y int, r, g, bl, a uint8) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return
	}
	b.Pix[y*b.W+x] = pack(r, g, bl, a)
}

// SetRaw writes a packed pixel at (x,y). Out-of-bounds writes are ignored.
func (b Bitmap) SetRaw(x, y int, v uint32) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return
	}
	b.Pix[y*b.W+x] = v
}

// Grayscale returns the integer-averaged RGB grayscale value at (x,y):
// gray = (R+G+B)/3, per spec.md §4.1 "RGB→grayscale".
func (b Bitmap) Grayscale(x, y int) int {
	r, g, bl, _ := b.At(x, y)
	return (int(r) + int(g) + int(bl)) / 3
}

// Fill sets every pixel in the bitmap to the given colour.
func (b Bitmap) Fill(r, g, bl, a uint8) {
	v := pack(r, g, bl, a)
	for i := range b.Pix {
		b.Pix[i] = v
	}
}

// String implements fmt.Stringer for debug output.
func (b Bitmap) String() string {
	return fmt.Sprintf("Bitmap{%dx%d}", b.W, b.H)
}
