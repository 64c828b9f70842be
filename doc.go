// Package pillowfight implements a document-image enhancement and text
// detection library: Gaussian blur, Sobel/Scharr gradient, Canny edge
// detection, Automatic Color Equalization (ACE), and a Stroke Width
// Transform (SWT) text detector, plus a bitmap-diff utility and a set
// of unpaper-derived cleanup filters.
//
// Every filter operates on the same two value types: [Bitmap], a flat
// RGBA raster, and [DoubleMatrix], a flat grid of float64 used as the
// intermediate representation between pipeline stages. All filters are
// single-threaded except [ACE], which parallelises across horizontal
// stripes of the image.
package pillowfight

import (
	"github.com/deepteams/pillowfight/internal/matrix"
	"github.com/deepteams/pillowfight/internal/raster"
)

// Bitmap is a rectangular RGBA raster: width, height, and a row-major
// array of w*h packed pixels (R | G<<8 | B<<16 | A<<24). Out-of-bounds
// reads yield DefaultPixel.
type Bitmap = raster.Bitmap

// DoubleMatrix is a rectangular grid of float64, row-major, used as the
// intermediate representation between every multi-stage filter.
type DoubleMatrix = matrix.Matrix

// Point is an integer 2-D coordinate.
type Point = raster.Point

// Rectangle is a half-open rectangle: Min is inclusive, Max exclusive.
type Rectangle = raster.Rectangle

// DefaultPixel is the designated out-of-bounds/background pixel: opaque
// white (0xFFFFFFFF), grounded on original_source's
// g_pf_default_white_pixel.
const DefaultPixel = raster.DefaultPixel

// NewBitmap allocates a w*h Bitmap initialised to DefaultPixel.
func NewBitmap(w, h int) Bitmap { return raster.New(w, h) }

// Rect constructs a Rectangle from corner coordinates (Max exclusive).
func Rect(x0, y0, x1, y1 int) Rectangle { return raster.Rect(x0, y0, x1, y1) }
