package pillowfight

import (
	"fmt"

	"github.com/deepteams/pillowfight/internal/ace"
	"github.com/deepteams/pillowfight/internal/canny"
	"github.com/deepteams/pillowfight/internal/gaussian"
	"github.com/deepteams/pillowfight/internal/gradient"
	"github.com/deepteams/pillowfight/internal/matrix"
	"github.com/deepteams/pillowfight/internal/swt"
)

func checkShape(in, out Bitmap) error {
	if in.W != out.W || in.H != out.H {
		return fmt.Errorf("%dx%d vs %dx%d: %w", in.W, in.H, out.W, out.H, ErrShapeMismatch)
	}
	return nil
}

// Gaussian blurs in and writes the result into out (spec.md §4.2).
func Gaussian(in, out Bitmap, opts GaussianOptions) error {
	if err := checkShape(in, out); err != nil {
		return err
	}
	if opts.NbStddev <= 0 {
		return fmt.Errorf("nb_stddev must be > 0: %w", ErrInvalidParameter)
	}
	if opts.Sigma < 0 {
		return fmt.Errorf("sigma must be >= 0: %w", ErrInvalidParameter)
	}
	gaussian.Bitmap(in, out, opts.Sigma, opts.NbStddev)
	return nil
}

// Sobel computes the default Sobel gradient magnitude of in and writes
// it, as grayscale, into out (spec.md §4.3).
func Sobel(in, out Bitmap) error {
	if err := checkShape(in, out); err != nil {
		return err
	}
	gradient.Bitmap(in, out)
	return nil
}

// Canny runs the Canny edge detector on in and writes the edge map, as
// grayscale, into out (spec.md §4.4).
func Canny(in, out Bitmap) error {
	if err := checkShape(in, out); err != nil {
		return err
	}
	canny.Bitmap(in, out)
	return nil
}

// ACE runs Automatic Color Equalization on in and writes the result
// into out (spec.md §4.5).
func ACE(in, out Bitmap, opts ACEOptions) error {
	if err := checkShape(in, out); err != nil {
		return err
	}
	if opts.NbSamples <= 0 {
		return fmt.Errorf("nb_samples must be > 0: %w", ErrInvalidParameter)
	}
	if opts.NbThreads <= 0 {
		return fmt.Errorf("nb_threads must be > 0: %w", ErrInvalidParameter)
	}
	return ace.Bitmap(in, out, opts)
}

// SWT runs the Stroke Width Transform text detector on in and writes
// the rendered result, under the given output mode, into out (spec.md
// §4.6).
func SWT(in, out Bitmap, output SWTOutputType) error {
	if err := checkShape(in, out); err != nil {
		return err
	}
	swt.Bitmap(in, out, output)
	return nil
}

// Compare diffs a and b and renders a visual difference map into out:
// matching pixels (within tolerance, compared as grayscale) keep their
// grayscale value; mismatching pixels render as a reddish highlight.
// Returns the number of mismatching pixels. a, b, and out must share
// dimensions (supplemented feature, SPEC_FULL.md §9.2, grounded on
// original_source's _compare.c).
func Compare(a, b, out Bitmap, opts CompareOptions) (int, error) {
	if err := checkShape(a, b); err != nil {
		return 0, err
	}
	if err := checkShape(a, out); err != nil {
		return 0, err
	}

	mismatches := 0
	for y := 0; y < a.H; y++ {
		for x := 0; x < a.W; x++ {
			ga := a.Grayscale(x, y)
			gb := b.Grayscale(x, y)
			diff := ga - gb
			if diff < 0 {
				diff = -diff
			}
			if diff <= opts.Tolerance {
				v := uint8(ga)
				out.Set(x, y, v, v, v, 0xFF)
				continue
			}
			mismatches++
			v := uint8((ga + gb) / 4)
			out.Set(x, y, 255, v, v, 0xFF)
		}
	}
	return mismatches, nil
}

// Normalize rescales every value of in into [outMin,outMax] (spec.md
// §4.1). If factor is 0, the input's own min/max are used to derive it.
func Normalize(in DoubleMatrix, factor, outMin, outMax float64) DoubleMatrix {
	return matrix.Normalize(in, factor, outMin, outMax)
}

// GrayscaleReverse maps every value v of in to in_min+in_max-v (spec.md
// §4.1).
func GrayscaleReverse(in DoubleMatrix) DoubleMatrix {
	return matrix.GrayscaleReverse(in)
}

// ClearRect clips rect to img and whites out every pixel inside it.
func ClearRect(img Bitmap, rect Rectangle) { matrix.ClearRect(img, rect) }

// CountPixelsRect clips rect to img and counts grayscale pixels with
// value in [0, maxBrightness].
func CountPixelsRect(img Bitmap, rect Rectangle, maxBrightness int) int {
	return matrix.CountPixelsRect(img, rect, maxBrightness)
}

// ApplyMask whites out every pixel of img outside every given rectangle.
func ApplyMask(img Bitmap, masks []Rectangle) { matrix.ApplyMask(img, masks) }
