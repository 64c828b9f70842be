// Package unpaper implements the per-filter pixel cleanup passes spec.md
// §1 calls "external collaborators" adapted from the unpaper tool:
// border detection, black-block removal, blur-block removal, gray-block
// removal, rectangle masking, and isolated dark-speckle removal. Every
// filter is a sliding-window scan over a Bitmap built on the shared
// matrix.ClearRect / matrix.CountPixelsRect / matrix.ApplyMask helpers,
// grounded on original_source's _border.c, _blackfilter.c,
// _blurfilter.c, _grayfilter.c, _masks.c, _noisefilter.c.
package unpaper

import (
	"github.com/deepteams/pillowfight/internal/matrix"
	"github.com/deepteams/pillowfight/internal/raster"
)

func copyBitmap(in, out raster.Bitmap) {
	copy(out.Pix, in.Pix)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// BorderOptions configures Border.
type BorderOptions struct {
	// BlackThreshold is the grayscale value at or below which a pixel is
	// considered "content" rather than background.
	BlackThreshold int
	// MinContentFraction is the minimum fraction of dark pixels a
	// row/column needs to count as content during the inward scan.
	MinContentFraction float64
}

// DefaultBorderOptions mirrors unpaper's conservative defaults.
func DefaultBorderOptions() BorderOptions {
	return BorderOptions{BlackThreshold: 200, MinContentFraction: 0.01}
}

// Border scans inward from each of the four edges until a row/column
// with enough non-white content is found, then clears everything
// outside the detected content rectangle.
func Border(in, out raster.Bitmap, opts BorderOptions) {
	copyBitmap(in, out)
	w, h := in.W, in.H

	rowHasContent := func(y int) bool {
		count := 0
		for x := 0; x < w; x++ {
			if in.Grayscale(x, y) <= opts.BlackThreshold {
				count++
			}
		}
		return float64(count)/float64(w) >= opts.MinContentFraction
	}
	colHasContent := func(x int) bool {
		count := 0
		for y := 0; y < h; y++ {
			if in.Grayscale(x, y) <= opts.BlackThreshold {
				count++
			}
		}
		return float64(count)/float64(h) >= opts.MinContentFraction
	}

	top := 0
	for top < h && !rowHasContent(top) {
		top++
	}
	bottom := h
	for bottom > top && !rowHasContent(bottom-1) {
		bottom--
	}
	left := 0
	for left < w && !colHasContent(left) {
		left++
	}
	right := w
	for right > left && !colHasContent(right-1) {
		right--
	}

	content := raster.Rect(left, top, right, bottom)
	if top > 0 {
		matrix.ClearRect(out, raster.Rect(0, 0, w, top))
	}
	if bottom < h {
		matrix.ClearRect(out, raster.Rect(0, bottom, w, h))
	}
	if left > 0 {
		matrix.ClearRect(out, raster.Rect(0, content.Min.Y, left, content.Max.Y))
	}
	if right < w {
		matrix.ClearRect(out, raster.Rect(right, content.Min.Y, w, content.Max.Y))
	}
}

// BlackFilterOptions configures BlackFilter.
type BlackFilterOptions struct {
	WindowW, WindowH int
	ThresholdBlack   int
	ThresholdCount   int
}

// DefaultBlackFilterOptions returns unpaper's usual scan-block size.
func DefaultBlackFilterOptions() BlackFilterOptions {
	return BlackFilterOptions{WindowW: 10, WindowH: 10, ThresholdBlack: 100, ThresholdCount: 70}
}

// BlackFilter clears any sliding window whose near-black pixel count
// (grayscale <= ThresholdBlack) exceeds ThresholdCount.
func BlackFilter(in, out raster.Bitmap, opts BlackFilterOptions) {
	copyBitmap(in, out)
	for y := 0; y < in.H; y += opts.WindowH {
		for x := 0; x < in.W; x += opts.WindowW {
			rect := raster.Rect(x, y, minInt(x+opts.WindowW, in.W), minInt(y+opts.WindowH, in.H))
			if matrix.CountPixelsRect(in, rect, opts.ThresholdBlack) > opts.ThresholdCount {
				matrix.ClearRect(out, rect)
			}
		}
	}
}

// BlurFilterOptions configures BlurFilter.
type BlurFilterOptions struct {
	WindowW, WindowH   int
	DarkThreshold      int // grayscale value at/below which a pixel is "dark"
	IntensityThreshold int // a window clears if its dark-pixel count is below this
}

// DefaultBlurFilterOptions returns unpaper's usual scan-block size.
func DefaultBlurFilterOptions() BlurFilterOptions {
	return BlurFilterOptions{WindowW: 10, WindowH: 10, DarkThreshold: 128, IntensityThreshold: 5}
}

// BlurFilter clears a window when its dark-pixel count falls below
// IntensityThreshold. Windows tile the image in WindowW x WindowH steps,
// column of windows by column of windows. Each window's count is the sum
// of per-row dark counts, and every row of every window is scanned
// afresh: there is no rolling cache that carries counts from one window
// to the next, and every window, the first included, is counted the same
// way.
func BlurFilter(in, out raster.Bitmap, opts BlurFilterOptions) {
	copyBitmap(in, out)
	w, h := in.W, in.H

	darkInRow := func(x0, x1, y int) int {
		count := 0
		for x := x0; x < x1; x++ {
			if in.Grayscale(x, y) <= opts.DarkThreshold {
				count++
			}
		}
		return count
	}

	for x := 0; x < w; x += opts.WindowW {
		x1 := minInt(x+opts.WindowW, w)

		rowCache := make([]int, 0, opts.WindowH)
		for y := 0; y < minInt(opts.WindowH, h); y++ {
			rowCache = append(rowCache, darkInRow(x, x1, y))
		}

		sum := 0
		for _, c := range rowCache {
			sum += c
		}

		for y := 0; y < h; y += opts.WindowH {
			y1 := minInt(y+opts.WindowH, h)
			if sum < opts.IntensityThreshold {
				matrix.ClearRect(out, raster.Rect(x, y, x1, y1))
			}

			if y1 < h {
				nextEnd := minInt(y1+opts.WindowH, h)
				sum = 0
				rowCache = rowCache[:0]
				for ny := y1; ny < nextEnd; ny++ {
					c := darkInRow(x, x1, ny)
					rowCache = append(rowCache, c)
					sum += c
				}
			}
		}
	}
}

// GrayFilterOptions configures GrayFilter.
type GrayFilterOptions struct {
	WindowW, WindowH             int
	MinBrightness, MaxBrightness int
	GrayThreshold                int
}

// DefaultGrayFilterOptions mirrors unpaper's JPEG-ringing defaults.
func DefaultGrayFilterOptions() GrayFilterOptions {
	return GrayFilterOptions{WindowW: 10, WindowH: 10, MinBrightness: 0, MaxBrightness: 255, GrayThreshold: 70}
}

// GrayFilter clears windows whose mean brightness falls within
// [MinBrightness,MaxBrightness] and whose channel range is below
// GrayThreshold (desaturated content, e.g. JPEG ringing artifacts).
func GrayFilter(in, out raster.Bitmap, opts GrayFilterOptions) {
	copyBitmap(in, out)
	for y := 0; y < in.H; y += opts.WindowH {
		for x := 0; x < in.W; x += opts.WindowW {
			x1 := minInt(x+opts.WindowW, in.W)
			y1 := minInt(y+opts.WindowH, in.H)

			var sumBrightness int
			minChan, maxChan := 255, 0
			n := 0
			for wy := y; wy < y1; wy++ {
				for wx := x; wx < x1; wx++ {
					r, g, b, _ := in.At(wx, wy)
					sumBrightness += in.Grayscale(wx, wy)
					for _, c := range [3]uint8{r, g, b} {
						if int(c) < minChan {
							minChan = int(c)
						}
						if int(c) > maxChan {
							maxChan = int(c)
						}
					}
					n++
				}
			}
			if n == 0 {
				continue
			}
			mean := sumBrightness / n
			chanRange := maxChan - minChan

			if mean >= opts.MinBrightness && mean <= opts.MaxBrightness && chanRange < opts.GrayThreshold {
				matrix.ClearRect(out, raster.Rect(x, y, x1, y1))
			}
		}
	}
}

// Mask keeps pixels inside any of the given rectangles and whites out
// everything else (C1's apply_mask, exposed at filter granularity).
func Mask(in, out raster.Bitmap, masks []raster.Rectangle) {
	copyBitmap(in, out)
	matrix.ApplyMask(out, masks)
}

// NoiseFilterOptions configures NoiseFilter.
type NoiseFilterOptions struct {
	IntensityThreshold int
	Iterations         int
}

// DefaultNoiseFilterOptions returns unpaper's single-pass default.
func DefaultNoiseFilterOptions() NoiseFilterOptions {
	return NoiseFilterOptions{IntensityThreshold: 200, Iterations: 1}
}

// NoiseFilter removes isolated dark speckles (grayscale at or below
// IntensityThreshold, 8-connected neighbours all above it) over
// Iterations passes.
func NoiseFilter(in, out raster.Bitmap, opts NoiseFilterOptions) {
	copyBitmap(in, out)
	scratch := raster.New(in.W, in.H)

	for it := 0; it < opts.Iterations; it++ {
		copy(scratch.Pix, out.Pix)
		for y := 0; y < out.H; y++ {
			for x := 0; x < out.W; x++ {
				if scratch.Grayscale(x, y) > opts.IntensityThreshold {
					continue
				}
				if isolated(scratch, x, y, opts.IntensityThreshold) {
					out.SetRaw(x, y, raster.DefaultPixel)
				}
			}
		}
	}
}

var neighborOffsets = [8]raster.Point{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

func isolated(b raster.Bitmap, x, y, threshold int) bool {
	for _, off := range neighborOffsets {
		nx, ny := x+off.X, y+off.Y
		if nx < 0 || nx >= b.W || ny < 0 || ny >= b.H {
			continue
		}
		if b.Grayscale(nx, ny) <= threshold {
			return false
		}
	}
	return true
}
