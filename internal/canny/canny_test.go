package canny

import (
	"testing"

	"github.com/deepteams/pillowfight/internal/matrix"
	"github.com/deepteams/pillowfight/internal/raster"
)

// Border pixels are excluded: the truncated convolution scans at the
// image edge (see matrix.Convolve) turn a uniform field into a ramp there,
// which the Sobel stage reads as an edge. Two pixels in from every side,
// both the Gaussian and the Sobel scans are unclipped.
func TestOnMatrix_UniformField_NoEdges(t *testing.T) {
	const w, h = 16, 16
	in := matrix.New(w, h)
	for i := range in.V {
		in.V[i] = 128
	}

	out := OnMatrix(in)
	for y := 2; y < h-2; y++ {
		for x := 2; x < w-2; x++ {
			if v := out.At(x, y); v != 0 {
				t.Fatalf("(%d,%d): got %v, want 0 on a uniform field", x, y, v)
			}
		}
	}
}

func TestOnMatrix_StepEdge_DetectsBoundary(t *testing.T) {
	w, h := 20, 20
	in := matrix.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				in.Set(x, y, 0)
			} else {
				in.Set(x, y, 255)
			}
		}
	}

	out := OnMatrix(in)

	var anyEdge bool
	for _, v := range out.V {
		if v > 0 {
			anyEdge = true
			break
		}
	}
	if !anyEdge {
		t.Fatal("expected at least one nonzero edge pixel across a hard step edge")
	}

	// A column far from the boundary and far from the border (where
	// convolution truncation can inflate values) must stay suppressed.
	for y := 4; y < h-4; y++ {
		if v := out.At(2, y); v != 0 {
			t.Errorf("at (2,%d): got %v, want 0 far from the step", y, v)
		}
	}
}

func TestApplyThresholds(t *testing.T) {
	in := matrix.New(3, 1)
	in.V[0] = Low
	in.V[1] = (Low + High) / 2
	in.V[2] = High + 1

	applyThresholds(in)

	if in.V[0] != 0 {
		t.Errorf("at-or-below Low should clamp to 0, got %v", in.V[0])
	}
	if in.V[1] != (Low+High)/2 {
		t.Errorf("between thresholds should be unchanged, got %v", in.V[1])
	}
	if in.V[2] != 255 {
		t.Errorf("above High should clamp to 255, got %v", in.V[2])
	}
}

func TestBitmap_SameShapeAsInput(t *testing.T) {
	in := raster.New(12, 8)
	out := raster.NewZero(12, 8)
	Bitmap(in, out)

	if !raster.SameShape(in, out) {
		t.Fatal("Bitmap must preserve input dimensions")
	}
}
