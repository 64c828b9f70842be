package ace

import (
	"testing"

	"github.com/deepteams/pillowfight/internal/raster"
)

func gradientImage(w, h int) raster.Bitmap {
	b := raster.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x * 255) / w)
			b.Set(x, y, v, v, v, 0xFF)
		}
	}
	return b
}

func TestBitmap_ShapeMismatch(t *testing.T) {
	in := raster.New(10, 10)
	out := raster.NewZero(8, 8)
	if err := Bitmap(in, out, DefaultOptions()); err != ErrShapeMismatch {
		t.Fatalf("got %v, want ErrShapeMismatch", err)
	}
}

func TestBitmap_DeterministicAcrossThreadCounts(t *testing.T) {
	in := gradientImage(20, 20)
	opts := Options{NbSamples: 30, Slope: 10, Limit: 1000, Seed: 42}

	out1 := raster.NewZero(20, 20)
	opts.NbThreads = 1
	if err := Bitmap(in, out1, opts); err != nil {
		t.Fatalf("1 thread: %v", err)
	}

	out4 := raster.NewZero(20, 20)
	opts.NbThreads = 4
	if err := Bitmap(in, out4, opts); err != nil {
		t.Fatalf("4 threads: %v", err)
	}

	for i := range out1.Pix {
		if out1.Pix[i] != out4.Pix[i] {
			t.Fatalf("pixel %d differs between thread counts: %#x vs %#x", i, out1.Pix[i], out4.Pix[i])
		}
	}
}

func TestBitmap_DeterministicAcrossRuns(t *testing.T) {
	in := gradientImage(16, 16)
	opts := Options{NbSamples: 25, Slope: 10, Limit: 1000, NbThreads: 2, Seed: 7}

	out1 := raster.NewZero(16, 16)
	out2 := raster.NewZero(16, 16)
	if err := Bitmap(in, out1, opts); err != nil {
		t.Fatal(err)
	}
	if err := Bitmap(in, out2, opts); err != nil {
		t.Fatal(err)
	}
	for i := range out1.Pix {
		if out1.Pix[i] != out2.Pix[i] {
			t.Fatalf("pixel %d not reproducible across runs with the same seed", i)
		}
	}
}

func TestBitmap_AlphaForcedOpaque(t *testing.T) {
	in := gradientImage(12, 12)
	out := raster.NewZero(12, 12)
	opts := DefaultOptions()
	opts.NbThreads = 3
	if err := Bitmap(in, out, opts); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			_, _, _, a := out.At(x, y)
			if a != 0xFF {
				t.Fatalf("at (%d,%d): alpha %#x, want 0xFF", x, y, a)
			}
		}
	}
}

func TestBitmap_NbThreadsCappedAtHeight(t *testing.T) {
	in := gradientImage(6, 3)
	out := raster.NewZero(6, 3)
	opts := DefaultOptions()
	opts.NbThreads = 10 // exceeds height, must fall back to 1 per spec.md §4.5
	if err := Bitmap(in, out, opts); err != nil {
		t.Fatal(err)
	}
}
