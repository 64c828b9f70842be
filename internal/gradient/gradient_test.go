package gradient

import (
	"math"
	"testing"

	"github.com/deepteams/pillowfight/internal/matrix"
	"github.com/deepteams/pillowfight/internal/raster"
)

func TestSobelOnMatrix_ZeroOnUniformField(t *testing.T) {
	m := matrix.New(5, 5)
	for i := range m.V {
		m.V[i] = 128
	}
	b := SobelOnMatrix(m, SobelX, SobelY, 0, 0)
	for y := 2; y < 3; y++ {
		for x := 2; x < 3; x++ {
			if v := b.Intensity.At(x, y); v != 0 {
				t.Errorf("(%d,%d): intensity = %v, want 0", x, y, v)
			}
		}
	}
}

func TestSobelOnMatrix_IntensityIsHypotOfGxGy(t *testing.T) {
	m := matrix.New(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			m.Set(x, y, float64(x*x+y))
		}
	}
	b := SobelOnMatrix(m, SobelX, SobelY, 0, 0)
	for i := range b.Intensity.V {
		want := math.Hypot(b.Gx.V[i], b.Gy.V[i])
		if math.Abs(b.Intensity.V[i]-want) > 1e-9 {
			t.Errorf("V[%d]: intensity=%v, want hypot(gx,gy)=%v", i, b.Intensity.V[i], want)
		}
	}
}

func TestSobelOnMatrix_DirectionIsAtan2OfGyGx(t *testing.T) {
	m := matrix.New(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			m.Set(x, y, float64(x-2*y))
		}
	}
	b := SobelOnMatrix(m, SobelX, SobelY, 0, 0)
	for i := range b.Direction.V {
		want := math.Atan2(b.Gy.V[i], b.Gx.V[i])
		if math.Abs(b.Direction.V[i]-want) > 1e-9 {
			t.Errorf("V[%d]: direction=%v, want atan2(gy,gx)=%v", i, b.Direction.V[i], want)
		}
	}
}

func TestBitmap_PreservesShape(t *testing.T) {
	in := raster.New(4, 6)
	in.Fill(50, 60, 70, 255)
	out := raster.New(4, 6)
	Bitmap(in, out)
	if out.W != in.W || out.H != in.H {
		t.Fatalf("got %dx%d, want %dx%d", out.W, out.H, in.W, in.H)
	}
}
