package matrix

import (
	"math"
	"testing"

	"github.com/deepteams/pillowfight/internal/raster"
)

func TestTranspose_Involutive(t *testing.T) {
	m := New(3, 4)
	for i := range m.V {
		m.V[i] = float64(i) * 1.25
	}
	got := Transpose(Transpose(m))
	if got.W != m.W || got.H != m.H {
		t.Fatalf("shape changed: got %dx%d, want %dx%d", got.W, got.H, m.W, m.H)
	}
	for i := range m.V {
		if got.V[i] != m.V[i] {
			t.Errorf("V[%d] = %v, want %v", i, got.V[i], m.V[i])
		}
	}
}

func TestConvolve_Linear(t *testing.T) {
	a := New(4, 4)
	b := New(4, 4)
	for i := range a.V {
		a.V[i] = float64(i)
		b.V[i] = float64(i*i) - 3
	}
	k := New(3, 3)
	copy(k.V, []float64{0, 1, 0, 1, -4, 1, 0, 1, 0})

	const alpha, beta = 2.0, -0.5
	mix := New(4, 4)
	for i := range mix.V {
		mix.V[i] = alpha*a.V[i] + beta*b.V[i]
	}

	left := Convolve(mix, k)
	ca := Convolve(a, k)
	cb := Convolve(b, k)
	for i := range left.V {
		right := alpha*ca.V[i] + beta*cb.V[i]
		if math.Abs(left.V[i]-right) > 1e-9 {
			t.Errorf("V[%d]: conv(mix)=%v, alpha*conv(a)+beta*conv(b)=%v", i, left.V[i], right)
		}
	}
}

// A 1x1 image convolved with a 3x3 kernel hits an out-of-range sample on
// the very first kx iteration (kx=0 samples ix+halfW, already past the
// single column), which abandons the whole kx loop before it ever reaches
// the centre tap — the "terminate, don't skip" scan order the source
// exhibits (matrix.go's Convolve doc comment).
func TestConvolve_OutOfRangeAbandonsWholeScan(t *testing.T) {
	img := New(1, 1)
	img.Set(0, 0, 5)
	k := New(3, 3)
	for i := range k.V {
		k.V[i] = 1
	}
	out := Convolve(img, k)
	if out.At(0, 0) != 0 {
		t.Errorf("got %v, want 0: the centre tap is never reached", out.At(0, 0))
	}
}

// With enough margin on every side, a 3x3 kernel's full 9 taps all stay
// in range and contribute. Only the kernel's centre row (ky=1, which maps
// to sy=iy, the pixel's own row) is nonzero here.
func TestConvolve_CentredSampleContributes(t *testing.T) {
	img := New(5, 5)
	img.Set(1, 2, 1)
	img.Set(2, 2, 5)
	img.Set(3, 2, 9)
	k := New(3, 3)
	k.Set(0, 1, 1)
	k.Set(1, 1, 1)
	k.Set(2, 1, 1)

	out := Convolve(img, k)
	if out.At(2, 2) != 15 {
		t.Errorf("centre pixel: got %v, want 15 (1+5+9)", out.At(2, 2))
	}
}

func TestNormalize_FactorZero_HitsBothBoundsWhenNonConstant(t *testing.T) {
	m := New(2, 2)
	m.V = []float64{1, 5, 3, -2}
	out := Normalize(m, 0, 0, 255)

	gotMin, gotMax := math.Inf(1), math.Inf(-1)
	for _, v := range out.V {
		if v < gotMin {
			gotMin = v
		}
		if v > gotMax {
			gotMax = v
		}
	}
	if gotMin != 0 || gotMax != 255 {
		t.Errorf("got min=%v max=%v, want 0 and 255", gotMin, gotMax)
	}
}

func TestNormalize_ExplicitFactor(t *testing.T) {
	m := New(2, 1)
	m.V = []float64{0, 10}
	out := Normalize(m, 2, 0, 255)
	want := []float64{0, 20}
	for i, v := range out.V {
		if v != want[i] {
			t.Errorf("V[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestGrayscaleReverse(t *testing.T) {
	m := New(3, 1)
	m.V = []float64{0, 50, 100}
	out := GrayscaleReverse(m)
	want := []float64{100, 50, 0}
	for i, v := range out.V {
		if v != want[i] {
			t.Errorf("V[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestChannelRoundTrip(t *testing.T) {
	b := raster.New(2, 2)
	b.Set(0, 0, 10, 20, 30, 255)
	b.Set(1, 1, 200, 210, 220, 255)

	r := ChannelToMatrix(b, ChannelR)
	out := raster.New(2, 2)
	MatrixToChannel(r, out, ChannelR)

	gotR, _, _, a := out.At(0, 0)
	if gotR != 10 || a != 0xFF {
		t.Errorf("(0,0): R=%d A=%#x, want R=10 A=0xFF", gotR, a)
	}
	gotR2, _, _, _ := out.At(1, 1)
	if gotR2 != 200 {
		t.Errorf("(1,1): R=%d, want 200", gotR2)
	}
}

func TestGrayscaleToBitmapRoundTrip(t *testing.T) {
	m := New(2, 1)
	m.V = []float64{0, 255}
	out := raster.New(2, 1)
	GrayscaleToBitmap(m, out)

	r, g, b, a := out.At(0, 0)
	if r != 0 || g != 0 || b != 0 || a != 0xFF {
		t.Errorf("(0,0) = (%d,%d,%d,%d), want (0,0,0,255)", r, g, b, a)
	}
	r, g, b, a = out.At(1, 0)
	if r != 255 || g != 255 || b != 255 || a != 0xFF {
		t.Errorf("(1,0) = (%d,%d,%d,%d), want (255,255,255,255)", r, g, b, a)
	}
}

func TestClearRect_ClipsAndWhitesOut(t *testing.T) {
	b := raster.New(4, 4)
	b.Fill(0, 0, 0, 255)
	ClearRect(b, raster.Rect(-1, -1, 2, 2))

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			r, g, bl, a := b.At(x, y)
			if r != 0xFF || g != 0xFF || bl != 0xFF || a != 0xFF {
				t.Errorf("(%d,%d) not cleared: (%d,%d,%d,%d)", x, y, r, g, bl, a)
			}
		}
	}
	r, _, _, _ := b.At(3, 3)
	if r != 0 {
		t.Errorf("(3,3) unexpectedly cleared: R=%d", r)
	}
}

func TestCountPixelsRect(t *testing.T) {
	b := raster.New(3, 1)
	b.Set(0, 0, 0, 0, 0, 255)
	b.Set(1, 0, 100, 100, 100, 255)
	b.Set(2, 0, 255, 255, 255, 255)

	n := CountPixelsRect(b, raster.Rect(0, 0, 3, 1), 100)
	if n != 2 {
		t.Errorf("got %d, want 2", n)
	}
}

func TestApplyMask_KeepsOnlyMaskedRegions(t *testing.T) {
	b := raster.New(4, 1)
	b.Fill(1, 2, 3, 255)
	ApplyMask(b, []raster.Rectangle{raster.Rect(1, 0, 2, 1)})

	for x := 0; x < 4; x++ {
		r, _, _, _ := b.At(x, 0)
		if x == 1 {
			if r != 1 {
				t.Errorf("(%d,0) masked-in pixel changed: R=%d", x, r)
			}
		} else if r != 0xFF {
			t.Errorf("(%d,0) should have been whited out: R=%d", x, r)
		}
	}
}

func TestNewPooledRelease_RoundTrips(t *testing.T) {
	m := NewPooled(5, 5)
	if m.W != 5 || m.H != 5 || len(m.V) != 25 {
		t.Fatalf("got %dx%d len=%d, want 5x5 len=25", m.W, m.H, len(m.V))
	}
	for _, v := range m.V {
		if v != 0 {
			t.Fatalf("pooled matrix not zeroed: found %v", v)
		}
	}
	Release(m)
}
