// Package ace implements the C5 Automatic Color Equalization filter
// (Rizzi, Gatta & Marini), the only multithreaded stage in the
// pipeline. It partitions the image into disjoint horizontal stripes
// and runs a two-stage worker pool over them: a chromatic-spatial
// adjustment pass against randomly sampled reference points, followed
// by a dynamic tone-reproduction scaling pass, with a single
// min/max-reduction barrier between the two — the same stripe-worker
// shape as the teacher's row-parallel filter kernels, generalized here
// to the reduce-then-rescale pattern ACE requires.
package ace

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/deepteams/pillowfight/internal/matrix"
	"github.com/deepteams/pillowfight/internal/raster"
)

// MaxThreads caps the worker count regardless of the requested value.
const MaxThreads = 32

const nbColors = 3 // ACE operates on R, G, B only; alpha is untouched.

// ErrShapeMismatch is returned when in and out do not share dimensions.
var ErrShapeMismatch = errors.New("ace: in and out must have identical dimensions")

// Options configures an ACE run. Seed makes reference-sample selection
// deterministic: identical Options (including Seed) on identical input
// always produce identical output, independent of NbThreads.
type Options struct {
	NbSamples int
	Slope     float64
	Limit     float64
	NbThreads int
	Seed      int64
}

// DefaultOptions returns the filter's documented defaults (spec.md §4.5).
// Seed is left at zero; callers that need a specific sequence must set
// it explicitly.
func DefaultOptions() Options {
	return Options{NbSamples: 100, Slope: 10, Limit: 1000, NbThreads: 2}
}

type samplePoint struct{ x, y int }

// stripeScore holds one stripe worker's local reduction, merged into the
// global max/min at the barrier between stages.
type stripeScore struct {
	max, min [nbColors]float64
}

// Bitmap runs ACE on in, writing the result into out. in and out must
// share dimensions.
func Bitmap(in, out raster.Bitmap, opts Options) error {
	if !raster.SameShape(in, out) {
		return ErrShapeMismatch
	}

	nbThreads := opts.NbThreads
	if nbThreads > MaxThreads {
		nbThreads = MaxThreads
	}
	if nbThreads > in.H {
		nbThreads = 1
	}
	if nbThreads < 1 {
		nbThreads = 1
	}

	samples := drawSamples(in.W, in.H, opts.NbSamples, opts.Seed)

	scores := [nbColors]matrix.Matrix{
		matrix.New(in.W, in.H),
		matrix.New(in.W, in.H),
		matrix.New(in.W, in.H),
	}

	linesPerThread := in.H / nbThreads
	stripe := func(t int) (start, stop int) {
		start = t * linesPerThread
		stop = (t + 1) * linesPerThread
		if t == nbThreads-1 || stop > in.H {
			stop = in.H
		}
		return start, stop
	}

	// Stage 1: chromatic-spatial adjustment, parallel by stripe.
	results := make([]stripeScore, nbThreads)
	g, _ := errgroup.WithContext(context.Background())
	for t := 0; t < nbThreads; t++ {
		t := t
		startY, stopY := stripe(t)
		g.Go(func() error {
			results[t] = adjustStripe(in, samples, opts.Slope, opts.Limit, startY, stopY, scores)
			return nil
		})
	}
	_ = g.Wait()

	// Barrier: reduce per-stripe max/min into the global range.
	var globalMax, globalMin [nbColors]float64
	for c := 0; c < nbColors; c++ {
		globalMin[c] = math.Inf(1)
	}
	for _, r := range results {
		for c := 0; c < nbColors; c++ {
			if r.max[c] > globalMax[c] {
				globalMax[c] = r.max[c]
			}
			if r.min[c] < globalMin[c] {
				globalMin[c] = r.min[c]
			}
		}
	}

	// Stage 2: dynamic tone-reproduction scaling, same stripes.
	g2, _ := errgroup.WithContext(context.Background())
	for t := 0; t < nbThreads; t++ {
		t := t
		startY, stopY := stripe(t)
		g2.Go(func() error {
			scaleStripe(out, scores, globalMax, globalMin, startY, stopY)
			return nil
		})
	}
	return g2.Wait()
}

// drawSamples draws nbSamples uniformly-random (x,y) pairs in
// [0,w) x [0,h), using a seeded RNG local to this call so concurrent
// ACE runs never share (or race on) RNG state.
func drawSamples(w, h, nbSamples int, seed int64) []samplePoint {
	rng := rand.New(rand.NewSource(seed))
	out := make([]samplePoint, nbSamples)
	for i := range out {
		out[i] = samplePoint{x: rng.Intn(w), y: rng.Intn(h)}
	}
	return out
}

func channelAt(b raster.Bitmap, x, y, color int) float64 {
	r, g, bl, _ := b.At(x, y)
	switch color {
	case 0:
		return float64(r)
	case 1:
		return float64(g)
	default:
		return float64(bl)
	}
}

// saturate clamps delta*slope to [-limit, +limit].
func saturate(delta, slope, limit float64) float64 {
	v := delta * slope
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

// adjustStripe computes the chromatic-spatial adjustment score for every
// pixel in rows [startY, stopY), writing it into scores and returning
// this stripe's local max/min for the post-stage reduction.
func adjustStripe(in raster.Bitmap, samples []samplePoint, slope, limit float64, startY, stopY int, scores [nbColors]matrix.Matrix) stripeScore {
	var res stripeScore
	for c := 0; c < nbColors; c++ {
		res.min[c] = math.Inf(1)
	}

	// Matches the reference implementation's integer-truncated distance
	// floor: h/5 is computed in integer arithmetic before comparison.
	minDist := float64(in.H / 5)

	for j := startY; j < stopY; j++ {
		for i := 0; i < in.W; i++ {
			var sums [nbColors]float64
			var denom float64

			for _, s := range samples {
				d := math.Hypot(float64(i-s.x), float64(j-s.y))
				if d < minDist {
					continue
				}
				for c := 0; c < nbColors; c++ {
					delta := channelAt(in, i, j, c) - channelAt(in, s.x, s.y, c)
					sat := saturate(delta, slope, limit) / d
					sums[c] += sat
				}
				denom += limit / d
			}

			for c := 0; c < nbColors; c++ {
				v := sums[c] / denom
				scores[c].Set(i, j, v)
				if v > res.max[c] {
					res.max[c] = v
				}
				if v < res.min[c] {
					res.min[c] = v
				}
			}
		}
	}
	return res
}

// scaleStripe linearly rescales scores[c] from [min[c],max[c]] to
// [0,255] and writes the result into out for rows [startY, stopY).
func scaleStripe(out raster.Bitmap, scores [nbColors]matrix.Matrix, max, min [nbColors]float64, startY, stopY int) {
	for j := startY; j < stopY; j++ {
		for i := 0; i < out.W; i++ {
			var ch [nbColors]uint8
			for c := 0; c < nbColors; c++ {
				v := scores[c].At(i, j)
				scaled := (v - min[c]) * (255.0 / (max[c] - min[c]))
				ch[c] = truncUint8(scaled)
			}
			out.Set(i, j, ch[0], ch[1], ch[2], 0xFF)
		}
	}
}

func truncUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
