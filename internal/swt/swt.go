// Package swt implements the C6 Stroke Width Transform text detector:
// ray tracing from Canny edge pixels along the gradient, ray-median
// equalization, 8-way connected-component grouping into letter
// candidates, shape/crowding filters, letter pairing, greedy chain
// merging, and three rendering modes. It is the largest and most
// elaborate stage of the pipeline, chaining every earlier component
// (canny, gaussian, gradient) the way the teacher's top-level decoder
// chains its VP8/VP8L stage functions.
package swt

import (
	"math"
	"sort"

	"github.com/deepteams/pillowfight/internal/canny"
	"github.com/deepteams/pillowfight/internal/gaussian"
	"github.com/deepteams/pillowfight/internal/gradient"
	"github.com/deepteams/pillowfight/internal/matrix"
	"github.com/deepteams/pillowfight/internal/raster"
)

// OutputType selects one of the three rendering modes (spec.md §4.6k).
type OutputType int

const (
	BWText OutputType = iota
	GrayscaleText
	OriginalBoxes
)

// precision is the ray-marching step size (spec.md §4.6c).
const precision = 0.05

// minChainLetters is the minimum chain length rendered in BWText and
// OriginalBoxes mode (spec.md §4.6k).
const minChainLetters = 3

// Bitmap executes the full SWT pipeline on in, writing the rendered
// result into out (same shape as in).
func Bitmap(in, out raster.Bitmap, output OutputType) {
	gray := matrix.GrayscaleToMatrix(in)
	edge := canny.OnMatrix(gray)

	blurred := gaussian.OnMatrix(gray, 0, 3)
	bundle := gradient.SobelOnMatrix(blurred, gradient.ScharrX, gradient.ScharrY, 0, 0)

	cosT, sinT := matrix.New(in.W, in.H), matrix.New(in.W, in.H)
	for i, d := range bundle.Direction.V {
		cosT.V[i] = math.Cos(d)
		sinT.V[i] = math.Sin(d)
	}

	swtM, rays := traceRays(edge, cosT, sinT)
	equalizeRays(swtM, rays)

	letters := groupLetters(swtM)
	computeStatistics(letters, swtM, in)

	letters = filterByShape(letters, in.H)
	letters = filterByCrowding(letters)

	chains := formPairs(letters)
	chains = mergeChains(chains)

	render(swtM, in, out, chains, output)
}

// traceRays walks every edge pixel's stroke and returns the SWT matrix
// (initialised to -1, each covered cell holding the shortest stroke
// width seen across every ray that covers it) and the list of
// successful rays, each an ordered list of points.
func traceRays(edge, cosT, sinT matrix.Matrix) (matrix.Matrix, [][]raster.Point) {
	w, h := edge.W, edge.H
	swtM := matrix.New(w, h)
	for i := range swtM.V {
		swtM.V[i] = -1
	}

	var rays [][]raster.Point
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if edge.At(x, y) <= 0 {
				continue
			}
			if ray, ok := followStroke(edge, cosT, sinT, x, y); ok {
				rays = append(rays, ray)
			}
		}
	}

	for _, ray := range rays {
		first, last := ray[0], ray[len(ray)-1]
		length := math.Hypot(float64(first.X-last.X), float64(first.Y-last.Y))
		for _, p := range ray {
			cur := swtM.At(p.X, p.Y)
			if cur < 0 || length < cur {
				swtM.Set(p.X, p.Y, length)
			}
		}
	}

	return swtM, rays
}

// followStroke runs FollowStroke from spec.md §4.6c: it marches from
// (x,y) along the negated gradient direction until it hits another edge
// pixel or leaves the bitmap, and succeeds only if the two endpoints'
// gradients are roughly opposing (dark-on-light configuration).
func followStroke(edge, cosT, sinT matrix.Matrix, x, y int) ([]raster.Point, bool) {
	w, h := edge.W, edge.H

	gx := -cosT.At(x, y)
	gy := -sinT.At(x, y)

	cx, cy := float64(x)+0.5, float64(y)+0.5
	p := raster.Point{X: x, Y: y}
	points := []raster.Point{p}

	for {
		cx += gx * precision
		cy += gy * precision
		np := raster.Point{X: int(math.Floor(cx)), Y: int(math.Floor(cy))}
		if np == p {
			continue
		}
		if np.X < 0 || np.X >= w || np.Y < 0 || np.Y >= h {
			return nil, false
		}
		p = np
		points = append(points, p)
		if edge.At(p.X, p.Y) > 0 {
			break
		}
	}

	gxEnd := -cosT.At(p.X, p.Y)
	gyEnd := -sinT.At(p.X, p.Y)
	phi := math.Acos(gx*(-gxEnd) + gy*(-gyEnd))
	if phi >= math.Pi/2 {
		return nil, false
	}
	return points, true
}

// equalizeRays implements spec.md §4.6d: for every ray, sort its points
// by current S-value, take the median (average of the two middle
// values when the count is even), and clamp every point of the ray down
// to at most that median.
func equalizeRays(swtM matrix.Matrix, rays [][]raster.Point) {
	for _, ray := range rays {
		pts := make([]raster.Point, len(ray))
		copy(pts, ray)
		sort.Slice(pts, func(a, b int) bool {
			return swtM.At(pts[a].X, pts[a].Y) < swtM.At(pts[b].X, pts[b].Y)
		})

		n := len(pts)
		var median float64
		if n%2 == 1 {
			median = swtM.At(pts[n/2].X, pts[n/2].Y)
		} else {
			a := swtM.At(pts[n/2-1].X, pts[n/2-1].Y)
			b := swtM.At(pts[n/2].X, pts[n/2].Y)
			median = (a + b) / 2
		}

		for _, p := range ray {
			if v := swtM.At(p.X, p.Y); v > median {
				swtM.Set(p.X, p.Y, median)
			}
		}
	}
}
