package swt

import (
	"math"
	"sort"

	"github.com/deepteams/pillowfight/internal/matrix"
	"github.com/deepteams/pillowfight/internal/raster"
)

// LetterCandidate is a connected group of stroke-width points plus the
// derived statistics used for filtering and pairing (spec.md §3).
type LetterCandidate struct {
	Points []raster.Point
	BBox   raster.Rectangle

	MeanR, MeanG, MeanB float64
	MeanSWT, VarianceSWT float64
	MedianSWT            float64
	CenterX, CenterY     float64
}

// Width and Height report the candidate's true pixel extent, max-min,
// matching original_source's SWT_STATS_DIMENSION. BBox itself stays
// half-open (Dx()/Dy() are max-min+1) because centerInRect needs
// half-open containment; these accessors are the extent to use for
// every ratio/shape test instead.
func (l *LetterCandidate) Width() int  { return l.BBox.Dx() - 1 }
func (l *LetterCandidate) Height() int { return l.BBox.Dy() - 1 }

// componentOffsets are the four forward adjacency offsets of spec.md
// §4.6e; the reverse link is added symmetrically by the scan itself.
var componentOffsets = [4]raster.Point{
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
}

// groupLetters builds the 8-way adjacency graph over strictly-positive,
// finite SWT cells and returns one LetterCandidate per connected
// component, found via an explicit-stack depth-first traversal (no
// recursion: page-sized images can exceed typical stack depth).
func groupLetters(swtM matrix.Matrix) []*LetterCandidate {
	w, h := swtM.W, swtM.H
	valid := func(x, y int) bool {
		v := swtM.At(x, y)
		return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
	}

	adj := make(map[raster.Point][]raster.Point)
	addEdge := func(a, b raster.Point) {
		if len(adj[a]) < 8 {
			adj[a] = append(adj[a], b)
		}
		if len(adj[b]) < 8 {
			adj[b] = append(adj[b], a)
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !valid(x, y) {
				continue
			}
			p := raster.Point{X: x, Y: y}
			sp := swtM.At(x, y)
			for _, off := range componentOffsets {
				q := p.Add(off)
				if q.X < 0 || q.X >= w || q.Y < 0 || q.Y >= h {
					continue
				}
				if !valid(q.X, q.Y) {
					continue
				}
				sq := swtM.At(q.X, q.Y)
				ratio := sp / sq
				if sq > sp {
					ratio = sq / sp
				}
				if ratio < 3 {
					addEdge(p, q)
				}
			}
		}
	}

	visited := make(map[raster.Point]bool, len(adj))
	var letters []*LetterCandidate

	for start := range adj {
		if visited[start] {
			continue
		}
		var group []raster.Point
		stack := []raster.Point{start}
		visited[start] = true
		for len(stack) > 0 {
			n := len(stack) - 1
			p := stack[n]
			stack = stack[:n]
			group = append(group, p)
			for _, q := range adj[p] {
				if !visited[q] {
					visited[q] = true
					stack = append(stack, q)
				}
			}
		}
		letters = append(letters, &LetterCandidate{Points: group})
	}

	return letters
}

// computeStatistics fills in every derived field of each candidate
// (spec.md §4.6f): bounding box, mean source colour, mean/variance/
// median stroke width, and centre.
func computeStatistics(letters []*LetterCandidate, swtM matrix.Matrix, in raster.Bitmap) {
	for _, l := range letters {
		minX, minY := l.Points[0].X, l.Points[0].Y
		maxX, maxY := minX, minY

		var sumR, sumG, sumB, sumSWT float64
		swts := make([]float64, len(l.Points))

		for i, p := range l.Points {
			if p.X < minX {
				minX = p.X
			}
			if p.X > maxX {
				maxX = p.X
			}
			if p.Y < minY {
				minY = p.Y
			}
			if p.Y > maxY {
				maxY = p.Y
			}

			r, g, b, _ := in.At(p.X, p.Y)
			sumR += float64(r)
			sumG += float64(g)
			sumB += float64(b)

			s := swtM.At(p.X, p.Y)
			swts[i] = s
			sumSWT += s
		}

		n := float64(len(l.Points))
		l.BBox = raster.Rect(minX, minY, maxX+1, maxY+1)
		l.MeanR, l.MeanG, l.MeanB = sumR/n, sumG/n, sumB/n
		l.MeanSWT = sumSWT / n
		// Integer floor, matching _swt.c's centre (computed over int
		// fields), not a float average (spec.md §3 leaves the type
		// unstated; original_source resolves it).
		l.CenterX = float64((minX + maxX) / 2)
		l.CenterY = float64((minY + maxY) / 2)

		var variance float64
		for _, s := range swts {
			d := s - l.MeanSWT
			variance += d * d
		}
		l.VarianceSWT = variance / n

		sort.Float64s(swts)
		m := len(swts)
		if m%2 == 1 {
			l.MedianSWT = swts[m/2]
		} else {
			l.MedianSWT = (swts[m/2-1] + swts[m/2]) / 2
		}
	}
}

// filterByShape drops candidates failing any of the three shape tests
// of spec.md §4.6g.
func filterByShape(letters []*LetterCandidate, imageHeight int) []*LetterCandidate {
	var out []*LetterCandidate
	for _, l := range letters {
		if l.VarianceSWT > 2*l.MeanSWT {
			continue
		}
		if float64(l.Height())/float64(imageHeight) > 0.33 {
			continue
		}
		if !passesRotatedAspectRatio(l.Points) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// passesRotatedAspectRatio implements the rotated bounding-box test: for
// theta stepping from pi/36 to pi/2, project every point and accept if
// any projected bounding box has a width/height ratio within [1/10,10].
func passesRotatedAspectRatio(points []raster.Point) bool {
	for step := 1; step <= 18; step++ {
		theta := float64(step) * math.Pi / 36
		c, s := math.Cos(theta), math.Sin(theta)

		var minX, maxX, minY, maxY float64
		for i, p := range points {
			x := float64(p.X)*c - float64(p.Y)*s
			y := float64(p.X)*s + float64(p.Y)*c
			if i == 0 {
				minX, maxX, minY, maxY = x, x, y, y
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}

		w := maxX - minX
		h := maxY - minY
		if h == 0 {
			continue
		}
		ratio := w / h
		if ratio >= 0.1 && ratio <= 10 {
			return true
		}
	}
	return false
}

// filterByCrowding drops a candidate if three or more other candidates'
// centres fall inside its bounding box (spec.md §4.6h).
func filterByCrowding(letters []*LetterCandidate) []*LetterCandidate {
	var out []*LetterCandidate
	for i, l := range letters {
		count := 0
		for j, other := range letters {
			if i == j {
				continue
			}
			if centerInRect(other, l.BBox) {
				count++
			}
		}
		if count < 3 {
			out = append(out, l)
		}
	}
	return out
}

func centerInRect(l *LetterCandidate, r raster.Rectangle) bool {
	return l.CenterX >= float64(r.Min.X) && l.CenterX < float64(r.Max.X) &&
		l.CenterY >= float64(r.Min.Y) && l.CenterY < float64(r.Max.Y)
}
