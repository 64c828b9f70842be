package swt

import (
	"github.com/deepteams/pillowfight/internal/matrix"
	"github.com/deepteams/pillowfight/internal/raster"
)

// render implements spec.md §4.6k's three output modes.
func render(swtM matrix.Matrix, in, out raster.Bitmap, chains []*Chain, output OutputType) {
	switch output {
	case BWText:
		renderText(swtM, out, chains, true)
	case GrayscaleText:
		renderText(swtM, out, chains, false)
	case OriginalBoxes:
		renderBoxes(in, out, chains)
	default:
		renderText(swtM, out, chains, true)
	}
}

// renderText accumulates either a binary letter mask (binary=true, for
// BWText) or the raw stroke-width values (binary=false, for
// GrayscaleText) over every point of every surviving chain, then
// normalises to [0,255]. When no chain survives the accumulator is
// uniformly zero — rather than lean on Normalize's documented-undefined
// behaviour for a constant input, that case is rendered directly as
// opaque white, matching the "no text" scenario.
func renderText(swtM matrix.Matrix, out raster.Bitmap, chains []*Chain, binary bool) {
	acc := matrix.New(swtM.W, swtM.H)
	any := false

	for _, c := range chains {
		if c.Len() < minChainLetters {
			continue
		}
		for _, letter := range c.Letters() {
			for _, p := range letter.Points {
				any = true
				if binary {
					acc.Set(p.X, p.Y, 1)
				} else {
					acc.Set(p.X, p.Y, swtM.At(p.X, p.Y))
				}
			}
		}
	}

	if !any {
		out.Fill(0xFF, 0xFF, 0xFF, 0xFF)
		return
	}

	normalized := matrix.Normalize(acc, 0, 0, 255)
	matrix.GrayscaleToBitmap(normalized, out)
}

// renderBoxes whites out the output and copies source pixels inside the
// aggregate bounding box of each surviving chain.
func renderBoxes(in, out raster.Bitmap, chains []*Chain) {
	out.Fill(0xFF, 0xFF, 0xFF, 0xFF)

	for _, c := range chains {
		if c.Len() < minChainLetters {
			continue
		}
		letters := c.Letters()
		bbox := letters[0].BBox
		for _, l := range letters[1:] {
			bbox = unionRect(bbox, l.BBox)
		}

		for y := bbox.Min.Y; y < bbox.Max.Y; y++ {
			for x := bbox.Min.X; x < bbox.Max.X; x++ {
				r, g, b, a := in.At(x, y)
				out.Set(x, y, r, g, b, a)
			}
		}
	}
}

func unionRect(a, b raster.Rectangle) raster.Rectangle {
	minX, minY := a.Min.X, a.Min.Y
	if b.Min.X < minX {
		minX = b.Min.X
	}
	if b.Min.Y < minY {
		minY = b.Min.Y
	}
	maxX, maxY := a.Max.X, a.Max.Y
	if b.Max.X > maxX {
		maxX = b.Max.X
	}
	if b.Max.Y > maxY {
		maxY = b.Max.Y
	}
	return raster.Rect(minX, minY, maxX, maxY)
}
