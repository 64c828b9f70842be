package swt

import (
	"math"
	"sort"
)

// letterLink is one node of a chain's singly-linked letter sequence.
type letterLink struct {
	letter *LetterCandidate
	next   *letterLink
}

// Chain is a doubly-terminated singly-linked list of letter links
// (spec.md §3): first/last give O(1) access to both ends even though
// traversal is only forward, squared centre-to-centre distance between
// endpoints, a unit direction vector, and a transient merge flag.
type Chain struct {
	first, last *letterLink
	sqDist      float64
	dirX, dirY  float64
	merged      bool
}

// Letters returns the chain's letter candidates in order.
func (c *Chain) Letters() []*LetterCandidate {
	var out []*LetterCandidate
	for l := c.first; l != nil; l = l.next {
		out = append(out, l.letter)
	}
	return out
}

// Len reports how many letters the chain currently holds.
func (c *Chain) Len() int {
	n := 0
	for l := c.first; l != nil; l = l.next {
		n++
	}
	return n
}

const (
	maxMedianRatio    = 2.0
	maxDimensionRatio = 2.0
	maxColorDistSq    = 1600.0
	maxDistRatio      = 9.0
	mergeStrictness   = math.Pi / 6.0
)

// formPairs implements spec.md §4.6i: every unordered pair of surviving
// candidates becomes a length-2 chain iff all four geometric/colour
// tests pass.
func formPairs(letters []*LetterCandidate) []*Chain {
	var chains []*Chain

	for i := 0; i < len(letters); i++ {
		a := letters[i]
		for j := i + 1; j < len(letters); j++ {
			b := letters[j]

			if ratio(a.MedianSWT, b.MedianSWT) > maxMedianRatio {
				continue
			}
			if ratio(float64(a.Height()), float64(b.Height())) > maxDimensionRatio {
				continue
			}

			dr := a.MeanR - b.MeanR
			dg := a.MeanG - b.MeanG
			db := a.MeanB - b.MeanB
			colorDist := dr*dr + dg*dg + db*db
			if colorDist >= maxColorDistSq {
				continue
			}

			dx := a.CenterX - b.CenterX
			dy := a.CenterY - b.CenterY
			dist := dx*dx + dy*dy

			weird := math.Max(
				math.Min(float64(a.Width()), float64(b.Height())),
				math.Min(float64(b.Width()), float64(a.Height())),
			)
			weird *= weird

			if dist >= maxDistRatio*weird {
				continue
			}

			linkA := &letterLink{letter: a}
			linkB := &letterLink{letter: b}
			linkA.next = linkB

			dirX := b.CenterX - a.CenterX
			dirY := b.CenterY - a.CenterY
			h := math.Hypot(dirX, dirY)
			if h != 0 {
				dirX /= h
				dirY /= h
			}

			chains = append(chains, &Chain{
				first:  linkA,
				last:   linkB,
				sqDist: dist,
				dirX:   dirX,
				dirY:   dirY,
			})
		}
	}

	return chains
}

func ratio(a, b float64) float64 {
	if a/b > b/a {
		return a / b
	}
	return b / a
}

// sharesOneEnd reports whether a and b share exactly one endpoint
// letter, per spec.md §4.6j's merge eligibility test.
func sharesOneEnd(a, b *Chain) bool {
	shared := 0
	for _, ea := range [2]*LetterCandidate{a.first.letter, a.last.letter} {
		for _, eb := range [2]*LetterCandidate{b.first.letter, b.last.letter} {
			if ea == eb {
				shared++
			}
		}
	}
	return shared == 1
}

func reverseChain(c *Chain) {
	var prev *letterLink
	cur := c.first
	for cur != nil {
		next := cur.next
		cur.next = prev
		prev = cur
		cur = next
	}
	c.first, c.last = c.last, c.first
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// mergeChains implements spec.md §4.6j: chains are sorted by squared
// distance ascending, then greedily merged whenever a pair shares
// exactly one endpoint and their direction vectors nearly align. It
// mutates the Chain objects in place (splicing letter-link lists,
// flagging losers merged) and returns the surviving chains.
func mergeChains(chains []*Chain) []*Chain {
	ordered := make([]*Chain, len(chains))
	copy(ordered, chains)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].sqDist < ordered[j].sqDist })

	n := len(ordered)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			chainI := ordered[i]
			chainJ := ordered[j]

			if chainI.merged || chainJ.merged {
				continue
			}
			if !sharesOneEnd(chainI, chainJ) {
				continue
			}

			iDirX, iDirY := chainI.dirX, chainI.dirY
			jDirX, jDirY := chainJ.dirX, chainJ.dirY
			if chainI.first.letter == chainJ.first.letter || chainI.last.letter == chainJ.last.letter {
				jDirX, jDirY = -jDirX, -jDirY
			}

			dot := clampUnit(iDirX*jDirX + iDirY*jDirY)
			if math.Acos(dot) >= mergeStrictness {
				continue
			}

			if chainI.first.letter == chainJ.first.letter {
				reverseChain(chainJ)
			} else if chainI.last.letter == chainJ.last.letter {
				reverseChain(chainJ)
			}

			if chainI.last.letter == chainJ.first.letter {
				chainI, chainJ = chainJ, chainI
			}

			// Invariant: chainI.first.letter == chainJ.last.letter.
			chainJ.last.next = chainI.first.next
			chainI.first = chainJ.first
			chainJ.merged = true

			newDirX := chainI.last.letter.CenterX - chainI.first.letter.CenterX
			newDirY := chainI.last.letter.CenterY - chainI.first.letter.CenterY
			chainI.sqDist = newDirX*newDirX + newDirY*newDirY
			hh := math.Hypot(newDirX, newDirY)
			if hh != 0 {
				newDirX /= hh
				newDirY /= hh
			}
			chainI.dirX, chainI.dirY = newDirX, newDirY
		}
	}

	var survivors []*Chain
	for _, c := range ordered {
		if !c.merged {
			survivors = append(survivors, c)
		}
	}
	return survivors
}
