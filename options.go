package pillowfight

import (
	"github.com/deepteams/pillowfight/internal/ace"
	"github.com/deepteams/pillowfight/internal/gaussian"
	"github.com/deepteams/pillowfight/internal/swt"
)

// GaussianOptions configures the Gaussian filter (spec.md §4.2).
type GaussianOptions struct {
	Sigma    float64
	NbStddev int
}

// DefaultGaussianOptions returns sigma=2.0, nb_stddev=5.
func DefaultGaussianOptions() GaussianOptions {
	return GaussianOptions{Sigma: gaussian.DefaultSigma, NbStddev: gaussian.DefaultStddev}
}

// ACEOptions configures the ACE filter (spec.md §4.5).
type ACEOptions = ace.Options

// DefaultACEOptions returns nb_samples=100, slope=10, limit=1000,
// nb_threads=2.
func DefaultACEOptions() ACEOptions { return ace.DefaultOptions() }

// SWTOutputType selects one of SWT's three render modes (spec.md §4.6k).
type SWTOutputType = swt.OutputType

const (
	BWText        = swt.BWText
	GrayscaleText = swt.GrayscaleText
	OriginalBoxes = swt.OriginalBoxes
)

// CompareOptions configures the Compare filter (spec.md §6, §9
// supplemented feature 2).
type CompareOptions struct {
	Tolerance int
}

// DefaultCompareOptions returns tolerance=10.
func DefaultCompareOptions() CompareOptions { return CompareOptions{Tolerance: 10} }
