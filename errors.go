package pillowfight

import "errors"

// Errors returned by the filters in this package. Per spec.md §7 every
// filter-level failure is a programmer error (a shape mismatch or an
// out-of-domain parameter); this package returns them as wrapped
// sentinels rather than panicking, so an embedding service can reject
// one bad call without the error taking the whole process down.
var (
	// ErrShapeMismatch is returned when two bitmaps or matrices that
	// must share dimensions do not.
	ErrShapeMismatch = errors.New("pillowfight: shape mismatch")

	// ErrInvalidParameter is returned when a filter parameter falls
	// outside its documented domain (e.g. nb_stddev <= 0, nb_threads < 1).
	ErrInvalidParameter = errors.New("pillowfight: invalid parameter")
)
