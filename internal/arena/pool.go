// Package arena provides bucketed sync.Pool instances for reducing
// allocations in the filter pipelines. Each pipeline invocation (Gaussian
// blur, a Sobel/Canny pass, one SWT run) allocates and discards several
// same-shaped DoubleMatrix and Bitmap buffers; pooling by size class lets
// back-to-back calls on images of the same dimensions reuse backing
// storage instead of hitting the allocator every time.
package arena

import "sync"

// Size classes for bucketed pools.
const (
	Size256B = 256
	Size1K   = 1024
	Size4K   = 4096
	Size16K  = 16384
	Size64K  = 65536
	Size256K = 262144
	Size1M   = 1048576
)

// bucketIndex returns the pool index for a given element count.
func bucketIndex(size int) int {
	switch {
	case size <= Size256B:
		return 0
	case size <= Size1K:
		return 1
	case size <= Size4K:
		return 2
	case size <= Size16K:
		return 3
	case size <= Size64K:
		return 4
	case size <= Size256K:
		return 5
	default:
		return 6
	}
}

var sizes = [7]int{Size256B, Size1K, Size4K, Size16K, Size64K, Size256K, Size1M}

var bytePools [7]sync.Pool
var float64Pools [7]sync.Pool

func init() {
	for i := range bytePools {
		sz := sizes[i]
		bytePools[i] = sync.Pool{
			New: func() any {
				b := make([]byte, sz)
				return &b
			},
		}
	}
	for i := range float64Pools {
		sz := sizes[i]
		float64Pools[i] = sync.Pool{
			New: func() any {
				f := make([]float64, sz)
				return &f
			},
		}
	}
}

// GetBytes returns a byte slice of at least the requested size from the
// pool. The returned slice has length == size and may have a larger
// capacity. The caller must call PutBytes when done.
func GetBytes(size int) []byte {
	idx := bucketIndex(size)
	bp := bytePools[idx].Get().(*[]byte)
	b := *bp
	if cap(b) < size {
		b = make([]byte, size)
		*bp = b
		return b
	}
	return b[:size]
}

// PutBytes returns a byte slice to the pool. The slice must have been
// obtained from GetBytes. Slices smaller than Size256B are not pooled.
func PutBytes(b []byte) {
	c := cap(b)
	if c < Size256B {
		return
	}
	idx := bucketIndex(c)
	b = b[:c]
	bytePools[idx].Put(&b)
}

// GetFloat64s returns a float64 slice of at least the requested length,
// zeroed, backing a freshly allocated DoubleMatrix. The caller must call
// PutFloat64s when the matrix is handed off or discarded (see spec.md §9:
// every pipeline stage returns a freshly-allocated matrix and the
// previous stage's matrix is freed at hand-off).
func GetFloat64s(length int) []float64 {
	idx := bucketIndex(length)
	fp := float64Pools[idx].Get().(*[]float64)
	f := *fp
	if cap(f) < length {
		f = make([]float64, length)
		*fp = f
		return f
	}
	f = f[:length]
	for i := range f {
		f[i] = 0
	}
	return f
}

// PutFloat64s returns a float64 slice to the pool.
func PutFloat64s(f []float64) {
	c := cap(f)
	if c < Size256B {
		return
	}
	idx := bucketIndex(c)
	f = f[:c]
	float64Pools[idx].Put(&f)
}
