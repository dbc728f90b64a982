// Package kernel provides a growable symmetric Gram matrix purpose-built for
// the incremental maintenance the Gaussian-kernel oracle needs: append one
// row/column, replace one row/column, reindex by a permutation, and read back
// ½·log det via a Cholesky factorization — without reallocating on every
// summary mutation.
//
// This is adapted from the teacher library's matrix.Dense conventions (flat
// row-major backing slice, Stage-validated constructors, sentinel errors) but
// purpose-built for fixed-capacity symmetric growth instead of general dense
// linear algebra, and delegates the numerically delicate log-det computation
// to gonum/mat's Cholesky rather than hand-rolled Gaussian elimination.
package kernel

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for kernel.Matrix operations.
var (
	// ErrBadCapacity indicates a non-positive capacity was requested.
	ErrBadCapacity = errors.New("kernel: capacity must be >= 1")

	// ErrCapacityExceeded indicates an Append was attempted past capacity.
	ErrCapacityExceeded = errors.New("kernel: append exceeds capacity")

	// ErrOutOfRange indicates a row/col index outside [0, Size()).
	ErrOutOfRange = errors.New("kernel: index out of range")

	// ErrRowLengthMismatch indicates a supplied row does not match the
	// expected size for the requested operation.
	ErrRowLengthMismatch = errors.New("kernel: row length mismatch")

	// ErrPermutationLengthMismatch indicates Permute was called with a
	// permutation whose length does not equal Size().
	ErrPermutationLengthMismatch = errors.New("kernel: permutation length mismatch")
)

func kernelErrorf(method string, err error) error {
	return fmt.Errorf("Matrix.%s: %w", method, err)
}

// Matrix is a flat, row-major, fixed-capacity symmetric matrix. Only the
// top-left Size()×Size() block is logically live; the remaining backing
// storage is preallocated capacity reserved for future Append calls.
type Matrix struct {
	capacity int
	size     int
	data     []float64 // stride == capacity; data[i*capacity+j]
}

// New allocates a Matrix with the given capacity and zero size.
//
// Stage 1 (Validate): capacity >= 1.
// Stage 2 (Prepare): allocate capacity² backing storage up front so Append
// during the growth phase (|S| from 0 to k) never reallocates.
//
// Complexity: Time/Space O(capacity²).
func New(capacity int) (*Matrix, error) {
	if capacity < 1 {
		return nil, kernelErrorf("New", ErrBadCapacity)
	}

	return &Matrix{
		capacity: capacity,
		size:     0,
		data:     make([]float64, capacity*capacity),
	}, nil
}

// Size returns the current logical dimension (number of live rows/cols).
func (m *Matrix) Size() int { return m.size }

// Capacity returns the preallocated maximum dimension.
func (m *Matrix) Capacity() int { return m.capacity }

// At returns K(i,j). Both indices must be in [0, Size()).
func (m *Matrix) At(i, j int) (float64, error) {
	if i < 0 || i >= m.size || j < 0 || j >= m.size {
		return 0, kernelErrorf("At", ErrOutOfRange)
	}

	return m.data[i*m.capacity+j], nil
}

// set writes v symmetrically at (i,j) and (j,i). Unexported: callers must
// only reach it through Append/ReplaceRow/Permute, which preserve the
// "diagonal untouched on replace" invariant the Gaussian-kernel oracle
// depends on.
func (m *Matrix) set(i, j int, v float64) {
	m.data[i*m.capacity+j] = v
	m.data[j*m.capacity+i] = v
}

// Append grows the matrix by one row/column.
//
// offDiag must have length equal to the pre-growth Size(); offDiag[p] becomes
// K(p, newIndex) = K(newIndex, p) for each existing row p. diag becomes the
// new K(newIndex, newIndex).
//
// Stage 1 (Validate): capacity not exceeded, offDiag length matches.
// Stage 2 (Execute): write the new row/column, then grow Size by one.
//
// Complexity: O(size).
func (m *Matrix) Append(offDiag []float64, diag float64) error {
	if m.size >= m.capacity {
		return kernelErrorf("Append", ErrCapacityExceeded)
	}
	if len(offDiag) != m.size {
		return kernelErrorf("Append", ErrRowLengthMismatch)
	}

	newIdx := m.size
	for p, v := range offDiag {
		m.set(p, newIdx, v)
	}
	m.data[newIdx*m.capacity+newIdx] = diag
	m.size++

	return nil
}

// ReplaceRow overwrites the off-diagonal entries of row/column pos, leaving
// the diagonal at diag (conventionally unchanged, per the Gaussian-kernel
// replace contract: the diagonal is always 1+a regardless of which element
// currently occupies the slot).
//
// offDiag must have length Size(); offDiag[pos] is ignored (self-entry stays
// on the diagonal, not an off-diagonal term).
//
// Stage 1 (Validate): pos in range, offDiag length matches.
// Stage 2 (Execute): overwrite every off-diagonal entry touching pos.
//
// Complexity: O(size).
func (m *Matrix) ReplaceRow(pos int, offDiag []float64, diag float64) error {
	if pos < 0 || pos >= m.size {
		return kernelErrorf("ReplaceRow", ErrOutOfRange)
	}
	if len(offDiag) != m.size {
		return kernelErrorf("ReplaceRow", ErrRowLengthMismatch)
	}

	for p := 0; p < m.size; p++ {
		if p == pos {
			continue
		}
		m.set(p, pos, offDiag[p])
	}
	m.data[pos*m.capacity+pos] = diag

	return nil
}

// Permute reindexes rows/cols by perm: the new row i holds what used to be
// row perm[i]. Used by ReorderByMarginal to keep K_S aligned with a resorted
// summary S.
//
// Stage 1 (Validate): len(perm) == Size().
// Stage 2 (Execute): build the permuted block into scratch, then copy back.
//
// Complexity: Time O(size²), Space O(size²) scratch.
func (m *Matrix) Permute(perm []int) error {
	if len(perm) != m.size {
		return kernelErrorf("Permute", ErrPermutationLengthMismatch)
	}

	scratch := make([]float64, m.size*m.size)
	for i := 0; i < m.size; i++ {
		for j := 0; j < m.size; j++ {
			scratch[i*m.size+j] = m.data[perm[i]*m.capacity+perm[j]]
		}
	}
	for i := 0; i < m.size; i++ {
		for j := 0; j < m.size; j++ {
			m.data[i*m.capacity+j] = scratch[i*m.size+j]
		}
	}

	return nil
}

// Clone returns a deep, independent copy at the same capacity and size.
func (m *Matrix) Clone() *Matrix {
	cp := &Matrix{
		capacity: m.capacity,
		size:     m.size,
		data:     make([]float64, len(m.data)),
	}
	copy(cp.data, m.data)

	return cp
}

// LogDet computes log(det(K)) over the live Size()×Size() block via a
// Cholesky factorization. Returns (value, true) on success, and (0, true) for
// the degenerate Size()==0 case, whose determinant is conventionally 1 and
// whose log is 0. On a numerically non-positive-definite block it returns
// (math.Inf(-1), false) so callers can treat the value as an unconditionally
// rejected marginal rather than propagate a NaN.
//
// Complexity: O(size³).
func (m *Matrix) LogDet() (float64, bool) {
	if m.size == 0 {
		return 0, true
	}

	contiguous := make([]float64, m.size*m.size)
	for i := 0; i < m.size; i++ {
		copy(contiguous[i*m.size:(i+1)*m.size], m.data[i*m.capacity:i*m.capacity+m.size])
	}
	sym := mat.NewSymDense(m.size, contiguous)

	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return math.Inf(-1), false
	}

	return chol.LogDet(), true
}

// Grow returns a new, independent Matrix with a larger capacity holding the
// same live content as m. Used when an Append would exceed the current
// capacity and the caller (an oracle tracking an unbounded-until-now k)
// needs more room; mirrors the source's "allocate fresh, copy" approach for
// the uncommon case where a capacity hint was not supplied up front.
//
// Complexity: O(newCapacity²).
func (m *Matrix) Grow(newCapacity int) (*Matrix, error) {
	if newCapacity < m.size {
		return nil, kernelErrorf("Grow", ErrBadCapacity)
	}

	grown, err := New(newCapacity)
	if err != nil {
		return nil, err
	}
	for i := 0; i < m.size; i++ {
		for j := 0; j < m.size; j++ {
			grown.data[i*newCapacity+j] = m.data[i*m.capacity+j]
		}
	}
	grown.size = m.size

	return grown, nil
}

// Submatrix builds a fresh, independent Matrix containing only the rows/cols
// named by indices, in the given order, with the same capacity as len(indices).
// Used by PeekDeltaACapS to pull the {y in S : y.id < x.id} block directly out
// of an already-cached kernel without any new kernel evaluations.
//
// Complexity: O(len(indices)²).
func (m *Matrix) Submatrix(indices []int) (*Matrix, error) {
	n := len(indices)
	if n == 0 {
		return New(1)
	}
	for _, idx := range indices {
		if idx < 0 || idx >= m.size {
			return nil, kernelErrorf("Submatrix", ErrOutOfRange)
		}
	}

	sub, err := New(n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sub.data[i*n+j] = m.data[indices[i]*m.capacity+indices[j]]
		}
	}
	sub.size = n

	return sub, nil
}
