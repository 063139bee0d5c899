package pls

import (
	"gonum.org/v1/gonum/mat"
)

// Model is a fitted IKPLS model. It is immutable; accessors return copies and every method
// is safe for concurrent use.
type Model struct {
	algorithm  Algorithm
	nSamples   int
	nFeatures  int
	nTargets   int
	components int

	w, p, q, r *mat.Dense
	t          *mat.Dense
	b          []*mat.Dense

	// tTt[a] is tᵀt of component a, zero for degenerate components.
	tTt            []float64
	ssX, ssY       float64
	degenerateFrom int

	parallelThreshold int
}

// Algorithm returns the engine that produced the model.
func (m *Model) Algorithm() Algorithm { return m.algorithm }

// NComponents returns A, the number of components requested at fit time.
func (m *Model) NComponents() int { return m.components }

// NFeatures returns K.
func (m *Model) NFeatures() int { return m.nFeatures }

// NTargets returns M.
func (m *Model) NTargets() int { return m.nTargets }

// NSamples returns the number of training rows N.
func (m *Model) NSamples() int { return m.nSamples }

// DegenerateFrom returns the zero-based index of the first component whose weight vanished,
// or -1 when every component is valid.
func (m *Model) DegenerateFrom() int { return m.degenerateFrom }

// ValidComponents returns the number of leading non-degenerate components.
func (m *Model) ValidComponents() int {
	if m.degenerateFrom < 0 {
		return m.components
	}
	return m.degenerateFrom
}

// W returns the K×A weights.
func (m *Model) W() *mat.Dense { return mat.DenseCopyOf(m.w) }

// P returns the K×A X loadings.
func (m *Model) P() *mat.Dense { return mat.DenseCopyOf(m.p) }

// Q returns the M×A Y loadings.
func (m *Model) Q() *mat.Dense { return mat.DenseCopyOf(m.q) }

// R returns the K×A rotations, with X·R = T.
func (m *Model) R() *mat.Dense { return mat.DenseCopyOf(m.r) }

// T returns the N×A training scores, or nil for Algorithm2.
func (m *Model) T() *mat.Dense {
	if m.t == nil {
		return nil
	}
	return mat.DenseCopyOf(m.t)
}

// B returns the K×M regression matrix using the first a components, 1 ≤ a ≤ A.
func (m *Model) B(a int) (*mat.Dense, error) {
	if err := m.checkComponents("Model.B", a); err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(m.b[a-1]), nil
}

// Bs returns copies of all A regression matrices; element a-1 uses a components.
func (m *Model) Bs() []*mat.Dense {
	out := make([]*mat.Dense, len(m.b))
	for i, b := range m.b {
		out[i] = mat.DenseCopyOf(b)
	}
	return out
}
