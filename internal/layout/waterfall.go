// Package layout arranges elements into balanced columns (a "waterfall" or
// masonry layout). Place is the pure greedy algorithm; Waterfall drives a
// Renderer that owns the actual column containers.
package layout

import "errors"

// ErrInvalidColumns is returned for a column count below one.
var ErrInvalidColumns = errors.New("column count must be at least one")

// Placement is the result of distributing elements across columns.
type Placement struct {
	// Columns holds, per column, the indexes of the elements placed in it,
	// in placement order.
	Columns [][]int

	// Heights holds the accumulated height of each column, gaps included.
	Heights []float64
}

// Place distributes elements greedily: each element, in input order, goes to the
// column with the smallest accumulated height (the leftmost one on ties), which
// then grows by the element height plus gap. This is a single-pass heuristic,
// not an optimal partition.
func Place(columns int, heights []float64, gap float64) (*Placement, error) {
	if columns < 1 {
		return nil, ErrInvalidColumns
	}

	p := &Placement{
		Columns: make([][]int, columns),
		Heights: make([]float64, columns),
	}

	for i := range p.Columns {
		p.Columns[i] = []int{}
	}

	for i, h := range heights {
		col := shortest(p.Heights)
		p.Columns[col] = append(p.Columns[col], i)
		p.Heights[col] += h + gap
	}

	return p, nil
}

// shortest returns the index of the first minimum.
func shortest(heights []float64) int {
	idx := 0
	for i := 1; i < len(heights); i++ {
		if heights[i] < heights[idx] {
			idx = i
		}
	}

	return idx
}

// Renderer owns the column containers of a waterfall.
//
// Heights are measured after an element has been appended, since an element
// generally has no rendered size until it is attached.
type Renderer[E any] interface {
	// RenderColumns discards existing columns and creates count empty ones.
	RenderColumns(count int)

	// Append attaches element to the given column.
	Append(column int, element E)

	// Height returns the rendered height of an attached element.
	Height(element E) float64
}

// Waterfall keeps a fixed sequence of elements balanced across a variable
// number of columns. It is not safe for concurrent use.
type Waterfall[E any] struct {
	renderer Renderer[E]
	elements []E
	gap      float64

	columns int
	heights []float64
}

// NewWaterfall creates a waterfall with no columns rendered yet.
// The first HandleResize call renders the columns.
func NewWaterfall[E any](renderer Renderer[E], elements []E, gap float64) *Waterfall[E] {
	return &Waterfall[E]{
		renderer: renderer,
		elements: elements,
		gap:      gap,
	}
}

// Columns returns the current column count, zero before the first resize.
func (w *Waterfall[E]) Columns() int {
	return w.columns
}

// Heights returns a copy of the accumulated column heights.
func (w *Waterfall[E]) Heights() []float64 {
	out := make([]float64, len(w.heights))
	copy(out, w.heights)

	return out
}

// HandleResize re-renders and redistributes every element when the column
// count changes. It reports whether a rebuild happened. An unchanged count is
// a no-op; an invalid count leaves the waterfall untouched.
func (w *Waterfall[E]) HandleResize(columns int) (bool, error) {
	if columns < 1 {
		return false, ErrInvalidColumns
	}

	if columns == w.columns {
		return false, nil
	}

	w.columns = columns
	w.renderer.RenderColumns(columns)
	w.distribute()

	return true, nil
}

func (w *Waterfall[E]) distribute() {
	w.heights = make([]float64, w.columns)

	for _, el := range w.elements {
		col := shortest(w.heights)
		w.renderer.Append(col, el)
		w.heights[col] += w.renderer.Height(el) + w.gap
	}
}
