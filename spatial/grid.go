// Package spatial provides the uniform grid used for broad-phase collision.
package spatial

import (
	"iter"
	"math"
)

// Grid buckets sprite indices by fixed-size square cells.
// It is sized once for the screen and rebuilt from scratch every tick.
type Grid struct {
	cellSize float32
	cols     int
	rows     int
	cells    [][]int32 // row-major, cells[row*cols+col]
}

// NewGrid creates a grid covering width x height with the given cell size.
// Dimensions are ceil(width/cellSize) x ceil(height/cellSize).
func NewGrid(width, height, cellSize float32) *Grid {
	if cellSize <= 0 {
		panic("spatial: cell size must be positive")
	}
	cols := int(math.Ceil(float64(width) / float64(cellSize)))
	rows := int(math.Ceil(float64(height) / float64(cellSize)))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]int32, cols*rows)
	for i := range cells {
		cells[i] = make([]int32, 0, 8) // pre-allocate small capacity
	}

	return &Grid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear empties every cell without releasing its buffer.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds index to the cell containing (x, y).
// Positions outside the grid are dropped and Insert reports false.
func (g *Grid) Insert(index int32, x, y float32) bool {
	idx := g.CellAt(x, y)
	if idx < 0 {
		return false
	}
	g.cells[idx] = append(g.cells[idx], index)
	return true
}

// Cells yields (cell index, contained sprite indices) for every non-empty
// cell in row-major order. The slices alias grid storage and are only valid
// until the next Clear or Insert.
func (g *Grid) Cells() iter.Seq2[int, []int32] {
	return func(yield func(int, []int32) bool) {
		for i, cell := range g.cells {
			if len(cell) == 0 {
				continue
			}
			if !yield(i, cell) {
				return
			}
		}
	}
}

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Cell returns the indices bucketed in cell i.
func (g *Grid) Cell(i int) []int32 { return g.cells[i] }

// Cols returns the number of cell columns.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the number of cell rows.
func (g *Grid) Rows() int { return g.rows }

// CellSize returns the side length of a cell.
func (g *Grid) CellSize() float32 { return g.cellSize }

// CellAt returns the flat cell index for a position, or -1 when off-grid.
func (g *Grid) CellAt(x, y float32) int {
	col := int(math.Floor(float64(x / g.cellSize)))
	row := int(math.Floor(float64(y / g.cellSize)))
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return -1
	}
	return row*g.cols + col
}

// Occupancy reports how many cells hold at least one index and the largest
// number of indices held by a single cell.
func (g *Grid) Occupancy() (occupied, maxPerCell int) {
	for _, cell := range g.cells {
		n := len(cell)
		if n == 0 {
			continue
		}
		occupied++
		if n > maxPerCell {
			maxPerCell = n
		}
	}
	return occupied, maxPerCell
}
