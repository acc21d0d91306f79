package spatial

import (
	"testing"
)

func TestNewGridDimensions(t *testing.T) {
	tests := []struct {
		name               string
		width, height      float32
		cellSize           float32
		wantCols, wantRows int
	}{
		{"exact fit", 1280, 720, 64, 20, 12},
		{"rounds up", 100, 50, 30, 4, 2},
		{"cell larger than screen", 10, 10, 64, 1, 1},
		{"sprite-derived cell", 1280, 720, 51, 26, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(tt.width, tt.height, tt.cellSize)
			if g.Cols() != tt.wantCols || g.Rows() != tt.wantRows {
				t.Errorf("NewGrid(%v, %v, %v) = %dx%d, want %dx%d",
					tt.width, tt.height, tt.cellSize, g.Cols(), g.Rows(), tt.wantCols, tt.wantRows)
			}
			if g.Len() != tt.wantCols*tt.wantRows {
				t.Errorf("Len() = %d, want %d", g.Len(), tt.wantCols*tt.wantRows)
			}
		})
	}
}

func TestNewGridPanicsOnBadCellSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero cell size")
		}
	}()
	NewGrid(100, 100, 0)
}

func TestGridInsertDropsOffGrid(t *testing.T) {
	g := NewGrid(100, 50, 30) // 4 x 2 cells

	tests := []struct {
		name string
		x, y float32
		want bool
	}{
		{"origin", 0, 0, true},
		{"negative x", -1, 5, false},
		{"negative y", 5, -0.5, false},
		{"last column", 100, 5, true}, // floor(100/30) = 3
		{"past last column", 120, 5, false},
		{"past last row", 5, 60, false},
		{"inside", 35, 35, true},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Insert(int32(i), tt.x, tt.y); got != tt.want {
				t.Errorf("Insert(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestGridCellsRowMajor(t *testing.T) {
	g := NewGrid(100, 50, 30) // 4 x 2 cells

	g.Insert(0, 35, 35) // cell 5
	g.Insert(1, 5, 5)   // cell 0
	g.Insert(2, 65, 5)  // cell 2
	g.Insert(3, 40, 31) // cell 5
	g.Insert(4, 95, 1)  // cell 3

	type visit struct {
		cell    int
		indices []int32
	}
	want := []visit{
		{0, []int32{1}},
		{2, []int32{2}},
		{3, []int32{4}},
		{5, []int32{0, 3}},
	}

	var got []visit
	for cell, indices := range g.Cells() {
		got = append(got, visit{cell, append([]int32(nil), indices...)})
	}

	if len(got) != len(want) {
		t.Fatalf("visited %d cells, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].cell != want[i].cell {
			t.Errorf("visit %d: cell %d, want %d", i, got[i].cell, want[i].cell)
			continue
		}
		if len(got[i].indices) != len(want[i].indices) {
			t.Errorf("cell %d: indices %v, want %v", got[i].cell, got[i].indices, want[i].indices)
			continue
		}
		for j := range want[i].indices {
			if got[i].indices[j] != want[i].indices[j] {
				t.Errorf("cell %d: indices %v, want %v", got[i].cell, got[i].indices, want[i].indices)
				break
			}
		}
	}

	// Restartable
	n := 0
	for range g.Cells() {
		n++
	}
	if n != len(want) {
		t.Errorf("second pass visited %d cells, want %d", n, len(want))
	}
}

func TestGridCellsEarlyBreak(t *testing.T) {
	g := NewGrid(100, 50, 30)
	g.Insert(0, 5, 5)
	g.Insert(1, 65, 5)

	n := 0
	for range g.Cells() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("expected one visit before break, got %d", n)
	}
}

func TestGridClearKeepsBuffers(t *testing.T) {
	g := NewGrid(64, 64, 64)
	for i := int32(0); i < 20; i++ {
		g.Insert(i, 10, 10)
	}
	before := cap(g.Cell(0))

	g.Clear()
	if len(g.Cell(0)) != 0 {
		t.Fatalf("expected empty cell after Clear, got %d", len(g.Cell(0)))
	}
	if cap(g.Cell(0)) != before {
		t.Errorf("Clear released cell storage: cap %d, want %d", cap(g.Cell(0)), before)
	}

	occupied, maxPer := g.Occupancy()
	if occupied != 0 || maxPer != 0 {
		t.Errorf("Occupancy() = %d, %d after Clear, want 0, 0", occupied, maxPer)
	}
}

func TestGridOccupancy(t *testing.T) {
	g := NewGrid(128, 64, 64)
	g.Insert(0, 1, 1)
	g.Insert(1, 2, 2)
	g.Insert(2, 3, 3)
	g.Insert(3, 70, 1)

	occupied, maxPer := g.Occupancy()
	if occupied != 2 || maxPer != 3 {
		t.Errorf("Occupancy() = %d, %d, want 2, 3", occupied, maxPer)
	}
}

func BenchmarkGridRebuild(b *testing.B) {
	const n = 10000
	g := NewGrid(1280, 720, 51)
	xs := make([]float32, n)
	ys := make([]float32, n)
	for i := range xs {
		xs[i] = float32(i*37%1254) + 0.5
		ys[i] = float32(i*53%705) + 0.5
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Clear()
		for j := 0; j < n; j++ {
			g.Insert(int32(j), xs[j], ys[j])
		}
	}
}
