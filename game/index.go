// File: game/index.go
package game

import (
	"math"
	"sort"

	"github.com/lguibr/blammo/utils"
)

// GridIndex is a uniform grid over level space. Queries return every id whose
// registered box could touch the query region and may return extra ones.
type GridIndex struct {
	cellWidth  float64
	cellHeight float64
	cols       int
	rows       int
	cells      [][]PieceID
	boxes      map[PieceID]AABB
}

func NewGridIndex(cellWidth, cellHeight float64, cols, rows int) *GridIndex {
	if cellWidth <= 0 || cellHeight <= 0 || cols <= 0 || rows <= 0 {
		panic("grid index: cell size and dimensions must be positive")
	}
	return &GridIndex{
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		cols:       cols,
		rows:       rows,
		cells:      make([][]PieceID, cols*rows),
		boxes:      make(map[PieceID]AABB),
	}
}

func (g *GridIndex) Cols() int { return g.cols }
func (g *GridIndex) Rows() int { return g.rows }

// occupiedRange covers the cells whose interior the box overlaps. A box lying
// on a cell line still claims one cell.
func occupiedRange(lo, hi, size float64, count int) (int, int) {
	first := int(math.Floor(lo / size))
	last := int(math.Ceil(hi/size)) - 1
	if last < first {
		last = first
	}
	return utils.ClampInt(first, 0, count-1), utils.ClampInt(last, 0, count-1)
}

// queryRange covers every closed cell the closed interval [lo, hi] touches, so a
// coordinate on a cell line selects the cells on both sides.
func queryRange(lo, hi, size float64, count int) (int, int) {
	first := int(math.Ceil(lo/size)) - 1
	last := int(math.Floor(hi / size))
	return utils.ClampInt(first, 0, count-1), utils.ClampInt(last, 0, count-1)
}

// Insert registers id over box, replacing any earlier registration.
func (g *GridIndex) Insert(id PieceID, box AABB) {
	g.Remove(id)
	minCol, maxCol := occupiedRange(box.Min.X, box.Max.X, g.cellWidth, g.cols)
	minRow, maxRow := occupiedRange(box.Min.Y, box.Max.Y, g.cellHeight, g.rows)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			i := row*g.cols + col
			g.cells[i] = append(g.cells[i], id)
		}
	}
	g.boxes[id] = box
}

func (g *GridIndex) Remove(id PieceID) {
	box, ok := g.boxes[id]
	if !ok {
		return
	}
	minCol, maxCol := occupiedRange(box.Min.X, box.Max.X, g.cellWidth, g.cols)
	minRow, maxRow := occupiedRange(box.Min.Y, box.Max.Y, g.cellHeight, g.rows)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			i := row*g.cols + col
			cell := g.cells[i]
			for j, other := range cell {
				if other == id {
					g.cells[i] = append(cell[:j], cell[j+1:]...)
					break
				}
			}
		}
	}
	delete(g.boxes, id)
}

// CellRange returns the clamped cell rectangle a query over box visits.
func (g *GridIndex) CellRange(box AABB) (minCol, maxCol, minRow, maxRow int) {
	minCol, maxCol = queryRange(box.Min.X, box.Max.X, g.cellWidth, g.cols)
	minRow, maxRow = queryRange(box.Min.Y, box.Max.Y, g.cellHeight, g.rows)
	return minCol, maxCol, minRow, maxRow
}

// Query returns the sorted ids registered in any cell of box's range.
func (g *GridIndex) Query(box AABB) []PieceID {
	minCol, maxCol, minRow, maxRow := g.CellRange(box)
	seen := make(map[PieceID]struct{})
	var ids []PieceID
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, id := range g.cells[row*g.cols+col] {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (g *GridIndex) CandidatesNear(center utils.Vector2D, radius float64) []PieceID {
	return g.Query(Circle{Center: center, Radius: math.Abs(radius)}.AABB())
}

func (g *GridIndex) CandidatesFor(extent Extent) []PieceID {
	return g.Query(extent.AABB())
}
