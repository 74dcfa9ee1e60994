// File: game/layout.go
package game

import (
	"math/rand"

	"github.com/lguibr/blammo/utils"
)

// Layout holds a level's piece specs, indexed [row][col] with row 0 at the bottom.
type Layout [][]PieceSpec

func NewLayout(cols, rows int) Layout {
	layout := make(Layout, rows)
	for i := range layout {
		layout[i] = make([]PieceSpec, cols)
	}
	return layout
}

func (layout Layout) Rows() int { return len(layout) }

func (layout Layout) Cols() int {
	if len(layout) == 0 {
		return 0
	}
	return len(layout[0])
}

func (layout Layout) inside(col, row int) bool {
	return row >= 0 && row < layout.Rows() && col >= 0 && col < layout.Cols()
}

// LineIntersectedCells returns the cells of a unit grid crossed by line.
func (layout Layout) LineIntersectedCells(line LineSeg) [][2]int {
	var cells [][2]int
	for row := range layout {
		for col := range layout[row] {
			cell := AABB{
				Min: utils.Vector2D{X: float64(col), Y: float64(row)},
				Max: utils.Vector2D{X: float64(col + 1), Y: float64(row + 1)},
			}
			if cell.IntersectsSegment(line) {
				cells = append(cells, [2]int{col, row})
			}
		}
	}
	return cells
}

// strengthen turns an empty cell into a breakable one or adds a life to a breakable.
func (layout Layout) strengthen(col, row, maxLife int) {
	spec := &layout[row][col]
	switch spec.Kind {
	case Empty:
		*spec = NewPieceSpec(Breakable, 1)
	case Breakable:
		if spec.Life < maxLife {
			spec.Life++
		}
	}
}

// CreateQuarterSeed fills the cells crossed by random rays from the origin.
func (layout Layout) CreateQuarterSeed(rng *rand.Rand, numberOfVectors, maxVectorSize, maxLife int) {
	for _, v := range utils.NewRandomPositiveVectors(rng, numberOfVectors, maxVectorSize) {
		line := NewLineSeg(utils.Vector2D{}, utils.Vector2D{X: float64(v[0]), Y: float64(v[1])})
		for _, cell := range layout.LineIntersectedCells(line) {
			layout.strengthen(cell[0], cell[1], maxLife)
		}
	}
}

// RandomWalker strengthens every cell visited by a walk from the centre.
func (layout Layout) RandomWalker(rng *rand.Rand, numberOfSteps, maxLife int) {
	if layout.Rows() == 0 || layout.Cols() == 0 {
		return
	}
	current := [2]int{layout.Cols() / 2, layout.Rows() / 2}
	layout.strengthen(current[0], current[1], maxLife)

	for i := 0; i < numberOfSteps; i++ {
		next := current
		if rng.Intn(2) == 0 {
			next[0] += utils.RandomNumberN(rng, 1)
		} else {
			next[1] += utils.RandomNumberN(rng, 1)
		}
		if !layout.inside(next[0], next[1]) {
			continue
		}
		layout.strengthen(next[0], next[1], maxLife)
		current = next
	}
}

// Rotate turns the layout a quarter turn clockwise, swapping its dimensions.
func (layout Layout) Rotate() Layout {
	if layout.Rows() == 0 || layout.Cols() == 0 {
		return layout
	}
	rows, cols := layout.Rows(), layout.Cols()
	result := NewLayout(rows, cols)
	for row := range layout {
		for col, spec := range layout[row] {
			result[cols-1-col][row] = spec
		}
	}
	return result
}

// FillWithQuarters mirrors four quarters into the corners of layout, which
// must be exactly twice their size in both dimensions.
func (layout Layout) FillWithQuarters(q1, q2, q3, q4 Layout) {
	qRows, qCols := q1.Rows(), q1.Cols()
	for _, q := range []Layout{q2, q3, q4} {
		if q.Rows() != qRows || q.Cols() != qCols {
			panic("layout: quarters must share one size")
		}
	}
	if qRows == 0 || layout.Rows() != 2*qRows || layout.Cols() != 2*qCols {
		panic("layout: must be twice the size of its quarters")
	}

	rows, cols := layout.Rows(), layout.Cols()
	for row := 0; row < qRows; row++ {
		for col := 0; col < qCols; col++ {
			layout[row][col] = q1[row][col]
			layout[row][cols-1-col] = q2[row][col]
			layout[rows-1-row][col] = q3[row][col]
			layout[rows-1-row][cols-1-col] = q4[row][col]
		}
	}
}

// AddBorder walls off the left, right and top edges. The bottom stays open.
func (layout Layout) AddBorder() {
	rows, cols := layout.Rows(), layout.Cols()
	for row := 0; row < rows; row++ {
		layout[row][0] = NewPieceSpec(Solid, 0)
		layout[row][cols-1] = NewPieceSpec(Solid, 0)
	}
	for col := 0; col < cols; col++ {
		layout[rows-1][col] = NewPieceSpec(Solid, 0)
	}
}

// GenerateLayout builds a symmetric breakable layout with a solid border.
func GenerateLayout(cfg utils.LevelConfig, rng *rand.Rand) Layout {
	if cfg.Columns <= 0 || cfg.Rows <= 0 || cfg.Columns%2 != 0 || cfg.Rows%2 != 0 {
		panic("layout: columns and rows must be positive and even")
	}
	qCols, qRows := cfg.Columns/2, cfg.Rows/2

	var quarters [4]Layout
	for i := range quarters {
		q := NewLayout(qCols, qRows)
		q.CreateQuarterSeed(rng, cfg.FillVectors, cfg.FillVectorSize, cfg.MaxLife)
		for j := 0; j < cfg.FillWalkers; j++ {
			q.RandomWalker(rng, cfg.FillSteps, cfg.MaxLife)
		}
		quarters[i] = q
	}

	// Square quarters get turned so the mirrored copies do not repeat one pattern.
	if qCols == qRows {
		quarters[1] = quarters[1].Rotate()
		quarters[2] = quarters[2].Rotate().Rotate()
		quarters[3] = quarters[3].Rotate().Rotate().Rotate()
	}

	layout := NewLayout(cfg.Columns, cfg.Rows)
	layout.FillWithQuarters(quarters[0], quarters[1], quarters[3], quarters[2])
	layout.AddBorder()
	return layout
}
