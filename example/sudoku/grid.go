package main

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Grid is a 9x9 sudoku board. Zero marks an empty cell.
type Grid [9][9]int

// canPlace reports whether num can go at row, col without repeating in the
// row, the column or the 3x3 box.
func (g *Grid) canPlace(row, col, num int) bool {
	for i := 0; i < 9; i++ {
		if g[row][i] == num || g[i][col] == num {
			return false
		}
	}

	br, bc := row/3*3, col/3*3
	for r := br; r < br+3; r++ {
		for c := bc; c < bc+3; c++ {
			if g[r][c] == num {
				return false
			}
		}
	}
	return true
}

// FindEmpty returns the first empty cell in row-major order.
func (g *Grid) FindEmpty() (row, col int, ok bool) {
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if g[r][c] == 0 {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// Solve fills the empty cells by backtracking and reports whether a solution
// exists. g is left untouched when there is none.
func (g *Grid) Solve() bool {
	row, col, ok := g.FindEmpty()
	if !ok {
		return true
	}

	for num := 1; num <= 9; num++ {
		if g.canPlace(row, col, num) {
			g[row][col] = num
			if g.Solve() {
				return true
			}
			g[row][col] = 0
		}
	}
	return false
}

// fill completes g with random digits.
func (g *Grid) fill(rng *rand.Rand) bool {
	row, col, ok := g.FindEmpty()
	if !ok {
		return true
	}

	for _, num := range rng.Perm(9) {
		if g.canPlace(row, col, num+1) {
			g[row][col] = num + 1
			if g.fill(rng) {
				return true
			}
			g[row][col] = 0
		}
	}
	return false
}

// Generate returns a random puzzle with holes empty cells, and its solution.
func Generate(rng *rand.Rand, holes int) (puzzle, solution Grid) {
	solution.fill(rng)
	puzzle = solution

	holes = min(max(holes, 0), 81)
	for _, i := range rng.Perm(81)[:holes] {
		puzzle[i/9][i%9] = 0
	}
	return puzzle, solution
}

// Conflicts reports whether the digit at row, col repeats in its row, column
// or box. An empty cell never conflicts.
func (g *Grid) Conflicts(row, col int) bool {
	num := g[row][col]
	if num == 0 {
		return false
	}

	g[row][col] = 0
	defer func() { g[row][col] = num }()
	return !g.canPlace(row, col, num)
}

// Solved reports whether every cell is filled and no digit repeats.
func (g *Grid) Solved() bool {
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if g[r][c] == 0 || g.Conflicts(r, c) {
				return false
			}
		}
	}
	return true
}

// HTML renders the board as the content of the #grid table. Given cells are
// marked disabled and cannot be selected.
func (g *Grid) HTML() string {
	var b strings.Builder

	for i := 0; i < 3; i++ {
		b.WriteString("<colgroup><col><col><col></colgroup>")
	}
	for y, row := range g {
		if y%3 == 0 {
			b.WriteString("<tbody>")
		}
		b.WriteString("<tr>")
		for x, num := range row {
			if num == 0 {
				fmt.Fprintf(&b, `<td class="cell" y="%d" x="%d"></td>`, y, x)
			} else {
				fmt.Fprintf(&b, `<td class="cell disabled" y="%d" x="%d">%d</td>`, y, x, num)
			}
		}
		b.WriteString("</tr>")
		if y%3 == 2 {
			b.WriteString("</tbody>")
		}
	}
	return b.String()
}

// cellSelector selects the td of the cell at x, y.
func cellSelector(x, y int) string {
	return fmt.Sprintf(`.cell[x="%d"][y="%d"]`, x, y)
}
