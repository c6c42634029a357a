package seatplan

import (
	"strings"
	"unicode/utf8"

	"rfidattend/internal/domain"
)

// Grid is a seat plan indexed [row][col]. Empty seats are nil.
type Grid [][]*domain.SeatView

// Build sizes the grid from the largest row and column in seats and places
// each seat at its coordinates. Seats with negative coordinates are left out.
func Build(seats []domain.SeatView) Grid {
	maxRow, maxCol := 0, 0
	for _, s := range seats {
		if s.SeatRow > maxRow {
			maxRow = s.SeatRow
		}
		if s.SeatCol > maxCol {
			maxCol = s.SeatCol
		}
	}
	grid := make(Grid, maxRow+1)
	for r := range grid {
		grid[r] = make([]*domain.SeatView, maxCol+1)
	}
	for i := range seats {
		s := seats[i]
		if s.SeatRow < 0 || s.SeatCol < 0 {
			continue
		}
		grid[s.SeatRow][s.SeatCol] = &s
	}
	return grid
}

// Rows and Cols report the grid bounds.
func (g Grid) Rows() int { return len(g) }

func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Occupied counts filled seats.
func (g Grid) Occupied() int {
	n := 0
	for _, row := range g {
		for _, s := range row {
			if s != nil {
				n++
			}
		}
	}
	return n
}

// Initials returns the upper-cased first letters of both names.
func Initials(first, last string) string {
	var b strings.Builder
	for _, name := range []string{first, last} {
		if r, _ := utf8.DecodeRuneInString(name); r != utf8.RuneError {
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}
