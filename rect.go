package gridcalc

import "iter"

// Rect — включительный прямоугольник координат
type Rect struct {
	MinRow int
	MaxRow int
	MinCol int
	MaxCol int
}

// BoundingRect строит прямоугольник по крайним строкам и столбцам ссылок.
// Две ссылки неявно захватывают все ячейки между ними: "sum(A1C3)" считает A1:C3.
func BoundingRect(coords []Coord) (Rect, bool) {
	if len(coords) == 0 {
		return Rect{}, false
	}
	r := Rect{MinRow: coords[0].Row, MaxRow: coords[0].Row, MinCol: coords[0].Col, MaxCol: coords[0].Col}
	for _, c := range coords[1:] {
		r.MinRow = min(r.MinRow, c.Row)
		r.MaxRow = max(r.MaxRow, c.Row)
		r.MinCol = min(r.MinCol, c.Col)
		r.MaxCol = max(r.MaxCol, c.Col)
	}
	return r, true
}

func (r Rect) Contains(c Coord) bool {
	return c.Row >= r.MinRow && c.Row <= r.MaxRow && c.Col >= r.MinCol && c.Col <= r.MaxCol
}

// Coords обходит прямоугольник построчно
func (r Rect) Coords() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for row := r.MinRow; row <= r.MaxRow; row++ {
			for col := r.MinCol; col <= r.MaxCol; col++ {
				if !yield(Coord{Row: row, Col: col}) {
					return
				}
			}
		}
	}
}

func (r Rect) String() string {
	return Coord{Row: r.MinRow, Col: r.MinCol}.String() + ":" + Coord{Row: r.MaxRow, Col: r.MaxCol}.String()
}
