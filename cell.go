package gridcalc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultFormulaMarker — завершающий символ, которым пользователь помечает формулу ("sum(A1A3)=")
const DefaultFormulaMarker = "="

// Coord — координата ячейки. Используется как ключ снимка и защитного набора.
type Coord struct {
	Row int
	Col int
}

// String печатает координату в A1-нотации, если excelize умеет её построить
func (c Coord) String() string {
	if name, err := excelize.CoordinatesToCellName(c.Col, c.Row); err == nil {
		return name
	}
	return fmt.Sprintf("R%dC%d", c.Row, c.Col)
}

// Cell — ячейка сетки
type Cell struct {
	Row         int
	Col         int
	DisplayText string // сырой ввод пользователя
	Computed    Value  // значение для арифметики и для других формул
	Disabled    bool   // заголовки строк/столбцов
	Style       map[string]string
}

func (c Cell) Coord() Coord { return Coord{Row: c.Row, Col: c.Col} }

// IsFormula сообщает, помечен ли ввод как формула
func (c Cell) IsFormula(marker string) bool {
	if marker == "" {
		marker = DefaultFormulaMarker
	}
	return len(c.DisplayText) > len(marker) && strings.HasSuffix(c.DisplayText, marker)
}

// Formula возвращает текст формулы без маркера
func (c Cell) Formula(marker string) string {
	if marker == "" {
		marker = DefaultFormulaMarker
	}
	return strings.TrimSuffix(c.DisplayText, marker)
}

// Grid — снимок сетки только для чтения. Отсутствующая координата — пустая ячейка.
type Grid interface {
	Lookup(c Coord) (Cell, bool)
}

// Snapshot — неупорядоченный набор ячеек с поиском по координате
type Snapshot struct {
	cells map[Coord]Cell
}

var _ Grid = (*Snapshot)(nil)

func NewSnapshot(cells ...Cell) *Snapshot {
	s := &Snapshot{cells: make(map[Coord]Cell, len(cells))}
	for _, c := range cells {
		s.Put(c)
	}
	return s
}

func (s *Snapshot) Lookup(c Coord) (Cell, bool) {
	if s == nil {
		return Cell{}, false
	}
	cell, ok := s.cells[c]
	return cell, ok
}

// Put записывает ячейку; на координату приходится не более одной ячейки
func (s *Snapshot) Put(c Cell) {
	s.cells[c.Coord()] = c
}

func (s *Snapshot) Len() int { return len(s.cells) }

// Cells возвращает ячейки в порядке строка-столбец
func (s *Snapshot) Cells() []Cell {
	out := make([]Cell, 0, len(s.cells))
	for _, c := range s.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Size — число строк и столбцов (максимальный индекс + 1)
func (s *Snapshot) Size() (rows, cols int) {
	for c := range s.cells {
		if c.Row+1 > rows {
			rows = c.Row + 1
		}
		if c.Col+1 > cols {
			cols = c.Col + 1
		}
	}
	return rows, cols
}

// Clone копирует снимок; стили разделяются, они движком не читаются
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{cells: make(map[Coord]Cell, len(s.cells))}
	for k, v := range s.cells {
		out.cells[k] = v
	}
	return out
}

// Equal — глубокое сравнение двух снимков (тексты и вычисленные значения)
func (s *Snapshot) Equal(o *Snapshot) bool {
	if len(s.cells) != len(o.cells) {
		return false
	}
	for k, a := range s.cells {
		b, ok := o.cells[k]
		if !ok {
			return false
		}
		if a.DisplayText != b.DisplayText || a.Disabled != b.Disabled || !a.Computed.Equal(b.Computed) {
			return false
		}
	}
	return true
}
