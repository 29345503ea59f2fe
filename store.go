package gridcalc

import (
	"fmt"
	"log"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ExpandBlock — сколько строк или столбцов добавляет одно расширение сетки
const ExpandBlock = 10

// Direction — направление расширения сетки
type Direction int

const (
	ExpandRows Direction = iota
	ExpandCols
)

// NewGrid создаёт сетку rows×cols: строка 0 и столбец 0 — заголовки
// (буквы столбцов и номера строк), недоступные для ввода.
func NewGrid(rows, cols int) *Snapshot {
	s := NewSnapshot()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			s.Put(newCell(i, j))
		}
	}
	return s
}

func newCell(row, col int) Cell {
	header := row == 0 || col == 0
	c := Cell{Row: row, Col: col, Disabled: header, Style: defaultStyle(header)}
	switch {
	case row == 0 && col > 0:
		c.DisplayText = columnLabel(col)
	case col == 0 && row > 0:
		c.DisplayText = strconv.Itoa(row)
	}
	c.Computed = Text(c.DisplayText)
	return c
}

func columnLabel(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return ""
	}
	return name
}

func defaultStyle(header bool) map[string]string {
	st := map[string]string{
		"width":           "100px",
		"height":          "30px",
		"border":          "1px solid black",
		"padding":         "0",
		"textAlign":       "start",
		"backgroundColor": "white",
	}
	if header {
		st["textAlign"] = "center"
		st["backgroundColor"] = "#ff9563"
	}
	return st
}

// Store владеет сеткой и после каждой мутации пересчитывает все формулы.
// Однопоточный: вызывать из одной горутины.
type Store struct {
	engine    *Engine
	snap      *Snapshot
	rows      int
	cols      int
	listeners map[int]func()
	nextID    int
}

func NewStore(engine *Engine, rows, cols int) *Store {
	return &Store{
		engine:    engine,
		snap:      NewGrid(rows, cols),
		rows:      rows,
		cols:      cols,
		listeners: map[int]func(){},
	}
}

// Snapshot возвращает текущий снимок; менять его нельзя
func (s *Store) Snapshot() *Snapshot { return s.snap }

func (s *Store) Size() (rows, cols int) { return s.rows, s.cols }

func (s *Store) Get(row, col int) (Cell, bool) {
	return s.snap.Lookup(Coord{Row: row, Col: col})
}

// Subscribe регистрирует слушателя изменений; возвращает функцию отписки
func (s *Store) Subscribe(fn func()) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

// Set записывает ввод пользователя в ячейку и пересчитывает сетку.
// Ввод с маркером формулы до пересчёта хранит сырой текст как значение.
func (s *Store) Set(row, col int, text string) error {
	cell, ok := s.Get(row, col)
	if !ok {
		return fmt.Errorf("ячейка %s вне сетки %dx%d", Coord{Row: row, Col: col}, s.rows, s.cols)
	}
	if cell.Disabled {
		return fmt.Errorf("ячейка %s — заголовок", cell.Coord())
	}
	cell.DisplayText = text
	if cell.IsFormula(s.engine.opts.FormulaMarker) {
		cell.Computed = Text(text)
	} else {
		cell.Computed = ParseValue(text)
	}
	next := s.snap.Clone()
	next.Put(cell)
	s.commit(next)
	return nil
}

// Expand добавляет блок из ExpandBlock строк или столбцов в конец сетки
func (s *Store) Expand(d Direction) {
	next := s.snap.Clone()
	switch d {
	case ExpandRows:
		for i := s.rows; i < s.rows+ExpandBlock; i++ {
			for j := 0; j < s.cols; j++ {
				next.Put(newCell(i, j))
			}
		}
		s.rows += ExpandBlock
	case ExpandCols:
		for j := s.cols; j < s.cols+ExpandBlock; j++ {
			for i := 0; i < s.rows; i++ {
				next.Put(newCell(i, j))
			}
		}
		s.cols += ExpandBlock
	}
	s.commit(next)
}

func (s *Store) commit(next *Snapshot) {
	settled, passes, converged := s.engine.Settle(next)
	if !converged {
		log.Printf("⚠️ Пересчёт не сошёлся за %d проходов, оставляем последний результат", passes)
	}
	if settled.Equal(s.snap) {
		return
	}
	s.snap = settled
	for _, fn := range s.listeners {
		fn()
	}
}
