package gridcalc

// Recalculate делает один синхронный проход: каждая ячейка-формула вычисляется
// над исходным снимком со свежим защитным набором, засеянным её координатой.
// Возвращает новый снимок и признак того, что он отличается от исходного.
func (e *Engine) Recalculate(s *Snapshot) (*Snapshot, bool) {
	next := s.Clone()
	for _, cell := range s.Cells() {
		if cell.Disabled || !cell.IsFormula(e.opts.FormulaMarker) {
			continue
		}
		cell.Computed = e.EvaluateCell(cell, s).Computed()
		next.Put(cell)
	}
	return next, !next.Equal(s)
}

// Settle повторяет проходы до неподвижной точки (снимок не изменился) либо до
// MaxPasses. Возвращает итоговый снимок, число проходов и признак сходимости.
func (e *Engine) Settle(s *Snapshot) (*Snapshot, int, bool) {
	cur := s
	for pass := 1; pass <= e.opts.MaxPasses; pass++ {
		next, changed := e.Recalculate(cur)
		if !changed {
			return next, pass, true
		}
		cur = next
	}
	return cur, e.opts.MaxPasses, false
}
