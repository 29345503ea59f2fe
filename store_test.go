package gridcalc_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/nikitaxru/gridcalc"
)

// StoreSuite — пересчёт сетки после мутаций
type StoreSuite struct {
	suite.Suite
	store   *gridcalc.Store
	changes int
}

func (s *StoreSuite) SetupTest() {
	s.store = gridcalc.NewStore(gridcalc.NewEngine(gridcalc.DefaultOptions()), 5, 5)
	s.changes = 0
	s.store.Subscribe(func() { s.changes++ })
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) computed(row, col int) interface{} {
	cell, ok := s.store.Get(row, col)
	s.Require().True(ok, "cell %d,%d", row, col)
	return cell.Computed.Interface()
}

// TestInitialGrid — строка 0 и столбец 0 заняты заголовками
func (s *StoreSuite) TestInitialGrid() {
	s.Assert().Equal(25, s.store.Snapshot().Len())
	header, _ := s.store.Get(0, 1)
	s.Assert().Equal("A", header.DisplayText)
	s.Assert().True(header.Disabled)
	header, _ = s.store.Get(3, 0)
	s.Assert().Equal("3", header.DisplayText)
	corner, _ := s.store.Get(0, 0)
	s.Assert().Equal("", corner.DisplayText)
	s.Assert().Error(s.store.Set(0, 1, "x"))
	s.Assert().Error(s.store.Set(7, 7, "x"))
}

// TestRecalcOnMutation — формулы пересчитываются после каждого изменения
func (s *StoreSuite) TestRecalcOnMutation() {
	s.Require().NoError(s.store.Set(1, 1, "1"))
	s.Require().NoError(s.store.Set(2, 1, "2"))
	s.Require().NoError(s.store.Set(3, 1, "sum(A1A2)="))
	s.Assert().Equal(3.0, s.computed(3, 1))

	s.Require().NoError(s.store.Set(1, 1, "10"))
	s.Assert().Equal(12.0, s.computed(3, 1))

	// цепочка: B1 зависит от A3
	s.Require().NoError(s.store.Set(1, 2, "max(A3)="))
	s.Assert().Equal(12.0, s.computed(1, 2))
	s.Require().NoError(s.store.Set(2, 1, "-10"))
	s.Assert().Equal(0.0, s.computed(3, 1))
	s.Assert().Equal(0.0, s.computed(1, 2))

	s.Assert().Equal(6, s.changes)
}

// TestSameValueNoNotify — неизменившаяся сетка не будит слушателей
func (s *StoreSuite) TestSameValueNoNotify() {
	s.Require().NoError(s.store.Set(1, 1, "5"))
	s.Require().NoError(s.store.Set(1, 1, "5"))
	s.Assert().Equal(1, s.changes)
}

// TestCycleSettles — цикл через агрегаты становится ошибкой и сходится
func (s *StoreSuite) TestCycleSettles() {
	s.Require().NoError(s.store.Set(1, 3, "1"))
	s.Require().NoError(s.store.Set(1, 1, "sum(B1C1)="))
	s.Require().NoError(s.store.Set(1, 2, "sum(A1)="))
	s.Assert().Equal(gridcalc.MsgCircularReference, s.computed(1, 1))
	s.Assert().Equal(gridcalc.MsgCircularReference, s.computed(1, 2))
}

// TestLegacyGuardPassLimit — без транзитивной защиты цикл растёт, пересчёт ограничен
func (s *StoreSuite) TestLegacyGuardPassLimit() {
	store := gridcalc.NewStore(gridcalc.NewEngine(gridcalc.Options{Transitive: false, MaxPasses: 5}), 3, 4)
	s.Require().NoError(store.Set(1, 3, "1"))
	s.Require().NoError(store.Set(1, 1, "sum(B1C1)="))
	s.Require().NoError(store.Set(1, 2, "sum(A1)="))
	cell, _ := store.Get(1, 1)
	n, ok := cell.Computed.Number()
	s.Require().True(ok)
	s.Assert().Greater(n, 1.0)
}

// TestExpand — сетка растёт блоками по 10 строк или столбцов
func (s *StoreSuite) TestExpand() {
	s.store.Expand(gridcalc.ExpandRows)
	rows, cols := s.store.Size()
	s.Assert().Equal(15, rows)
	s.Assert().Equal(5, cols)
	header, ok := s.store.Get(14, 0)
	s.Require().True(ok)
	s.Assert().Equal("14", header.DisplayText)

	s.store.Expand(gridcalc.ExpandCols)
	rows, cols = s.store.Size()
	s.Assert().Equal(15, rows)
	s.Assert().Equal(15, cols)
	header, ok = s.store.Get(0, 5)
	s.Require().True(ok)
	s.Assert().Equal("E", header.DisplayText)
	s.Assert().Equal(15*15, s.store.Snapshot().Len())

	s.Require().NoError(s.store.Set(12, 12, "7"))
	s.Require().NoError(s.store.Set(1, 1, "sum(L12)="))
	s.Assert().Equal(7.0, s.computed(1, 1))
}

// TestRecalculatePass — один проход и неподвижная точка
func (s *StoreSuite) TestRecalculatePass() {
	engine := gridcalc.NewEngine(gridcalc.DefaultOptions())
	snap := gridcalc.NewSnapshot(
		gridcalc.Cell{Row: 1, Col: 1, DisplayText: "2", Computed: gridcalc.Number(2)},
		gridcalc.Cell{Row: 2, Col: 1, DisplayText: "POWER(A1,A1)=", Computed: gridcalc.Text("POWER(A1,A1)=")},
	)
	next, changed := engine.Recalculate(snap)
	s.Require().True(changed)
	cell, _ := next.Lookup(gridcalc.Coord{Row: 2, Col: 1})
	s.Assert().Equal(4.0, cell.Computed.Interface())

	_, changed = engine.Recalculate(next)
	s.Assert().False(changed)

	settled, passes, converged := engine.Settle(snap)
	s.Assert().True(converged)
	s.Assert().Equal(2, passes)
	s.Assert().True(settled.Equal(next))
}
