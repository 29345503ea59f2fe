package gridcalc_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"github.com/nikitaxru/gridcalc"
)

// WorkbookSuite — пересчёт формул в книге Excel
type WorkbookSuite struct {
	suite.Suite
	src string
	dst string
}

// SetupTest — книга-источник со столбцом чисел и несколькими формулами
func (s *WorkbookSuite) SetupTest() {
	tmpDir := s.T().TempDir()
	s.src = filepath.Join(tmpDir, "source.xlsx")
	s.dst = filepath.Join(tmpDir, "output.xlsx")

	f := excelize.NewFile()
	sheet := "Sheet1"
	_ = f.SetCellValue(sheet, "A1", 1)
	_ = f.SetCellValue(sheet, "A2", 2)
	_ = f.SetCellValue(sheet, "A3", 3)
	_ = f.SetCellValue(sheet, "A4", "sum(A1A3)=")
	_ = f.SetCellValue(sheet, "B1", `IF(A4>5,"big","small")=`)
	_ = f.SetCellValue(sheet, "B2", "foo(A1)=")
	_ = f.SetCellValue(sheet, "B3", "sum(B3)=")
	_ = f.SetCellValue(sheet, "C1", "просто текст")
	s.Require().NoError(f.SaveAs(s.src), "save source")
}

func TestWorkbookSuite(t *testing.T) {
	suite.Run(t, new(WorkbookSuite))
}

// TestLoadSheet — ячейка Excel A1 попадает в координату (1, 1)
func (s *WorkbookSuite) TestLoadSheet() {
	f, err := excelize.OpenFile(s.src)
	s.Require().NoError(err, "open source")
	defer f.Close()

	snap, err := gridcalc.LoadSheet(f, "Sheet1", gridcalc.DefaultFormulaMarker)
	s.Require().NoError(err, "load sheet")

	cell, ok := snap.Lookup(gridcalc.Coord{Row: 1, Col: 1})
	s.Require().True(ok)
	s.Assert().Equal(1.0, cell.Computed.Interface())

	cell, ok = snap.Lookup(gridcalc.Coord{Row: 4, Col: 1})
	s.Require().True(ok)
	s.Assert().True(cell.IsFormula(gridcalc.DefaultFormulaMarker))
	s.Assert().Equal("sum(A1A3)", cell.Formula(gridcalc.DefaultFormulaMarker))

	_, ok = snap.Lookup(gridcalc.Coord{Row: 0, Col: 0})
	s.Assert().False(ok)

	_, err = gridcalc.LoadSheet(f, "Нет такого", gridcalc.DefaultFormulaMarker)
	s.Assert().Error(err)
}

// TestRecalculateWorkbook — значения формул записываются поверх их текста
func (s *WorkbookSuite) TestRecalculateWorkbook() {
	s.Require().NoError(gridcalc.RecalculateWorkbook(s.src, s.dst, "Sheet1", gridcalc.DefaultOptions()), "recalc")

	result, err := excelize.OpenFile(s.dst)
	s.Require().NoError(err, "open result")
	defer result.Close()

	expect := map[string]string{
		"A1": "1",
		"A4": "6",
		"B1": "big",
		"B2": "foo(A1)",
		"B3": "Circular reference detected",
		"C1": "просто текст",
	}
	for addr, want := range expect {
		v, err := result.GetCellValue("Sheet1", addr)
		s.Require().NoError(err, addr)
		s.Assert().Equal(want, v, addr)
	}
}

// TestRecalculateAllSheets — пустое имя листа означает все листы
func (s *WorkbookSuite) TestRecalculateAllSheets() {
	f, err := excelize.OpenFile(s.src)
	s.Require().NoError(err)
	_, err = f.NewSheet("Second")
	s.Require().NoError(err)
	_ = f.SetCellValue("Second", "A1", 2)
	_ = f.SetCellValue("Second", "B1", "POWER(A1,A1)=")
	s.Require().NoError(f.Save())
	s.Require().NoError(f.Close())

	s.Require().NoError(gridcalc.RecalculateWorkbook(s.src, s.dst, "", gridcalc.DefaultOptions()))

	result, err := excelize.OpenFile(s.dst)
	s.Require().NoError(err)
	defer result.Close()
	v, _ := result.GetCellValue("Second", "B1")
	s.Assert().Equal("4", v)
	v, _ = result.GetCellValue("Sheet1", "A4")
	s.Assert().Equal("6", v)
}

func (s *WorkbookSuite) TestMissingSource() {
	err := gridcalc.RecalculateWorkbook(filepath.Join(s.T().TempDir(), "none.xlsx"), s.dst, "", gridcalc.DefaultOptions())
	s.Assert().Error(err)
}
