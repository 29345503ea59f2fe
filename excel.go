package gridcalc

import (
	"fmt"
	"log"
	"time"

	"github.com/xuri/excelize/v2"
)

// LoadSheet читает лист книги в снимок. Ячейка Excel A1 становится координатой (1, 1),
// ровно той, которую адресует ссылка "A1" в формуле.
func LoadSheet(f *excelize.File, sheet, marker string) (*Snapshot, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	s := NewSnapshot()
	for rIdx, row := range rows {
		for cIdx, raw := range row {
			if raw == "" {
				continue
			}
			c := Cell{Row: rIdx + 1, Col: cIdx + 1, DisplayText: raw}
			if c.IsFormula(marker) {
				c.Computed = Text(raw)
			} else {
				c.Computed = ParseValue(raw)
			}
			s.Put(c)
		}
	}
	return s, nil
}

// writeComputed записывает значения ячеек-формул поверх их текста
func writeComputed(f *excelize.File, sheet string, s *Snapshot, marker string) (int, error) {
	n := 0
	for _, c := range s.Cells() {
		if !c.IsFormula(marker) {
			continue
		}
		addr, err := excelize.CoordinatesToCellName(c.Col, c.Row)
		if err != nil {
			return n, err
		}
		if err := f.SetCellValue(sheet, addr, valToCell(c.Computed)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// valToCell нормализует значение перед записью в Excel
func valToCell(v Value) interface{} {
	switch v.Kind() {
	case KindNumber:
		return v.Interface()
	case KindText:
		return v.String()
	default:
		return ""
	}
}

// RecalculateWorkbook открывает книгу, пересчитывает формулы на листе sheet
// (на всех листах, если sheet пуст) и сохраняет результат в destPath.
func RecalculateWorkbook(srcPath, destPath, sheet string, opts Options) error {
	log.Printf("📊 Начинаем пересчёт формул...")
	log.Printf("📁 Источник: %s", srcPath)
	log.Printf("📄 Выходной файл: %s", destPath)

	startTime := time.Now()
	engine := NewEngine(opts)

	f, err := excelize.OpenFile(srcPath)
	if err != nil {
		log.Printf("❌ Ошибка открытия книги: %v", err)
		return err
	}
	defer f.Close()

	sheets := []string{sheet}
	if sheet == "" {
		sheets = f.GetSheetList()
	}
	for _, name := range sheets {
		snap, err := LoadSheet(f, name, engine.opts.FormulaMarker)
		if err != nil {
			return fmt.Errorf("чтение листа %s: %w", name, err)
		}
		settled, passes, converged := engine.Settle(snap)
		if !converged {
			log.Printf("⚠️ Лист %s: пересчёт не сошёлся за %d проходов", name, passes)
		}
		n, err := writeComputed(f, name, settled, engine.opts.FormulaMarker)
		if err != nil {
			return fmt.Errorf("запись листа %s: %w", name, err)
		}
		log.Printf("✅ Лист %s: %d формул, проходов: %d", name, n, passes)
	}

	log.Printf("💾 Сохранение файла...")
	if err := f.SaveAs(destPath); err != nil {
		log.Printf("❌ Ошибка сохранения: %v", err)
		return err
	}
	log.Printf("✅ Пересчёт завершен за %v", time.Since(startTime))
	return nil
}
