package gridcalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind — тип вычисленного значения ячейки
type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindNumber
	KindText
)

// Value — вычисленное значение ячейки: пусто, число или строка.
// Нулевое значение Value — пустая ячейка.
type Value struct {
	kind ValueKind
	num  float64
	text string
}

// Number создаёт числовое значение. NaN не хранится как число:
// NaN != NaN ломает сравнение снимков, поэтому он превращается в текст "NaN".
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{kind: KindText, text: "NaN"}
	}
	return Value{kind: KindNumber, num: f}
}

// Text создаёт строковое значение. Пустая строка — это пустая ячейка.
func Text(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: KindText, text: s}
}

// ParseValue разбирает пользовательский ввод: числа становятся Number, остальное — Text
func ParseValue(raw string) Value {
	if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return Number(n)
	}
	return Text(raw)
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Number возвращает конечное число, если значение им является или разбирается как число.
// Пустые ячейки, произвольный текст, NaN и ±Inf не проходят фильтр.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindNumber:
		if math.IsInf(v.num, 0) {
			return 0, false
		}
		return v.num, true
	case KindText:
		s := strings.TrimSpace(v.text)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// String — «сырое» строковое представление для concat и вывода
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return formatNumber(v.num)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// Interface возвращает float64, string или nil — то, что сохраняет вызывающая сторона
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText:
		return v.text
	default:
		return nil
	}
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	default:
		return true
	}
}

func formatNumber(f float64) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return fmt.Sprintf("%d", int64(f))
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
