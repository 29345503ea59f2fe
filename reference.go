package gridcalc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseReferences возвращает ссылки на ячейки в порядке появления, с повторами.
// Синтаксис диапазонов ("A1:B3") не распознаётся: двоеточие — просто разделитель.
func ParseReferences(formula string) []string {
	var refs []string
	for _, t := range Tokenize(formula) {
		if t.Kind == TokenCellRef {
			refs = append(refs, t.Text)
		}
	}
	return refs
}

// DecodeReference переводит ссылку в координату без смещения:
// столбец — буквы в 26-ричной записи (A=1, Z=26, AA=27), строка — число как есть.
// "A1" адресует ячейку (1, 1): строка 0 и столбец 0 сетки заняты заголовками.
// Столбец ограничен пределом листа Excel (XFD, 16384): буквы дальше, например
// "XFE1", дают ошибку, и в формуле такая ссылка молча пропускается.
func DecodeReference(token string) (Coord, error) {
	i := strings.IndexFunc(token, func(r rune) bool { return r >= '0' && r <= '9' })
	if i <= 0 {
		return Coord{}, fmt.Errorf("ссылка %q: нет букв столбца или номера строки", token)
	}
	letters, digits := token[:i], token[i:]
	for _, r := range letters {
		if r < 'A' || r > 'Z' {
			return Coord{}, fmt.Errorf("ссылка %q: недопустимая буква столбца %q", token, r)
		}
	}
	col, err := excelize.ColumnNameToNumber(letters)
	if err != nil {
		return Coord{}, fmt.Errorf("ссылка %q: %w", token, err)
	}
	row, err := strconv.Atoi(digits)
	if err != nil {
		return Coord{}, fmt.Errorf("ссылка %q: %w", token, err)
	}
	return Coord{Row: row, Col: col}, nil
}

// decodeReferences декодирует все ссылки; нераскодируемые (вне пределов листа)
// молча пропускаются, как и любые другие некорректные лексемы.
func decodeReferences(tokens []string) []Coord {
	coords := make([]Coord, 0, len(tokens))
	for _, t := range tokens {
		c, err := DecodeReference(t)
		if err != nil {
			continue
		}
		coords = append(coords, c)
	}
	return coords
}
