package gridcalc

// Guard — набор координат, которые сейчас вычисляются в рамках одного
// верхнеуровневого вызова. Вызывающая сторона засевает его координатой самой
// формулы; между независимыми вызовами набор не переиспользуется.
type Guard struct {
	active map[Coord]struct{}
}

func NewGuard(seed ...Coord) *Guard {
	g := &Guard{active: make(map[Coord]struct{}, len(seed))}
	for _, c := range seed {
		g.active[c] = struct{}{}
	}
	return g
}

func (g *Guard) Has(c Coord) bool {
	_, ok := g.active[c]
	return ok
}

// Enter добавляет координату; false, если она уже вычисляется
func (g *Guard) Enter(c Coord) bool {
	if g.Has(c) {
		return false
	}
	g.active[c] = struct{}{}
	return true
}

func (g *Guard) Leave(c Coord) {
	delete(g.active, c)
}

// CheckRegion — false, если хоть одна координата прямоугольника уже вычисляется.
// Обходится набор, а не прямоугольник.
func (g *Guard) CheckRegion(r Rect) bool {
	for c := range g.active {
		if r.Contains(c) {
			return false
		}
	}
	return true
}

func (g *Guard) Len() int { return len(g.active) }
