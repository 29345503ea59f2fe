package gridcalc

import (
	"strings"
)

// Options — настройки движка
type Options struct {
	// Transitive передаёт защитный набор в ячейки-формулы, на которые ссылается
	// формула: их значение пересчитывается с тем же набором, и цикл через любую
	// функцию обнаруживается. false — читать только готовый Computed.
	Transitive bool
	// FormulaMarker — завершающий символ формулы во вводе пользователя
	FormulaMarker string
	// MaxPasses ограничивает число проходов пересчёта в Store
	MaxPasses int
}

func DefaultOptions() Options {
	return Options{
		Transitive:    true,
		FormulaMarker: DefaultFormulaMarker,
		MaxPasses:     64,
	}
}

type operandFunc func(e *Engine, ctx *evalContext, formula string) Result

// Engine вычисляет формулы над снимком сетки. Снимок движок никогда не меняет.
type Engine struct {
	opts       Options
	aggregates map[string]AggregateFunc
	operands   map[string]operandFunc
}

func NewEngine(opts Options) *Engine {
	if opts.FormulaMarker == "" {
		opts.FormulaMarker = DefaultFormulaMarker
	}
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = DefaultOptions().MaxPasses
	}
	return &Engine{
		opts:       opts,
		aggregates: defaultAggregates(),
		operands: map[string]operandFunc{
			"if":    evalIF,
			"power": evalPower,
		},
	}
}

func (e *Engine) Options() Options { return e.opts }

// Register добавляет или заменяет агрегатную функцию; имя без учёта регистра
func (e *Engine) Register(name string, fn AggregateFunc) {
	e.aggregates[strings.ToLower(name)] = fn
}

// evalContext живёт ровно один верхнеуровневый вызов
type evalContext struct {
	grid  Grid
	guard *Guard
	memo  map[Coord]Result
}

// Evaluate вычисляет формулу (уже без маркера) над снимком grid.
// guard засевается вызывающей стороной, обычно координатой самой формулы;
// nil означает пустой набор. Паник и ошибок наружу нет: всё в Result.
func (e *Engine) Evaluate(formula string, grid Grid, guard *Guard) Result {
	if guard == nil {
		guard = NewGuard()
	}
	if grid == nil {
		grid = NewSnapshot()
	}
	ctx := &evalContext{grid: grid, guard: guard, memo: map[Coord]Result{}}
	return e.evaluate(ctx, formula)
}

// EvaluateCell вычисляет формулу ячейки со свежим набором, засеянным её координатой
func (e *Engine) EvaluateCell(cell Cell, grid Grid) Result {
	return e.Evaluate(cell.Formula(e.opts.FormulaMarker), grid, NewGuard(cell.Coord()))
}

func (e *Engine) evaluate(ctx *evalContext, formula string) Result {
	name, _, _ := strings.Cut(formula, "(")
	name = strings.ToLower(strings.TrimSpace(name))

	refs := decodeReferences(ParseReferences(formula))
	// Без ссылок результат 0 для любой функции, включая concat
	if len(refs) == 0 {
		return valueResult(Number(0))
	}
	rect, _ := BoundingRect(refs)
	if !ctx.guard.CheckRegion(rect) {
		return errResult(ErrCircularReference)
	}

	if op, ok := e.operands[name]; ok {
		return op(e, ctx, formula)
	}
	agg, ok := e.aggregates[name]
	if !ok {
		return valueResult(Text(formula))
	}

	var values []Value
	for c := range rect.Coords() {
		cell, ok := ctx.grid.Lookup(c)
		if !ok {
			continue
		}
		v, res := e.cellValue(ctx, cell, false)
		if res.Failed() {
			return res
		}
		values = append(values, v)
	}
	return valueResult(agg(values))
}

// cellValue возвращает значение ячейки-операнда. В транзитивном режиме
// ячейка-формула пересчитывается с тем же защитным набором; entered означает,
// что вызывающий уже добавил координату в набор.
// Наружу пробрасывается только обнаруженный цикл, прочие ошибки становятся текстом.
func (e *Engine) cellValue(ctx *evalContext, cell Cell, entered bool) (Value, Result) {
	if !e.opts.Transitive || !cell.IsFormula(e.opts.FormulaMarker) {
		return cell.Computed, Result{}
	}
	c := cell.Coord()
	if r, ok := ctx.memo[c]; ok {
		return r.Computed(), Result{}
	}
	if !entered {
		if !ctx.guard.Enter(c) {
			return Value{}, errResult(ErrCircularReference)
		}
		defer ctx.guard.Leave(c)
	}
	r := e.evaluate(ctx, cell.Formula(e.opts.FormulaMarker))
	if r.Err == ErrCircularReference {
		return Value{}, r
	}
	ctx.memo[c] = r
	return r.Computed(), Result{}
}

// coordValue — то же для координаты; отсутствующая ячейка пуста
func (e *Engine) coordValue(ctx *evalContext, c Coord, entered bool) (Value, Result) {
	cell, ok := ctx.grid.Lookup(c)
	if !ok {
		return Value{}, Result{}
	}
	return e.cellValue(ctx, cell, entered)
}
