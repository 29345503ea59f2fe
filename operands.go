package gridcalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	expro "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// IF и POWER работают не с прямоугольником, а с конкретными ячейками-операндами:
//   IF(<ref><op><number>,<then>,<else>), op — только >, < или =
//   POWER(<ref1>,<ref2>)

var compareEnv = map[string]interface{}{"value": 0.0, "threshold": 0.0}

// Сравнение выполняет expr-lang; программы компилируются один раз на оператор
var comparePrograms = mustComparePrograms(map[string]string{
	">": "value > threshold",
	"<": "value < threshold",
	"=": "value == threshold",
})

func mustComparePrograms(src map[string]string) map[string]*vm.Program {
	out := make(map[string]*vm.Program, len(src))
	for op, code := range src {
		program, err := expro.Compile(code, expro.Env(compareEnv), expro.AsBool())
		if err != nil {
			panic(fmt.Sprintf("компиляция сравнения %q: %v", op, err))
		}
		out[op] = program
	}
	return out
}

func compare(op string, value, threshold float64) (bool, error) {
	program, ok := comparePrograms[op]
	if !ok {
		return false, fmt.Errorf("оператор %q не поддерживается", op)
	}
	out, err := expro.Run(program, map[string]interface{}{"value": value, "threshold": threshold})
	if err != nil {
		return false, err
	}
	b, _ := out.(bool)
	return b, nil
}

// callArgs делит лексемы внешнего вызова "NAME(a,b,...)" на аргументы
// по запятым верхнего уровня; запятые-разделители размечает efp
func callArgs(formula string) ([][]Token, bool) {
	toks := Tokenize(formula)
	if len(toks) < 3 || toks[0].Kind != TokenFunctionName || toks[1].Kind != TokenOpen || toks[len(toks)-1].Kind != TokenClose {
		return nil, false
	}
	args := [][]Token{nil}
	depth := 0
	for _, t := range toks[2 : len(toks)-1] {
		switch t.Kind {
		case TokenOpen:
			depth++
		case TokenClose:
			depth--
			if depth < 0 {
				// закрывающая скобка вызова оказалась не последней
				return nil, false
			}
		case TokenComma:
			if depth == 0 {
				args = append(args, nil)
				continue
			}
		}
		args[len(args)-1] = append(args[len(args)-1], t)
	}
	return args, depth == 0
}

// condition — разобранное условие IF
type condition struct {
	ref       Coord
	op        string
	threshold float64
}

// comparisonChars — символы, из которых может состоять оператор условия IF
const comparisonChars = "<>=!"

// parseCondition ждёт ровно: ссылка, оператор сравнения, число (возможно со знаком).
// Оператор из символов сравнения, но не >, < или = — это ErrInvalidOperator.
func parseCondition(toks []Token) (condition, ErrKind) {
	if len(toks) < 3 || toks[0].Kind != TokenCellRef {
		return condition{}, ErrInvalidIFSyntax
	}
	ref, err := DecodeReference(toks[0].Text)
	if err != nil {
		return condition{}, ErrInvalidIFSyntax
	}
	op, rest := conditionOperator(toks[1:])
	if op == "" || strings.Trim(op, comparisonChars) != "" {
		return condition{}, ErrInvalidIFSyntax
	}

	sign := 1.0
	if len(rest) == 2 && rest[0].Kind == TokenOperator && rest[0].Prefix && (rest[0].Text == "-" || rest[0].Text == "+") {
		if rest[0].Text == "-" {
			sign = -1
		}
		rest = rest[1:]
	}
	if len(rest) != 1 || rest[0].Kind != TokenLiteral || !rest[0].Numeric {
		return condition{}, ErrInvalidIFSyntax
	}
	n, err := strconv.ParseFloat(rest[0].Text, 64)
	if err != nil {
		return condition{}, ErrInvalidIFSyntax
	}
	if _, ok := comparePrograms[op]; !ok {
		return condition{}, ErrInvalidOperator
	}
	return condition{ref: ref, op: op, threshold: sign * n}, ErrNone
}

// conditionOperator склеивает оператор из лексем после ссылки. efp знает не все
// сравнения: "A1!=5" приходит как ссылка, литерал "!", инфикс "=", число, а
// "A1!5" как ссылка и литерал "!5". Поэтому голые литералы из символов сравнения
// тоже часть оператора, а хвост литерала после них становится порогом.
func conditionOperator(toks []Token) (string, []Token) {
	var op strings.Builder
	for i, t := range toks {
		switch {
		case t.Kind == TokenOperator && !t.Prefix:
			op.WriteString(t.Text)
		case t.Kind == TokenLiteral && !t.Quoted && !t.Numeric:
			tail := strings.TrimLeft(t.Text, comparisonChars)
			op.WriteString(t.Text[:len(t.Text)-len(tail)])
			if tail == t.Text {
				return op.String(), toks[i:]
			}
			if tail != "" {
				_, err := strconv.ParseFloat(tail, 64)
				rest := append([]Token{{Kind: TokenLiteral, Text: tail, Numeric: err == nil}}, toks[i+1:]...)
				return op.String(), rest
			}
		default:
			return op.String(), toks[i:]
		}
	}
	return op.String(), nil
}

// literal — ветка IF возвращается как есть, без вычисления.
// Кавычки строк efp уже снял, удвоенные кавычки внутри раскрыл.
func literal(toks []Token) string {
	if len(toks) == 1 && toks[0].Quoted {
		return toks[0].Text
	}
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Text)
	}
	return strings.TrimSpace(b.String())
}

func evalIF(e *Engine, ctx *evalContext, formula string) Result {
	args, ok := callArgs(formula)
	if !ok || len(args) != 3 {
		return errResult(ErrInvalidIFSyntax)
	}
	cond, kind := parseCondition(args[0])
	if kind != ErrNone {
		return errResult(kind)
	}

	if !ctx.guard.Enter(cond.ref) {
		return errResult(ErrCircularReference)
	}
	defer ctx.guard.Leave(cond.ref)

	v, res := e.coordValue(ctx, cond.ref, true)
	if res.Failed() {
		return res
	}
	// Нечисловой операнд не удовлетворяет ни одному сравнению
	matched := false
	if n, ok := v.Number(); ok {
		b, err := compare(cond.op, n, cond.threshold)
		if err != nil {
			return errResult(ErrInvalidOperator)
		}
		matched = b
	}
	if matched {
		return valueResult(Text(literal(args[1])))
	}
	return valueResult(Text(literal(args[2])))
}

func powerOperand(toks []Token) (Coord, bool) {
	if len(toks) != 1 || toks[0].Kind != TokenCellRef {
		return Coord{}, false
	}
	c, err := DecodeReference(toks[0].Text)
	return c, err == nil
}

func evalPower(e *Engine, ctx *evalContext, formula string) Result {
	args, ok := callArgs(formula)
	if !ok || len(args) != 2 {
		return errResult(ErrInvalidPowerSyntax)
	}
	base, ok1 := powerOperand(args[0])
	exp, ok2 := powerOperand(args[1])
	if !ok1 || !ok2 {
		return errResult(ErrInvalidPowerSyntax)
	}
	if ctx.guard.Has(base) || ctx.guard.Has(exp) {
		return errResult(ErrCircularReference)
	}
	ctx.guard.Enter(base)
	defer ctx.guard.Leave(base)
	if exp != base {
		ctx.guard.Enter(exp)
		defer ctx.guard.Leave(exp)
	}

	bv, res := e.coordValue(ctx, base, true)
	if res.Failed() {
		return res
	}
	ev, res := e.coordValue(ctx, exp, true)
	if res.Failed() {
		return res
	}
	return valueResult(Number(math.Pow(powerNumber(bv), powerNumber(ev))))
}

// powerNumber: пусто — 0, текст — NaN (результат станет "NaN")
func powerNumber(v Value) float64 {
	if v.IsEmpty() {
		return 0
	}
	if n, ok := v.Number(); ok {
		return n
	}
	return math.NaN()
}
