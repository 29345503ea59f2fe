package gridcalc

// ErrKind — вид ошибки вычисления формулы
type ErrKind int

const (
	ErrNone ErrKind = iota
	ErrCircularReference
	ErrInvalidIFSyntax
	ErrInvalidOperator
	ErrInvalidPowerSyntax
)

// Строки, которые видит пользователь в ячейке вместо значения
const (
	MsgCircularReference = "Circular reference detected"
	MsgInvalidIFSyntax   = "Invalid IF syntax"
	MsgInvalidOperator   = "Invalid operator"
	MsgInvalidPower      = "Invalid POWER syntax"
)

var errMessages = map[ErrKind]string{
	ErrCircularReference:  MsgCircularReference,
	ErrInvalidIFSyntax:    MsgInvalidIFSyntax,
	ErrInvalidOperator:    MsgInvalidOperator,
	ErrInvalidPowerSyntax: MsgInvalidPower,
}

func (k ErrKind) String() string {
	if m, ok := errMessages[k]; ok {
		return m
	}
	return ""
}

// Result — результат вычисления: либо значение, либо вид ошибки.
// Ошибка отличима от текстового результата до самой границы UI.
type Result struct {
	Value Value
	Err   ErrKind
}

func valueResult(v Value) Result { return Result{Value: v} }

func errResult(k ErrKind) Result { return Result{Err: k} }

func (r Result) Failed() bool { return r.Err != ErrNone }

// Display переводит результат в то, что хранится как computedValue ячейки:
// float64 либо string (включая строки ошибок).
func (r Result) Display() interface{} {
	if r.Failed() {
		return r.Err.String()
	}
	if r.Value.IsEmpty() {
		return ""
	}
	return r.Value.Interface()
}

// Computed — то же, что Display, но в виде Value для записи обратно в снимок
func (r Result) Computed() Value {
	if r.Failed() {
		return Text(r.Err.String())
	}
	return r.Value
}
