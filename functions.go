package gridcalc

import (
	"math"
	"sort"
	"strings"
)

// AggregateFunc считает результат по значениям присутствующих ячеек прямоугольника,
// переданным построчно. Отсутствующие координаты в срез не попадают.
type AggregateFunc func(values []Value) Value

// numbers отбирает конечные числа. Пустые и нечисловые ячейки пропускаются,
// а не превращаются в ноль.
func numbers(values []Value) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if n, ok := v.Number(); ok {
			out = append(out, n)
		}
	}
	return out
}

func defaultAggregates() map[string]AggregateFunc {
	return map[string]AggregateFunc{
		"sum":     aggSum,
		"average": aggAverage,
		"min":     aggMin,
		"max":     aggMax,
		"count":   aggCount,
		"counta":  aggCountA,
		"product": aggProduct,
		"stdev":   aggStdev,
		"median":  aggMedian,
		"concat":  aggConcat,
	}
}

func aggSum(values []Value) Value {
	sum := 0.0
	for _, n := range numbers(values) {
		sum += n
	}
	return Number(sum)
}

func aggAverage(values []Value) Value {
	nums := numbers(values)
	if len(nums) == 0 {
		return Number(0)
	}
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return Number(sum / float64(len(nums)))
}

func aggMin(values []Value) Value {
	m := math.Inf(1)
	for _, n := range numbers(values) {
		m = math.Min(m, n)
	}
	if math.IsInf(m, 1) {
		return Number(0)
	}
	return Number(m)
}

func aggMax(values []Value) Value {
	m := math.Inf(-1)
	for _, n := range numbers(values) {
		m = math.Max(m, n)
	}
	if math.IsInf(m, -1) {
		return Number(0)
	}
	return Number(m)
}

func aggCount(values []Value) Value {
	return Number(float64(len(numbers(values))))
}

func aggCountA(values []Value) Value {
	n := 0
	for _, v := range values {
		if v.String() != "" {
			n++
		}
	}
	return Number(float64(n))
}

func aggProduct(values []Value) Value {
	p := 1.0
	for _, n := range numbers(values) {
		p *= n
	}
	return Number(p)
}

// aggStdev — стандартное отклонение генеральной совокупности
func aggStdev(values []Value) Value {
	nums := numbers(values)
	if len(nums) == 0 {
		return Number(0)
	}
	mean := 0.0
	for _, n := range nums {
		mean += n
	}
	mean /= float64(len(nums))
	sq := 0.0
	for _, n := range nums {
		sq += (n - mean) * (n - mean)
	}
	return Number(math.Sqrt(sq / float64(len(nums))))
}

func aggMedian(values []Value) Value {
	nums := numbers(values)
	if len(nums) == 0 {
		return Number(0)
	}
	sort.Float64s(nums)
	mid := len(nums) / 2
	if len(nums)%2 == 0 {
		return Number((nums[mid-1] + nums[mid]) / 2)
	}
	return Number(nums[mid])
}

// aggConcat склеивает сырые значения всех ячеек, без фильтра по типу
func aggConcat(values []Value) Value {
	var sb strings.Builder
	for _, v := range values {
		sb.WriteString(v.String())
	}
	return Text(sb.String())
}
