package gridcalc_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikitaxru/gridcalc"
)

func TestValueNumberFilter(t *testing.T) {
	n, ok := gridcalc.ParseValue(" 5 ").Number()
	require.True(t, ok)
	assert.Equal(t, 5.0, n)

	for _, v := range []gridcalc.Value{{}, gridcalc.Text("abc"), gridcalc.Text("   "), gridcalc.Number(math.Inf(1)), gridcalc.Text("NaN")} {
		_, ok := v.Number()
		assert.False(t, ok, "%v", v)
	}
}

func TestValueNaNIsText(t *testing.T) {
	v := gridcalc.Number(math.NaN())
	assert.Equal(t, gridcalc.KindText, v.Kind())
	assert.True(t, v.Equal(gridcalc.Number(math.NaN())))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "3", gridcalc.Number(3).String())
	assert.Equal(t, "2.5", gridcalc.Number(2.5).String())
	assert.Equal(t, "-0.125", gridcalc.Number(-0.125).String())
	assert.Equal(t, "", gridcalc.Value{}.String())
	assert.True(t, gridcalc.Text("").IsEmpty())
}

func TestResultDisplay(t *testing.T) {
	res := gridcalc.NewEngine(gridcalc.DefaultOptions()).Evaluate("sum(A1)", gridcalc.NewSnapshot(), gridcalc.NewGuard(gridcalc.Coord{Row: 1, Col: 1}))
	assert.True(t, res.Failed())
	assert.Equal(t, gridcalc.ErrCircularReference, res.Err)
	assert.Equal(t, gridcalc.MsgCircularReference, res.Computed().String())
	assert.Equal(t, "A1", gridcalc.Coord{Row: 1, Col: 1}.String())
	assert.Equal(t, "R0C0", gridcalc.Coord{}.String())
}
