package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerRangeRoundTrip(t *testing.T) {
	r := NewRange(NewIntegerLiteral(0), NewIntegerLiteral(7), To)

	assert.Equal(t, int64(0), r.Left().Value())
	assert.Equal(t, int64(7), r.Right().Value())
	assert.Equal(t, To, r.Direction())
	assert.True(t, r.Ascending())
	assert.Equal(t, "0 to 7", r.String())
}

func TestRealRangeRoundTrip(t *testing.T) {
	r := NewRange(NewFloatingPointLiteral(0.0), NewFloatingPointLiteral(1.0), To)

	assert.Equal(t, 0.0, r.Left().Value())
	assert.Equal(t, 1.0, r.Right().Value())
	assert.Equal(t, To, r.Direction())
	assert.Equal(t, "0.0 to 1.0", r.String())
}

func TestRangeIsNull(t *testing.T) {
	tests := []struct {
		name string
		rng  Constraint
		null bool
	}{
		{"ascending", NewRange(NewIntegerLiteral(0), NewIntegerLiteral(7), To), false},
		{"ascending null", NewRange(NewIntegerLiteral(7), NewIntegerLiteral(0), To), true},
		{"descending", NewRange(NewIntegerLiteral(7), NewIntegerLiteral(0), DownTo), false},
		{"descending null", NewRange(NewIntegerLiteral(0), NewIntegerLiteral(7), DownTo), true},
		{"single value", NewRange(NewIntegerLiteral(3), NewIntegerLiteral(3), DownTo), false},
		{"real null", NewRange(NewFloatingPointLiteral(1.5), NewFloatingPointLiteral(-1.5), To), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			type nuller interface{ IsNull() bool }
			r, ok := tt.rng.(nuller)
			require.True(t, ok)
			assert.Equal(t, tt.null, r.IsNull())
		})
	}
}

func TestLiteralsAreValues(t *testing.T) {
	assert.Equal(t, NewIntegerLiteral(42), NewIntegerLiteral(42))
	assert.NotEqual(t, NewIntegerLiteral(42), NewIntegerLiteral(43))
	assert.Equal(t, "42", NewIntegerLiteral(42).String())
	assert.Equal(t, "2.0", NewFloatingPointLiteral(2).String())
	assert.Equal(t, "'1'", NewCharacterLiteral('1').String())
	assert.Equal(t, `"say ""hi"""`, NewStringLiteral(`say "hi"`).String())
	assert.Equal(t, "10 ns", NewPhysicalLiteral(10, "ns").String())
}

func TestDescendingRangeString(t *testing.T) {
	r := NewRange(NewIntegerLiteral(7), NewIntegerLiteral(0), DownTo)
	assert.Equal(t, "7 downto 0", r.String())
	assert.False(t, r.Ascending())
}

func TestIndexSubtypeConstraintString(t *testing.T) {
	assert.Equal(t, "natural range <>", IndexSubtypeConstraint{TypeMark: "natural", Unbounded: true}.String())
	assert.Equal(t, "state_t", IndexSubtypeConstraint{TypeMark: "state_t"}.String())
}
