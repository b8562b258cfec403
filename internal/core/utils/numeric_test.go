package utils_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lorrc/task-analytics/internal/core/utils"
	"github.com/stretchr/testify/assert"
)

func TestToFloat(t *testing.T) {
	var nilFloat *float64
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"nil", nil, 0},
		{"nil pointer", nilFloat, 0},
		{"NaN", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 0},
		{"int", 7, 7},
		{"int64", int64(12), 12},
		{"float", 2.5, 2.5},
		{"numeric string", " 3.25 ", 3.25},
		{"non numeric string", "abc", 0},
		{"big int", big.NewInt(42), 42},
		{"invalid numeric", pgtype.Numeric{}, 0},
		{"numeric", pgtype.Numeric{Int: big.NewInt(125), Exp: -1, Valid: true}, 12.5},
		{"null float8", pgtype.Float8{}, 0},
		{"unsupported type", struct{}{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, utils.ToFloat(tt.input), 1e-9)
		})
	}
}

func TestToInt64(t *testing.T) {
	assert.Equal(t, int64(3), utils.ToInt64(3.9))
	assert.Equal(t, int64(0), utils.ToInt64(nil))
	assert.Equal(t, int64(5), utils.ToInt64(pgtype.Int8{Int64: 5, Valid: true}))
	assert.Equal(t, int64(9), utils.ToInt64("9"))
}

func TestFromNullNumeric(t *testing.T) {
	assert.Nil(t, utils.FromNullNumeric(pgtype.Numeric{}))
	assert.Nil(t, utils.FromNullNumeric(pgtype.Numeric{NaN: true, Valid: true}))

	value := utils.FromNullNumeric(pgtype.Numeric{Int: big.NewInt(15), Exp: -1, Valid: true})
	if assert.NotNil(t, value) {
		assert.InDelta(t, 1.5, *value, 1e-9)
	}
}
