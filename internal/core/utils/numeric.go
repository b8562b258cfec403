package utils

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// ToFloat coerces a loosely typed numeric value into a finite float64.
// nil, NaN, infinities and unparseable values all become 0.
func ToFloat(v any) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case *float64:
		if n == nil {
			return 0
		}
		f = *n
	case *int64:
		if n == nil {
			return 0
		}
		f = float64(*n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case *big.Int:
		if n == nil {
			return 0
		}
		f, _ = new(big.Float).SetInt(n).Float64()
	case big.Int:
		f, _ = new(big.Float).SetInt(&n).Float64()
	case pgtype.Numeric:
		if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite {
			return 0
		}
		value, err := n.Float64Value()
		if err != nil || !value.Valid {
			return 0
		}
		f = value.Float64
	case pgtype.Float8:
		if !n.Valid {
			return 0
		}
		f = n.Float64
	case pgtype.Int8:
		if !n.Valid {
			return 0
		}
		f = float64(n.Int64)
	case pgtype.Int4:
		if !n.Valid {
			return 0
		}
		f = float64(n.Int32)
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ToInt64 coerces a loosely typed numeric value into an int64, truncating
// fractions. Values that ToFloat treats as 0 are 0 here too.
func ToInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case pgtype.Int8:
		if !n.Valid {
			return 0
		}
		return n.Int64
	}
	return int64(ToFloat(v))
}
