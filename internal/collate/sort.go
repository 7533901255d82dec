package collate

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Fielder exposes named values for sorting.
type Fielder interface {
	Field(name string) (any, bool)
}

// ByField orders items by the value of field. Numbers compare numerically,
// times chronologically and everything else by its string form. Items
// without the field sort last in either direction.
func ByField[T Fielder](field string, descending bool) func(a, b T) bool {
	return func(a, b T) bool {
		av, aok := present(a, field)
		bv, bok := present(b, field)
		switch {
		case !aok && !bok:
			return false
		case !aok:
			return false
		case !bok:
			return true
		}
		c := compareValues(av, bv)
		if descending {
			return c > 0
		}
		return c < 0
	}
}

func present[T Fielder](item T, field string) (any, bool) {
	value, ok := item.Field(field)
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

func compareValues(a, b any) int {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	if af, ok := number(a); ok {
		if bf, ok := number(b); ok {
			return cmp.Compare(af, bf)
		}
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		return 0, false
	default:
		f, err := strconv.ParseFloat(fmt.Sprint(n), 64)
		return f, err == nil
	}
}
