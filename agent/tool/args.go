package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// stringArg returns the trimmed argument, or "" when it is missing.
func stringArg(args map[string]any, key string) string {
	raw, ok := args[key]
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(raw))
}

// intArg accepts JSON numbers and numeric strings. Missing or blank values
// yield def.
func intArg(args map[string]any, key string, def int) (int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return def, nil
	}

	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int64ToInt(key, v)
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, fmt.Errorf("%s must be a whole number, got %v", key, v)
		}
		// float64(math.MaxInt) rounds up to 2^63, so the upper bound is exclusive.
		if v < math.MinInt || v >= math.MaxInt {
			return 0, fmt.Errorf("%s is out of range: %v", key, v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s must be a whole number: %w", key, err)
		}
		return int64ToInt(key, n)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return def, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%s must be a whole number: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s has unsupported type %T", key, raw)
	}
}

func int64ToInt(key string, v int64) (int, error) {
	if v < math.MinInt || v > math.MaxInt {
		return 0, fmt.Errorf("%s is out of range: %d", key, v)
	}
	return int(v), nil
}

// decimalArg reads an amount. Missing, blank and non-positive values mean
// "no limit" and yield zero.
func decimalArg(args map[string]any, key string) (decimal.Decimal, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return decimal.Zero, nil
	}

	var (
		d   decimal.Decimal
		err error
	)
	switch v := raw.(type) {
	case float64:
		d = decimal.NewFromFloat(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	case string:
		s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), "₹"))
		if s == "" {
			return decimal.Zero, nil
		}
		d, err = decimal.NewFromString(s)
	default:
		return decimal.Zero, fmt.Errorf("%s has unsupported type %T", key, raw)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a number: %w", key, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, nil
	}
	return d, nil
}
