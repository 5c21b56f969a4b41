package controller

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

var (
	// ErrMissing значение отсутствует в claims
	ErrMissing = errors.New("value is missing")
	// ErrCast значение нельзя привести к нужному типу
	ErrCast = errors.New("value cannot be converted")
)

// castTo приводит значение claim к T. Числа из JSON приходят как float64,
// идентификаторы как строки, поэтому поддерживаются оба направления.
func castTo[T any](v any) (T, error) {
	var zero T
	if t, ok := v.(T); ok {
		return t, nil
	}

	var out any
	var err error
	switch any(zero).(type) {
	case string:
		out = toString(v)
	case int:
		var n int64
		n, err = toInt64(v)
		out = int(n)
	case int64:
		out, err = toInt64(v)
	case float64:
		out, err = strconv.ParseFloat(fmt.Sprint(v), 64)
	case bool:
		out, err = strconv.ParseBool(fmt.Sprint(v))
	case uuid.UUID:
		out, err = uuid.Parse(fmt.Sprint(v))
	default:
		return zero, fmt.Errorf("%w: %T to %T", ErrCast, v, zero)
	}
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrCast, err)
	}
	return out.(T), nil
}

// toString печатает числа из JSON без экспоненты: 1234567, а не 1.234567e+06.
func toString(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return strconv.ParseInt(fmt.Sprint(v), 10, 64)
	}
}
