package retrievers

import (
	"fmt"
	"strconv"
)

// StringParam returns params[key] as a string, or def if absent.
func StringParam(params map[string]any, key, def string) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &ParamError{Param: key, Message: fmt.Sprintf("expected string, got %T", v)}
	}
	return s, nil
}

// IntParam returns params[key] as an int, or def if absent. YAML decodes
// numbers as int or float64; both are accepted as are numeric strings.
func IntParam(params map[string]any, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, &ParamError{Param: key, Message: fmt.Sprintf("expected integer, got %v", n)}
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, &ParamError{Param: key, Message: fmt.Sprintf("expected integer, got %q", n)}
		}
		return i, nil
	default:
		return 0, &ParamError{Param: key, Message: fmt.Sprintf("expected integer, got %T", v)}
	}
}

// FloatParam returns params[key] as a float64, or def if absent.
func FloatParam(params map[string]any, key string, def float64) (float64, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, &ParamError{Param: key, Message: fmt.Sprintf("expected number, got %q", n)}
		}
		return f, nil
	default:
		return 0, &ParamError{Param: key, Message: fmt.Sprintf("expected number, got %T", v)}
	}
}
