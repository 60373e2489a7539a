package activity

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// record is one decoded event: the top level fields plus the nested
// eventData payload, which may be absent.
type record struct {
	top  map[string]any
	data map[string]any
}

func newRecord(v any) (record, bool) {
	top, ok := v.(map[string]any)
	if !ok {
		return record{}, false
	}
	data, _ := top["eventData"].(map[string]any)
	if data == nil {
		data = map[string]any{}
	}
	return record{top: top, data: data}, true
}

// get returns the first truthy value of key, looking in the payload
// before the top level.
func (r record) get(key string) any {
	if v := r.data[key]; truthy(v) {
		return v
	}
	if v := r.top[key]; truthy(v) {
		return v
	}
	return nil
}

// first returns the first truthy value among keys.
func (r record) first(keys ...string) any {
	for _, k := range keys {
		if v := r.get(k); v != nil {
			return v
		}
	}
	return nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	}
	return true
}

func str(v any, def string) string {
	switch x := v.(type) {
	case nil:
		return def
	case string:
		if x == "" {
			return def
		}
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func optStr(v any) *string {
	if !truthy(v) {
		return nil
	}
	s := str(v, "")
	return &s
}

func num(v any, def float64) float64 {
	switch x := v.(type) {
	case float64:
		if x != 0 {
			return x
		}
	case int:
		if x != 0 {
			return float64(x)
		}
	case int64:
		if x != 0 {
			return float64(x)
		}
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil && f != 0 {
			return f
		}
	}
	return def
}

// Decode converts a typed value into its generic JSON form, the shape the
// formatters accept.
func Decode(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
