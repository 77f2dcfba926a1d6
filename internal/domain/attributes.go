package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// AttributeSet maps an attribute name to the selected value, e.g.
// {"size": "M"}. The persisted shape is always a plain object; the form
// state layer sometimes serializes its Map representation as an array of
// [key, value] pairs, and that shape is accepted on decode too.
type AttributeSet map[string]string

func (a *AttributeSet) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err == nil {
		out := make(AttributeSet, len(obj))
		for k, raw := range obj {
			v, err := decodeAttributeValue(raw)
			if err != nil {
				return fmt.Errorf("attribute %q: %w", k, err)
			}
			out[k] = v
		}
		*a = out
		return nil
	}

	// Map serialized as [["size","M"], ...]
	var pairs [][]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("attributes must be an object or a pair array")
	}
	out := make(AttributeSet, len(pairs))
	for _, pair := range pairs {
		if len(pair) != 2 {
			return fmt.Errorf("attribute pair must have exactly two entries")
		}
		var key string
		if err := json.Unmarshal(pair[0], &key); err != nil {
			return fmt.Errorf("attribute pair key: %w", err)
		}
		v, err := decodeAttributeValue(pair[1])
		if err != nil {
			return fmt.Errorf("attribute %q: %w", key, err)
		}
		out[key] = v
	}
	*a = out
	return nil
}

func decodeAttributeValue(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b), nil
	}
	return "", fmt.Errorf("value must be a string, number or bool")
}
