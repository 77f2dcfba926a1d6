package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// OptionalNumber is a numeric form field as the storefront submits it.
// The form layer sends a real number, a numeric string, an empty string,
// null, or omits the field entirely. Everything that is not a finite
// number decodes as "absent". Zero and negative numbers are present
// values; whether they are acceptable is the validator's call.
type OptionalNumber struct {
	value float64
	set   bool
}

// Num builds a present OptionalNumber. Non-finite input yields an absent one.
func Num(v float64) OptionalNumber {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return OptionalNumber{}
	}
	return OptionalNumber{value: v, set: true}
}

// NoNum is the absent value.
func NoNum() OptionalNumber {
	return OptionalNumber{}
}

// Get returns the numeric value and whether one is present.
func (n OptionalNumber) Get() (float64, bool) {
	return n.value, n.set
}

// Or returns the value when present, otherwise fallback.
func (n OptionalNumber) Or(fallback float64) float64 {
	if n.set {
		return n.value
	}
	return fallback
}

func (n *OptionalNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = OptionalNumber{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*n = OptionalNumber{}
			return nil
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			*n = OptionalNumber{}
			return nil
		}
		*n = OptionalNumber{value: v, set: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Num(v)
	return nil
}

func (n OptionalNumber) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}
