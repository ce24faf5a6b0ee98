package validation

import "strings"

// Violations maps field names to violation codes.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

func NotEmptyList(field string, length int, v Violations) {
	if length == 0 {
		v[field] = "empty"
	}
}
