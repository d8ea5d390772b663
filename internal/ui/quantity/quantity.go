// Package quantity implements the clamped stepper behaviour behind the
// storefront's plus/minus quantity controls.
package quantity

import (
	"strconv"
	"strings"
)

// Defaults applied when an input carries no min/max/step attributes.
const (
	DefaultMin  = 1
	DefaultMax  = 999
	DefaultStep = 1
)

// Field holds the bounds of one quantity input, read once from its
// attributes and cached for the life of the page.
type Field struct {
	Min  float64
	Max  float64
	Step float64
}

// FieldFromAttrs builds a Field from raw attribute strings. Empty or
// malformed attributes fall back to the defaults.
func FieldFromAttrs(minAttr, maxAttr, stepAttr string) Field {
	return Field{
		Min:  parseAttr(minAttr, DefaultMin),
		Max:  parseAttr(maxAttr, DefaultMax),
		Step: parseAttr(stepAttr, DefaultStep),
	}
}

func parseAttr(raw string, fallback float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// Increment returns current+Step, or current unchanged when the step would
// cross Max. A step never clamps to a mid-range value.
func (f Field) Increment(current float64) float64 {
	next := current + f.Step
	if next > f.Max {
		return current
	}
	return next
}

// Decrement returns current-Step, or current unchanged when the step would
// cross Min.
func (f Field) Decrement(current float64) float64 {
	next := current - f.Step
	if next < f.Min {
		return current
	}
	return next
}

// Validate normalises a raw input value: non-numeric or empty input resets to
// Min, numeric input clamps to the nearest bound.
func (f Field) Validate(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return f.Min
	}
	return f.Clamp(v)
}

// Clamp bounds v to [Min, Max].
func (f Field) Clamp(v float64) float64 {
	if v < f.Min {
		return f.Min
	}
	if v > f.Max {
		return f.Max
	}
	return v
}
