package constraint

import (
	"fmt"
	"math"
	"strconv"
)

// Rule names reported in Violation.Rule.
const (
	RuleRequired  = "required"
	RuleMinLength = "min_length"
	RuleMaxLength = "max_length"
	RuleMin       = "min"
	RuleMax       = "max"
)

// Descriptor pairs a Value with the rules it must satisfy. Every rule is
// optional; a nil bound or a false Required means the rule is absent.
//
// Length rules only apply to text values and range rules only apply to
// numbers. A rule aimed at the other variant is treated as satisfied.
type Descriptor struct {
	Value     Value
	Required  bool
	MinLength *int
	MaxLength *int
	Min       *float64
	Max       *float64
}

// Violation describes one failed rule.
type Violation struct {
	Rule    string
	Message string
}

// Ptr returns a pointer to v, for filling the optional bounds of a Descriptor.
func Ptr[T any](v T) *T {
	return &v
}

// Validate reports whether d.Value satisfies every rule present in d.
// It never panics and has no side effects.
func Validate(d Descriptor) bool {
	return len(Check(d)) == 0
}

// Check evaluates every rule present in d and returns the ones that failed,
// in rule order (required, min_length, max_length, min, max). The result is
// nil when the value is valid.
func Check(d Descriptor) []Violation {
	var out []Violation

	if d.Required && d.Value.trimmedLen() == 0 {
		out = append(out, Violation{Rule: RuleRequired, Message: "is required"})
	}

	if _, ok := d.Value.Text(); ok {
		n := d.Value.trimmedLen()
		if d.MinLength != nil && n < *d.MinLength {
			out = append(out, Violation{
				Rule:    RuleMinLength,
				Message: fmt.Sprintf("must be at least %d characters", *d.MinLength),
			})
		}
		if d.MaxLength != nil && n > *d.MaxLength {
			out = append(out, Violation{
				Rule:    RuleMaxLength,
				Message: fmt.Sprintf("must be at most %d characters", *d.MaxLength),
			})
		}
	}

	if num, ok := d.Value.Number(); ok {
		// NaN compares false against every bound, so it fails any range rule.
		nan := math.IsNaN(num)
		if d.Min != nil && (nan || num < *d.Min) {
			out = append(out, Violation{
				Rule:    RuleMin,
				Message: "must be at least " + formatBound(*d.Min),
			})
		}
		if d.Max != nil && (nan || num > *d.Max) {
			out = append(out, Violation{
				Rule:    RuleMax,
				Message: "must be at most " + formatBound(*d.Max),
			})
		}
	}

	return out
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
