package constraint_test

import (
	"math"
	"testing"

	"github.com/jsamuelsen11/projectboard/internal/domain/constraint"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    constraint.Descriptor
		want bool
	}{
		{
			name: "empty descriptor is valid",
			d:    constraint.Descriptor{},
			want: true,
		},
		{
			name: "value only is valid",
			d:    constraint.Descriptor{Value: constraint.Text("anything")},
			want: true,
		},
		{
			name: "required empty text fails",
			d:    constraint.Descriptor{Value: constraint.Text(""), Required: true},
			want: false,
		},
		{
			name: "required whitespace-only text fails",
			d:    constraint.Descriptor{Value: constraint.Text(" \t\n "), Required: true},
			want: false,
		},
		{
			name: "required non-empty text passes",
			d:    constraint.Descriptor{Value: constraint.Text("x"), Required: true},
			want: true,
		},
		{
			name: "required number is stringified and passes",
			d:    constraint.Descriptor{Value: constraint.Number(0), Required: true},
			want: true,
		},
		{
			name: "min length not met",
			d:    constraint.Descriptor{Value: constraint.Text("abcd"), MinLength: constraint.Ptr(5)},
			want: false,
		},
		{
			name: "min length met exactly",
			d:    constraint.Descriptor{Value: constraint.Text("abcde"), MinLength: constraint.Ptr(5)},
			want: true,
		},
		{
			name: "min length counts trimmed text",
			d:    constraint.Descriptor{Value: constraint.Text("  abcd  "), MinLength: constraint.Ptr(5)},
			want: false,
		},
		{
			name: "max length exceeded",
			d:    constraint.Descriptor{Value: constraint.Text("abcdef"), MaxLength: constraint.Ptr(5)},
			want: false,
		},
		{
			name: "accented letter is one unit",
			d:    constraint.Descriptor{Value: constraint.Text("héllo"), MaxLength: constraint.Ptr(5)},
			want: true,
		},
		{
			name: "astral character is two units",
			d:    constraint.Descriptor{Value: constraint.Text("😀"), MaxLength: constraint.Ptr(1)},
			want: false,
		},
		{
			name: "astral character fits two",
			d:    constraint.Descriptor{Value: constraint.Text("😀"), MinLength: constraint.Ptr(2), MaxLength: constraint.Ptr(2)},
			want: true,
		},
		{
			name: "byte order mark trimmed",
			d:    constraint.Descriptor{Value: constraint.Text("\uFEFFab\uFEFF"), MaxLength: constraint.Ptr(2)},
			want: true,
		},
		{
			name: "byte order mark alone is empty",
			d:    constraint.Descriptor{Value: constraint.Text("\uFEFF \u00A0"), Required: true},
			want: false,
		},
		{
			name: "next line is not trimmed",
			d:    constraint.Descriptor{Value: constraint.Text("\u0085"), Required: true},
			want: true,
		},
		{
			name: "number within range",
			d:    constraint.Descriptor{Value: constraint.Number(3), Min: constraint.Ptr(1.0), Max: constraint.Ptr(5.0)},
			want: true,
		},
		{
			name: "number below min",
			d:    constraint.Descriptor{Value: constraint.Number(0), Min: constraint.Ptr(1.0), Max: constraint.Ptr(5.0)},
			want: false,
		},
		{
			name: "number above max",
			d:    constraint.Descriptor{Value: constraint.Number(6), Min: constraint.Ptr(1.0), Max: constraint.Ptr(5.0)},
			want: false,
		},
		{
			name: "number on both bounds",
			d:    constraint.Descriptor{Value: constraint.Number(1), Min: constraint.Ptr(1.0), Max: constraint.Ptr(1.0)},
			want: true,
		},
		{
			name: "NaN fails range rules",
			d:    constraint.Descriptor{Value: constraint.Number(math.NaN()), Min: constraint.Ptr(1.0)},
			want: false,
		},
		{
			name: "range rule ignored for text",
			d:    constraint.Descriptor{Value: constraint.Text("whatever"), Min: constraint.Ptr(1.0)},
			want: true,
		},
		{
			name: "length rule ignored for number",
			d:    constraint.Descriptor{Value: constraint.Number(123456), MaxLength: constraint.Ptr(2)},
			want: true,
		},
		{
			name: "all rules must hold",
			d: constraint.Descriptor{
				Value:     constraint.Text("ok"),
				Required:  true,
				MinLength: constraint.Ptr(3),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := constraint.Validate(tt.d); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheck_ReportsFailedRulesInOrder(t *testing.T) {
	t.Parallel()

	got := constraint.Check(constraint.Descriptor{
		Value:     constraint.Text("   "),
		Required:  true,
		MinLength: constraint.Ptr(2),
		MaxLength: constraint.Ptr(10),
	})

	wantRules := []string{constraint.RuleRequired, constraint.RuleMinLength}
	if len(got) != len(wantRules) {
		t.Fatalf("Check() returned %d violations, want %d: %+v", len(got), len(wantRules), got)
	}
	for i, rule := range wantRules {
		if got[i].Rule != rule {
			t.Errorf("violation[%d].Rule = %q, want %q", i, got[i].Rule, rule)
		}
	}
	if got[1].Message != "must be at least 2 characters" {
		t.Errorf("violation[1].Message = %q", got[1].Message)
	}
}

func TestCheck_RangeMessages(t *testing.T) {
	t.Parallel()

	got := constraint.Check(constraint.Descriptor{Value: constraint.Number(7.5), Max: constraint.Ptr(5.0)})
	if len(got) != 1 {
		t.Fatalf("Check() returned %d violations, want 1", len(got))
	}
	if got[0].Rule != constraint.RuleMax || got[0].Message != "must be at most 5" {
		t.Errorf("violation = %+v, want max / \"must be at most 5\"", got[0])
	}
}

func TestCheck_ValidReturnsNil(t *testing.T) {
	t.Parallel()

	if got := constraint.Check(constraint.Descriptor{Value: constraint.Number(2), Min: constraint.Ptr(1.0)}); got != nil {
		t.Errorf("Check() = %+v, want nil", got)
	}
}

func TestValue_Variants(t *testing.T) {
	t.Parallel()

	var zero constraint.Value
	if zero.Kind() != constraint.KindText {
		t.Errorf("zero Value kind = %v, want text", zero.Kind())
	}

	n := constraint.Number(2.5)
	if _, ok := n.Text(); ok {
		t.Error("Number(2.5).Text() ok = true, want false")
	}
	if v, ok := n.Number(); !ok || v != 2.5 {
		t.Errorf("Number(2.5).Number() = %v, %v", v, ok)
	}
	if n.String() != "2.5" {
		t.Errorf("Number(2.5).String() = %q, want %q", n.String(), "2.5")
	}
	if constraint.Number(3).String() != "3" {
		t.Errorf("Number(3).String() = %q, want %q", constraint.Number(3).String(), "3")
	}
	if constraint.KindNumber.String() != "number" {
		t.Errorf("KindNumber.String() = %q", constraint.KindNumber.String())
	}
}
