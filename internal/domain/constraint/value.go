// Package constraint evaluates declarative field constraints against scalar
// values. It has no state: every call to Validate or Check is a pure function
// of its Descriptor.
//
//	ok := constraint.Validate(constraint.Descriptor{
//	    Value:     constraint.Text(title),
//	    Required:  true,
//	    MaxLength: constraint.Ptr(100),
//	})
package constraint

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// Kind identifies which variant a Value holds.
type Kind int

// Value variants. The zero Kind is KindText so the zero Value is Text("").
const (
	KindText Kind = iota
	KindNumber
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Value is a tagged scalar holding either text or a number.
// Construct it with Text or Number.
type Value struct {
	kind   Kind
	text   string
	number float64
}

// Text returns a text-variant Value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number returns a number-variant Value.
func Number(n float64) Value {
	return Value{kind: KindNumber, number: n}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// Text returns the text and true when v is the text variant.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// Number returns the number and true when v is the number variant.
func (v Value) Number() (float64, bool) {
	return v.number, v.kind == KindNumber
}

// String stringifies v. Numbers use the shortest decimal representation
// (3, 2.5, -0.25).
func (v Value) String() string {
	if v.kind == KindNumber {
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	}
	return v.text
}

// trimmedLen is the length in UTF-16 code units of the stringified value
// with surrounding whitespace removed. Characters outside the Basic
// Multilingual Plane, such as most emoji, count as two.
func (v Value) trimmedLen() int {
	n := 0
	for _, r := range strings.TrimFunc(v.String(), isTrimmable) {
		n += utf16.RuneLen(r)
	}
	return n
}

// isTrimmable reports Unicode white space and the byte order mark. NEL
// (U+0085) is not white space for length rules.
func isTrimmable(r rune) bool {
	return r == '\uFEFF' || (unicode.IsSpace(r) && r != '\u0085')
}
