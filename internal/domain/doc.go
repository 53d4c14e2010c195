// Package domain holds what every layer shares: the sentinel errors and the
// field-level ValidationError. Entities live in subpackages: project for the
// record and its factory, constraint for the field rule engine.
package domain
