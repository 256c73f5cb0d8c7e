// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mtt

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	// ErrValidation is returned for malformed dimensions
	// or violations of the tree invariants.
	ErrValidation = errors.New("validation error")

	// ErrInvalidHistory is returned when a colored tree
	// implies an event inconsistent with the lineage counts.
	ErrInvalidHistory = errors.New("invalid history")

	// ErrNumerical is returned when a likelihood
	// can not be evaluated because of an invalid parameter value
	// (for example a non-positive population size).
	ErrNumerical = errors.New("numerical error")
)

// A ValidationError describes
// a malformed model or tree.
type ValidationError struct {
	// What is the object that fails the validation.
	What string

	// Msg is the description of the problem.
	Msg string
}

// Validation returns a new validation error.
func Validation(what, format string, a ...any) *ValidationError {
	return &ValidationError{
		What: what,
		Msg:  fmt.Sprintf(format, a...),
	}
}

func (e *ValidationError) Error() string {
	if e.What == "" {
		return e.Msg
	}
	return e.What + ": " + e.Msg
}

// Unwrap returns ErrValidation,
// so a ValidationError can be checked with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
