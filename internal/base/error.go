// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"github.com/cockroachdb/errors"
)

// ErrNotFound means that a get or delete call did not find the requested key.
var ErrNotFound = errors.New("sstabledecoder: not found")

// CorruptionError is returned when the decoder observes a framing violation:
// an unexpected mask combination, a value of the wrong width, an end-of-stream
// reached at a disallowed state, or any other byte-level inconsistency that
// makes the input impossible to interpret as a well-formed data file.
type CorruptionError struct {
	err error
}

// Error implements the error interface.
func (e *CorruptionError) Error() string { return e.err.Error() }

// Unwrap supports errors.Is / errors.As over the wrapped descriptive error.
func (e *CorruptionError) Unwrap() error { return e.err }

// CorruptionErrorf constructs a *CorruptionError from a format string, in the
// same style as errors.Newf.
func CorruptionErrorf(format string, args ...interface{}) error {
	return &CorruptionError{err: errors.Newf(format, args...)}
}

// IsCorruptionError reports whether err (or something it wraps) is a
// *CorruptionError.
func IsCorruptionError(err error) bool {
	var c *CorruptionError
	return errors.As(err, &c)
}

// UnsupportedError is returned when the decoder recognizes a legal construct
// of the wire format that it does not (yet) know how to interpret, such as a
// counter-update mutation or a complex column.
type UnsupportedError struct {
	err error
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string { return e.err.Error() }

// Unwrap supports errors.Is / errors.As over the wrapped descriptive error.
func (e *UnsupportedError) Unwrap() error { return e.err }

// UnsupportedErrorf constructs an *UnsupportedError from a format string.
func UnsupportedErrorf(format string, args ...interface{}) error {
	return &UnsupportedError{err: errors.Newf(format, args...)}
}

// IsUnsupportedError reports whether err (or something it wraps) is an
// *UnsupportedError.
func IsUnsupportedError(err error) bool {
	var u *UnsupportedError
	return errors.As(err, &u)
}
