// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

// Tracer is the pluggable sub-debug tracing sink injected at decoder
// construction (§9's design note), narrower than base.Logger
// (internal/base/logger.go): decoding produces far more events than an
// operator wants in a log, so tracing gets its own no-op-by-default
// interface instead of sharing the logger.
type Tracer interface {
	Tracef(format string, args ...interface{})
}

// DiscardTracer is the default Tracer: it drops every call.
type DiscardTracer struct{}

func (DiscardTracer) Tracef(string, ...interface{}) {}
