// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

// Format selects which of the two wire dialects a Decoder parses (§4).
type Format int

const (
	// FormatA is the legacy, atom-based dialect (§4.3).
	FormatA Format = iota
	// FormatM is the newer, unfiltered-based dialect (§4.4).
	FormatM
)

func (f Format) String() string {
	switch f {
	case FormatA:
		return "format-a"
	case FormatM:
		return "format-m"
	default:
		return "unknown-format"
	}
}

// ResourceTracker is the opaque handle §5 says the consumer contract
// exposes to the I/O collaborator; the decoder never inspects it beyond
// releasing it exactly once: when Run returns an error (cancellation
// included) or reaches end of stream, or on Close, whichever comes first.
type ResourceTracker interface {
	Release()
}

type noopResourceTracker struct{}

func (noopResourceTracker) Release() {}

// ReaderOptions bundles the knobs a Decoder needs beyond its InputStream and
// consumer, in the field-per-knob, documented-zero-value style of
// sstable.ReaderOptions.
type ReaderOptions struct {
	// Format selects the wire dialect. The zero value is FormatA.
	Format Format
	// MaxLen bounds the total number of bytes the Decoder will take from its
	// InputStream across its lifetime (§5); a chunk that crosses the limit
	// is cut short at it. Zero (the default) means unlimited.
	MaxLen int64
	// Tracer receives sub-debug tracing events. Nil means DiscardTracer.
	Tracer Tracer
	// ResourceTracker is released exactly once: when Run returns an error
	// (cancellation included) or reaches end of stream, or when the Decoder
	// is closed. Nil means a no-op tracker.
	ResourceTracker ResourceTracker
	// Translation supplies the schema collaborator for FormatM (§6); it is
	// ignored for FormatA, which carries no schema-dependent column layout.
	Translation ColumnTranslation
	// Header supplies the serialization header base values for FormatM
	// (§4.4.2); it is ignored for FormatA.
	Header SerializationHeader
}

func (o ReaderOptions) tracer() Tracer {
	if o.Tracer == nil {
		return DiscardTracer{}
	}
	return o.Tracer
}

func (o ReaderOptions) resourceTracker() ResourceTracker {
	if o.ResourceTracker == nil {
		return noopResourceTracker{}
	}
	return o.ResourceTracker
}
