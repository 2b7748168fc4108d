// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"context"
	"fmt"

	errorspkg "github.com/dataflowlabs/sstabledecoder/errors"
	"github.com/dataflowlabs/sstabledecoder/internal/invariants"
)

// InputStream is the I/O collaborator (§6). It supplies byte buffers of
// arbitrary size and alignment, in order, and signals end of stream by
// returning a zero-length buffer with a nil error. It is never called
// concurrently with itself by a single Decoder.
type InputStream interface {
	NextChunk(ctx context.Context) ([]byte, error)
}

// stepOutcome tells the driver what a stateProcessor needs next.
type stepOutcome uint8

const (
	// stepAdvanced means the processor made progress and is safe to call
	// again immediately, even with an empty buffer: either it consumed only
	// part of the offered data and stopped at a natural boundary, or it made
	// a transition that needed no bytes at all. This is the idiomatic-Go
	// replacement for the source's separate non_consuming() predicate (§9):
	// instead of the driver asking the processor whether its current state
	// can advance without input, the processor just says so directly in its
	// return value.
	stepAdvanced stepOutcome = iota
	// stepNeedMoreData means the processor drained all of the offered data
	// mid-primitive and cannot proceed until the driver pulls another chunk.
	stepNeedMoreData
	// stepStopped means a consumer callback returned ProceedNo; the
	// processor has already transitioned to the state that following event
	// will resume from.
	stepStopped
)

// stateProcessor is implemented by the two format-specific decoders. The
// driver holds an instance of it rather than inheriting from it, replacing
// the source's CRTP-style self-inheritance (§9).
type stateProcessor interface {
	// step advances as far as possible through data, a view into the
	// driver's current buffer, calling consumer callbacks as it completes
	// each event. It returns how many leading bytes of data it consumed.
	step(data []byte) (consumed int, outcome stepOutcome, err error)
	// verifyEndState is invoked once the input stream is exhausted (and the
	// byte budget was not). It returns a *base.CorruptionError unless the
	// processor is parked at a state legal to end on; it may also synthesize
	// trailing consumer events, e.g. format-A's implicit final row end.
	verifyEndState() error
	// reset repositions the processor (and, through it, the consumer) after
	// an external seek (§4.2).
	reset(element ResetElement) error
}

// Outcome describes why a call to Decoder.Run returned.
type Outcome uint8

const (
	// OutcomeStopped means a consumer callback returned ProceedNo. Calling
	// Run again resumes at the following event; no event is repeated or
	// skipped (§5's cooperative back-pressure contract).
	OutcomeStopped Outcome = iota
	// OutcomeBudgetExhausted means MaxLen bytes were read from the input
	// stream. The decoder may be mid-partition; verifyEndState was not
	// called, and Run will not resume this decoder further (§5).
	OutcomeBudgetExhausted
	// OutcomeEndOfStream means the input stream returned an empty final
	// buffer and the resulting state was legal to end on.
	OutcomeEndOfStream
)

// Decoder is the continuous decoder driver (§4.2). It owns the InputStream,
// a byte budget, and drives a stateProcessor until the consumer pauses, the
// budget is exhausted, or the stream ends. A Decoder is single-threaded: it
// must not be driven from more than one goroutine at a time.
type Decoder struct {
	stream  InputStream
	proc    stateProcessor
	tracker ResourceTracker

	unlimited bool
	budget    int64
	bytesRead int64

	buf    []byte
	closed bool
}

func newDecoder(stream InputStream, proc stateProcessor, opts ReaderOptions) *Decoder {
	d := &Decoder{
		stream:  stream,
		proc:    proc,
		tracker: opts.resourceTracker(),
		budget:  opts.MaxLen,
	}
	if opts.MaxLen <= 0 {
		d.unlimited = true
	}
	return d
}

// NewDecoderA constructs a Decoder for the legacy format-A wire dialect.
func NewDecoderA(stream InputStream, consumer ConsumerA, opts ReaderOptions) *Decoder {
	return newDecoder(stream, newFormatA(consumer, opts.tracer()), opts)
}

// NewDecoderM constructs a Decoder for the newer format-M wire dialect.
func NewDecoderM(stream InputStream, consumer ConsumerM, opts ReaderOptions) *Decoder {
	return newDecoder(stream, newFormatM(consumer, opts.tracer(), opts.Translation, opts.Header), opts)
}

// Run drives the decoder until the consumer pauses (OutcomeStopped), the
// byte budget is exhausted (OutcomeBudgetExhausted), or the input stream
// ends at a legal state (OutcomeEndOfStream). Calling Run again after
// OutcomeStopped resumes exactly where the previous call left off; calling
// it again after either of the other two outcomes is a programming error.
func (d *Decoder) Run(ctx context.Context) (Outcome, error) {
	for {
		if err := ctx.Err(); err != nil {
			d.release()
			return 0, err
		}
		if len(d.buf) == 0 {
			if !d.unlimited && d.bytesRead >= d.budget {
				return OutcomeBudgetExhausted, nil
			}
			chunk, err := d.stream.NextChunk(ctx)
			if err != nil {
				d.release()
				return 0, err
			}
			if len(chunk) == 0 {
				if err := d.proc.verifyEndState(); err != nil {
					d.release()
					return 0, err
				}
				d.release()
				return OutcomeEndOfStream, nil
			}
			if remain := d.budget - d.bytesRead; !d.unlimited && int64(len(chunk)) > remain {
				chunk = chunk[:remain]
			}
			d.bytesRead += int64(len(chunk))
			d.buf = chunk
		}

		consumed, outcome, err := d.proc.step(d.buf)
		if invariants.Enabled && consumed > len(d.buf) {
			panic(errorspkg.InvariantError{Err: fmt.Errorf(
				"sstabledecoder: stateProcessor consumed %d bytes from a %d-byte buffer", consumed, len(d.buf))})
		}
		d.buf = d.buf[consumed:]
		if err != nil {
			d.release()
			return 0, err
		}
		switch outcome {
		case stepStopped:
			return OutcomeStopped, nil
		case stepNeedMoreData, stepAdvanced:
			continue
		default:
			// Reachable only if a stateProcessor returns a stepOutcome this
			// switch doesn't know about, which is a programming error in the
			// processor rather than anything the input bytes could cause.
			panic(errorspkg.InvariantError{Err: fmt.Errorf(
				"sstabledecoder: stateProcessor returned unknown outcome %d", outcome)})
		}
	}
}

// Reset repositions the decoder (and its consumer, via the processor) to
// element after an external seek, discarding any buffered bytes and
// in-flight primitive state (§4.2).
func (d *Decoder) Reset(element ResetElement) error {
	d.buf = nil
	return d.proc.reset(element)
}

// Close releases the decoder's resource tracker. It is safe to call more
// than once and safe to call after Run has already released it.
func (d *Decoder) Close() {
	d.release()
}

func (d *Decoder) release() {
	if d.closed {
		return
	}
	d.closed = true
	d.tracker.Release()
}
