// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"encoding/binary"
	"math/bits"

	"github.com/dataflowlabs/sstabledecoder/internal/invariants"
)

// The primitives in this file are the resumable byte-reader building blocks
// of §4.1: each one accepts a view into whatever bytes are currently
// buffered and reports whether it has enough to produce a value. When it
// doesn't, it retains just enough state to pick up where it left off the
// next time it's fed more bytes — there is no separate "prestate" object;
// each primitive is its own prestate, in the spirit of record.Reader's
// begin/end/n cursor in record/record.go.

// fixedIntState reads a big-endian unsigned integer of a fixed width (1, 2,
// 4, or 8 bytes), accumulating partial reads across chunk boundaries.
type fixedIntState struct {
	width int
	acc   [8]byte
	n     int
}

// reset prepares the state to read a width-byte integer from scratch.
func (s *fixedIntState) reset(width int) {
	s.width = width
	s.n = 0
}

// feed consumes a prefix of data, returning how many bytes it used and
// whether the integer is now fully assembled.
func (s *fixedIntState) feed(data []byte) (consumed int, ready bool) {
	// s.n never exceeds s.width; SafeSub turns a violation of that into a
	// loud panic in invariant builds instead of a silently wrong negative
	// take count.
	take := invariants.SafeSub(s.width, s.n)
	if take > len(data) {
		take = len(data)
	}
	copy(s.acc[s.n:], data[:take])
	s.n += take
	return take, s.n == s.width
}

func (s *fixedIntState) uint8() uint8   { return s.acc[0] }
func (s *fixedIntState) uint16() uint16 { return binary.BigEndian.Uint16(s.acc[:2]) }
func (s *fixedIntState) uint32() uint32 { return binary.BigEndian.Uint32(s.acc[:4]) }
func (s *fixedIntState) uint64() uint64 { return binary.BigEndian.Uint64(s.acc[:8]) }

// bytesState reads exactly length bytes, either as a zero-copy borrowed
// slice of the caller's buffer (when all of it is already contiguous) or,
// when the run spans a chunk boundary, into a freshly allocated owned
// buffer that accumulates across calls.
type bytesState struct {
	length   int
	started  bool
	owned    []byte
	borrowed []byte
	got      int
}

// reset prepares the state to read exactly n bytes from scratch.
func (s *bytesState) reset(n int) {
	*s = bytesState{length: n}
}

func (s *bytesState) feed(data []byte) (consumed int, ready bool) {
	if s.length == 0 {
		s.borrowed = data[:0]
		return 0, true
	}
	if !s.started {
		s.started = true
		if len(data) >= s.length {
			s.borrowed = data[:s.length]
			return s.length, true
		}
		s.owned = make([]byte, s.length)
	}
	take := invariants.SafeSub(s.length, s.got)
	if take > len(data) {
		take = len(data)
	}
	copy(s.owned[s.got:], data[:take])
	s.got += take
	return take, s.got == s.length
}

// bytes returns the fully-read run. The result is only valid for the
// duration of the callback it was produced for (§4.5's borrow contract) when
// it is a borrowed (zero-copy) slice.
func (s *bytesState) bytes() []byte {
	if s.borrowed != nil {
		return s.borrowed
	}
	return s.owned
}

// shortBytesState reads a u16 length prefix followed by that many bytes
// (§4.1's "short-length-prefixed bytes").
type shortBytesState struct {
	lenState fixedIntState
	haveLen  bool
	payload  bytesState
}

// reset prepares the state to read a fresh length-prefixed run.
func (s *shortBytesState) reset() {
	s.lenState.reset(2)
	s.haveLen = false
	s.payload = bytesState{}
}

func (s *shortBytesState) feed(data []byte) (consumed int, ready bool) {
	if !s.haveLen {
		n, ok := s.lenState.feed(data)
		consumed += n
		data = data[n:]
		if !ok {
			return consumed, false
		}
		s.haveLen = true
		s.payload.reset(int(s.lenState.uint16()))
	}
	n, ok := s.payload.feed(data)
	consumed += n
	return consumed, ok
}

func (s *shortBytesState) bytes() []byte { return s.payload.bytes() }

// longBytesState reads a u32 length prefix followed by that many bytes
// (§4.1's "long-length-prefixed bytes", format-A's cell value encoding).
type longBytesState struct {
	lenState fixedIntState
	haveLen  bool
	payload  bytesState
}

// reset prepares the state to read a fresh length-prefixed run.
func (s *longBytesState) reset() {
	s.lenState.reset(4)
	s.haveLen = false
	s.payload = bytesState{}
}

func (s *longBytesState) feed(data []byte) (consumed int, ready bool) {
	if !s.haveLen {
		n, ok := s.lenState.feed(data)
		consumed += n
		data = data[n:]
		if !ok {
			return consumed, false
		}
		s.haveLen = true
		s.payload.reset(int(s.lenState.uint32()))
	}
	n, ok := s.payload.feed(data)
	consumed += n
	return consumed, ok
}

func (s *longBytesState) bytes() []byte { return s.payload.bytes() }

// varintState reads Cassandra/Scylla-style unsigned vints: the number of
// leading one-bits in the first byte gives the count of additional bytes (0
// to 8), and the remaining low bits of the first byte hold the high-order
// bits of the value; see SPEC_FULL.md §12 and
// original_source/sstables/row.hh's read_unsigned_vint call sites.
type varintState struct {
	started bool
	extra   int // number of bytes beyond the first (0-8)
	n       int // total bytes collected so far, including the first
	acc     [9]byte
}

// reset prepares the state to read a fresh varint.
func (s *varintState) reset() {
	*s = varintState{}
}

func (s *varintState) feed(data []byte) (consumed int, ready bool) {
	if !s.started {
		if len(data) == 0 {
			return 0, false
		}
		first := data[0]
		s.acc[0] = first
		s.n = 1
		s.extra = bits.LeadingZeros8(^first)
		s.started = true
		data = data[1:]
		consumed = 1
	}
	need := s.extra + 1 - s.n
	take := need
	if take > len(data) {
		take = len(data)
	}
	copy(s.acc[s.n:], data[:take])
	s.n += take
	consumed += take
	return consumed, s.n == s.extra+1
}

// value returns the decoded unsigned value; it fits in a uint64 per §4.1.
func (s *varintState) value() uint64 {
	if s.extra == 0 {
		return uint64(s.acc[0])
	}
	var firstMask byte
	if s.extra < 8 {
		firstMask = 0xFF >> uint(s.extra+1)
	}
	v := uint64(s.acc[0] & firstMask)
	for i := 1; i <= s.extra; i++ {
		v = v<<8 | uint64(s.acc[i])
	}
	return v
}

// vintBytesState reads a vint-length-prefixed byte run, format-M's
// value-encoding shape (§4.4.2): unlike format-A's fixed-width (u16/u32)
// length prefixes, column values are prefixed with their length as a vint.
type vintBytesState struct {
	lenState varintState
	haveLen  bool
	payload  bytesState
}

// reset prepares the state to read a fresh vint-length-prefixed run.
func (s *vintBytesState) reset() {
	s.lenState.reset()
	s.haveLen = false
	s.payload = bytesState{}
}

func (s *vintBytesState) feed(data []byte) (consumed int, ready bool) {
	if !s.haveLen {
		n, ok := s.lenState.feed(data)
		consumed += n
		data = data[n:]
		if !ok {
			return consumed, false
		}
		s.haveLen = true
		s.payload.reset(int(s.lenState.value()))
	}
	n, ok := s.payload.feed(data)
	consumed += n
	return consumed, ok
}

func (s *vintBytesState) bytes() []byte { return s.payload.bytes() }

// encodeVarint appends the vint encoding of v to dst, using the same scheme
// varintState decodes. It's used by tests to build fixtures without
// hand-computing byte patterns.
func encodeVarint(dst []byte, v uint64) []byte {
	// Find the fewest extra bytes such that v fits: the first byte holds
	// 7-extra value bits after its extra+1 length bits, plus 8 bits per extra
	// byte, i.e. 7*(extra+1) bits, capped at 8 extra bytes (64 data bits, at
	// which point the first byte holds no value bits at all).
	extra := 0
	for extra < 8 && v>>uint(7*(extra+1)) != 0 {
		extra++
	}
	buf := make([]byte, 1+extra)
	if extra == 8 {
		buf[0] = 0xFF
	} else {
		marker := byte(0xFF << uint(8-extra))
		buf[0] = marker | byte(v>>uint(8*extra))
	}
	for i := extra; i >= 1; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	return append(dst, buf...)
}
