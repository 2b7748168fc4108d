// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedIntStateChunked(t *testing.T) {
	var s fixedIntState
	s.reset(4)
	data := []byte{0x01, 0x02, 0x03, 0x04, 0xFF}

	// Feed one byte at a time to exercise resumption across arbitrary
	// chunking boundaries.
	total := 0
	for i := 0; i < len(data)-1; i++ {
		n, ready := s.feed(data[i : i+1])
		require.Equal(t, 1, n)
		total += n
		require.Equal(t, i == len(data)-2, ready)
	}
	require.Equal(t, uint32(0x01020304), s.uint32())
	require.Equal(t, 4, total)
}

func TestFixedIntStateWholeAtOnce(t *testing.T) {
	var s fixedIntState
	s.reset(8)
	data := []byte{0, 0, 0, 0, 0, 0, 0, 42, 0xAA}
	n, ready := s.feed(data)
	require.True(t, ready)
	require.Equal(t, 8, n)
	require.Equal(t, uint64(42), s.uint64())
}

func TestBytesStateZeroCopyBorrow(t *testing.T) {
	var s bytesState
	s.reset(3)
	data := []byte{'a', 'b', 'c', 'd'}
	n, ready := s.feed(data)
	require.True(t, ready)
	require.Equal(t, 3, n)
	require.Equal(t, []byte("abc"), s.bytes())
}

func TestBytesStateOwnedAcrossBoundary(t *testing.T) {
	var s bytesState
	s.reset(5)
	n1, ready := s.feed([]byte("ab"))
	require.False(t, ready)
	require.Equal(t, 2, n1)
	n2, ready := s.feed([]byte("cde"))
	require.True(t, ready)
	require.Equal(t, 3, n2)
	require.Equal(t, []byte("abcde"), s.bytes())
}

func TestBytesStateEmptyRun(t *testing.T) {
	var s bytesState
	s.reset(0)
	n, ready := s.feed([]byte("xyz"))
	require.True(t, ready)
	require.Equal(t, 0, n)
	require.Empty(t, s.bytes())
}

func TestShortBytesStateRoundTrip(t *testing.T) {
	var buf []byte
	buf = append(buf, 0x00, 0x03)
	buf = append(buf, 'f', 'o', 'o')

	var s shortBytesState
	s.reset()
	n, ready := s.feed(buf)
	require.True(t, ready)
	require.Equal(t, len(buf), n)
	require.Equal(t, []byte("foo"), s.bytes())
}

func TestShortBytesStateSplitAcrossLenAndPayload(t *testing.T) {
	buf := []byte{0x00, 0x02, 'h', 'i'}
	var s shortBytesState
	s.reset()

	n1, ready := s.feed(buf[:1])
	require.False(t, ready)
	n2, ready := s.feed(buf[1:3])
	require.False(t, ready)
	n3, ready := s.feed(buf[3:])
	require.True(t, ready)
	require.Equal(t, len(buf), n1+n2+n3)
	require.Equal(t, []byte("hi"), s.bytes())
}

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 63, 64, 127, 128, 1000, 1 << 20, 1<<32 - 1, 1 << 40, 1<<64 - 1}
	for _, v := range values {
		encoded := encodeVarint(nil, v)
		var s varintState
		s.reset()
		n, ready := s.feed(encoded)
		require.True(t, ready, "value %d", v)
		require.Equal(t, len(encoded), n)
		require.Equal(t, v, s.value(), "value %d encoded as % x", v, encoded)
	}
}

func TestVarintChunkedByte(t *testing.T) {
	encoded := encodeVarint(nil, 1<<40)
	require.Greater(t, len(encoded), 1)

	var s varintState
	s.reset()
	total := 0
	for i := range encoded {
		n, ready := s.feed(encoded[i : i+1])
		total += n
		require.Equal(t, i == len(encoded)-1, ready)
	}
	require.Equal(t, len(encoded), total)
	require.Equal(t, uint64(1<<40), s.value())
}

func TestVintBytesState(t *testing.T) {
	var buf []byte
	buf = encodeVarint(buf, 4)
	buf = append(buf, 'd', 'a', 't', 'a')

	var s vintBytesState
	s.reset()
	n, ready := s.feed(buf)
	require.True(t, ready)
	require.Equal(t, len(buf), n)
	require.Equal(t, []byte("data"), s.bytes())
}
