// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package block

import (
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/require"

	"github.com/dataflowlabs/sstabledecoder/internal/base"
)

func buildPhysicalBlock(t *testing.T, typ BlockType, payload []byte) []byte {
	t.Helper()
	raw := append([]byte{}, payload...)
	raw = WriteTrailer(raw, typ, payload)
	return raw
}

func TestPhysicalBlockRoundTrip(t *testing.T) {
	payload := []byte("hello, sstable")
	raw := buildPhysicalBlock(t, NoCompressionBlockType, payload)

	pb := NewPhysicalBlock(raw)
	require.Equal(t, len(raw), pb.LengthWithTrailer())
	require.Equal(t, payload, pb.Payload())

	trailer, err := pb.Trailer()
	require.NoError(t, err)
	require.Equal(t, NoCompressionBlockType, trailer.Type)

	require.NoError(t, NewChecksummer().Validate(pb))
}

func TestChecksumMismatchIsCorruption(t *testing.T) {
	payload := []byte("hello, sstable")
	raw := buildPhysicalBlock(t, NoCompressionBlockType, payload)
	// Corrupt a payload byte without touching the trailer.
	raw[0] ^= 0xFF

	pb := NewPhysicalBlock(raw)
	err := NewChecksummer().Validate(pb)
	require.Error(t, err)
	require.True(t, base.IsCorruptionError(err))
}

func TestChecksumMismatchReportsSingleBitFlip(t *testing.T) {
	payload := []byte("hello, sstable, this payload is long enough to matter")
	raw := buildPhysicalBlock(t, NoCompressionBlockType, payload)
	raw[3] ^= 0x04 // flip exactly one bit

	pb := NewPhysicalBlock(raw)
	err := NewChecksummer().Validate(pb)
	require.Error(t, err)
	require.True(t, base.IsCorruptionError(err))
	require.Contains(t, err.Error(), "single bit flip")
}

func TestTrailerTooShort(t *testing.T) {
	_, err := ReadTrailer([]byte{0x01, 0x02})
	require.Error(t, err)
	require.True(t, base.IsCorruptionError(err))
}

func TestDecompressNoCompression(t *testing.T) {
	payload := []byte("plain bytes")
	out, err := Decompress(NoCompressionBlockType, payload)
	require.NoError(t, err)
	require.Equal(t, payload, out)
}

func TestDecompressSnappy(t *testing.T) {
	payload := []byte("some data that compresses reasonably well well well well")
	compressed := snappy.Encode(nil, payload)

	out, err := Decompress(SnappyBlockType, compressed)
	require.NoError(t, err)
	require.Equal(t, payload, out)
}

func TestGetDecompressorUnknownType(t *testing.T) {
	_, err := GetDecompressor(BlockType(99))
	require.Error(t, err)
	require.True(t, base.IsUnsupportedError(err))
}
