// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package source

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dataflowlabs/sstabledecoder/sstable/block"
)

func writeBlock(t *testing.T, payload []byte) []byte {
	t.Helper()
	raw := append([]byte{}, payload...)
	return block.WriteTrailer(raw, block.NoCompressionBlockType, payload)
}

func TestFileSourceDeliversExtentsInOrder(t *testing.T) {
	p1 := []byte("first chunk of bytes")
	p2 := []byte("second chunk")

	b1 := writeBlock(t, p1)
	b2 := writeBlock(t, p2)

	var file bytes.Buffer
	file.Write(b1)
	file.Write(b2)

	extents := []Extent{
		{Offset: 0, LengthWithTrailer: int64(len(b1))},
		{Offset: int64(len(b1)), LengthWithTrailer: int64(len(b2))},
	}
	src := NewFileSource(bytes.NewReader(file.Bytes()), extents)

	chunk1, err := src.NextChunk(context.Background())
	require.NoError(t, err)
	require.Equal(t, p1, chunk1)
	require.Equal(t, 1, src.Remaining())

	chunk2, err := src.NextChunk(context.Background())
	require.NoError(t, err)
	require.Equal(t, p2, chunk2)
	require.Equal(t, 0, src.Remaining())

	chunk3, err := src.NextChunk(context.Background())
	require.NoError(t, err)
	require.Empty(t, chunk3)
}

func TestReaderSourceChunksAndSignalsEOF(t *testing.T) {
	data := []byte("abcdefghijklmno")
	r := bytes.NewReader(data)
	src := NewReaderSource(r, 4)

	var got []byte
	for {
		chunk, err := src.NextChunk(context.Background())
		require.NoError(t, err)
		if len(chunk) == 0 {
			break
		}
		got = append(got, chunk...)
	}
	require.Equal(t, data, got)
}
