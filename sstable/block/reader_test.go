// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package block

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPhysicalReaderReadAndDecompress(t *testing.T) {
	payload := []byte("partition bytes go here")
	block1 := buildPhysicalBlock(t, NoCompressionBlockType, payload)

	var file bytes.Buffer
	file.Write(block1)

	pr := NewPhysicalReader(bytes.NewReader(file.Bytes()))
	got, err := pr.ReadAndDecompress(0, len(block1))
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestPhysicalReaderPropagatesChecksumError(t *testing.T) {
	payload := []byte("partition bytes")
	block1 := buildPhysicalBlock(t, NoCompressionBlockType, payload)
	block1[0] ^= 0xFF

	pr := NewPhysicalReader(bytes.NewReader(block1))
	_, err := pr.ReadAndDecompress(0, len(block1))
	require.Error(t, err)
}
