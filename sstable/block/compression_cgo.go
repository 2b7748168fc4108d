// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

//go:build cgo && !sstabledecodergozstd
// +build cgo,!sstabledecodergozstd

package block

import (
	"github.com/DataDog/zstd"
	"github.com/dataflowlabs/sstabledecoder/internal/base"
)

type zstdDecompressor struct{}

func (zstdDecompressor) DecompressedLen(payload []byte) (int, error) {
	// DataDog/zstd doesn't expose the decompressed size without a frame
	// header parse of its own, so we round-trip through its streaming
	// decompressor to size the buffer.
	out, err := zstd.Decompress(nil, payload)
	if err != nil {
		return 0, err
	}
	return len(out), nil
}

func (zstdDecompressor) DecompressInto(dst, payload []byte) error {
	n, err := zstd.DecompressInto(dst, payload)
	if err != nil {
		return err
	}
	if n != len(dst) {
		return base.CorruptionErrorf("sstabledecoder/block: zstd decompressed %d bytes, expected %d", n, len(dst))
	}
	return nil
}
