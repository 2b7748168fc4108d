// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package block

import (
	"github.com/dataflowlabs/sstabledecoder/internal/base"
	"github.com/golang/snappy"
	"github.com/minio/minlz"
)

// Decompressor turns a physical block's payload back into the plain
// format-A/format-M byte stream the decoder consumes. There is one
// implementation per BlockType; zstdDecompressor (the only one with a cgo and a
// non-cgo variant) lives in compression_cgo.go/compression_nocgo.go,
// grounded on the teacher's identically-named split in
// sstable/block/compression_cgo.go and compression_nocgo.go.
type Decompressor interface {
	// DecompressedLen returns the length the payload will occupy once
	// decompressed, so the caller can size dst exactly.
	DecompressedLen(payload []byte) (int, error)
	// DecompressInto decompresses payload into dst, which must already be
	// sized to DecompressedLen(payload).
	DecompressInto(dst, payload []byte) error
}

// GetDecompressor returns the Decompressor for typ, or an
// *base.UnsupportedError if typ isn't one this decoder implements.
func GetDecompressor(typ BlockType) (Decompressor, error) {
	switch typ {
	case NoCompressionBlockType:
		return noopDecompressor{}, nil
	case SnappyBlockType:
		return snappyDecompressor{}, nil
	case ZstdBlockType:
		return zstdDecompressor{}, nil
	case MinLZBlockType:
		return minlzDecompressor{}, nil
	default:
		return nil, base.UnsupportedErrorf("sstabledecoder/block: unknown block type %d", typ)
	}
}

// Decompress is a convenience wrapper that looks up the right Decompressor
// for typ, sizes a destination buffer, and decompresses payload into it.
func Decompress(typ BlockType, payload []byte) ([]byte, error) {
	d, err := GetDecompressor(typ)
	if err != nil {
		return nil, err
	}
	n, err := d.DecompressedLen(payload)
	if err != nil {
		return nil, base.CorruptionErrorf("sstabledecoder/block: %s", err)
	}
	dst := make([]byte, n)
	if err := d.DecompressInto(dst, payload); err != nil {
		return nil, base.CorruptionErrorf("sstabledecoder/block: %s", err)
	}
	return dst, nil
}

type noopDecompressor struct{}

func (noopDecompressor) DecompressedLen(payload []byte) (int, error) { return len(payload), nil }

func (noopDecompressor) DecompressInto(dst, payload []byte) error {
	copy(dst, payload)
	return nil
}

type snappyDecompressor struct{}

func (snappyDecompressor) DecompressedLen(payload []byte) (int, error) {
	return snappy.DecodedLen(payload)
}

func (snappyDecompressor) DecompressInto(dst, payload []byte) error {
	result, err := snappy.Decode(dst, payload)
	if err != nil {
		return err
	}
	if len(result) != len(dst) || (len(result) > 0 && &result[0] != &dst[0]) {
		return base.CorruptionErrorf("sstabledecoder/block: decompressed into unexpected buffer")
	}
	return nil
}

type minlzDecompressor struct{}

func (minlzDecompressor) DecompressedLen(payload []byte) (int, error) {
	return minlz.DecodedLen(payload)
}

func (minlzDecompressor) DecompressInto(dst, payload []byte) error {
	result, err := minlz.Decode(dst, payload)
	if err != nil {
		return err
	}
	if len(result) != len(dst) || (len(result) > 0 && &result[0] != &dst[0]) {
		return base.CorruptionErrorf("sstabledecoder/block: decompressed into unexpected buffer")
	}
	return nil
}
