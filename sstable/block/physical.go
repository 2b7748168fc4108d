// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package block implements the physical framing that wraps runs of
// format-A/format-M decoder bytes on disk (§11 of SPEC_FULL.md): a
// compressed, checksummed, trailer-terminated span of an io.ReaderAt.
package block

import (
	"encoding/binary"

	"github.com/dataflowlabs/sstabledecoder/internal/base"
)

// BlockType identifies the compression codec a physical block's payload was
// written with, stored as the first byte of the block's Trailer.
type BlockType byte

const (
	NoCompressionBlockType BlockType = 0
	SnappyBlockType        BlockType = 1
	ZstdBlockType          BlockType = 2
	MinLZBlockType         BlockType = 3
)

// TrailerLen is the fixed size of the trailer appended to every physical
// block: one BlockType byte followed by an 8-byte little-endian xxhash64
// checksum of the compressed payload and that BlockType byte.
const TrailerLen = 1 + 8

// Trailer is the decoded form of a physical block's fixed-size trailer.
type Trailer struct {
	Type     BlockType
	Checksum uint64
}

// ReadTrailer decodes the last TrailerLen bytes of b.
func ReadTrailer(b []byte) (Trailer, error) {
	if len(b) < TrailerLen {
		return Trailer{}, base.CorruptionErrorf("sstabledecoder/block: block of length %d too short for trailer", len(b))
	}
	t := b[len(b)-TrailerLen:]
	return Trailer{
		Type:     BlockType(t[0]),
		Checksum: binary.LittleEndian.Uint64(t[1:]),
	}, nil
}

// WriteTrailer appends a trailer for the given payload to dst, computing its
// checksum with the same Checksummer that Checksummer.Validate (and so
// PhysicalReader.ReadAndDecompress) validates against.
func WriteTrailer(dst []byte, typ BlockType, payload []byte) []byte {
	sum := NewChecksummer().Checksum(payload, byte(typ))
	dst = append(dst, byte(typ))
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], sum)
	return append(dst, buf[:]...)
}

// PhysicalBlock is a block as stored on disk: LengthWithoutTrailer bytes of
// (possibly compressed) payload followed by a Trailer.
type PhysicalBlock struct {
	raw []byte
}

// NewPhysicalBlock wraps raw, which must include the trailer.
func NewPhysicalBlock(raw []byte) PhysicalBlock { return PhysicalBlock{raw: raw} }

// LengthWithTrailer returns the total on-disk length of the block.
func (b PhysicalBlock) LengthWithTrailer() int { return len(b.raw) }

// Payload returns the block's bytes excluding the trailer, still in whatever
// compression Trailer.Type names.
func (b PhysicalBlock) Payload() []byte { return b.raw[:len(b.raw)-TrailerLen] }

// Trailer decodes the block's trailer.
func (b PhysicalBlock) Trailer() (Trailer, error) { return ReadTrailer(b.raw) }
