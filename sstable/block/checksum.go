// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package block

import (
	"github.com/cespare/xxhash/v2"
	"github.com/dataflowlabs/sstabledecoder/internal/base"
	"github.com/dataflowlabs/sstabledecoder/internal/bitflip"
)

// Checksummer computes and validates the xxhash64 checksum stored in every
// physical block's Trailer, grounded on block.Checksummer's
// compute-then-validate split in the teacher's sstable/block package.
type Checksummer struct{}

// NewChecksummer returns a Checksummer. It carries no state; the type exists
// so future checksum algorithms can be added without changing call sites.
func NewChecksummer() Checksummer { return Checksummer{} }

// Checksum computes the checksum of payload, folding in the trailing
// BlockType byte the way the on-disk trailer format requires so that a
// flipped type byte is also caught.
func (Checksummer) Checksum(payload []byte, typ byte) uint64 {
	h := xxhash.New()
	h.Write(payload)
	h.Write([]byte{typ})
	return h.Sum64()
}

// Validate reports a *base.CorruptionError if b's stored checksum doesn't
// match its payload, using internal/bitflip to name the exact flipped bit
// when the corruption is a single-bit flip (the common case for storage
// media bit rot).
func (c Checksummer) Validate(b PhysicalBlock) error {
	trailer, err := b.Trailer()
	if err != nil {
		return err
	}
	payload := b.Payload()
	got := c.Checksum(payload, byte(trailer.Type))
	if got == trailer.Checksum {
		return nil
	}
	typ := byte(trailer.Type)
	compute := func(data []byte) uint64 { return c.Checksum(data, typ) }
	if found, index, bit := bitflip.CheckSliceForBitFlip(payload, compute, trailer.Checksum); found {
		return base.CorruptionErrorf(
			"sstabledecoder/block: checksum mismatch (single bit flip at byte %d, bit %d): computed 0x%x, stored 0x%x",
			index, bit, got, trailer.Checksum)
	}
	return base.CorruptionErrorf(
		"sstabledecoder/block: checksum mismatch: computed 0x%x, stored 0x%x", got, trailer.Checksum)
}
