// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package block

import "io"

// PhysicalReader reads and validates physical blocks from an io.ReaderAt,
// mirroring the teacher's split between the on-disk PhysicalBlock framing
// (physical.go) and the read path that fetches it (sstable/block/block.go's
// readBlockInternal).
type PhysicalReader struct {
	r           io.ReaderAt
	checksummer Checksummer
}

// NewPhysicalReader returns a PhysicalReader over r.
func NewPhysicalReader(r io.ReaderAt) *PhysicalReader {
	return &PhysicalReader{r: r, checksummer: NewChecksummer()}
}

// ReadAndDecompress reads the length-and-trailer-framed physical block at
// [offset, offset+lengthWithTrailer), validates its checksum, and returns
// its decompressed payload.
func (pr *PhysicalReader) ReadAndDecompress(offset int64, lengthWithTrailer int) ([]byte, error) {
	raw := make([]byte, lengthWithTrailer)
	if _, err := pr.r.ReadAt(raw, offset); err != nil {
		return nil, err
	}
	pb := NewPhysicalBlock(raw)
	if err := pr.checksummer.Validate(pb); err != nil {
		return nil, err
	}
	trailer, err := pb.Trailer()
	if err != nil {
		return nil, err
	}
	payload, err := Decompress(trailer.Type, pb.Payload())
	if err != nil {
		return nil, err
	}
	return payload, nil
}
