// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package source implements sstable.InputStream over an on-disk data file
// made of consecutive physical blocks, the concrete I/O layer SPEC_FULL.md
// §11 places outside the decoder package proper so the decoder never links
// against compression or checksum code.
package source

import (
	"context"
	"io"

	"github.com/dataflowlabs/sstabledecoder/internal/base"
	"github.com/dataflowlabs/sstabledecoder/sstable/block"
)

// Extent names one physical block's location within the underlying file:
// its byte offset and its length including the trailer. A real deployment
// would recover these from the data file's footer/index; FileSource does not
// read any footer or index and takes them from the caller as an explicit
// plan.
type Extent struct {
	Offset            int64
	LengthWithTrailer int64
}

// FileSource is sstable.InputStream implemented over an io.ReaderAt and a
// fixed sequence of block Extents, grounded on the teacher's split between
// table.Reader (owns the file) and its per-block read path
// (sstable/block/block.go's readBlockInternal): here that split becomes
// FileSource owning the file and delegating each block's checksum and
// decompression to block.PhysicalReader.
type FileSource struct {
	reader  *block.PhysicalReader
	extents []Extent
	next    int
}

// NewFileSource returns a FileSource that will hand the decoder the
// decompressed payload of each extent in order.
func NewFileSource(r io.ReaderAt, extents []Extent) *FileSource {
	return &FileSource{reader: block.NewPhysicalReader(r), extents: extents}
}

// NextChunk implements sstable.InputStream.
func (s *FileSource) NextChunk(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.extents) {
		return nil, nil
	}
	e := s.extents[s.next]
	s.next++
	if e.LengthWithTrailer < block.TrailerLen {
		return nil, base.CorruptionErrorf("sstabledecoder/source: extent %d length %d shorter than trailer", s.next-1, e.LengthWithTrailer)
	}
	payload, err := s.reader.ReadAndDecompress(e.Offset, int(e.LengthWithTrailer))
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Remaining reports how many extents have not yet been delivered, useful
// for progress reporting in cmd/sstabledump.
func (s *FileSource) Remaining() int { return len(s.extents) - s.next }
