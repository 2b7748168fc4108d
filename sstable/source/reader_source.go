// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package source

import (
	"context"
	"io"
)

// ReaderSource is sstable.InputStream implemented over a plain io.Reader,
// for the common case of a data file that carries no physical block framing
// of its own (already decompressed, or framed by an outer container this
// decoder doesn't need to know about). It deliberately hands the decoder
// arbitrarily-sized chunks — whatever a single Read call returns — to
// exercise the decoder's chunking-boundary independence rather than
// spoon-feed it record-aligned buffers.
type ReaderSource struct {
	r       io.Reader
	bufSize int
}

// NewReaderSource returns a ReaderSource reading from r in bufSize-byte
// chunks.
func NewReaderSource(r io.Reader, bufSize int) *ReaderSource {
	if bufSize <= 0 {
		bufSize = 32 << 10
	}
	return &ReaderSource{r: r, bufSize: bufSize}
}

// NextChunk implements sstable.InputStream.
func (s *ReaderSource) NextChunk(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]byte, s.bufSize)
	n, err := s.r.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err == io.EOF {
		return nil, nil
	}
	return nil, err
}
