// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"context"
	"encoding/binary"
	"fmt"
)

// chunkedStream is an InputStream over a fixed byte slice, splitting it into
// chunks of a caller-chosen size to exercise the decoder's independence from
// exactly where chunk boundaries fall (§4.2's chunking-boundary invariant).
type chunkedStream struct {
	data      []byte
	chunk     int
	pos       int
	exhausted bool
}

func newChunkedStream(data []byte, chunkSize int) *chunkedStream {
	if chunkSize <= 0 {
		chunkSize = len(data) + 1
	}
	return &chunkedStream{data: data, chunk: chunkSize}
}

func (s *chunkedStream) NextChunk(ctx context.Context) ([]byte, error) {
	if s.pos >= len(s.data) {
		s.exhausted = true
		return nil, nil
	}
	end := s.pos + s.chunk
	if end > len(s.data) {
		end = len(s.data)
	}
	chunk := s.data[s.pos:end]
	s.pos = end
	return chunk, nil
}

func putU32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func putU64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

func putShortBytes(dst []byte, v []byte) []byte {
	dst = putU16(dst, uint16(len(v)))
	return append(dst, v...)
}

func putLongBytes(dst []byte, v []byte) []byte {
	dst = putU32(dst, uint32(len(v)))
	return append(dst, v...)
}

func putVarint(dst []byte, v uint64) []byte {
	return encodeVarint(dst, v)
}

func putU16(dst []byte, v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

// event records one callback invocation, for tests that just want a
// flattened trace to assert against.
type event struct {
	kind string
	args []interface{}
}

func (e event) String() string {
	return fmt.Sprintf("%s%v", e.kind, e.args)
}

// recordingConsumerA implements ConsumerA, appending a trace event per
// callback and returning a caller-controlled Proceed value, so tests can
// exercise the ProceedNo pause/resume contract.
type recordingConsumerA struct {
	events    []event
	pauseAt   int // stop the Nth callback with ProceedNo (0 means never)
	callCount int
}

func (c *recordingConsumerA) record(kind string, args ...interface{}) Proceed {
	c.callCount++
	c.events = append(c.events, event{kind: kind, args: args})
	if c.pauseAt != 0 && c.callCount == c.pauseAt {
		return ProceedNo
	}
	return ProceedYes
}

func (c *recordingConsumerA) ConsumeRowStart(key []byte, dt DeletionTime) Proceed {
	return c.record("row_start", string(key), dt)
}
func (c *recordingConsumerA) ConsumeCell(name, value []byte, timestamp int64, ttl, localDeletionTime uint32) Proceed {
	return c.record("cell", string(name), string(value), timestamp, ttl, localDeletionTime)
}
func (c *recordingConsumerA) ConsumeCounterCell(name, value []byte, timestamp int64) Proceed {
	return c.record("counter_cell", string(name), string(value), timestamp)
}
func (c *recordingConsumerA) ConsumeDeletedCell(name []byte, dt DeletionTime) Proceed {
	return c.record("deleted_cell", string(name), dt)
}
func (c *recordingConsumerA) ConsumeShadowableRowTombstone(name []byte, dt DeletionTime) Proceed {
	return c.record("shadowable_row_tombstone", string(name), dt)
}
func (c *recordingConsumerA) ConsumeRangeTombstone(start, end []byte, dt DeletionTime) Proceed {
	return c.record("range_tombstone", string(start), string(end), dt)
}
func (c *recordingConsumerA) ConsumeRowEnd() Proceed {
	return c.record("row_end")
}
func (c *recordingConsumerA) Reset(element ResetElement) {
	c.record("reset", element)
}

// recordingConsumerM is the format-M equivalent of recordingConsumerA.
type recordingConsumerM struct {
	events    []event
	pauseAt   int
	callCount int
}

func (c *recordingConsumerM) record(kind string, args ...interface{}) Proceed {
	c.callCount++
	c.events = append(c.events, event{kind: kind, args: args})
	if c.pauseAt != 0 && c.callCount == c.pauseAt {
		return ProceedNo
	}
	return ProceedYes
}

func (c *recordingConsumerM) ConsumePartitionStart(key []byte, dt DeletionTime) Proceed {
	return c.record("partition_start", string(key), dt)
}
func (c *recordingConsumerM) ConsumePartitionEnd() Proceed {
	return c.record("partition_end")
}
func (c *recordingConsumerM) ConsumeStaticRowStart() Proceed {
	return c.record("static_row_start")
}
func (c *recordingConsumerM) ConsumeRowStart(clustering []ClusteringBlock) Proceed {
	values := make([]string, len(clustering))
	for i, cb := range clustering {
		if cb.Empty {
			values[i] = "<empty>"
		} else {
			values[i] = string(cb.Value)
		}
	}
	return c.record("row_start", values)
}
func (c *recordingConsumerM) ConsumeColumn(columnID int, hasValue bool, value []byte, timestamp int64, ttl, localDeletionTime uint32) Proceed {
	return c.record("column", columnID, hasValue, string(value), timestamp, ttl, localDeletionTime)
}
func (c *recordingConsumerM) ConsumeRowEnd(liveness LivenessInfo) Proceed {
	return c.record("row_end", liveness)
}
func (c *recordingConsumerM) Reset(element ResetElement) {
	c.record("reset", element)
}

// staticTranslation is a minimal ColumnTranslation for tests.
type staticTranslation struct {
	clustering []int
	static     []ColumnSpec
	regular    []ColumnSpec
}

func (t staticTranslation) ClusteringColumns() []int      { return t.clustering }
func (t staticTranslation) StaticColumnCount() int        { return len(t.static) }
func (t staticTranslation) StaticColumn(i int) ColumnSpec { return t.static[i] }
func (t staticTranslation) RegularColumnCount() int       { return len(t.regular) }
func (t staticTranslation) RegularColumn(i int) ColumnSpec { return t.regular[i] }
