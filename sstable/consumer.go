// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import "math"

// Proceed is the cooperative back-pressure signal a consumer returns from
// every callback (§4.5). ProceedNo pauses the decoder immediately after the
// event that produced it; a later Run resumes at the next event without
// re-delivering or skipping any.
type Proceed bool

const (
	ProceedYes Proceed = true
	ProceedNo  Proceed = false
)

// DeletionTime is the (local_deletion_time, marked_for_delete_at) pair
// carried by row tombstones, range tombstones, and deleted cells. Both
// fields are read off the wire as fixed-width unsigned integers but carry
// signed semantics in the data model (§3): local_deletion_time's "live"
// sentinel is the maximum int32 value and marked_for_delete_at's is the
// minimum int64 value, so a live DeletionTime cannot be produced by any
// real deletion.
type DeletionTime struct {
	LocalDeletionTime uint32
	MarkedForDeleteAt int64
}

// LiveDeletionTime returns the sentinel value meaning "not deleted".
func LiveDeletionTime() DeletionTime {
	return DeletionTime{
		LocalDeletionTime: math.MaxInt32,
		MarkedForDeleteAt: math.MinInt64,
	}
}

// Live reports whether d is the live (not-deleted) sentinel.
func (d DeletionTime) Live() bool { return d == LiveDeletionTime() }

// noExpirySentinel is a column's local-deletion-time when it is neither
// deleted nor expiring (§4.4.3 step 2): the same "never" sentinel
// DeletionTime uses for its own LocalDeletionTime field.
const noExpirySentinel uint32 = math.MaxInt32

// LivenessInfo describes a row's own timestamp, TTL, and expiry, as carried
// by format-M row markers (§4.4.2, §4.5).
type LivenessInfo struct {
	Timestamp         int64
	TTL               uint32
	LocalDeletionTime uint32
}

// Live reports whether the row marker carries no liveness information at
// all (an all-zero marker, meaning "this row exists only because one of its
// cells does").
func (l LivenessInfo) Live() bool { return l == (LivenessInfo{}) }

// ClusteringBlock is one element of a format-M clustering key (§3, §4.4.1):
// either an empty block (Empty, flagged by the ck-blocks header) or a
// caller-owned or borrowed run of encoded key bytes.
type ClusteringBlock struct {
	Empty bool
	Value []byte
}

// ColumnSpec describes one statically-known column: its assigned id and,
// for fixed-width columns, the exact byte length the wire form carries with
// no length prefix. FixedLength is -1 for variable-length columns.
//
// ID is the translated column_id_opt a format-M stream's schema-relative
// ordinal maps to; it is what ConsumeColumn reports, not the ordinal itself.
// Complex marks a multi-cell collection column: the per-column loop refuses
// to parse these (§4.4.3) rather than silently misreading their layout.
type ColumnSpec struct {
	Name        string
	FixedLength int
	ID          int
	Complex     bool
}

// ColumnTranslation is the schema collaborator (§6): it maps the column
// ordinals a format-M row body enumerates onto the id/width pairs needed to
// parse each column's value, separately for static and regular columns, plus
// the fixed-width layout of the clustering key itself.
type ColumnTranslation interface {
	// ClusteringColumns returns the fixed lengths of the clustering key's
	// components, in key order; -1 marks a variable-length component.
	ClusteringColumns() []int
	// StaticColumnCount returns the number of statically-known static columns.
	StaticColumnCount() int
	// StaticColumn returns the spec for the ordinal-th static column.
	StaticColumn(ordinal int) ColumnSpec
	// RegularColumnCount returns the number of statically-known regular
	// columns.
	RegularColumnCount() int
	// RegularColumn returns the spec for the ordinal-th regular column.
	RegularColumn(ordinal int) ColumnSpec
}

// SerializationHeader carries the per-sstable base values format-M deltas
// are decoded against (§4.4.2): every on-wire timestamp, TTL, and local
// deletion time is a vint delta added to one of these bases.
type SerializationHeader struct {
	MinTimestamp         int64
	MinLocalDeletionTime uint32
	MinTTL               uint32
}

func (h SerializationHeader) parseTimestamp(delta uint64) int64 {
	return h.MinTimestamp + int64(delta)
}

func (h SerializationHeader) parseLocalDeletionTime(delta uint64) uint32 {
	return h.MinLocalDeletionTime + uint32(delta)
}

func (h SerializationHeader) parseTTL(delta uint64) uint32 {
	return h.MinTTL + uint32(delta)
}

// parseExpiry decodes a deleted/expiring column's local-deletion-time delta.
// It shares its base with parseLocalDeletionTime because this header carries
// a single local-deletion-time origin for both row- and column-level use;
// the two are kept as separate methods because they decode conceptually
// distinct fields (§4.4.3 step 2 vs §4.4.2).
func (h SerializationHeader) parseExpiry(delta uint64) uint32 {
	return h.MinLocalDeletionTime + uint32(delta)
}

// ResetElement names the positions a decoder (and, in step with it, its
// consumer) can be repositioned to after an external seek (§4.2). AtomStart
// is only a legal target for the format-A processor.
type ResetElement int

const (
	ResetPartitionStart ResetElement = iota
	ResetAtomStart
)

// ConsumerA is the callback contract for the format-A state processor
// (§4.3, §4.5). Every method returns a Proceed signal; byte slices are
// borrowed for the duration of the call unless the consumer copies them.
type ConsumerA interface {
	ConsumeRowStart(key []byte, dt DeletionTime) Proceed
	ConsumeCell(name, value []byte, timestamp int64, ttl, localDeletionTime uint32) Proceed
	ConsumeCounterCell(name, value []byte, timestamp int64) Proceed
	ConsumeDeletedCell(name []byte, dt DeletionTime) Proceed
	ConsumeShadowableRowTombstone(name []byte, dt DeletionTime) Proceed
	ConsumeRangeTombstone(start, end []byte, dt DeletionTime) Proceed
	ConsumeRowEnd() Proceed
	// Reset mirrors a driver-level reset caused by an external seek; it must
	// discard any state cached from before the reset.
	Reset(element ResetElement)
}

// ConsumerM is the callback contract for the format-M state processor
// (§4.4, §4.5).
type ConsumerM interface {
	ConsumePartitionStart(key []byte, dt DeletionTime) Proceed
	ConsumePartitionEnd() Proceed
	ConsumeStaticRowStart() Proceed
	ConsumeRowStart(clustering []ClusteringBlock) Proceed
	// ConsumeColumn delivers one present column's value; it is never invoked
	// for a column the row's missing-columns selector excludes (§4.4.3,
	// testable property #4). columnID is the schema's translated
	// column_id_opt for this column (ColumnSpec.ID), not its schema-order
	// position. hasValue is false only when the column's own has_value bit
	// is unset, in which case value is nil.
	ConsumeColumn(columnID int, hasValue bool, value []byte, timestamp int64, ttl, localDeletionTime uint32) Proceed
	ConsumeRowEnd(liveness LivenessInfo) Proceed
	Reset(element ResetElement)
}
