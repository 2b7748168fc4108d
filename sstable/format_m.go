// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"github.com/dataflowlabs/sstabledecoder/internal/base"
)

// Unfiltered flags (§4.4's top-level loop, §6's `unfiltered := u8 flags`):
// one byte carries both the unfiltered's kind (end-of-partition, range
// tombstone marker, has-extended-flags) and, for a static or clustering
// row, the row-body flags (has_timestamp/has_ttl/has_deletion/
// has_all_columns) consumed again in mRowBody without a second byte read.
const (
	mFlagEndOfPartition byte = 0x01
	mFlagRangeTombstone byte = 0x02
	mFlagHasTimestamp   byte = 0x04
	mFlagHasTTL         byte = 0x08
	mFlagHasDeletion    byte = 0x10
	mFlagHasAllColumns  byte = 0x20
	mFlagExtended       byte = 0x80
)

// Extended-flags bits (§4.4b-c), read only when mFlagExtended is set.
const (
	mExtFlagIsStatic byte = 0x01
)

// Per-column flags (§4.4.3, §6's `column := u8 cflags`).
const (
	colFlagIsDeleted       byte = 0x01
	colFlagIsExpiring      byte = 0x02
	colFlagHasEmptyValue   byte = 0x04
	colFlagUseRowTimestamp byte = 0x08
	colFlagUseRowTTL       byte = 0x10
)

// mState names the resumable top-level positions of the format-M state
// processor (§4.4).
type mState uint8

const (
	mPartitionStart mState = iota
	mUnfilteredFlags
	mExtendedFlags
	mClustering
	mRowBody
	mMissingBitmap
	mColumn
)

// formatM implements stateProcessor for the newer, unfiltered-based wire
// dialect (§4.4).
type formatM struct {
	consumer    ConsumerM
	tracer      Tracer
	translation ColumnTranslation
	header      SerializationHeader

	state mState
	phase int // coarse phase within mPartitionStart/mRowBody/mMissingBitmap
	sub   int // fine sub-phase within mClustering/mColumn

	key   shortBytesState
	num8  fixedIntState
	num32 fixedIntState
	num64 fixedIntState
	vint  varintState

	localDel  uint32
	markedDel int64

	flags            byte
	isStatic         bool
	isFirstUnfiltered bool

	clusteringLens []int
	clustering     []ClusteringBlock
	clusteringIdx  int
	ckHeader       uint64
	ckOffset       int
	curFixed       bytesState
	curVint        vintBytesState

	rowTimestamp   int64
	rowTTL         uint32
	rowLocalDel    uint32
	rowTTLDelta    uint64
	discardedVints int

	columnCount int
	columnIdx   int
	allColumns  bool
	selector    []byte // presence bitmap, bit set == present; nil iff allColumns
	selEntries  int
	selPresent  bool

	colFlags     byte
	colTimestamp int64
	colTTL       uint32
	colLocalDel  uint32
	colFixed     bytesState
	colVint      vintBytesState
}

func newFormatM(consumer ConsumerM, tracer Tracer, translation ColumnTranslation, header SerializationHeader) *formatM {
	p := &formatM{consumer: consumer, tracer: tracer, translation: translation, header: header}
	if translation != nil {
		p.clusteringLens = translation.ClusteringColumns()
	}
	p.enterPartitionStart()
	return p
}

func (p *formatM) enterPartitionStart() {
	p.state = mPartitionStart
	p.phase = 0
	p.isFirstUnfiltered = true
	p.key.reset()
	p.num32.reset(4)
	p.num64.reset(8)
}

func (p *formatM) enterUnfilteredFlags() {
	p.state = mUnfilteredFlags
	p.phase = 0
	p.num8.reset(1)
}

func (p *formatM) currentColumnCount() int {
	if p.isStatic {
		return p.translation.StaticColumnCount()
	}
	return p.translation.RegularColumnCount()
}

func (p *formatM) currentColumn(ordinal int) ColumnSpec {
	if p.isStatic {
		return p.translation.StaticColumn(ordinal)
	}
	return p.translation.RegularColumn(ordinal)
}

// present reports whether the ordinal-th column of the current row's armed
// column set (static or regular) is present per the missing-columns
// selector (§4.4.3).
func (p *formatM) present(ordinal int) bool {
	if p.allColumns {
		return true
	}
	return p.selector[ordinal/8]&(1<<uint(ordinal%8)) != 0
}

// enterRowBody prepares the row-body parse (§4.4.2) shared by static and
// clustering rows, reusing the already-read unfiltered flags byte rather
// than reading a second one.
func (p *formatM) enterRowBody() {
	p.state = mRowBody
	p.phase = 0
	p.vint.reset()
}

// step implements stateProcessor. See decoder.go for the outcome contract.
func (p *formatM) step(data []byte) (int, stepOutcome, error) {
	total := 0
	for {
		switch p.state {
		case mPartitionStart:
			switch p.phase {
			case 0:
				n, ok := p.key.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				p.phase = 1
				fallthrough
			case 1:
				n, ok := p.num32.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				p.localDel = p.num32.uint32()
				p.phase = 2
				fallthrough
			case 2:
				n, ok := p.num64.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				p.markedDel = int64(p.num64.uint64())
			}
			dt := DeletionTime{LocalDeletionTime: p.localDel, MarkedForDeleteAt: p.markedDel}
			key := p.key.bytes()
			p.tracer.Tracef("format-m: partition_start key=%q deleted=%v", key, !dt.Live())
			proceed := p.consumer.ConsumePartitionStart(key, dt)
			p.enterUnfilteredFlags()
			if proceed == ProceedNo {
				return total, stepStopped, nil
			}

		case mUnfilteredFlags:
			switch p.phase {
			case 0:
				n, ok := p.num8.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
			}
			p.flags = p.num8.uint8()
			switch {
			case p.flags&mFlagEndOfPartition != 0:
				proceed := p.consumer.ConsumePartitionEnd()
				p.enterPartitionStart()
				if proceed == ProceedNo {
					return total, stepStopped, nil
				}
			case p.flags&mFlagRangeTombstone != 0:
				return total, stepAdvanced, base.UnsupportedErrorf(
					"sstabledecoder: format-M range tombstone markers are not supported")
			case p.flags&mFlagExtended != 0:
				p.state = mExtendedFlags
				p.phase = 0
				p.num8.reset(1)
			default:
				p.isFirstUnfiltered = false
				p.isStatic = false
				p.clustering = make([]ClusteringBlock, 0, len(p.clusteringLens))
				p.clusteringIdx = 0
				p.ckOffset = 0
				p.state = mClustering
				p.sub = 0
			}

		case mExtendedFlags:
			switch p.phase {
			case 0:
				n, ok := p.num8.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
			}
			extended := p.num8.uint8()
			if extended&mExtFlagIsStatic != 0 {
				if !p.isFirstUnfiltered {
					return total, stepAdvanced, base.CorruptionErrorf(
						"sstabledecoder: format-M static row is not the first unfiltered in its partition")
				}
				p.isFirstUnfiltered = false
				p.isStatic = true
				proceed := p.consumer.ConsumeStaticRowStart()
				p.enterRowBody()
				if proceed == ProceedNo {
					return total, stepStopped, nil
				}
				continue
			}
			p.isFirstUnfiltered = false
			p.isStatic = false
			p.clustering = make([]ClusteringBlock, 0, len(p.clusteringLens))
			p.clusteringIdx = 0
			p.ckOffset = 0
			p.state = mClustering
			p.sub = 0

		case mClustering:
			// Clustering blocks are grouped 32 at a time; a fresh varint header is
			// read at the start of each group and packs 2 bits per block, with the
			// low bit of each pair set when that block is empty (row.hh's
			// is_block_empty/should_read_block_header).
			for p.clusteringIdx < len(p.clusteringLens) {
				if p.sub == 0 {
					if p.ckOffset == 0 {
						n, ok := p.vint.feed(data)
						total, data = total+n, data[n:]
						if !ok {
							return total, stepNeedMoreData, nil
						}
						p.ckHeader = p.vint.value()
						p.vint.reset()
					}
					p.sub = 1
				}
				if p.sub == 1 {
					if (p.ckHeader>>(2*uint(p.ckOffset)))&1 == 1 {
						p.clustering = append(p.clustering, ClusteringBlock{Empty: true})
						p.clusteringIdx++
						p.ckOffset = (p.ckOffset + 1) % 32
						p.sub = 0
						continue
					}
					width := p.clusteringLens[p.clusteringIdx]
					if width >= 0 {
						p.curFixed.reset(width)
					} else {
						p.curVint.reset()
					}
					p.sub = 2
				}
				width := p.clusteringLens[p.clusteringIdx]
				var n int
				var ok bool
				var value []byte
				if width >= 0 {
					n, ok = p.curFixed.feed(data)
					value = p.curFixed.bytes()
				} else {
					n, ok = p.curVint.feed(data)
					value = p.curVint.bytes()
				}
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				p.clustering = append(p.clustering, ClusteringBlock{Value: value})
				p.clusteringIdx++
				p.ckOffset = (p.ckOffset + 1) % 32
				p.sub = 0
			}
			proceed := p.consumer.ConsumeRowStart(p.clustering)
			p.enterRowBody()
			if proceed == ProceedNo {
				return total, stepStopped, nil
			}

		case mRowBody:
			// Two leading varints (total size, previous-row size) are always
			// present and always discarded (§4.4.2).
			if p.phase == 0 {
				n, ok := p.vint.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				p.vint.reset()
				p.phase = 1
			}
			if p.phase == 1 {
				n, ok := p.vint.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				p.vint.reset()
				p.phase = 2
			}
			if p.phase == 2 {
				if p.flags&mFlagHasTimestamp != 0 {
					n, ok := p.vint.feed(data)
					total, data = total+n, data[n:]
					if !ok {
						return total, stepNeedMoreData, nil
					}
					p.rowTimestamp = p.header.parseTimestamp(p.vint.value())
				} else {
					p.rowTimestamp = 0
				}
				p.vint.reset()
				p.phase = 3
			}
			if p.phase == 3 {
				if p.flags&mFlagHasTimestamp != 0 && p.flags&mFlagHasTTL != 0 {
					n, ok := p.vint.feed(data)
					total, data = total+n, data[n:]
					if !ok {
						return total, stepNeedMoreData, nil
					}
					p.rowTTLDelta = p.vint.value()
					p.vint.reset()
					p.phase = 4
				} else {
					p.rowTTL, p.rowLocalDel = 0, 0
					p.phase = 5
				}
			}
			if p.phase == 4 {
				n, ok := p.vint.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				p.rowTTL = p.header.parseTTL(p.rowTTLDelta)
				p.rowLocalDel = p.header.parseLocalDeletionTime(p.vint.value())
				p.vint.reset()
				p.phase = 5
			}
			// The row-deletion varints are accepted but not propagated to the
			// consumer (documented decision, DESIGN.md's "Open Question
			// decisions"): a row-level
			// deletion is distinct from the range tombstone markers this
			// decoder otherwise rejects as unsupported, and no ConsumerM
			// method exists to carry it.
			if p.phase == 5 {
				if p.flags&mFlagHasDeletion != 0 {
					p.discardedVints = 2
					p.phase = 6
				} else {
					p.phase = 7
				}
			}
			for p.phase == 6 && p.discardedVints > 0 {
				n, ok := p.vint.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				p.vint.reset()
				p.discardedVints--
			}
			if p.phase == 6 {
				p.phase = 7
			}
			p.columnCount = p.currentColumnCount()
			p.columnIdx = 0
			p.state = mMissingBitmap
			p.phase = 0

		case mMissingBitmap:
			if p.flags&mFlagHasAllColumns != 0 {
				p.allColumns = true
				p.selector = nil
				p.state = mColumn
				p.sub = 0
				continue
			}
			p.allColumns = false
			if p.phase == 0 {
				n, ok := p.vint.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				v := p.vint.value()
				p.vint.reset()
				if p.columnCount < 64 {
					p.selector = make([]byte, (p.columnCount+7)/8)
					for i := 0; i < p.columnCount; i++ {
						if v&(1<<uint(i)) == 0 {
							p.selector[i/8] |= 1 << uint(i%8)
						}
					}
					p.state = mColumn
					p.sub = 0
					continue
				}
				presentCount := p.columnCount - int(v)
				p.selEntries = int(v)
				p.selPresent = false
				if presentCount < p.columnCount/2 {
					p.selEntries = presentCount
					p.selPresent = true
				}
				p.selector = make([]byte, (p.columnCount+7)/8)
				if !p.selPresent {
					for i := range p.selector {
						p.selector[i] = 0xFF
					}
				}
				p.phase = 1
			}
			for p.phase == 1 && p.selEntries > 0 {
				n, ok := p.vint.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				idx := int(p.vint.value())
				p.vint.reset()
				if p.selPresent {
					p.selector[idx/8] |= 1 << uint(idx%8)
				} else {
					p.selector[idx/8] &^= 1 << uint(idx%8)
				}
				p.selEntries--
			}
			if p.phase == 1 {
				p.state = mColumn
				p.sub = 0
			}

		case mColumn:
			for p.columnIdx < p.columnCount {
				if !p.present(p.columnIdx) {
					p.columnIdx++
					continue
				}
				spec := p.currentColumn(p.columnIdx)
				if spec.Complex {
					return total, stepAdvanced, base.UnsupportedErrorf(
						"sstabledecoder: format-M complex (multi-cell collection) columns are not supported")
				}
				if p.sub == 0 {
					// A one-byte read is never left half-done, so resetting on
					// every entry to this sub-phase is safe across resumption.
					p.num8.reset(1)
					n, ok := p.num8.feed(data)
					total, data = total+n, data[n:]
					if !ok {
						return total, stepNeedMoreData, nil
					}
					p.colFlags = p.num8.uint8()
					p.vint.reset()
					p.sub = 1
				}
				if p.sub == 1 {
					if p.colFlags&colFlagUseRowTimestamp != 0 {
						p.colTimestamp = p.rowTimestamp
					} else {
						n, ok := p.vint.feed(data)
						total, data = total+n, data[n:]
						if !ok {
							return total, stepNeedMoreData, nil
						}
						p.colTimestamp = p.header.parseTimestamp(p.vint.value())
					}
					p.vint.reset()
					p.sub = 2
				}
				if p.sub == 2 {
					switch {
					case p.colFlags&colFlagUseRowTTL != 0:
						p.colLocalDel = p.rowLocalDel
						p.sub = 4
					case p.colFlags&(colFlagIsDeleted|colFlagIsExpiring) == 0:
						p.colLocalDel = noExpirySentinel
						p.sub = 4
					default:
						n, ok := p.vint.feed(data)
						total, data = total+n, data[n:]
						if !ok {
							return total, stepNeedMoreData, nil
						}
						p.colLocalDel = p.header.parseExpiry(p.vint.value())
						p.vint.reset()
						p.sub = 4
					}
				}
				if p.sub == 4 {
					switch {
					case p.colFlags&colFlagUseRowTimestamp != 0:
						p.colTTL = p.rowTTL
						p.sub = 6
					case p.colFlags&colFlagIsExpiring == 0:
						p.colTTL = 0
						p.sub = 6
					default:
						p.sub = 5
					}
				}
				if p.sub == 5 {
					n, ok := p.vint.feed(data)
					total, data = total+n, data[n:]
					if !ok {
						return total, stepNeedMoreData, nil
					}
					p.colTTL = p.header.parseTTL(p.vint.value())
					p.vint.reset()
					p.sub = 6
				}
				hasValue := p.colFlags&colFlagHasEmptyValue == 0
				if p.sub == 6 {
					if !hasValue {
						p.sub = 8
					} else {
						spec := p.currentColumn(p.columnIdx)
						if spec.FixedLength >= 0 {
							p.colFixed.reset(spec.FixedLength)
						} else {
							p.colVint.reset()
						}
						p.sub = 7
					}
				}
				var value []byte
				if p.sub == 7 {
					spec := p.currentColumn(p.columnIdx)
					var n int
					var ok bool
					if spec.FixedLength >= 0 {
						n, ok = p.colFixed.feed(data)
						value = p.colFixed.bytes()
					} else {
						n, ok = p.colVint.feed(data)
						value = p.colVint.bytes()
					}
					total, data = total+n, data[n:]
					if !ok {
						return total, stepNeedMoreData, nil
					}
					p.sub = 8
				}
				proceed := p.consumer.ConsumeColumn(spec.ID, hasValue, value, p.colTimestamp, p.colTTL, p.colLocalDel)
				p.columnIdx++
				p.sub = 0
				if proceed == ProceedNo {
					return total, stepStopped, nil
				}
			}
			liveness := LivenessInfo{Timestamp: p.rowTimestamp, TTL: p.rowTTL, LocalDeletionTime: p.rowLocalDel}
			proceed := p.consumer.ConsumeRowEnd(liveness)
			p.enterUnfilteredFlags()
			if proceed == ProceedNo {
				return total, stepStopped, nil
			}
		}
	}
}

func (p *formatM) verifyEndState() error {
	if p.state == mPartitionStart && p.phase == 0 {
		return nil
	}
	return base.CorruptionErrorf("sstabledecoder: format-M stream ended mid-partition in state %d", p.state)
}

func (p *formatM) reset(element ResetElement) error {
	if element != ResetPartitionStart {
		return base.CorruptionErrorf("sstabledecoder: invalid reset element %d for format-M", element)
	}
	p.enterPartitionStart()
	p.consumer.Reset(element)
	return nil
}
