// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"github.com/dataflowlabs/sstabledecoder/internal/base"
)

// Atom mask bits (§4.3's "mutually exclusive mask bits" invariant), in bit
// order; the dispatch below checks RANGE_TOMBSTONE first, then COUNTER,
// EXPIRATION and COUNTER_UPDATE, and treats DELETION as part of the plain
// cell case. These are the legacy
// Cassandra ColumnSerializer values (DELETION/EXPIRATION/COUNTER/
// COUNTER_UPDATE/RANGE_TOMBSTONE), plus an extra SHADOWABLE bit this
// decoder uses to distinguish a shadowable row tombstone from an ordinary
// range tombstone when both share the RANGE_TOMBSTONE bit.
const (
	maskDeletion       byte = 0x01
	maskExpiration     byte = 0x02
	maskCounter        byte = 0x04
	maskCounterUpdate  byte = 0x08
	maskRangeTombstone byte = 0x10
	maskShadowable     byte = 0x20
)

// aState names the resumable top-level positions of the format-A state
// processor (§4.3). Each one may need several primitive reads before it can
// transition to the next; a phase counter tracks progress within a state
// across suspend/resume boundaries, standing in for the source's _2/_3
// suffixed sub-states (see the design note on stepOutcome in decoder.go).
type aState uint8

const (
	aRowStart aState = iota
	aAtomStart
	aRangeTombstone
	aCounterCell
	aExpiringCell
	aCell
)

// formatA implements stateProcessor for the legacy wire dialect (§4.3).
type formatA struct {
	consumer ConsumerA
	tracer   Tracer

	state aState
	phase int

	key   shortBytesState
	name  shortBytesState
	end   shortBytesState
	value longBytesState
	num8  fixedIntState
	num32 fixedIntState
	num64 fixedIntState

	deleted    bool
	shadowable bool
	ttl        uint32
	expiration uint32
	timestamp  int64
	localDel   uint32
	markedDel  int64
}

func newFormatA(consumer ConsumerA, tracer Tracer) *formatA {
	p := &formatA{consumer: consumer, tracer: tracer}
	p.enterRowStart()
	return p
}

func (p *formatA) enterRowStart() {
	p.state = aRowStart
	p.phase = 0
	p.key.reset()
	p.num32.reset(4)
	p.num64.reset(8)
}

func (p *formatA) enterAtomStart() {
	p.state = aAtomStart
	p.phase = 0
	p.name.reset()
	p.num8.reset(1)
}

func (p *formatA) enterCell() {
	p.state = aCell
	p.phase = 0
	p.num64.reset(8)
}

// step implements stateProcessor. See decoder.go for the outcome contract.
func (p *formatA) step(data []byte) (int, stepOutcome, error) {
	total := 0
	for {
		switch p.state {
		case aRowStart:
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
			p.tracer.Tracef("format-a: row_start key=%q deleted=%v", key, !dt.Live())
			proceed := p.consumer.ConsumeRowStart(key, dt)
			p.enterAtomStart()
			if proceed == ProceedNo {
				return total, stepStopped, nil
			}

		case aAtomStart:
			switch p.phase {
			case 0:
				n, ok := p.name.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				if len(p.name.bytes()) == 0 {
					proceed := p.consumer.ConsumeRowEnd()
					p.enterRowStart()
					if proceed == ProceedNo {
						return total, stepStopped, nil
					}
					continue
				}
				p.phase = 1
				fallthrough
			case 1:
				n, ok := p.num8.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
			}
			mask := p.num8.uint8()
			switch {
			case mask&maskRangeTombstone != 0:
				p.shadowable = mask&maskShadowable != 0
				p.state = aRangeTombstone
				p.phase = 0
				p.end.reset()
				p.num32.reset(4)
				p.num64.reset(8)
			case mask&maskCounter != 0:
				p.state = aCounterCell
				p.phase = 0
				p.num64.reset(8)
			case mask&maskExpiration != 0:
				p.deleted = false
				p.state = aExpiringCell
				p.phase = 0
				p.num32.reset(4)
			case mask&maskCounterUpdate != 0:
				return total, stepAdvanced, base.UnsupportedErrorf(
					"sstabledecoder: format-A counter-update cells are not supported")
			default:
				p.deleted = mask&maskDeletion != 0
				p.ttl = 0
				p.expiration = 0
				p.enterCell()
			}

		case aRangeTombstone:
			switch p.phase {
			case 0:
				n, ok := p.end.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				p.phase = 1
			}
			switch p.phase {
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
			var proceed Proceed
			if p.shadowable {
				proceed = p.consumer.ConsumeShadowableRowTombstone(p.name.bytes(), dt)
			} else {
				proceed = p.consumer.ConsumeRangeTombstone(p.name.bytes(), p.end.bytes(), dt)
			}
			p.enterAtomStart()
			if proceed == ProceedNo {
				return total, stepStopped, nil
			}

		case aCounterCell:
			switch p.phase {
			case 0:
				// The timestamp of the counter's last local update; not
				// forwarded to the consumer (§4.5 exposes only the cell's own
				// write timestamp for counter cells).
				n, ok := p.num64.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				p.num64.reset(8)
				p.phase = 1
				fallthrough
			case 1:
				n, ok := p.num64.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				p.timestamp = int64(p.num64.uint64())
				p.value.reset()
				p.phase = 2
				fallthrough
			case 2:
				n, ok := p.value.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
			}
			proceed := p.consumer.ConsumeCounterCell(p.name.bytes(), p.value.bytes(), p.timestamp)
			p.enterAtomStart()
			if proceed == ProceedNo {
				return total, stepStopped, nil
			}

		case aExpiringCell:
			switch p.phase {
			case 0:
				n, ok := p.num32.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				p.ttl = p.num32.uint32()
				p.num32.reset(4)
				p.phase = 1
				fallthrough
			case 1:
				n, ok := p.num32.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				p.expiration = p.num32.uint32()
				p.num64.reset(8)
			}
			p.state = aCell
			p.phase = 0

		case aCell:
			switch p.phase {
			case 0:
				n, ok := p.num64.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
				p.timestamp = int64(p.num64.uint64())
				p.value.reset()
				p.phase = 1
				fallthrough
			case 1:
				n, ok := p.value.feed(data)
				total, data = total+n, data[n:]
				if !ok {
					return total, stepNeedMoreData, nil
				}
			}
			var proceed Proceed
			if p.deleted {
				v := p.value.bytes()
				if len(v) != 4 {
					return total, stepAdvanced, base.CorruptionErrorf(
						"sstabledecoder: deleted cell value has length %d, want 4", len(v))
				}
				localDel := uint32(v[0])<<24 | uint32(v[1])<<16 | uint32(v[2])<<8 | uint32(v[3])
				dt := DeletionTime{LocalDeletionTime: localDel, MarkedForDeleteAt: p.timestamp}
				proceed = p.consumer.ConsumeDeletedCell(p.name.bytes(), dt)
			} else {
				proceed = p.consumer.ConsumeCell(p.name.bytes(), p.value.bytes(), p.timestamp, p.ttl, p.expiration)
			}
			p.enterAtomStart()
			if proceed == ProceedNo {
				return total, stepStopped, nil
			}
		}
	}
}

func (p *formatA) verifyEndState() error {
	switch p.state {
	case aRowStart:
		return nil
	case aAtomStart:
		if p.phase == 0 {
			// A promoted-index-bounded read ending exactly between rows: the
			// source synthesizes the row's terminal event in this case
			// (original_source/sstables/row.hh's data_consume_rows_context).
			p.consumer.ConsumeRowEnd()
			return nil
		}
	}
	return base.CorruptionErrorf("sstabledecoder: format-A stream ended mid-atom in state %d/%d", p.state, p.phase)
}

func (p *formatA) reset(element ResetElement) error {
	switch element {
	case ResetPartitionStart:
		p.enterRowStart()
	case ResetAtomStart:
		p.enterAtomStart()
	default:
		return base.CorruptionErrorf("sstabledecoder: invalid reset element %d for format-A", element)
	}
	p.consumer.Reset(element)
	return nil
}
