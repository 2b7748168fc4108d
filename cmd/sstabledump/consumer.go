// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"

	"github.com/dataflowlabs/sstabledecoder/sstable"
)

// printingConsumerA implements sstable.ConsumerA by printing one line per
// event, mirroring tool/sstable.go's dump-subcommand style of formatting
// each decoded record as it arrives rather than buffering a tree.
type printingConsumerA struct{}

func (c *printingConsumerA) ConsumeRowStart(key []byte, dt sstable.DeletionTime) sstable.Proceed {
	fmt.Printf("row_start key=%q live=%v\n", key, dt.Live())
	return sstable.ProceedYes
}

func (c *printingConsumerA) ConsumeCell(
	name, value []byte, timestamp int64, ttl, localDeletionTime uint32,
) sstable.Proceed {
	fmt.Printf("  cell name=%q value=%q ts=%d ttl=%d\n", name, value, timestamp, ttl)
	return sstable.ProceedYes
}

func (c *printingConsumerA) ConsumeCounterCell(name, value []byte, timestamp int64) sstable.Proceed {
	fmt.Printf("  counter_cell name=%q value=%q ts=%d\n", name, value, timestamp)
	return sstable.ProceedYes
}

func (c *printingConsumerA) ConsumeDeletedCell(name []byte, dt sstable.DeletionTime) sstable.Proceed {
	fmt.Printf("  deleted_cell name=%q local_deletion_time=%d\n", name, dt.LocalDeletionTime)
	return sstable.ProceedYes
}

func (c *printingConsumerA) ConsumeShadowableRowTombstone(name []byte, dt sstable.DeletionTime) sstable.Proceed {
	fmt.Printf("  shadowable_row_tombstone name=%q marked_for_delete_at=%d\n", name, dt.MarkedForDeleteAt)
	return sstable.ProceedYes
}

func (c *printingConsumerA) ConsumeRangeTombstone(start, end []byte, dt sstable.DeletionTime) sstable.Proceed {
	fmt.Printf("  range_tombstone start=%q end=%q marked_for_delete_at=%d\n", start, end, dt.MarkedForDeleteAt)
	return sstable.ProceedYes
}

func (c *printingConsumerA) ConsumeRowEnd() sstable.Proceed {
	fmt.Println("row_end")
	return sstable.ProceedYes
}

func (c *printingConsumerA) Reset(element sstable.ResetElement) {}

// printingConsumerM implements sstable.ConsumerM the same way, for the
// format-M wire dialect.
type printingConsumerM struct{}

func (c *printingConsumerM) ConsumePartitionStart(key []byte, dt sstable.DeletionTime) sstable.Proceed {
	fmt.Printf("partition_start key=%q live=%v\n", key, dt.Live())
	return sstable.ProceedYes
}

func (c *printingConsumerM) ConsumePartitionEnd() sstable.Proceed {
	fmt.Println("partition_end")
	return sstable.ProceedYes
}

func (c *printingConsumerM) ConsumeStaticRowStart() sstable.Proceed {
	fmt.Println("static_row_start")
	return sstable.ProceedYes
}

func (c *printingConsumerM) ConsumeRowStart(clustering []sstable.ClusteringBlock) sstable.Proceed {
	fmt.Printf("row_start clustering=%d\n", len(clustering))
	return sstable.ProceedYes
}

func (c *printingConsumerM) ConsumeColumn(
	columnID int, hasValue bool, value []byte, timestamp int64, ttl, localDeletionTime uint32,
) sstable.Proceed {
	if !hasValue {
		fmt.Printf("  column[%d] empty\n", columnID)
	} else {
		fmt.Printf("  column[%d] value=%q ts=%d ttl=%d\n", columnID, value, timestamp, ttl)
	}
	return sstable.ProceedYes
}

func (c *printingConsumerM) ConsumeRowEnd(liveness sstable.LivenessInfo) sstable.Proceed {
	fmt.Printf("row_end live=%v\n", liveness.Live())
	return sstable.ProceedYes
}

func (c *printingConsumerM) Reset(element sstable.ResetElement) {}
