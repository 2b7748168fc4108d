// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dataflowlabs/sstabledecoder/sstable"
	"github.com/dataflowlabs/sstabledecoder/sstable/schema"
	"github.com/dataflowlabs/sstabledecoder/sstable/source"
)

var (
	dumpFormat  string
	dumpSchema  string
	dumpTrace   bool
	dumpBufSize int
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "decode and print every atom/unfiltered in a data file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "a", "wire dialect: \"a\" (legacy) or \"m\" (current)")
	dumpCmd.Flags().StringVar(&dumpSchema, "schema", "", "path to a YAML column layout (required for --format=m)")
	dumpCmd.Flags().BoolVar(&dumpTrace, "trace", false, "print per-state trace lines to stderr")
	dumpCmd.Flags().IntVar(&dumpBufSize, "buf-size", 32<<10, "chunk size to read the file in")
}

func runDump(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var tracer sstable.Tracer = sstable.DiscardTracer{}
	if dumpTrace {
		tracer = stderrTracer{}
	}
	logger.Infof("sstabledump: opened %s (format=%s)", args[0], dumpFormat)

	stream := source.NewReaderSource(f, dumpBufSize)
	opts := sstable.ReaderOptions{Tracer: tracer}

	ctx := context.Background()
	switch dumpFormat {
	case "a":
		opts.Format = sstable.FormatA
		dec := sstable.NewDecoderA(stream, &printingConsumerA{}, opts)
		return drive(ctx, dec)
	case "m":
		if dumpSchema == "" {
			return fmt.Errorf("sstabledump: --schema is required for --format=m")
		}
		data, err := os.ReadFile(dumpSchema)
		if err != nil {
			return err
		}
		table, err := schema.ParseTable(data)
		if err != nil {
			return err
		}
		opts.Format = sstable.FormatM
		opts.Translation = table
		dec := sstable.NewDecoderM(stream, &printingConsumerM{}, opts)
		return drive(ctx, dec)
	default:
		return fmt.Errorf("sstabledump: unknown --format %q", dumpFormat)
	}
}

func drive(ctx context.Context, dec *sstable.Decoder) error {
	for {
		outcome, err := dec.Run(ctx)
		if err != nil {
			return err
		}
		switch outcome {
		case sstable.OutcomeEndOfStream:
			return nil
		case sstable.OutcomeBudgetExhausted:
			return nil
		case sstable.OutcomeStopped:
			return nil
		}
	}
}

type stderrTracer struct{}

func (stderrTracer) Tracef(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
