// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// sstabledump drives sstable.Decoder over a data file and prints every
// callback it emits, grounded on cmd/pebble/main.go's root-command wiring
// and tool/sstable.go's dump subcommand.
package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/dataflowlabs/sstabledecoder/internal/base"
)

// logger reports startup and fatal errors the way the teacher's own tools
// report them, through the pluggable base.Logger rather than raw fmt/log
// calls, so a future embedding of this CLI as a library subcommand can
// redirect its own diagnostics.
var logger base.Logger = base.DefaultLogger{}

var rootCmd = &cobra.Command{
	Use:   "sstabledump [command] (flags)",
	Short: "dump the atoms/unfiltereds of an sstable data file",
	Long:  ``,
}

func main() {
	log.SetFlags(0)
	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(dumpCmd)
	if err := rootCmd.Execute(); err != nil {
		logger.Fatalf("sstabledump: %s", err)
	}
}
