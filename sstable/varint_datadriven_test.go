// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
)

// TestVarint drives the unsigned-vint encoder and decoder from
// testdata/varint: "encode" turns a decimal value into its hex wire
// encoding, "decode" turns a hex wire encoding back into a decimal value,
// fed one byte at a time to exercise varintState across every possible
// chunk boundary.
func TestVarint(t *testing.T) {
	datadriven.RunTest(t, "testdata/varint", func(t *testing.T, d *datadriven.TestData) string {
		switch d.Cmd {
		case "encode":
			var lines []string
			for _, line := range strings.Split(strings.TrimSpace(d.Input), "\n") {
				v, err := strconv.ParseUint(strings.TrimSpace(line), 10, 64)
				if err != nil {
					return fmt.Sprintf("error: %s\n", err)
				}
				lines = append(lines, hex.EncodeToString(encodeVarint(nil, v)))
			}
			return strings.Join(lines, "\n") + "\n"
		case "decode":
			var lines []string
			for _, line := range strings.Split(strings.TrimSpace(d.Input), "\n") {
				raw, err := hex.DecodeString(strings.TrimSpace(line))
				if err != nil {
					return fmt.Sprintf("error: %s\n", err)
				}
				var s varintState
				total := 0
				for total < len(raw) {
					n, ready := s.feed(raw[total : total+1])
					total += n
					if ready {
						break
					}
				}
				lines = append(lines, strconv.FormatUint(s.value(), 10))
			}
			return strings.Join(lines, "\n") + "\n"
		default:
			return fmt.Sprintf("unknown command: %s\n", d.Cmd)
		}
	})
}
