// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dataflowlabs/sstabledecoder/sstable"
)

func TestParseTable(t *testing.T) {
	yamlDoc := []byte(`
name: events
clustering: [8, -1]
static:
  - name: schema_version
    fixed_length: 4
regular:
  - name: payload
    variable: true
  - name: flags
    fixed_length: 1
`)
	table, err := ParseTable(yamlDoc)
	require.NoError(t, err)
	require.Equal(t, "events", table.Name())
	require.Equal(t, []int{8, -1}, table.ClusteringColumns())

	require.Equal(t, 1, table.StaticColumnCount())
	require.Equal(t, sstable.ColumnSpec{Name: "schema_version", FixedLength: 4}, table.StaticColumn(0))

	require.Equal(t, 2, table.RegularColumnCount())
	require.Equal(t, sstable.ColumnSpec{Name: "payload", FixedLength: -1}, table.RegularColumn(0))
	require.Equal(t, sstable.ColumnSpec{Name: "flags", FixedLength: 1}, table.RegularColumn(1))
}

func TestNewTableImplementsColumnTranslation(t *testing.T) {
	var _ sstable.ColumnTranslation = NewTable("t", nil, nil, nil)
}
