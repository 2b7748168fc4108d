// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package schema is an in-memory sstable.ColumnTranslation, standing in for
// the external schema service SPEC_FULL.md §6/§11 places out of scope for
// the decoder core. Tests and cmd/sstabledump use it to exercise format-M
// end to end.
package schema

import "github.com/dataflowlabs/sstabledecoder/sstable"

// Table is a fixed, in-memory column layout for one table's format-M rows.
type Table struct {
	name              string
	clusteringLengths []int
	static            []sstable.ColumnSpec
	regular           []sstable.ColumnSpec
}

var _ sstable.ColumnTranslation = (*Table)(nil)

// NewTable returns a Table with the given clustering key layout (fixed
// component lengths, -1 for variable-length) and static/regular column
// specs, in the ordinal order format-M's serialization header enumerates
// them.
func NewTable(name string, clusteringLengths []int, static, regular []sstable.ColumnSpec) *Table {
	return &Table{
		name:              name,
		clusteringLengths: clusteringLengths,
		static:            static,
		regular:           regular,
	}
}

// Name returns the table name this layout was built for.
func (t *Table) Name() string { return t.name }

// ClusteringColumns implements sstable.ColumnTranslation.
func (t *Table) ClusteringColumns() []int { return t.clusteringLengths }

// StaticColumnCount implements sstable.ColumnTranslation.
func (t *Table) StaticColumnCount() int { return len(t.static) }

// StaticColumn implements sstable.ColumnTranslation.
func (t *Table) StaticColumn(ordinal int) sstable.ColumnSpec { return t.static[ordinal] }

// RegularColumnCount implements sstable.ColumnTranslation.
func (t *Table) RegularColumnCount() int { return len(t.regular) }

// RegularColumn implements sstable.ColumnTranslation.
func (t *Table) RegularColumn(ordinal int) sstable.ColumnSpec { return t.regular[ordinal] }
