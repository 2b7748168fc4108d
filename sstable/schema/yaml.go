// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package schema

import (
	"github.com/dataflowlabs/sstabledecoder/sstable"
	"gopkg.in/yaml.v3"
)

// yamlColumn is the on-disk shape of one column entry in a table layout
// file: a variable-length column sets Variable rather than writing -1 in the
// file. Without Variable, FixedLength is taken as-is, so an omitted
// fixed_length yields a zero-width fixed column.
type yamlColumn struct {
	Name        string `yaml:"name"`
	FixedLength int    `yaml:"fixed_length"`
	Variable    bool   `yaml:"variable"`
	ID          int    `yaml:"id"`
	Complex     bool   `yaml:"complex"`
}

func (c yamlColumn) spec() sstable.ColumnSpec {
	length := c.FixedLength
	if c.Variable {
		length = -1
	}
	return sstable.ColumnSpec{Name: c.Name, FixedLength: length, ID: c.ID, Complex: c.Complex}
}

type yamlTable struct {
	Name       string       `yaml:"name"`
	Clustering []int        `yaml:"clustering"`
	Static     []yamlColumn `yaml:"static"`
	Regular    []yamlColumn `yaml:"regular"`
}

// ParseTable decodes one table's column layout from YAML, the format
// cmd/sstabledump accepts for its --schema flag.
func ParseTable(data []byte) (*Table, error) {
	var yt yamlTable
	if err := yaml.Unmarshal(data, &yt); err != nil {
		return nil, err
	}
	static := make([]sstable.ColumnSpec, len(yt.Static))
	for i, c := range yt.Static {
		static[i] = c.spec()
	}
	regular := make([]sstable.ColumnSpec, len(yt.Regular))
	for i, c := range yt.Regular {
		regular[i] = c.spec()
	}
	return NewTable(yt.Name, yt.Clustering, static, regular), nil
}
