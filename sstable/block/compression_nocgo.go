// Copyright 2021 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

//go:build !cgo || sstabledecodergozstd
// +build !cgo sstabledecodergozstd

package block

import "github.com/klauspost/compress/zstd"

type zstdDecompressor struct{}

func (zstdDecompressor) DecompressedLen(payload []byte) (int, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return 0, err
	}
	defer decoder.Close()
	out, err := decoder.DecodeAll(payload, nil)
	if err != nil {
		return 0, err
	}
	return len(out), nil
}

func (zstdDecompressor) DecompressInto(dst, payload []byte) error {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return err
	}
	defer decoder.Close()
	out, err := decoder.DecodeAll(payload, dst[:0])
	if err != nil {
		return err
	}
	copy(dst, out)
	return nil
}
