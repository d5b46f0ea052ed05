// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wal

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/ava-labs/labyrinth"
)

var _ labyrinth.WriteAheadLog = (*InMemWAL)(nil)

// InMemWAL journals simulation events in memory. Nothing is written to disk.
type InMemWAL struct {
	lock    sync.Mutex
	buffer  bytes.Buffer
	entries int
}

func (w *InMemWAL) Append(payload []byte) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if err := writeEntry(&w.buffer, payload); err != nil {
		return err
	}
	w.entries++
	return nil
}

func (w *InMemWAL) ReadAll() ([][]byte, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	r := bytes.NewReader(w.buffer.Bytes())
	res := make([][]byte, 0, w.entries)
	for r.Len() > 0 {
		payload, _, err := readEntry(r)
		if err != nil {
			return nil, fmt.Errorf("failed reading in-memory entry %d: %w", len(res), err)
		}
		res = append(res, payload)
	}
	return res, nil
}

// Len returns the number of entries appended so far.
func (w *InMemWAL) Len() int {
	w.lock.Lock()
	defer w.lock.Unlock()

	return w.entries
}
