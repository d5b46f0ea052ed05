// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wal

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc64"
	"io"
)

const (
	entrySizeLen     = 4
	entryChecksumLen = 8

	// maxEntrySize bounds a single journal entry. Turn records are a few dozen bytes.
	maxEntrySize = 1 << 16
)

var (
	ErrInvalidCRC    = errors.New("invalid CRC checksum")
	ErrEntryTooLarge = errors.New("journal entry too large")

	crcTable = crc64.MakeTable(crc64.ECMA)
)

// writeEntry writes a length-prefixed and check-summed entry to the writer.
func writeEntry(w io.Writer, payload []byte) error {
	if len(payload) > maxEntrySize {
		return fmt.Errorf("%w: %d bytes", ErrEntryTooLarge, len(payload))
	}

	crc := crc64.New(crcTable)

	sizeBuff := make([]byte, entrySizeLen)
	binary.BigEndian.PutUint32(sizeBuff, uint32(len(payload)))
	if _, err := w.Write(sizeBuff); err != nil {
		return err
	}
	crc.Write(sizeBuff)

	if _, err := w.Write(payload); err != nil {
		return err
	}
	crc.Write(payload)

	_, err := w.Write(crc.Sum(nil))
	return err
}

// readEntry reads a length-prefixed and check-summed entry from the reader.
// If the entry is read correctly, the number of bytes consumed is returned.
func readEntry(r io.Reader) ([]byte, int, error) {
	crc := crc64.New(crcTable)

	sizeBuff := make([]byte, entrySizeLen)
	if _, err := io.ReadFull(r, sizeBuff); err != nil {
		return nil, 0, err
	}
	crc.Write(sizeBuff)

	payloadLen := binary.BigEndian.Uint32(sizeBuff)
	if payloadLen > maxEntrySize {
		return nil, 0, fmt.Errorf("%w: entry indicates payload is %d bytes long", ErrEntryTooLarge, payloadLen)
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, 0, err
	}
	crc.Write(payload)

	checksum := make([]byte, entryChecksumLen)
	if _, err := io.ReadFull(r, checksum); err != nil {
		return nil, 0, err
	}

	if !bytes.Equal(checksum, crc.Sum(nil)) {
		return nil, 0, ErrInvalidCRC
	}
	return payload, entrySizeLen + int(payloadLen) + entryChecksumLen, nil
}
