// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutil

import (
	"testing"

	"github.com/ava-labs/labyrinth"
	"github.com/ava-labs/labyrinth/record"
	"github.com/stretchr/testify/require"
)

// Journal is a decoded simulation journal.
type Journal struct {
	Turns     []record.Turn
	Shutdowns []record.Shutdown
	// Types lists record types in journal order.
	Types []uint16
}

func DecodeJournal(t *testing.T, wal labyrinth.WriteAheadLog) Journal {
	entries, err := wal.ReadAll()
	require.NoError(t, err)

	var j Journal
	for _, entry := range entries {
		recordType, err := record.Type(entry)
		require.NoError(t, err)
		j.Types = append(j.Types, recordType)

		switch recordType {
		case record.TurnRecordType:
			turn, err := record.ParseTurn(entry)
			require.NoError(t, err)
			j.Turns = append(j.Turns, turn)
		case record.ShutdownRecordType:
			shutdown, err := record.ParseShutdown(entry)
			require.NoError(t, err)
			j.Shutdowns = append(j.Shutdowns, shutdown)
		default:
			require.Failf(t, "unexpected record type", "type %d", recordType)
		}
	}
	return j
}
