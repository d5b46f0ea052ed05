// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package record

const (
	UndefinedRecordType uint16 = iota
	TurnRecordType
	ShutdownRecordType

	recordTypeLen = 2

	turnRecordLen     = recordTypeLen + 8 + 4 + 1 + 1 + 4
	shutdownRecordLen = recordTypeLen + 4 + 4
)

const (
	flagCounting byte = 1 << iota
	flagPresent
	flagComplete
)
