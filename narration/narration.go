// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package narration renders journal records as console sentences.
package narration

import (
	"fmt"

	"github.com/ava-labs/labyrinth/record"
)

// DescribeTurn narrates one turn.
func DescribeTurn(t record.Turn) string {
	who := fmt.Sprintf("guest %d", t.Participant)
	if t.Counting {
		who += " (counter)"
	}
	prefix := fmt.Sprintf("turn %d: %s", t.Seq, who)

	switch t.Action {
	case record.ActionConsumed:
		return prefix + " finds the cupcake and eats it"
	case record.ActionReplenished:
		line := fmt.Sprintf("%s finds an empty plate and asks for a new cupcake (visits counted: %d)", prefix, t.VisitCount)
		if t.Complete {
			line += "; every guest has visited"
		}
		return line
	case record.ActionRetired:
		return prefix + " learns every guest has visited and leaves"
	}

	if t.Present {
		return prefix + " finds the cupcake but has already eaten one"
	}
	return prefix + " finds an empty plate"
}

// DescribeShutdown narrates one shutdown acknowledgment.
func DescribeShutdown(s record.Shutdown) string {
	return fmt.Sprintf("shutdown %d: guest %d leaves the party", s.Index+1, s.Participant)
}

// Describe decodes a journal entry and narrates it.
func Describe(entry []byte) (string, error) {
	recordType, err := record.Type(entry)
	if err != nil {
		return "", err
	}

	switch recordType {
	case record.TurnRecordType:
		turn, err := record.ParseTurn(entry)
		if err != nil {
			return "", err
		}
		return DescribeTurn(turn), nil
	case record.ShutdownRecordType:
		shutdown, err := record.ParseShutdown(entry)
		if err != nil {
			return "", err
		}
		return DescribeShutdown(shutdown), nil
	default:
		return "", fmt.Errorf("%w: unknown record type %d", record.ErrMalformedRecord, recordType)
	}
}
