// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package record

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrMalformedRecord = errors.New("malformed record")

// Action is what a participant did to the resource during its turn.
type Action uint8

const (
	ActionNone Action = iota
	// ActionConsumed means the participant found the resource present and ate it.
	ActionConsumed
	// ActionReplenished means the counting participant found the resource absent,
	// credited one visit and put the resource back.
	ActionReplenished
	// ActionRetired means the participant observed completion on admission and stopped.
	ActionRetired
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionConsumed:
		return "consumed"
	case ActionReplenished:
		return "replenished"
	case ActionRetired:
		return "retired"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// Turn is the journal entry for one admission-to-reply cycle.
type Turn struct {
	Seq         uint64
	Participant uint32
	Counting    bool
	// Present is the resource state the participant observed on entry.
	Present    bool
	Action     Action
	VisitCount uint32
	// Complete is the completion flag as left by this turn.
	Complete bool
}

func (t Turn) Bytes() []byte {
	buff := make([]byte, turnRecordLen)
	binary.BigEndian.PutUint16(buff, TurnRecordType)
	pos := recordTypeLen
	binary.BigEndian.PutUint64(buff[pos:], t.Seq)
	pos += 8
	binary.BigEndian.PutUint32(buff[pos:], t.Participant)
	pos += 4

	var flags byte
	if t.Counting {
		flags |= flagCounting
	}
	if t.Present {
		flags |= flagPresent
	}
	if t.Complete {
		flags |= flagComplete
	}
	buff[pos] = flags
	pos++
	buff[pos] = byte(t.Action)
	pos++
	binary.BigEndian.PutUint32(buff[pos:], t.VisitCount)
	return buff
}

func ParseTurn(buff []byte) (Turn, error) {
	if err := checkHeader(buff, TurnRecordType, turnRecordLen); err != nil {
		return Turn{}, err
	}

	pos := recordTypeLen
	var t Turn
	t.Seq = binary.BigEndian.Uint64(buff[pos:])
	pos += 8
	t.Participant = binary.BigEndian.Uint32(buff[pos:])
	pos += 4
	flags := buff[pos]
	pos++
	t.Counting = flags&flagCounting != 0
	t.Present = flags&flagPresent != 0
	t.Complete = flags&flagComplete != 0
	t.Action = Action(buff[pos])
	pos++
	if t.Action > ActionRetired {
		return Turn{}, fmt.Errorf("%w: unknown action %d", ErrMalformedRecord, buff[pos-1])
	}
	t.VisitCount = binary.BigEndian.Uint32(buff[pos:])
	return t, nil
}

// Shutdown is the journal entry for one acknowledged shutdown signal.
type Shutdown struct {
	// Index is the position of this acknowledgment within the drain, starting at 0.
	Index       uint32
	Participant uint32
}

func (s Shutdown) Bytes() []byte {
	buff := make([]byte, shutdownRecordLen)
	binary.BigEndian.PutUint16(buff, ShutdownRecordType)
	binary.BigEndian.PutUint32(buff[recordTypeLen:], s.Index)
	binary.BigEndian.PutUint32(buff[recordTypeLen+4:], s.Participant)
	return buff
}

func ParseShutdown(buff []byte) (Shutdown, error) {
	if err := checkHeader(buff, ShutdownRecordType, shutdownRecordLen); err != nil {
		return Shutdown{}, err
	}
	return Shutdown{
		Index:       binary.BigEndian.Uint32(buff[recordTypeLen:]),
		Participant: binary.BigEndian.Uint32(buff[recordTypeLen+4:]),
	}, nil
}

// Type returns the record type of an encoded entry.
func Type(buff []byte) (uint16, error) {
	if len(buff) < recordTypeLen {
		return UndefinedRecordType, fmt.Errorf("%w: record too short to determine type", ErrMalformedRecord)
	}
	return binary.BigEndian.Uint16(buff), nil
}

func checkHeader(buff []byte, expectedType uint16, expectedLen int) error {
	recordType, err := Type(buff)
	if err != nil {
		return err
	}
	if recordType != expectedType {
		return fmt.Errorf("%w: expected record type %d, got %d", ErrMalformedRecord, expectedType, recordType)
	}
	if len(buff) != expectedLen {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedRecord, expectedLen, len(buff))
	}
	return nil
}
