// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package labyrinth

import (
	"fmt"
	"strconv"
)

// CountingParticipant is the ordinal of the participant that counts visits.
const CountingParticipant ParticipantID = 0

// ParticipantID is the ordinal of a participant, in [0, population).
type ParticipantID uint32

func (id ParticipantID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func (id ParticipantID) IsCounting() bool {
	return id == CountingParticipant
}

type ParticipantIDs []ParticipantID

func (ids ParticipantIDs) String() string {
	strs := make([]string, 0, len(ids))
	for _, id := range ids {
		strs = append(strs, id.String())
	}
	return fmt.Sprintf("%v", strs)
}

// Participants returns the ordinals 0..population-1 in order.
func Participants(population int) ParticipantIDs {
	ids := make(ParticipantIDs, population)
	for i := range ids {
		ids[i] = ParticipantID(i)
	}
	return ids
}
