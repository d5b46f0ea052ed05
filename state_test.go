// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package labyrinth_test

import (
	"testing"

	"github.com/ava-labs/labyrinth"
	"github.com/stretchr/testify/require"
)

func TestResourceState(t *testing.T) {
	rs := labyrinth.NewResourceState()
	require.True(t, rs.Present())

	rs.Consume()
	require.False(t, rs.Present())

	rs.Replenish()
	require.True(t, rs.Present())
}

func TestCompletionFlagSetOnce(t *testing.T) {
	var cf labyrinth.CompletionFlag
	require.False(t, cf.IsSet())

	require.True(t, cf.Set())
	require.True(t, cf.IsSet())

	require.False(t, cf.Set())
	require.True(t, cf.IsSet())
}

func TestParticipants(t *testing.T) {
	ids := labyrinth.Participants(3)
	require.Equal(t, labyrinth.ParticipantIDs{0, 1, 2}, ids)
	require.Equal(t, "[0 1 2]", ids.String())
	require.True(t, ids[0].IsCounting())
	require.False(t, ids[1].IsCounting())
}

func TestRandomSampler(t *testing.T) {
	s1 := labyrinth.NewRandomSampler(99)
	s2 := labyrinth.NewRandomSampler(99)

	seen := make(map[int]struct{})
	for i := 0; i < 1000; i++ {
		v1, err := s1.Intn(10)
		require.NoError(t, err)
		v2, err := s2.Intn(10)
		require.NoError(t, err)

		require.Equal(t, v1, v2, "same seed, same sequence")
		require.GreaterOrEqual(t, v1, 0)
		require.Less(t, v1, 10)
		seen[v1] = struct{}{}
	}
	require.Len(t, seen, 10)

	_, err := s1.Intn(0)
	require.ErrorIs(t, err, labyrinth.ErrSamplerFailure)
}
