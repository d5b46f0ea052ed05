// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package showroom_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ava-labs/labyrinth"
	"github.com/ava-labs/labyrinth/showroom"
	"github.com/ava-labs/labyrinth/testutil"
	"github.com/stretchr/testify/require"
)

func TestNobodyQueuesAgain(t *testing.T) {
	s, err := showroom.New(showroom.Config{
		Logger:  testutil.MakeLogger(t),
		Guests:  4,
		Sampler: testutil.NewScriptedSampler(0, 0, 0, 0),
	})
	require.NoError(t, err)

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int{1, 1, 1, 1}, report.Visits)
	require.Equal(t, labyrinth.ParticipantIDs{0, 1, 2, 3}, report.Order)
}

func TestScriptedRequeue(t *testing.T) {
	// Guest 0 queues up again twice, guest 2 once.
	// queue: 0 1 2 -> 0 enters, requeues: 1 2 0
	// 1 enters, leaves: 2 0
	// 2 enters, requeues: 0 2
	// 0 enters, requeues: 2 0
	// 2 enters, leaves: 0
	// 0 enters, leaves: (empty)
	sampler := testutil.NewScriptedSampler(1, 0, 1, 1, 0, 0)
	s, err := showroom.New(showroom.Config{
		Logger:  testutil.MakeLogger(t),
		Guests:  3,
		Sampler: sampler,
	})
	require.NoError(t, err)

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, labyrinth.ParticipantIDs{0, 1, 2, 0, 2, 0}, report.Order)
	require.Equal(t, []int{3, 1, 2}, report.Visits)
	require.Equal(t, 6, sampler.Used())
}

func TestSingleGuestQueuesBehindItself(t *testing.T) {
	s, err := showroom.New(showroom.Config{
		Logger:  testutil.MakeLogger(t),
		Guests:  1,
		Sampler: testutil.NewScriptedSampler(1, 1, 0),
	})
	require.NoError(t, err)

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int{3}, report.Visits)
}

func TestMaxVisitsBoundsRun(t *testing.T) {
	alwaysRequeue := make([]int, 100)
	for i := range alwaysRequeue {
		alwaysRequeue[i] = 1
	}

	sampler := testutil.NewScriptedSampler(alwaysRequeue...)
	s, err := showroom.New(showroom.Config{
		Logger:    testutil.MakeLogger(t),
		Guests:    3,
		Sampler:   sampler,
		MaxVisits: 10,
	})
	require.NoError(t, err)

	report, err := s.Run(context.Background())
	require.NoError(t, err)

	// Visits 1..9 draw and requeue, visits 10..12 drain the queue without drawing.
	require.Len(t, report.Order, 12)
	require.Equal(t, 9, sampler.Used())
}

func TestRandomRuns(t *testing.T) {
	for seed := uint64(0); seed < 10; seed++ {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			logger := testutil.MakeLogger(t)
			logger.Silence()

			s, err := showroom.New(showroom.Config{
				Logger:  logger,
				Guests:  labyrinth.DefaultPopulation,
				Sampler: labyrinth.NewRandomSampler(seed),
			})
			require.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			report, err := s.Run(ctx)
			require.NoError(t, err)

			var total int
			for guest, visits := range report.Visits {
				require.GreaterOrEqual(t, visits, 1, "guest %d never visited", guest)
				total += visits
			}
			require.Len(t, report.Order, total)
			require.LessOrEqual(t, total, showroom.DefaultMaxVisits+labyrinth.DefaultPopulation)
		})
	}
}

func TestSamplerFailure(t *testing.T) {
	s, err := showroom.New(showroom.Config{
		Logger: testutil.MakeLogger(t),
		Guests: 3,
		Sampler: &testutil.FailingSampler{
			Sampler: testutil.NewScriptedSampler(1),
			After:   1,
		},
	})
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	require.ErrorIs(t, err, testutil.ErrSamplerBroken)

	_, err = s.Run(context.Background())
	require.ErrorIs(t, err, showroom.ErrAlreadyRun)
}

func TestInvalidConfig(t *testing.T) {
	logger := testutil.MakeLogger(t)
	sampler := labyrinth.NewRandomSampler(0)

	for name, conf := range map[string]showroom.Config{
		"no guests":      {Logger: logger, Sampler: sampler},
		"no logger":      {Guests: 2, Sampler: sampler},
		"no sampler":     {Guests: 2, Logger: logger},
		"too few visits": {Guests: 5, Logger: logger, Sampler: sampler, MaxVisits: 3},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := showroom.New(conf)
			require.ErrorIs(t, err, showroom.ErrInvalidConfig)
		})
	}
}
