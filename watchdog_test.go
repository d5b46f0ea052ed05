// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package labyrinth_test

import (
	"testing"
	"time"

	"github.com/ava-labs/labyrinth"
	"github.com/ava-labs/labyrinth/testutil"
	"github.com/stretchr/testify/require"
)

func TestWatchdogRunsExpiredTask(t *testing.T) {
	start := time.Now()
	w := labyrinth.NewWatchdog(testutil.MakeLogger(t), start)

	fired := make(chan struct{}, 1)
	w.AddTask(labyrinth.NewWatchdogTask("turn-1", func() {
		fired <- struct{}{}
	}, start.Add(5*time.Second)))

	w.Tick(start.Add(2 * time.Second))
	require.Empty(t, fired)
	require.Equal(t, 1, w.Size())

	w.Tick(start.Add(6 * time.Second))
	require.Len(t, fired, 1)
	require.Zero(t, w.Size())
	require.Equal(t, start.Add(6*time.Second), w.GetTime())
}

func TestWatchdogRemoveTask(t *testing.T) {
	start := time.Now()
	w := labyrinth.NewWatchdog(testutil.MakeLogger(t), start)

	var ran bool
	w.AddTask(labyrinth.NewWatchdogTask("turn-2", func() {
		ran = true
	}, start.Add(time.Second)))

	w.RemoveTask("turn-2")
	w.RemoveTask("unknown")
	w.Tick(start.Add(2 * time.Second))
	require.False(t, ran)
}

func TestWatchdogOrder(t *testing.T) {
	start := time.Now()
	w := labyrinth.NewWatchdog(testutil.MakeLogger(t), start)

	var order []string
	add := func(id string, after time.Duration) {
		w.AddTask(labyrinth.NewWatchdogTask(id, func() {
			order = append(order, id)
		}, start.Add(after)))
	}

	add("third", 3*time.Second)
	add("first", time.Second)
	add("second", 2*time.Second)
	add("never", time.Hour)

	w.Tick(start.Add(4 * time.Second))
	require.Equal(t, []string{"first", "second", "third"}, order)
	require.Equal(t, 1, w.Size())
}

func TestWatchdogDuplicateTask(t *testing.T) {
	start := time.Now()
	logger := testutil.MakeLogger(t)
	w := labyrinth.NewWatchdog(logger, start)

	var runs int
	w.AddTask(labyrinth.NewWatchdogTask("dup", func() { runs++ }, start.Add(time.Second)))
	w.AddTask(labyrinth.NewWatchdogTask("dup", func() { runs += 10 }, start.Add(time.Second)))
	require.Equal(t, 1, w.Size())

	w.Tick(start.Add(time.Minute))
	require.Equal(t, 1, runs)
}
