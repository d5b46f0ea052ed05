// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ava-labs/labyrinth"
	"github.com/stretchr/testify/require"
)

func TestRunCupcake(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-seed", "3", "-guests", "4", "-no-color", "-log-level", "warn"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	out := stdout.String()
	require.Contains(t, out, "every guest has visited")
	require.Contains(t, out, "3/3 visits counted, 4 guests sent home")
	require.Equal(t, 4, strings.Count(out, "leaves the party"))
}

func TestRunCupcakeDeterministic(t *testing.T) {
	outputs := make([]string, 2)
	for i := range outputs {
		var stdout, stderr bytes.Buffer
		require.Equal(t, exitOK, run([]string{"-seed", "11", "-no-color", "-log-level", "error"}, &stdout, &stderr))
		outputs[i] = stdout.String()
	}
	require.Equal(t, outputs[0], outputs[1])
}

func TestRunShowroom(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-puzzle", "showroom", "-seed", "5", "-guests", "3", "-no-color", "-log-format", "json"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	require.Contains(t, stdout.String(), "views the vase")
	require.Contains(t, stderr.String(), `"msg":"Every guest has finished viewing the room"`)
}

func TestRunInvalidConfig(t *testing.T) {
	for _, args := range [][]string{
		{"-guests", "1"},
		{"-guests", "0"},
		{"-puzzle", "maze"},
		{"-log-level", "loud"},
		{"-log-format", "xml"},
		{"-stall-timeout", "-1s"},
		{"-puzzle", "showroom", "-max-visits", "1"},
		{"-unknown-flag"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			require.Equal(t, exitInvalidConfig, run(args, &stdout, &stderr))
		})
	}
}

func TestExitCode(t *testing.T) {
	for err, code := range map[error]int{
		nil:                            exitOK,
		labyrinth.ErrInvalidPopulation: exitInvalidConfig,
		fmt.Errorf("wrapped: %w", labyrinth.ErrDeadlock): exitDeadlock,
		labyrinth.ErrProtocolViolation:                   exitDeadlock,
		context.DeadlineExceeded:                         exitDeadlock,
		labyrinth.ErrSamplerFailure:                      exitSamplerFailure,
		errors.New("something else"):                     exitFailure,
	} {
		require.Equal(t, code, exitCode(err), "%v", err)
	}
}
