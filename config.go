// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package labyrinth

import (
	"errors"
	"fmt"
	"time"
)

const DefaultPopulation = 10

var (
	ErrInvalidConfig     = errors.New("invalid simulation config")
	ErrInvalidPopulation = errors.New("population must include the counting participant and at least one other")
	ErrProtocolViolation = errors.New("admission protocol violated")
	ErrDeadlock          = errors.New("rendezvous did not complete")
	ErrSamplerFailure    = errors.New("admission sampler failed")
	ErrAlreadyRun        = errors.New("simulation already run")
)

type SimulationConfig struct {
	Logger Logger
	// Population is the number of participants, the counting participant included.
	Population int
	Sampler    Sampler
	// Journal, if set, receives one record per turn and one per shutdown acknowledgment.
	Journal WriteAheadLog
	// StallTimeout bounds a single rendezvous. Zero waits forever.
	StallTimeout time.Duration
}

// Validate rejects configurations before any participant is spawned.
func (c *SimulationConfig) Validate() error {
	if c.Population < 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidPopulation, c.Population)
	}
	if c.Logger == nil {
		return fmt.Errorf("%w: no logger", ErrInvalidConfig)
	}
	if c.Sampler == nil {
		return fmt.Errorf("%w: no sampler", ErrInvalidConfig)
	}
	if c.StallTimeout < 0 {
		return fmt.Errorf("%w: negative stall timeout %s", ErrInvalidConfig, c.StallTimeout)
	}
	return nil
}
