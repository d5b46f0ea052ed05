// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutil

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ava-labs/labyrinth"
)

var (
	ErrScriptExhausted = errors.New("scripted sampler exhausted")
	ErrSamplerBroken   = errors.New("sampler broken on purpose")

	_ labyrinth.Sampler = (*ScriptedSampler)(nil)
	_ labyrinth.Sampler = (*FailingSampler)(nil)
)

// ScriptedSampler replays a fixed sequence of indices.
type ScriptedSampler struct {
	lock   sync.Mutex
	script []int
	next   int
}

func NewScriptedSampler(script ...int) *ScriptedSampler {
	return &ScriptedSampler{script: script}
}

func (ss *ScriptedSampler) Intn(n int) (int, error) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	if ss.next >= len(ss.script) {
		return 0, fmt.Errorf("%w after %d draws", ErrScriptExhausted, ss.next)
	}
	v := ss.script[ss.next]
	ss.next++
	if v >= n {
		return 0, fmt.Errorf("scripted value %d at draw %d is outside [0, %d)", v, ss.next-1, n)
	}
	return v, nil
}

// Used returns how many values have been drawn.
func (ss *ScriptedSampler) Used() int {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	return ss.next
}

// FailingSampler delegates to Sampler for the first After draws, then fails.
type FailingSampler struct {
	Sampler labyrinth.Sampler
	After   int

	lock  sync.Mutex
	draws int
}

func (fs *FailingSampler) Intn(n int) (int, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.draws >= fs.After {
		return 0, ErrSamplerBroken
	}
	fs.draws++
	return fs.Sampler.Intn(n)
}
