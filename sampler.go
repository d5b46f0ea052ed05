// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package labyrinth

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

var _ Sampler = (*RandomSampler)(nil)

// RandomSampler draws from a seeded PCG source, so a seed reproduces a run.
type RandomSampler struct {
	lock sync.Mutex
	rng  *rand.Rand
}

func NewRandomSampler(seed uint64) *RandomSampler {
	return &RandomSampler{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (rs *RandomSampler) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: cannot sample from an empty range [0, %d)", ErrSamplerFailure, n)
	}

	rs.lock.Lock()
	defer rs.lock.Unlock()

	return rs.rng.IntN(n), nil
}
