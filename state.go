// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package labyrinth

import "sync/atomic"

// ResourceState is the single shared resource, present or absent.
//
// It carries no lock of its own. Only the participant currently admitted by the
// AdmissionScheduler may mutate it; the atomic only makes the accesses of
// successive participant goroutines race-free.
type ResourceState struct {
	present atomic.Bool
}

// NewResourceState returns a resource that starts present.
func NewResourceState() *ResourceState {
	rs := &ResourceState{}
	rs.present.Store(true)
	return rs
}

func (rs *ResourceState) Present() bool {
	return rs.present.Load()
}

func (rs *ResourceState) Consume() {
	rs.present.Store(false)
}

func (rs *ResourceState) Replenish() {
	rs.present.Store(true)
}

// CompletionFlag records that every participant has visited. It is set at most
// once and never reset.
type CompletionFlag struct {
	set atomic.Bool
}

func (cf *CompletionFlag) IsSet() bool {
	return cf.set.Load()
}

// Set raises the flag. It returns false if the flag was already raised.
func (cf *CompletionFlag) Set() bool {
	return cf.set.CompareAndSwap(false, true)
}
