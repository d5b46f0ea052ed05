// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package showroom simulates guests who queue up to view a single room. The
// guest inside the room picks the next guest from the queue and lets them in,
// so admission is handed off from guest to guest without a central scheduler.
package showroom

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ava-labs/labyrinth"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxVisits = 100

var (
	ErrInvalidConfig = errors.New("invalid showroom config")
	ErrRoomOccupied  = errors.New("showroom entered while occupied")
	ErrAlreadyRun    = errors.New("showroom already run")
)

type Config struct {
	Logger labyrinth.Logger
	Guests int
	// Sampler decides, by drawing from [0, 2), whether a guest queues up again.
	Sampler labyrinth.Sampler
	// MaxVisits caps the total number of visits. Once reached nobody queues up again.
	MaxVisits int
}

func (c *Config) Validate() error {
	switch {
	case c.Guests < 1:
		return fmt.Errorf("%w: need at least one guest, got %d", ErrInvalidConfig, c.Guests)
	case c.Logger == nil:
		return fmt.Errorf("%w: no logger", ErrInvalidConfig)
	case c.Sampler == nil:
		return fmt.Errorf("%w: no sampler", ErrInvalidConfig)
	case c.MaxVisits < c.Guests:
		return fmt.Errorf("%w: max visits %d is below the number of guests %d", ErrInvalidConfig, c.MaxVisits, c.Guests)
	}
	return nil
}

// Report describes a finished showroom run.
type Report struct {
	// Visits is indexed by guest.
	Visits []int
	// Order lists guests in the order they entered the room.
	Order labyrinth.ParticipantIDs
}

type Showroom struct {
	Config

	entrances []chan struct{}
	occupied  atomic.Bool
	started   atomic.Bool

	lock   sync.Mutex
	queue  []labyrinth.ParticipantID
	report Report
}

func New(conf Config) (*Showroom, error) {
	if conf.MaxVisits == 0 {
		conf.MaxVisits = DefaultMaxVisits
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	s := &Showroom{
		Config:    conf,
		entrances: make([]chan struct{}, conf.Guests),
		queue:     labyrinth.Participants(conf.Guests),
		report: Report{
			Visits: make([]int, conf.Guests),
		},
	}
	for i := range s.entrances {
		// A guest that queues up again may be the next one in line.
		s.entrances[i] = make(chan struct{}, 1)
	}
	return s, nil
}

// Run lets the first guest in line into the room and waits until every guest
// has left for good.
func (s *Showroom) Run(ctx context.Context) (Report, error) {
	if !s.started.CompareAndSwap(false, true) {
		return Report{}, ErrAlreadyRun
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := range s.entrances {
		id := labyrinth.ParticipantID(i)
		g.Go(func() error {
			return s.guest(ctx, id)
		})
	}

	if next, ok := s.popNext(false, 0); ok {
		s.Logger.Debug("Letting the first guest in", zap.Stringer("guest", next))
		s.entrances[next] <- struct{}{}
	}

	err := g.Wait()

	s.lock.Lock()
	defer s.lock.Unlock()

	if err != nil {
		return s.report, err
	}
	s.Logger.Info("Every guest has finished viewing the room", zap.Int("visits", len(s.report.Order)))
	return s.report, nil
}

func (s *Showroom) guest(ctx context.Context, id labyrinth.ParticipantID) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.entrances[id]:
		}

		if err := s.enter(id); err != nil {
			return err
		}

		requeue, err := s.decide()
		if err != nil {
			s.occupied.Store(false)
			return err
		}

		next, ok := s.popNext(requeue, id)
		s.occupied.Store(false)

		if ok {
			s.Logger.Verbo("Handing off the room", zap.Stringer("guest", id), zap.Stringer("next", next))
			s.entrances[next] <- struct{}{}
		}

		if !requeue {
			s.Logger.Debug("Guest is done", zap.Stringer("guest", id))
			return nil
		}
		s.Logger.Debug("Guest queued up again", zap.Stringer("guest", id))
	}
}

func (s *Showroom) enter(id labyrinth.ParticipantID) error {
	if !s.occupied.CompareAndSwap(false, true) {
		s.Logger.Error("Guest entered an occupied showroom", zap.Stringer("guest", id))
		return fmt.Errorf("%w: guest %s", ErrRoomOccupied, id)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.report.Visits[id]++
	s.report.Order = append(s.report.Order, id)
	s.Logger.Debug("Guest is viewing the room", zap.Stringer("guest", id), zap.Int("visit", len(s.report.Order)))
	return nil
}

func (s *Showroom) decide() (bool, error) {
	s.lock.Lock()
	capped := len(s.report.Order) >= s.MaxVisits
	s.lock.Unlock()
	if capped {
		return false, nil
	}

	coin, err := s.Sampler.Intn(2)
	if err != nil {
		return false, fmt.Errorf("failed deciding whether to queue up again: %w", err)
	}
	return coin == 1, nil
}

// popNext optionally puts id at the back of the queue, then removes and
// returns the guest at its front.
func (s *Showroom) popNext(requeue bool, id labyrinth.ParticipantID) (labyrinth.ParticipantID, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if requeue {
		s.queue = append(s.queue, id)
	}
	if len(s.queue) == 0 {
		return 0, false
	}
	next := s.queue[0]
	s.queue = s.queue[1:]
	return next, true
}
