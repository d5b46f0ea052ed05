// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package labyrinth

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ava-labs/labyrinth/record"
	"go.uber.org/zap"
)

// Summary describes a finished simulation.
type Summary struct {
	Turns uint64
	// Admissions and Consumptions are indexed by participant ordinal.
	Admissions   []uint64
	Consumptions []uint64
	VisitCount   int
	ShutdownAcks int
}

// AdmissionScheduler admits one participant at a time until the counting
// participant raises the completion flag, then drains every participant.
type AdmissionScheduler struct {
	SimulationConfig

	resource     *ResourceState
	completion   *CompletionFlag
	participants []*Participant
	// retired participants stopped on their own after seeing the completion flag.
	retired []bool

	watchdog *Watchdog
	started  atomic.Bool
	running  sync.WaitGroup
	summary  Summary
}

func NewAdmissionScheduler(conf SimulationConfig) (*AdmissionScheduler, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	s := &AdmissionScheduler{
		SimulationConfig: conf,
		resource:         NewResourceState(),
		completion:       &CompletionFlag{},
		participants:     make([]*Participant, conf.Population),
		retired:          make([]bool, conf.Population),
		summary: Summary{
			Admissions:   make([]uint64, conf.Population),
			Consumptions: make([]uint64, conf.Population),
		},
	}

	for i, id := range Participants(conf.Population) {
		s.participants[i] = newParticipant(id, conf.Population, conf.Logger, s.resource, s.completion)
	}

	s.Logger.Debug("Created admission scheduler",
		zap.Int("population", conf.Population),
		zap.Duration("stallTimeout", conf.StallTimeout))

	return s, nil
}

func (s *AdmissionScheduler) Resource() *ResourceState {
	return s.resource
}

func (s *AdmissionScheduler) Completion() *CompletionFlag {
	return s.completion
}

// Run spawns the participants, admits them until completion and returns once
// every participant has acknowledged shutdown. A scheduler runs once.
func (s *AdmissionScheduler) Run() (Summary, error) {
	if !s.started.CompareAndSwap(false, true) {
		return Summary{}, ErrAlreadyRun
	}

	s.running.Add(len(s.participants))
	for _, p := range s.participants {
		go p.run(&s.running)
	}

	if s.StallTimeout > 0 {
		stop := s.startWatchdog()
		defer stop()
	}

	if err := s.admitUntilComplete(); err != nil {
		return s.summary, err
	}

	s.Logger.Info("Completion detected, draining participants",
		zap.Uint64("turns", s.summary.Turns),
		zap.Int("visitCount", s.summary.VisitCount))

	if err := s.drain(); err != nil {
		return s.summary, err
	}

	s.running.Wait()
	s.Logger.Info("Simulation finished", zap.Int("shutdownAcks", s.summary.ShutdownAcks))
	return s.summary, nil
}

func (s *AdmissionScheduler) admitUntilComplete() error {
	for !s.completion.IsSet() {
		index, err := s.Sampler.Intn(len(s.participants))
		if err == nil && (index < 0 || index >= len(s.participants)) {
			err = fmt.Errorf("sampled index %d outside [0, %d)", index, len(s.participants))
		}
		if err != nil {
			s.Logger.Error("Failed sampling the next participant", zap.Error(err))
			// Everyone is parked on their mailbox, so they can still be drained.
			if drainErr := s.drain(); drainErr != nil {
				return fmt.Errorf("%w: %w (drain failed: %w)", ErrSamplerFailure, err, drainErr)
			}
			s.running.Wait()
			return fmt.Errorf("%w: %w", ErrSamplerFailure, err)
		}

		seq := s.summary.Turns + 1
		p := s.participants[index]
		s.Logger.Debug("Admitting participant", zap.Stringer("participant", p.id), zap.Uint64("turn", seq))

		out, err := s.rendezvous(p, signalTurn, seq)
		if err != nil {
			return err
		}
		s.summary.Turns = seq
		s.summary.Admissions[index]++

		switch out.Action {
		case record.ActionConsumed:
			s.summary.Consumptions[index]++
		case record.ActionRetired:
			s.retired[index] = true
		}
		if out.Counting {
			s.summary.VisitCount = out.VisitCount
		}

		s.journal(record.Turn{
			Seq:         seq,
			Participant: uint32(out.Participant),
			Counting:    out.Counting,
			Present:     out.Present,
			Action:      out.Action,
			VisitCount:  uint32(out.VisitCount),
			Complete:    out.Complete,
		}.Bytes())
	}
	return nil
}

// drain sends a shutdown signal to every participant in index order and waits
// for each acknowledgment before moving on.
func (s *AdmissionScheduler) drain() error {
	for i, p := range s.participants {
		if s.retired[i] {
			s.Logger.Warn("Participant already retired, not sending shutdown", zap.Stringer("participant", p.id))
			continue
		}

		if _, err := s.rendezvous(p, signalShutdown, uint64(i)); err != nil {
			return err
		}

		s.journal(record.Shutdown{
			Index:       uint32(s.summary.ShutdownAcks),
			Participant: uint32(p.id),
		}.Bytes())
		s.summary.ShutdownAcks++
	}
	return nil
}

// rendezvous delivers one signal with a fresh reply channel and blocks until it
// is answered.
func (s *AdmissionScheduler) rendezvous(p *Participant, kind signalKind, seq uint64) (TurnOutcome, error) {
	reply := make(chan TurnOutcome, 1)

	var stalled chan struct{}
	if s.watchdog != nil {
		stalled = make(chan struct{})
		taskID := fmt.Sprintf("%s-%d", kind, seq)
		s.watchdog.AddTask(NewWatchdogTask(taskID, func() {
			close(stalled)
		}, time.Now().Add(s.StallTimeout)))
		defer s.watchdog.RemoveTask(taskID)
	}

	select {
	case p.mailbox <- admission{kind: kind, seq: seq, reply: reply}:
	case <-stalled:
		return TurnOutcome{}, s.stallError(p, kind, "delivering")
	}

	select {
	case out, ok := <-reply:
		return s.checkReply(p, kind, out, ok)
	case <-stalled:
		// The answer may have raced with the deadline.
		select {
		case out, ok := <-reply:
			return s.checkReply(p, kind, out, ok)
		default:
			return TurnOutcome{}, s.stallError(p, kind, "awaiting reply to")
		}
	}
}

func (s *AdmissionScheduler) checkReply(p *Participant, kind signalKind, out TurnOutcome, ok bool) (TurnOutcome, error) {
	if !ok {
		s.Logger.Error("Reply channel closed without an answer", zap.Stringer("participant", p.id), zap.Stringer("signal", kind))
		return TurnOutcome{}, fmt.Errorf("%w: participant %s closed its %s reply without answering", ErrProtocolViolation, p.id, kind)
	}
	if out.Participant != p.id {
		s.Logger.Error("Reply from an unexpected participant",
			zap.Stringer("expected", p.id),
			zap.Stringer("got", out.Participant))
		return TurnOutcome{}, fmt.Errorf("%w: %s reply for participant %s came from %s", ErrProtocolViolation, kind, p.id, out.Participant)
	}
	return out, nil
}

func (s *AdmissionScheduler) stallError(p *Participant, kind signalKind, phase string) error {
	s.Logger.Error("Rendezvous stalled",
		zap.Stringer("participant", p.id),
		zap.Stringer("signal", kind),
		zap.String("phase", phase),
		zap.Duration("stallTimeout", s.StallTimeout))
	return fmt.Errorf("%w: %s %s signal for participant %s within %s", ErrDeadlock, phase, kind, p.id, s.StallTimeout)
}

func (s *AdmissionScheduler) startWatchdog() func() {
	s.watchdog = NewWatchdog(s.Logger, time.Now())

	interval := s.StallTimeout / 4
	if interval < time.Millisecond {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case now := <-ticker.C:
				s.watchdog.Tick(now)
			case <-done:
				return
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
		wg.Wait()
	}
}

func (s *AdmissionScheduler) journal(entry []byte) {
	if s.Journal == nil {
		return
	}
	if err := s.Journal.Append(entry); err != nil {
		s.Logger.Warn("Failed journaling simulation event", zap.Error(err))
	}
}
