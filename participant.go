// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package labyrinth

import (
	"sync"

	"github.com/ava-labs/labyrinth/record"
	"go.uber.org/zap"
)

type signalKind uint8

const (
	signalTurn signalKind = iota
	signalShutdown
)

func (k signalKind) String() string {
	if k == signalShutdown {
		return "shutdown"
	}
	return "turn"
}

// admission is what the scheduler delivers to a participant's mailbox.
// reply has capacity one and is answered exactly once.
type admission struct {
	kind  signalKind
	seq   uint64
	reply chan TurnOutcome
}

// TurnOutcome is a participant's answer to one admission.
type TurnOutcome struct {
	Participant ParticipantID
	Counting    bool
	// Present is the resource state observed on entry.
	Present    bool
	Action     record.Action
	VisitCount int
	// Complete is the completion flag as left by the turn.
	Complete bool
}

// Participant is one guest of the simulation. Ordinal 0 counts visits; every
// other ordinal is an ordinary participant that eats the resource once.
type Participant struct {
	id         ParticipantID
	population int
	logger     Logger
	resource   *ResourceState
	completion *CompletionFlag
	mailbox    chan admission

	// Only touched by the participant's own goroutine.
	haveEaten  bool
	visitCount int
}

func newParticipant(id ParticipantID, population int, logger Logger, resource *ResourceState, completion *CompletionFlag) *Participant {
	return &Participant{
		id:         id,
		population: population,
		logger:     logger,
		resource:   resource,
		completion: completion,
		mailbox:    make(chan admission),
	}
}

func (p *Participant) ID() ParticipantID {
	return p.id
}

func (p *Participant) run(running *sync.WaitGroup) {
	defer running.Done()

	for adm := range p.mailbox {
		if adm.kind == signalShutdown {
			p.logger.Verbo("Acknowledging shutdown", zap.Stringer("participant", p.id))
			adm.reply <- p.outcome(p.resource.Present(), record.ActionNone)
			return
		}

		if p.completion.IsSet() {
			p.logger.Debug("Admitted after completion, retiring", zap.Stringer("participant", p.id), zap.Uint64("turn", adm.seq))
			adm.reply <- p.outcome(p.resource.Present(), record.ActionRetired)
			return
		}

		var out TurnOutcome
		if p.id.IsCounting() {
			out = p.countingVisit()
		} else {
			out = p.ordinaryVisit()
		}

		p.logger.Verbo("Visit finished",
			zap.Stringer("participant", p.id),
			zap.Uint64("turn", adm.seq),
			zap.Bool("present", out.Present),
			zap.Stringer("action", out.Action))

		adm.reply <- out
	}
}

// ordinaryVisit eats the resource if it is there and this participant has not
// eaten before. An absent resource is left absent.
func (p *Participant) ordinaryVisit() TurnOutcome {
	present := p.resource.Present()
	if present && !p.haveEaten {
		p.resource.Consume()
		p.haveEaten = true
		return p.outcome(present, record.ActionConsumed)
	}
	return p.outcome(present, record.ActionNone)
}

// countingVisit credits one visit for every absent resource it finds and puts
// the resource back in the same turn. It eats the resource itself once.
func (p *Participant) countingVisit() TurnOutcome {
	present := p.resource.Present()
	switch {
	case !present:
		p.visitCount++
		p.resource.Replenish()
		if p.visitCount == p.population-1 {
			if !p.completion.Set() {
				p.logger.Error("Completion flag was already set", zap.Int("visitCount", p.visitCount))
			}
			p.logger.Info("Every participant has visited", zap.Int("visitCount", p.visitCount))
		}
		return p.outcome(present, record.ActionReplenished)
	case !p.haveEaten:
		p.resource.Consume()
		p.haveEaten = true
		return p.outcome(present, record.ActionConsumed)
	default:
		return p.outcome(present, record.ActionNone)
	}
}

func (p *Participant) outcome(present bool, action record.Action) TurnOutcome {
	return TurnOutcome{
		Participant: p.id,
		Counting:    p.id.IsCounting(),
		Present:     present,
		Action:      action,
		VisitCount:  p.visitCount,
		Complete:    p.completion.IsSet(),
	}
}
