// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package narration

import (
	"fmt"
	"io"
	"sync"

	"github.com/ava-labs/labyrinth"
	"github.com/ava-labs/labyrinth/record"
	"github.com/fatih/color"
)

// Printer writes narration lines, colored by what happened.
type Printer struct {
	lock sync.Mutex
	out  io.Writer

	consumed    *color.Color
	replenished *color.Color
	complete    *color.Color
	shutdown    *color.Color
	plain       *color.Color
}

func NewPrinter(out io.Writer, colorize bool) *Printer {
	p := &Printer{
		out:         out,
		consumed:    color.New(color.FgGreen),
		replenished: color.New(color.FgCyan),
		complete:    color.New(color.FgYellow, color.Bold),
		shutdown:    color.New(color.Faint),
		plain:       color.New(color.Reset),
	}
	for _, c := range []*color.Color{p.consumed, p.replenished, p.complete, p.shutdown, p.plain} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Print narrates one encoded journal entry.
func (p *Printer) Print(entry []byte) error {
	recordType, err := record.Type(entry)
	if err != nil {
		return err
	}

	line, err := Describe(entry)
	if err != nil {
		return err
	}

	c := p.plain
	switch recordType {
	case record.ShutdownRecordType:
		c = p.shutdown
	case record.TurnRecordType:
		turn, err := record.ParseTurn(entry)
		if err != nil {
			return err
		}
		switch {
		case turn.Complete:
			c = p.complete
		case turn.Action == record.ActionConsumed:
			c = p.consumed
		case turn.Action == record.ActionReplenished:
			c = p.replenished
		}
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	_, err = c.Fprintln(p.out, line)
	return err
}

var _ labyrinth.WriteAheadLog = (*Tee)(nil)

// Tee journals into an inner WriteAheadLog and narrates every entry it accepts.
type Tee struct {
	labyrinth.WriteAheadLog
	Printer *Printer
}

func (t *Tee) Append(entry []byte) error {
	if err := t.WriteAheadLog.Append(entry); err != nil {
		return err
	}
	if err := t.Printer.Print(entry); err != nil {
		return fmt.Errorf("failed narrating journal entry: %w", err)
	}
	return nil
}
