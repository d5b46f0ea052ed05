// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command labyrinth runs the cupcake labyrinth simulation, or the showroom
// queue simulation, and narrates it on the console.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ava-labs/labyrinth"
	"github.com/ava-labs/labyrinth/narration"
	"github.com/ava-labs/labyrinth/showroom"
	"github.com/ava-labs/labyrinth/wal"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

const (
	exitOK = iota
	exitFailure
	exitInvalidConfig
	exitDeadlock
	exitSamplerFailure
)

const (
	puzzleCupcake  = "cupcake"
	puzzleShowroom = "showroom"
)

type options struct {
	puzzle       string
	guests       int
	seed         int64
	stallTimeout time.Duration
	maxVisits    int
	logLevel     string
	logFormat    string
	noColor      bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("labyrinth", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.puzzle, "puzzle", puzzleCupcake, "simulation to run: cupcake or showroom")
	fs.IntVar(&opts.guests, "guests", labyrinth.DefaultPopulation, "number of guests, the counting guest included")
	fs.Int64Var(&opts.seed, "seed", -1, "admission randomness seed; negative picks one from the clock")
	fs.DurationVar(&opts.stallTimeout, "stall-timeout", 30*time.Second, "cupcake: abort when a guest does not answer within this duration; showroom: bound on the whole run; 0 waits forever")
	fs.IntVar(&opts.maxVisits, "max-visits", showroom.DefaultMaxVisits, "showroom only: cap on the total number of visits")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level")
	fs.StringVar(&opts.logFormat, "log-format", "console", "log format: console or json")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable colored narration")

	if err := fs.Parse(args); err != nil {
		return exitInvalidConfig
	}

	log, err := newLogger(stderr, opts.logLevel, opts.logFormat)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInvalidConfig
	}
	defer log.Sync()

	if opts.seed < 0 {
		opts.seed = time.Now().UnixNano() & (1<<63 - 1)
	}
	log.Info("Starting simulation",
		zap.String("puzzle", opts.puzzle),
		zap.Int("guests", opts.guests),
		zap.Int64("seed", opts.seed))

	sampler := labyrinth.NewRandomSampler(uint64(opts.seed))

	switch opts.puzzle {
	case puzzleCupcake:
		err = runCupcake(log, sampler, opts, stdout)
	case puzzleShowroom:
		err = runShowroom(log, sampler, opts, stdout)
	default:
		err = fmt.Errorf("%w: unknown puzzle %q", labyrinth.ErrInvalidConfig, opts.puzzle)
	}

	if err != nil {
		log.Error("Simulation failed", zap.Error(err))
	}
	return exitCode(err)
}

func runCupcake(log labyrinth.Logger, sampler labyrinth.Sampler, opts options, stdout io.Writer) error {
	var journal wal.InMemWAL
	s, err := labyrinth.NewAdmissionScheduler(labyrinth.SimulationConfig{
		Logger:     log,
		Population: opts.guests,
		Sampler:    sampler,
		Journal: &narration.Tee{
			WriteAheadLog: &journal,
			Printer:       narration.NewPrinter(stdout, !opts.noColor),
		},
		StallTimeout: opts.stallTimeout,
	})
	if err != nil {
		return err
	}

	summary, err := s.Run()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%d turns, %d/%d visits counted, %d guests sent home\n",
		summary.Turns, summary.VisitCount, opts.guests-1, summary.ShutdownAcks)
	return nil
}

func runShowroom(log labyrinth.Logger, sampler labyrinth.Sampler, opts options, stdout io.Writer) error {
	room, err := showroom.New(showroom.Config{
		Logger:    log,
		Guests:    opts.guests,
		Sampler:   sampler,
		MaxVisits: opts.maxVisits,
	})
	if err != nil {
		return err
	}

	ctx := context.Background()
	if opts.stallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.stallTimeout)
		defer cancel()
	}

	report, err := room.Run(ctx)
	if err != nil {
		return err
	}

	visit := color.New(color.FgGreen)
	if opts.noColor {
		visit.DisableColor()
	} else {
		visit.EnableColor()
	}
	for i, guest := range report.Order {
		visit.Fprintf(stdout, "visit %d: guest %s views the vase\n", i+1, guest)
	}
	fmt.Fprintf(stdout, "%d visits by %d guests\n", len(report.Order), opts.guests)
	return nil
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, labyrinth.ErrInvalidPopulation),
		errors.Is(err, labyrinth.ErrInvalidConfig),
		errors.Is(err, showroom.ErrInvalidConfig):
		return exitInvalidConfig
	case errors.Is(err, labyrinth.ErrDeadlock),
		errors.Is(err, labyrinth.ErrProtocolViolation),
		errors.Is(err, showroom.ErrRoomOccupied),
		errors.Is(err, context.DeadlineExceeded):
		return exitDeadlock
	case errors.Is(err, labyrinth.ErrSamplerFailure):
		return exitSamplerFailure
	default:
		return exitFailure
	}
}
