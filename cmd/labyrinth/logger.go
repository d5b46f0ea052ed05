// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"io"

	"github.com/ava-labs/labyrinth"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ labyrinth.Logger = (*logger)(nil)

// logger maps the Trace and Verbo levels onto zap's debug level.
type logger struct {
	*zap.Logger
	traceVerboseLogger *zap.Logger
}

func (l *logger) Trace(msg string, fields ...zap.Field) {
	l.traceVerboseLogger.Debug(msg, fields...)
}

func (l *logger) Verbo(msg string, fields ...zap.Field) {
	l.traceVerboseLogger.Debug(msg, fields...)
}

func newLogger(w io.Writer, level, format string) (*logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var encoder zapcore.Encoder
	switch format {
	case "console":
		config := zap.NewDevelopmentEncoderConfig()
		config.EncodeTime = zapcore.TimeEncoderOfLayout("[01-02|15:04:05.000]")
		config.ConsoleSeparator = " "
		encoder = zapcore.NewConsoleEncoder(config)
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), zap.NewAtomicLevelAt(lvl))
	return &logger{
		Logger:             zap.New(core, zap.AddCaller()),
		traceVerboseLogger: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)),
	}, nil
}
