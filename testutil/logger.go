// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/ava-labs/labyrinth"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var _ labyrinth.Logger = (*TestLogger)(nil)

type TestLogger struct {
	*zap.Logger
	traceVerboseLogger *zap.Logger
	panicOnError       bool
	panicOnWarn        bool
}

func (tl *TestLogger) Intercept(hook func(entry zapcore.Entry) error) {
	tl.Logger = tl.Logger.WithOptions(zap.Hooks(hook))
	tl.traceVerboseLogger = tl.traceVerboseLogger.WithOptions(zap.Hooks(hook))
}

func (tl *TestLogger) Silence() {
	atomicLevel := zap.NewAtomicLevelAt(zapcore.FatalLevel)
	core := tl.Logger.Core()
	tl.Logger = zap.New(core, zap.AddCaller(), zap.IncreaseLevel(atomicLevel))
	tl.traceVerboseLogger = zap.New(core, zap.AddCaller(), zap.IncreaseLevel(atomicLevel))
}

func (tl *TestLogger) SetPanicOnError(panicOnError bool) {
	tl.panicOnError = panicOnError
}

func (tl *TestLogger) SetPanicOnWarn(panicOnWarn bool) {
	tl.panicOnWarn = panicOnWarn
}

func (tl *TestLogger) Trace(msg string, fields ...zap.Field) {
	tl.traceVerboseLogger.Log(zapcore.DebugLevel, msg, fields...)
}

func (tl *TestLogger) Verbo(msg string, fields ...zap.Field) {
	tl.traceVerboseLogger.Log(zapcore.DebugLevel, msg, fields...)
}

func (tl *TestLogger) Warn(msg string, fields ...zap.Field) {
	if tl.panicOnWarn {
		tl.Logger.Error(msg, fields...)
		panic(fmt.Sprintf("WARN: %s", msg))
	}
	tl.Logger.Warn(msg, fields...)
}

func (tl *TestLogger) Error(msg string, fields ...zap.Field) {
	if tl.panicOnError {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.TimeKey = ""
		enc := zapcore.NewConsoleEncoder(encCfg)

		buf, err := enc.EncodeEntry(zapcore.Entry{Level: zapcore.ErrorLevel, Message: msg}, fields)
		if err != nil {
			panic(fmt.Sprintf("ERROR: %s (failed to encode fields: %v)", msg, err))
		}
		tl.Logger.Error(msg, fields...)
		panic(buf.String())
	}

	tl.Logger.Error(msg, fields...)
}

// MakeLogger returns a console logger tagged with the test name. Setting
// LOG_LEVEL=info drops debug output.
func MakeLogger(t *testing.T, participant ...int) *TestLogger {
	config := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	config.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(strings.ToUpper(l.String()))
	}
	config.EncodeTime = zapcore.TimeEncoderOfLayout("[01-02|15:04:05.000]")
	config.ConsoleSeparator = " "
	encoder := zapcore.NewConsoleEncoder(config)
	if strings.ToLower(os.Getenv("LOG_LEVEL")) == "info" {
		encoder = &DebugSwallowingEncoder{consoleEncoder: encoder, ObjectEncoder: encoder, pool: buffer.NewPool()}
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zap.NewAtomicLevelAt(zapcore.DebugLevel))

	logger := zap.New(core, zap.AddCaller()).With(zap.String("test", t.Name()))
	traceVerboseLogger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).With(zap.String("test", t.Name()))
	if len(participant) > 0 {
		logger = logger.With(zap.Int("participant", participant[0]))
		traceVerboseLogger = traceVerboseLogger.With(zap.Int("participant", participant[0]))
	}

	return &TestLogger{Logger: logger, traceVerboseLogger: traceVerboseLogger}
}

type DebugSwallowingEncoder struct {
	zapcore.ObjectEncoder
	consoleEncoder zapcore.Encoder
	pool           buffer.Pool
}

func (dse *DebugSwallowingEncoder) Clone() zapcore.Encoder {
	return &DebugSwallowingEncoder{
		pool:           dse.pool,
		ObjectEncoder:  dse.ObjectEncoder,
		consoleEncoder: dse.consoleEncoder.Clone(),
	}
}

func (dse *DebugSwallowingEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	if entry.Level == zapcore.DebugLevel {
		return dse.pool.Get(), nil
	}
	return dse.consoleEncoder.EncodeEntry(entry, fields)
}
