// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the zerolog loggers used by the explorer tools.
//
// Tools are run interactively, so the default sink is a console writer on
// stderr. Stdout is left for rendered output (trees, tables, CSV) so it can be
// piped without log noise.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

type loggerOptions struct {
	level   string
	writer  io.Writer
	version string
	json    bool
}

// LoggerOpt configures NewLogger.
type LoggerOpt func(*loggerOptions)

// WithLevel sets the minimum level, e.g. "debug" or "warn".
func WithLevel(level string) LoggerOpt {
	return func(o *loggerOptions) { o.level = level }
}

// WithSink sends output to w instead of stderr.
func WithSink(w io.Writer) LoggerOpt {
	return func(o *loggerOptions) { o.writer = w }
}

// WithVersion attaches a version field to every entry.
func WithVersion(version string) LoggerOpt {
	return func(o *loggerOptions) { o.version = version }
}

// WithJSON disables the console writer and emits raw JSON lines.
func WithJSON() LoggerOpt {
	return func(o *loggerOptions) { o.json = true }
}

// NewLogger creates a logger and installs it as the global zerolog logger
// and as the fallback for contexts that carry no logger.
func NewLogger(opts ...LoggerOpt) (*zerolog.Logger, error) {
	o := loggerOptions{level: "info", writer: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	level, err := zerolog.ParseLevel(o.level)
	if err != nil {
		return nil, err
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := o.writer
	if !o.json {
		out = zerolog.ConsoleWriter{Out: o.writer, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if o.version != "" {
		ctx = ctx.Str("version", o.version)
	}
	logger := ctx.Logger()

	zerolog.SetGlobalLevel(level)
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	return &logger, nil
}
