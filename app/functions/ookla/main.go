// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package main implements the ookla tool, which lists, downloads and loads
// the Ookla open data performance tiles.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cloudzero/broadband-explorer/app/build"
	"github.com/cloudzero/broadband-explorer/app/functions/ookla/commands"
)

func main() {
	ctx := ctrlCHandler()

	state := commands.NewState(os.Stdout)
	app := commands.NewApp(state)
	app.Version = fmt.Sprintf("%s/%s-%s", build.GetVersion(), runtime.GOOS, runtime.GOARCH)
	app.Compiled = time.Now()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Ctx(ctx).Err(err).Msg("ookla failed")
		os.Exit(1)
	}
}

func ctrlCHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt)
	go func() {
		<-stopCh
		cancel()
	}()
	return ctx
}
