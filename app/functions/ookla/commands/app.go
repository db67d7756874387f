// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package commands holds the subcommands of the ookla tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/cloudzero/broadband-explorer/app/build"
	config "github.com/cloudzero/broadband-explorer/app/config/explorer"
	"github.com/cloudzero/broadband-explorer/app/logging"
	"github.com/cloudzero/broadband-explorer/app/storage/objectstore"
	"github.com/cloudzero/broadband-explorer/app/types"
)

const (
	FlagConfig        = "config"
	FlagLogLevel      = "log-level"
	FlagProvider      = "provider"
	FlagEndpoint      = "endpoint"
	FlagNoSignRequest = "no-sign-request"
	FlagDataDir       = "data-dir"
)

// StoreFactory creates the object store client for the resolved settings.
type StoreFactory func(ctx context.Context, cfg config.Storage) (types.ObjectStore, error)

// State is shared by the subcommands. It is filled in by the app's Before
// hook.
type State struct {
	Settings *config.Settings
	NewStore StoreFactory
	Out      io.Writer
}

// NewState returns a state writing results to out and creating real clients.
func NewState(out io.Writer) *State {
	return &State{NewStore: objectstore.New, Out: out}
}

// Store creates the object store client.
func (s *State) Store(ctx context.Context) (types.ObjectStore, error) {
	return s.NewStore(ctx, s.Settings.Storage)
}

// NewApp builds the ookla application around state.
func NewApp(state *State) *cli.App {
	return &cli.App{
		Name:  "ookla",
		Usage: "list, download and load the Ookla open data performance tiles",
		Authors: []*cli.Author{
			{Name: build.AuthorName, Email: build.AuthorEmail},
		},
		Copyright:            build.Copyright,
		EnableBashCompletion: true,
		Writer:               state.Out,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: FlagConfig, Usage: "YAML settings file, may be repeated"},
			&cli.StringFlag{Name: FlagLogLevel, Usage: "the log level (overrides the settings file)"},
			&cli.StringFlag{Name: FlagProvider, Usage: "object store client, s3 or minio"},
			&cli.StringFlag{Name: FlagEndpoint, Usage: "custom object store endpoint"},
			&cli.BoolFlag{Name: FlagNoSignRequest, Usage: "send unauthenticated requests"},
			&cli.StringFlag{Name: FlagDataDir, Usage: "directory for downloaded files"},
		},
		Before: func(c *cli.Context) error {
			return state.setup(c)
		},
		Commands: []*cli.Command{
			NewListCommand(state),
			NewDownloadCommand(state),
			NewLoadCommand(state),
		},
	}
}

// setup creates the logger, loads settings, applies flag overrides and
// prepares the data directory.
func (s *State) setup(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	level := settings.Logging.Level
	if c.IsSet(FlagLogLevel) {
		level = c.String(FlagLogLevel)
	}
	logger, err := logging.NewLogger(logging.WithLevel(level), logging.WithVersion(build.GetVersion()))
	if err != nil {
		return fmt.Errorf("failed to create the logger: %w", err)
	}
	c.Context = logger.WithContext(c.Context)

	if err := settings.Prepare(); err != nil {
		return err
	}

	s.Settings = settings
	return nil
}

// loadSettings reads the settings files and applies flag overrides.
func loadSettings(c *cli.Context) (*config.Settings, error) {
	settings, err := config.Load(c.StringSlice(FlagConfig)...)
	if err != nil {
		return nil, err
	}

	if c.IsSet(FlagProvider) {
		settings.Storage.Provider = c.String(FlagProvider)
	}
	if c.IsSet(FlagEndpoint) {
		settings.Storage.Endpoint = c.String(FlagEndpoint)
	}
	if c.IsSet(FlagNoSignRequest) {
		settings.Storage.NoSignRequest = c.Bool(FlagNoSignRequest)
	}
	if c.IsSet(FlagDataDir) {
		settings.DataDir = c.String(FlagDataDir)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}
