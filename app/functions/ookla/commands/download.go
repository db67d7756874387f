// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/cloudzero/broadband-explorer/app/domain/ookla"
	"github.com/cloudzero/broadband-explorer/app/utils/lock"
)

// downloadLockName is the lock file guarding the data directory while files
// are fetched into it.
const downloadLockName = ".download.lock"

// NewDownloadCommand downloads the selected files into the data directory.
func NewDownloadCommand(state *State) *cli.Command {
	return &cli.Command{
		Name:    "download",
		Usage:   "download the selected parquet files",
		Aliases: []string{"dl"},
		Flags: append(selectionFlags(),
			&cli.BoolFlag{Name: FlagOffline, Usage: "derive keys from the published layout instead of listing the bucket"},
		),
		Action: func(c *cli.Context) error {
			criteria, err := criteriaFromFlags(c)
			if err != nil {
				return err
			}
			table, err := state.fileTable(c, criteria)
			if err != nil {
				return err
			}

			store, err := state.Store(c.Context)
			if err != nil {
				return err
			}
			dirLock := lock.New(filepath.Join(state.Settings.DataDir, downloadLockName))
			if err := dirLock.Acquire(c.Context); err != nil {
				return fmt.Errorf("lock data directory: %w", err)
			}
			defer dirLock.Release() //nolint:errcheck // the lock file is left for stale takeover

			downloaded, err := ookla.NewDownloader(store, state.Settings.DataDir).Download(c.Context, table, criteria)
			if err != nil {
				return err
			}

			for _, rec := range downloaded {
				fmt.Fprintln(state.Out, rec.LocalPath)
			}
			return nil
		},
	}
}
