// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/cloudzero/broadband-explorer/app/domain/ookla"
	"github.com/cloudzero/broadband-explorer/app/storage/parquetfile"
)

const FlagOut = "out"

// NewLoadCommand loads and merges the downloaded files of a selection.
func NewLoadCommand(state *State) *cli.Command {
	return &cli.Command{
		Name:  "load",
		Usage: "load and merge the selected files that have been downloaded",
		Flags: append(selectionFlags(),
			&cli.BoolFlag{Name: FlagOffline, Usage: "derive keys from the published layout instead of listing the bucket"},
			&cli.StringFlag{Name: FlagOut, Usage: "write the merged table to this CSV file"},
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

			result, err := ookla.NewLoader(parquetfile.NewReader(), state.Settings.DataDir).Load(c.Context, table, criteria)
			if err != nil {
				return err
			}

			switch result.Status {
			case ookla.StatusNothingSelected:
				fmt.Fprintln(state.Out, "No files match the selection.")
				return nil
			case ookla.StatusNotDownloaded:
				fmt.Fprintf(state.Out, "None of the %d selected files are downloaded; run download first.\n", len(result.Missing))
				return nil
			}

			f := result.Frame
			fmt.Fprintf(state.Out, "Loaded %d files: %d rows, %d columns\n", len(result.Loaded), f.Nrow(), f.Ncol())
			if len(result.Missing) > 0 {
				fmt.Fprintf(state.Out, "Skipped %d files that are not downloaded\n", len(result.Missing))
			}

			out := c.String(FlagOut)
			if out == "" {
				return nil
			}
			file, err := os.Create(out)
			if err != nil {
				return errors.Wrap(err, "create output file")
			}
			defer file.Close()

			if err := f.WriteCSV(file); err != nil {
				return errors.Wrapf(err, "write %s", out)
			}
			log.Ctx(c.Context).Info().Str("path", out).Msg("Wrote merged table")
			return nil
		},
	}
}
