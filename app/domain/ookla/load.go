// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ookla

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog/log"
)

// Provenance columns added to every loaded table.
const (
	ColumnYear        = "year"
	ColumnQuarter     = "quarter"
	ColumnServiceType = "service_type"
)

// TableReader reads one local file into a dataframe.
type TableReader interface {
	ReadFile(path string) (dataframe.DataFrame, error)
}

// LoadStatus tells apart the outcomes of a load.
type LoadStatus int

const (
	// StatusNothingSelected means no record matched the criteria.
	StatusNothingSelected LoadStatus = iota
	// StatusNotDownloaded means records matched but none was present locally.
	StatusNotDownloaded
	// StatusLoaded means at least one file was read; Frame is set.
	StatusLoaded
)

func (s LoadStatus) String() string {
	switch s {
	case StatusNothingSelected:
		return "nothing selected"
	case StatusNotDownloaded:
		return "not downloaded"
	case StatusLoaded:
		return "loaded"
	}
	return fmt.Sprintf("LoadStatus(%d)", int(s))
}

// LoadResult is the outcome of Loader.Load. Frame is nil unless Status is
// StatusLoaded. Columns missing from some files are NA in their rows.
type LoadResult struct {
	Status LoadStatus
	Frame  *dataframe.DataFrame
	// Loaded lists the records that were read, with LocalPath set.
	Loaded FileTable
	// Missing lists selected records with no local file.
	Missing FileTable
}

// Loader reads previously downloaded files.
type Loader struct {
	reader  TableReader
	dataDir string
}

// NewLoader creates a loader reading from dataDir.
func NewLoader(reader TableReader, dataDir string) *Loader {
	return &Loader{reader: reader, dataDir: dataDir}
}

// Load reads the local copy of every record matching c, tags each table with
// its year, quarter and service type, and concatenates them in selection
// order. Records without a local file are skipped with a warning. A file
// that exists but cannot be read fails the load.
func (l *Loader) Load(ctx context.Context, table FileTable, c Criteria) (*LoadResult, error) {
	return l.load(ctx, table.Select(c))
}

// LoadOne loads the single file for one year, quarter and service type. If
// several records match, the first in selection order is used.
func (l *Loader) LoadOne(ctx context.Context, table FileTable, year, quarter int, st ServiceType) (*LoadResult, error) {
	selection := table.Select(NewCriteria().WithYears(year).WithQuarters(quarter).WithServiceTypes(st))
	if len(selection) > 1 {
		selection = selection[:1]
	}
	return l.load(ctx, selection)
}

func (l *Loader) load(ctx context.Context, selection FileTable) (*LoadResult, error) {
	logger := log.Ctx(ctx).With().Str("component", "loader").Logger()

	if len(selection) == 0 {
		logger.Info().Msg("No files match the selection")
		return &LoadResult{Status: StatusNothingSelected}, nil
	}

	result := &LoadResult{Status: StatusNotDownloaded}
	frames := make([]dataframe.DataFrame, 0, len(selection))

	for _, rec := range selection {
		localPath, err := LocalPath(l.dataDir, rec.Path)
		if err != nil {
			return nil, err
		}

		exists, err := fileExists(localPath)
		if err != nil {
			return nil, err
		}
		if !exists {
			logger.Warn().
				Str("file", localPath).
				Str("data_dir", l.dataDir).
				Msg("File not found, download it first")
			result.Missing = append(result.Missing, rec)
			continue
		}

		logger.Info().Str("file", localPath).Msg("Loading")
		f, err := l.reader.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", localPath, err)
		}
		n := f.Nrow()
		logger.Info().Int("rows", n).Msg("Loaded")

		f = f.Mutate(series.New(slices.Repeat([]int{*rec.Year}, n), series.Int, ColumnYear)).
			Mutate(series.New(slices.Repeat([]int{*rec.Quarter}, n), series.Int, ColumnQuarter)).
			Mutate(series.New(slices.Repeat([]string{string(*rec.ServiceType)}, n), series.String, ColumnServiceType))
		if f.Err != nil {
			return nil, fmt.Errorf("tag %s: %w", localPath, f.Err)
		}
		frames = append(frames, f)

		rec.LocalPath = localPath
		result.Loaded = append(result.Loaded, rec)
	}

	if len(frames) == 0 {
		logger.Warn().Int("missing", len(result.Missing)).Msg("None of the selected files are downloaded")
		return result, nil
	}

	merged := frames[0]
	for _, f := range frames[1:] {
		merged = merged.Concat(f)
	}
	if merged.Err != nil {
		return nil, fmt.Errorf("merge tables: %w", merged.Err)
	}

	result.Status = StatusLoaded
	result.Frame = &merged
	logger.Info().
		Int("files", len(frames)).
		Int("rows", merged.Nrow()).
		Int("missing", len(result.Missing)).
		Msg("Merged tables")

	return result, nil
}
