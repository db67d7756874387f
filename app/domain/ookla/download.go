// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ookla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/cloudzero/broadband-explorer/app/types"
)

// Downloader copies selected files into a local directory.
type Downloader struct {
	fetcher types.ObjectFetcher
	dataDir string
}

// NewDownloader creates a downloader writing into dataDir.
func NewDownloader(fetcher types.ObjectFetcher, dataDir string) *Downloader {
	return &Downloader{fetcher: fetcher, dataDir: dataDir}
}

// LocalPath is where the object behind uri is stored in dataDir.
func LocalPath(dataDir, uri string) (string, error) {
	_, key, err := ParseObjectURI(uri)
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, LocalName(key)), nil
}

// Download selects the records matching c and fetches each one that is not
// already present in the data directory. Files that exist are never fetched
// again and never checked against the remote object. The returned table is
// the sorted selection with LocalPath set on every record. The first fetch
// error aborts the download.
func (d *Downloader) Download(ctx context.Context, table FileTable, c Criteria) (FileTable, error) {
	logger := log.Ctx(ctx).With().Str("component", "downloader").Logger()

	selection := table.Select(c)
	logger.Info().
		Ints("years", c.Years).
		Ints("quarters", c.Quarters).
		Strs("service_types", serviceTypeStrings(c.ServiceTypes)).
		Int("files", len(selection)).
		Msg("Selected files")

	if len(selection) == 0 {
		logger.Info().Msg("Selection is empty; nothing to download")
		return selection, nil
	}

	fetched := 0
	for i := range selection {
		rec := &selection[i]

		bucket, key, err := ParseObjectURI(rec.Path)
		if err != nil {
			return nil, err
		}
		localPath := filepath.Join(d.dataDir, LocalName(key))

		exists, err := fileExists(localPath)
		if err != nil {
			return nil, err
		}

		if exists {
			logger.Info().Str("file", LocalName(key)).Msg("Already exists, skipping")
		} else {
			logger.Info().Str("file", LocalName(key)).Msg("Downloading")
			if err := d.fetcher.FetchObject(ctx, bucket, key, localPath); err != nil {
				return nil, fmt.Errorf("download %s: %w", rec.Path, err)
			}
			fetched++
			logger.Info().Str("path", localPath).Msg("Saved")
		}

		rec.LocalPath = localPath
	}

	logger.Info().
		Int("files", len(selection)).
		Int("fetched", fetched).
		Int("skipped", len(selection)-fetched).
		Msg("Download complete")

	return selection, nil
}

func fileExists(p string) (bool, error) {
	_, err := os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("check %s: %w", p, err)
	}
}

func serviceTypeStrings(sts []ServiceType) []string {
	out := make([]string, len(sts))
	for i, st := range sts {
		out[i] = string(st)
	}
	return out
}
