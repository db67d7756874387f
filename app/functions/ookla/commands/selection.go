// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/cloudzero/broadband-explorer/app/domain/ookla"
)

const (
	FlagYear        = "year"
	FlagQuarter     = "quarter"
	FlagServiceType = "service-type"
	FlagOffline     = "offline"
)

func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntSliceFlag{Name: FlagYear, Aliases: []string{"y"}, Usage: "year to select, may be repeated", Required: true},
		&cli.IntSliceFlag{Name: FlagQuarter, Aliases: []string{"q"}, Usage: "quarter (1-4) to select, may be repeated", Required: true},
		&cli.StringSliceFlag{Name: FlagServiceType, Aliases: []string{"t"}, Usage: "service type (fixed, mobile), may be repeated", Required: true},
	}
}

func criteriaFromFlags(c *cli.Context) (ookla.Criteria, error) {
	var serviceTypes []ookla.ServiceType
	for _, s := range c.StringSlice(FlagServiceType) {
		st, err := ookla.ParseServiceType(s)
		if err != nil {
			return ookla.Criteria{}, err
		}
		serviceTypes = append(serviceTypes, st)
	}

	return ookla.NewCriteria().
		WithYears(c.IntSlice(FlagYear)...).
		WithQuarters(c.IntSlice(FlagQuarter)...).
		WithServiceTypes(serviceTypes...), nil
}

// fileTable returns the dataset records. With --offline the records are
// derived from the published layout instead of a bucket listing.
func (s *State) fileTable(c *cli.Context, criteria ookla.Criteria) (ookla.FileTable, error) {
	if c.Bool(FlagOffline) {
		return ookla.ExpectedFiles(s.Settings.Bucket, criteria), nil
	}

	store, err := s.Store(c.Context)
	if err != nil {
		return nil, err
	}
	uris, err := ookla.ListParquetObjects(c.Context, store, s.Settings.Bucket)
	if err != nil {
		return nil, err
	}
	return ookla.ExtractMetadata(uris), nil
}
