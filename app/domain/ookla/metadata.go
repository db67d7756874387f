// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ookla discovers, selects, downloads and loads the Ookla open data
// performance tiles.
//
// The dataset is published as hive-style partitioned parquet files:
//
//	s3://ookla-open-data/parquet/performance/type=fixed/year=2024/quarter=1/2024-01-01_performance_fixed_tiles.parquet
//
// The typical flow is:
//
//	uris, _ := ookla.ListParquetObjects(ctx, store, ookla.DefaultBucket)
//	files := ookla.ExtractMetadata(uris)
//	criteria := ookla.NewCriteria().WithYears(2024).WithQuarters(1, 2).WithServiceTypes(ookla.Mobile)
//	downloaded, _ := ookla.NewDownloader(store, dataDir).Download(ctx, files, criteria)
//	result, _ := ookla.NewLoader(parquetfile.NewReader(), dataDir).Load(ctx, files, criteria)
package ookla

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultBucket is the public bucket holding the dataset.
	DefaultBucket = "ookla-open-data"

	// ParquetSuffix identifies the columnar files in a listing.
	ParquetSuffix = ".parquet"

	uriScheme = "s3://"
)

// ServiceType partitions the dataset by connection kind.
type ServiceType string

const (
	Fixed  ServiceType = "fixed"
	Mobile ServiceType = "mobile"
)

// ParseServiceType accepts "fixed" or "mobile", case-insensitively.
func ParseServiceType(s string) (ServiceType, error) {
	switch st := ServiceType(strings.ToLower(strings.TrimSpace(s))); st {
	case Fixed, Mobile:
		return st, nil
	}
	return "", fmt.Errorf("unknown service type %q (want fixed or mobile)", s)
}

var (
	typePattern    = regexp.MustCompile(`/type=(fixed|mobile)/`)
	yearPattern    = regexp.MustCompile(`/year=(\d{4})/`)
	quarterPattern = regexp.MustCompile(`/quarter=([1-4])/`)
)

// FileRecord is one remote object and the partition values derived from its
// path. A field the path does not carry is nil.
type FileRecord struct {
	Path        string       `json:"path" yaml:"path"`
	ServiceType *ServiceType `json:"service_type" yaml:"service_type"`
	Year        *int         `json:"year" yaml:"year"`
	Quarter     *int         `json:"quarter" yaml:"quarter"`
	// LocalPath is set once the object has been downloaded.
	LocalPath string `json:"local_path,omitempty" yaml:"local_path,omitempty"`
}

// Complete reports whether all three partition values were found.
func (r FileRecord) Complete() bool {
	return r.ServiceType != nil && r.Year != nil && r.Quarter != nil
}

// FileTable is an ordered collection of records.
type FileTable []FileRecord

// ExtractMetadata derives one record per path, in input order. Paths that
// do not match a pattern get a nil value for that field; nothing is dropped.
func ExtractMetadata(paths []string) FileTable {
	table := make(FileTable, 0, len(paths))
	for _, p := range paths {
		rec := FileRecord{Path: p}

		if m := typePattern.FindStringSubmatch(p); m != nil {
			st := ServiceType(m[1])
			rec.ServiceType = &st
		}
		if m := yearPattern.FindStringSubmatch(p); m != nil {
			if year, err := strconv.Atoi(m[1]); err == nil {
				rec.Year = &year
			}
		}
		if m := quarterPattern.FindStringSubmatch(p); m != nil {
			if quarter, err := strconv.Atoi(m[1]); err == nil {
				rec.Quarter = &quarter
			}
		}

		table = append(table, rec)
	}
	return table
}

// ErrInvalidURI is returned for paths that are not s3://bucket/key URIs.
var ErrInvalidURI = errors.New("invalid object URI")

// ObjectURI formats a bucket and key as an s3:// URI.
func ObjectURI(bucket, key string) string {
	return uriScheme + bucket + "/" + key
}

// ParseObjectURI splits an s3://bucket/key URI. Leading slashes on the key
// are dropped.
func ParseObjectURI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, uriScheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %q has no %s scheme", ErrInvalidURI, uri, uriScheme)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	key = strings.TrimLeft(key, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q needs a bucket and a key", ErrInvalidURI, uri)
	}
	return bucket, key, nil
}

// LocalName is the file name a key is stored under locally: its last path
// component.
func LocalName(key string) string {
	return path.Base(key)
}

// BuildKey returns the key of the performance tiles for one partition,
// following the published layout:
// parquet/performance/type={type}/year={Y}/quarter={Q}/{Y}-{MM}-01_performance_{type}_tiles.parquet
func BuildKey(st ServiceType, year, quarter int) string {
	month := (quarter-1)*3 + 1
	return fmt.Sprintf(
		"parquet/performance/type=%s/year=%d/quarter=%d/%d-%02d-01_performance_%s_tiles.parquet",
		st, year, quarter, year, month, st,
	)
}

// ExpectedFiles returns the records the published layout implies for every
// combination in c, without listing the bucket. Use it to address files that
// are already downloaded.
func ExpectedFiles(bucket string, c Criteria) FileTable {
	var uris []string
	for _, st := range c.ServiceTypes {
		for _, year := range c.Years {
			for _, quarter := range c.Quarters {
				uris = append(uris, ObjectURI(bucket, BuildKey(st, year, quarter)))
			}
		}
	}
	return ExtractMetadata(uris).Select(c)
}
