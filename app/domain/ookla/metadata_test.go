// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ookla_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudzero/broadband-explorer/app/domain/ookla"
)

func ptr[T any](v T) *T { return &v }

func TestExtractMetadata(t *testing.T) {
	paths := []string{
		"s3://ookla-open-data/parquet/performance/type=mobile/year=2023/quarter=4/2023-10-01_performance_mobile_tiles.parquet",
		"s3://ookla-open-data/README.md",
		"s3://ookla-open-data/parquet/performance/type=fixed/year=2021/quarter=2/tiles.parquet",
		"s3://ookla-open-data/parquet/performance/type=satellite/year=20x4/quarter=5/tiles.parquet",
		"s3://ookla-open-data/parquet/performance/type=fixed/year=2022/x.parquet",
	}

	got := ookla.ExtractMetadata(paths)
	require.Len(t, got, len(paths))

	want := ookla.FileTable{
		{Path: paths[0], ServiceType: ptr(ookla.Mobile), Year: ptr(2023), Quarter: ptr(4)},
		{Path: paths[1]},
		{Path: paths[2], ServiceType: ptr(ookla.Fixed), Year: ptr(2021), Quarter: ptr(2)},
		{Path: paths[3]},
		{Path: paths[4], ServiceType: ptr(ookla.Fixed), Year: ptr(2022)},
	}
	assert.Equal(t, want, got)

	assert.True(t, got[0].Complete())
	assert.False(t, got[1].Complete())
	assert.False(t, got[4].Complete())
}

func TestExtractMetadata_Empty(t *testing.T) {
	assert.Empty(t, ookla.ExtractMetadata(nil))
}

func TestExtractMetadata_KeepsDuplicates(t *testing.T) {
	p := "s3://b/type=fixed/year=2024/quarter=1/a.parquet"
	got := ookla.ExtractMetadata([]string{p, p})
	assert.Len(t, got, 2)
}

func TestParseObjectURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{uri: "s3://ookla-open-data/parquet/a.parquet", wantBucket: "ookla-open-data", wantKey: "parquet/a.parquet"},
		{uri: "s3://bucket//double/slash.parquet", wantBucket: "bucket", wantKey: "double/slash.parquet"},
		{uri: "https://bucket/key", wantErr: true},
		{uri: "s3://bucket", wantErr: true},
		{uri: "s3:///key", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := ookla.ParseObjectURI(tt.uri)
			if tt.wantErr {
				assert.ErrorIs(t, err, ookla.ErrInvalidURI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestBuildKey(t *testing.T) {
	key := ookla.BuildKey(ookla.Fixed, 2024, 3)
	assert.Equal(t, "parquet/performance/type=fixed/year=2024/quarter=3/2024-07-01_performance_fixed_tiles.parquet", key)

	rec := ookla.ExtractMetadata([]string{ookla.ObjectURI(ookla.DefaultBucket, key)})[0]
	assert.Equal(t, ookla.Fixed, *rec.ServiceType)
	assert.Equal(t, 2024, *rec.Year)
	assert.Equal(t, 3, *rec.Quarter)
	assert.Equal(t, "2024-07-01_performance_fixed_tiles.parquet", ookla.LocalName(key))
}

func TestParseServiceType(t *testing.T) {
	st, err := ookla.ParseServiceType(" Mobile ")
	require.NoError(t, err)
	assert.Equal(t, ookla.Mobile, st)

	_, err = ookla.ParseServiceType("satellite")
	assert.Error(t, err)
}

func TestExpectedFiles(t *testing.T) {
	c := ookla.NewCriteria().WithYears(2024).WithQuarters(2, 1).WithServiceTypes(ookla.Mobile, ookla.Fixed)

	got := ookla.ExpectedFiles(ookla.DefaultBucket, c)
	require.Len(t, got, 4)
	assert.Equal(t, ookla.Fixed, *got[0].ServiceType)
	assert.Equal(t, 1, *got[0].Quarter)
	assert.Equal(t, ookla.Mobile, *got[3].ServiceType)
	assert.Equal(t, 2, *got[3].Quarter)

	assert.Equal(t, got, fullTable().Select(c))
}

func TestExpectedFiles_QuarterOutOfRange(t *testing.T) {
	c := ookla.NewCriteria().WithYears(2024).WithQuarters(5).WithServiceTypes(ookla.Fixed)
	assert.Empty(t, ookla.ExpectedFiles(ookla.DefaultBucket, c))
}
