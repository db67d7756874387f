// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package buckettree_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cloudzero/broadband-explorer/app/domain/buckettree"
	"github.com/cloudzero/broadband-explorer/app/types"
	"github.com/cloudzero/broadband-explorer/app/types/mocks"
)

const sampleListing = `2021-01-05 18:20:14   12345 parquet/performance/type=fixed/year=2019/quarter=1/2019-01-01_performance_fixed_tiles.parquet
2021-01-05 18:20:15       42 README.md

                           PRE shapefiles/
2022-03-01 09:00:00     1024 notes/with  spaces.txt
`

func TestParseListing(t *testing.T) {
	keys, err := buckettree.ParseListing(strings.NewReader(sampleListing))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"parquet/performance/type=fixed/year=2019/quarter=1/2019-01-01_performance_fixed_tiles.parquet",
		"README.md",
		"notes/with  spaces.txt",
	}, keys)
}

func TestParseListing_Empty(t *testing.T) {
	keys, err := buckettree.ParseListing(strings.NewReader("\n\n"))
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestListingArgs(t *testing.T) {
	assert.Equal(t, []string{"s3", "ls", "--recursive", "s3://b/"}, buckettree.ListingArgs("b", false))
	assert.Equal(t, []string{"s3", "ls", "--recursive", "--no-sign-request", "s3://b/"}, buckettree.ListingArgs("b", true))
}

// helperSource runs this test binary as a stand-in for the aws CLI.
func helperSource(noSign bool) *buckettree.CommandSource {
	return &buckettree.CommandSource{
		Path:          os.Args[0],
		Args:          []string{"-test.run=TestHelperProcess", "--"},
		Env:           []string{"GO_WANT_HELPER_PROCESS=1"},
		NoSignRequest: noSign,
	}
}

// TestHelperProcess is not a real test. It is invoked by CommandSource in
// the tests below and behaves like "aws s3 ls".
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}
	target := args[len(args)-1]

	switch target {
	case "s3://private-bucket/":
		for _, a := range args {
			if a == "--no-sign-request" {
				fmt.Fprintln(os.Stderr, "An error occurred (AccessDenied) when calling the ListObjectsV2 operation: Access Denied")
				os.Exit(255)
			}
		}
		fmt.Print(sampleListing)
	case "s3://missing-bucket/":
		fmt.Fprintln(os.Stderr, "An error occurred (NoSuchBucket) when calling the ListObjectsV2 operation: The specified bucket does not exist")
		os.Exit(1)
	default:
		fmt.Print(sampleListing)
	}
}

func TestCommandSource_Keys(t *testing.T) {
	keys, err := helperSource(true).Keys(context.Background(), "ookla-open-data")
	require.NoError(t, err)
	assert.Len(t, keys, 3)
	assert.Equal(t, "README.md", keys[1])
}

func TestCommandSource_Keys_Failure(t *testing.T) {
	_, err := helperSource(false).Keys(context.Background(), "missing-bucket")
	require.Error(t, err)
	assert.ErrorIs(t, err, buckettree.ErrCommandFailed)
	assert.Contains(t, err.Error(), "NoSuchBucket")
}

func TestCommandSource_Keys_PassesNoSignRequest(t *testing.T) {
	_, err := helperSource(true).Keys(context.Background(), "private-bucket")
	assert.ErrorIs(t, err, buckettree.ErrCommandFailed)

	keys, err := helperSource(false).Keys(context.Background(), "private-bucket")
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func TestCommandSource_Keys_MissingExecutable(t *testing.T) {
	src := &buckettree.CommandSource{Path: "definitely-not-an-aws-cli"}
	_, err := src.Keys(context.Background(), "b")
	assert.ErrorIs(t, err, buckettree.ErrCommandFailed)
}

func TestStoreSource_Keys(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := mocks.NewMockObjectLister(ctrl)

	gomock.InOrder(
		lister.EXPECT().ListObjects(gomock.Any(), types.ListRequest{Bucket: "b"}).
			Return(&types.ObjectPage{
				Objects:               []types.ObjectSummary{{Key: "a/b.parquet"}, {Key: "README.md"}},
				IsTruncated:           true,
				NextContinuationToken: "n",
			}, nil),
		lister.EXPECT().ListObjects(gomock.Any(), types.ListRequest{Bucket: "b", ContinuationToken: "n"}).
			Return(&types.ObjectPage{Objects: []types.ObjectSummary{{Key: "a/c/d.parquet"}}}, nil),
	)

	keys, err := buckettree.NewStoreSource(lister).Keys(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b.parquet", "README.md", "a/c/d.parquet"}, keys)
}

func TestStoreSource_Keys_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := mocks.NewMockObjectLister(ctrl)
	lister.EXPECT().ListObjects(gomock.Any(), gomock.Any()).Return(nil, types.ErrBucketNotFound)

	_, err := buckettree.NewStoreSource(lister).Keys(context.Background(), "nope")
	assert.ErrorIs(t, err, types.ErrBucketNotFound)
}
