// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudzero/broadband-explorer/app/types"
)

type mockS3API struct {
	listObjectsV2Func func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	getObjectFunc     func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func (m *mockS3API) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if m.listObjectsV2Func != nil {
		return m.listObjectsV2Func(ctx, params, optFns...)
	}
	return &s3.ListObjectsV2Output{}, nil
}

func (m *mockS3API) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.getObjectFunc != nil {
		return m.getObjectFunc(ctx, params, optFns...)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(""))}, nil
}

func TestNewClient_Anonymous(t *testing.T) {
	c, err := NewClient(context.Background(), Config{Region: "us-west-2", NoSignRequest: true})
	require.NoError(t, err)
	assert.NotNil(t, c.client)
}

func TestListObjects(t *testing.T) {
	modified := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	var got *s3.ListObjectsV2Input
	c := &Client{client: &mockS3API{
		listObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			got = params
			return &s3.ListObjectsV2Output{
				Contents: []s3types.Object{
					{Key: aws.String("parquet/performance/type=fixed/year=2024/quarter=1/tiles.parquet"), Size: aws.Int64(42), LastModified: aws.Time(modified)},
					{Key: nil},
				},
				IsTruncated:           aws.Bool(true),
				NextContinuationToken: aws.String("next-page"),
			}, nil
		},
	}}

	page, err := c.ListObjects(context.Background(), types.ListRequest{
		Bucket:            "ookla-open-data",
		ContinuationToken: "this-page",
		MaxKeys:           500,
	})
	require.NoError(t, err)

	assert.Equal(t, "ookla-open-data", aws.ToString(got.Bucket))
	assert.Equal(t, "this-page", aws.ToString(got.ContinuationToken))
	assert.Equal(t, int32(500), aws.ToInt32(got.MaxKeys))
	assert.Nil(t, got.Prefix)

	require.Len(t, page.Objects, 1)
	assert.Equal(t, int64(42), page.Objects[0].Size)
	assert.Equal(t, modified, page.Objects[0].LastModified)
	assert.True(t, page.IsTruncated)
	assert.Equal(t, "next-page", page.NextContinuationToken)
}

func TestListObjects_LastPage(t *testing.T) {
	c := &Client{client: &mockS3API{
		listObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			return &s3.ListObjectsV2Output{
				Contents:              []s3types.Object{{Key: aws.String("a.parquet")}},
				IsTruncated:           aws.Bool(false),
				NextContinuationToken: aws.String("ignored"),
			}, nil
		},
	}}

	page, err := c.ListObjects(context.Background(), types.ListRequest{Bucket: "b"})
	require.NoError(t, err)
	assert.False(t, page.IsTruncated)
	assert.Empty(t, page.NextContinuationToken)
}

func TestListObjects_Error(t *testing.T) {
	c := &Client{client: &mockS3API{
		listObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			return nil, errors.New("access denied")
		},
	}}

	_, err := c.ListObjects(context.Background(), types.ListRequest{Bucket: "b"})
	assert.ErrorContains(t, err, "access denied")
}

func TestFetchObject(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "tiles.parquet")

	c := &Client{client: &mockS3API{
		getObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "ookla-open-data", aws.ToString(params.Bucket))
			assert.Equal(t, "parquet/tiles.parquet", aws.ToString(params.Key))
			return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("PAR1"))}, nil
		},
	}}

	require.NoError(t, c.FetchObject(context.Background(), "ookla-open-data", "parquet/tiles.parquet", localPath))

	data, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, "PAR1", string(data))
	assert.NoFileExists(t, localPath+".part")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestFetchObject_PartialBodyLeavesNothing(t *testing.T) {
	localPath := filepath.Join(t.TempDir(), "tiles.parquet")

	c := &Client{client: &mockS3API{
		getObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return &s3.GetObjectOutput{Body: io.NopCloser(failingReader{})}, nil
		},
	}}

	err := c.FetchObject(context.Background(), "b", "k", localPath)
	assert.ErrorContains(t, err, "connection reset")
	assert.NoFileExists(t, localPath)
	assert.NoFileExists(t, localPath+".part")
}

func TestFetchObject_GetError(t *testing.T) {
	localPath := filepath.Join(t.TempDir(), "tiles.parquet")

	c := &Client{client: &mockS3API{
		getObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return nil, errors.New("no such key")
		},
	}}

	err := c.FetchObject(context.Background(), "b", "k", localPath)
	assert.ErrorContains(t, err, "no such key")
	assert.NoFileExists(t, localPath)
}

func TestFetchObject_MissingKeyIsTranslated(t *testing.T) {
	c := &Client{client: &mockS3API{
		getObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist."}
		},
	}}

	err := c.FetchObject(context.Background(), "b", "k", filepath.Join(t.TempDir(), "k"))
	assert.ErrorIs(t, err, types.ErrNotFound)

	var apiErr smithy.APIError
	assert.ErrorAs(t, err, &apiErr)
}
