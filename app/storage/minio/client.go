// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package minio implements types.ObjectStore for S3-compatible endpoints
// using the MinIO client.
package minio

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/cloudzero/broadband-explorer/app/storage/core"
	"github.com/cloudzero/broadband-explorer/app/types"
)

// minioAPI is the subset of minio.Core used here. Core exposes the raw
// ListObjectsV2 call so pagination stays under our control.
type minioAPI interface {
	ListObjectsV2(bucketName, objectPrefix, startAfter, continuationToken, delimiter string, maxkeys int) (minio.ListBucketV2Result, error)
	FGetObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.GetObjectOptions) error
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

var _ types.ObjectStore = (*Client)(nil)

// Client wraps the MinIO client for listing and downloading objects.
type Client struct {
	client minioAPI
}

// Config holds MinIO client configuration
type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// NewClient creates a new MinIO client. Empty credentials produce
// anonymous requests.
func NewClient(cfg Config) (*Client, error) {
	core, err := minio.NewCore(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &Client{client: core}, nil
}

// ListObjects returns one page of the bucket listing.
func (c *Client) ListObjects(ctx context.Context, req types.ListRequest) (*types.ObjectPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := c.client.ListObjectsV2(req.Bucket, req.Prefix, "", req.ContinuationToken, "", req.MaxKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects in %s: %w", req.Bucket, core.TranslateError(err))
	}

	page := &types.ObjectPage{
		Objects:     make([]types.ObjectSummary, 0, len(res.Contents)),
		IsTruncated: res.IsTruncated,
	}
	if res.IsTruncated {
		page.NextContinuationToken = res.NextContinuationToken
	}
	for _, obj := range res.Contents {
		if obj.Key == "" {
			continue
		}
		page.Objects = append(page.Objects, types.ObjectSummary{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	return page, nil
}

// FetchObject downloads the object to localPath. The MinIO client stages
// the download in a ".part.minio" file and renames it on completion.
func (c *Client) FetchObject(ctx context.Context, bucket, key, localPath string) error {
	if err := c.client.FGetObject(ctx, bucket, key, localPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("failed to download %s/%s: %w", bucket, key, core.TranslateError(err))
	}
	return nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (c *Client) EnsureBucket(ctx context.Context, bucketName string) error {
	exists, err := c.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = c.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
		}
	}

	return nil
}
