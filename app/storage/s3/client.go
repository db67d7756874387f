// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package s3 implements types.ObjectStore on top of the AWS SDK.
package s3

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ccoveille/go-safecast"

	"github.com/cloudzero/broadband-explorer/app/storage/core"
	"github.com/cloudzero/broadband-explorer/app/types"
)

// s3API is the subset of the S3 client used here.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

var _ types.ObjectStore = (*Client)(nil)

// Client is an S3 backed object store.
type Client struct {
	client s3API
}

// Config holds S3 client configuration
type Config struct {
	Region string
	// Endpoint overrides the AWS endpoint, e.g. for localstack. Path style
	// addressing is used when it is set.
	Endpoint string
	// NoSignRequest sends anonymous requests, as `aws --no-sign-request` does.
	NoSignRequest   bool
	AccessKeyID     string
	SecretAccessKey string
}

// NewClient builds a client from the default AWS credential chain, or from
// anonymous or static credentials when the config asks for them.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	switch {
	case cfg.NoSignRequest:
		opts = append(opts, config.WithCredentialsProvider(aws.AnonymousCredentials{}))
	case cfg.AccessKeyID != "":
		opts = append(opts, config.WithCredentialsProvider(aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     cfg.AccessKeyID,
				SecretAccessKey: cfg.SecretAccessKey,
				Source:          "Static",
			}, nil
		})))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{
		client: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
				o.UsePathStyle = true
			}
		}),
	}, nil
}

// ListObjects returns one page of the bucket listing.
func (c *Client) ListObjects(ctx context.Context, req types.ListRequest) (*types.ObjectPage, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(req.Bucket),
	}
	if req.Prefix != "" {
		input.Prefix = aws.String(req.Prefix)
	}
	if req.ContinuationToken != "" {
		input.ContinuationToken = aws.String(req.ContinuationToken)
	}
	if req.MaxKeys > 0 {
		maxKeys, err := safecast.Convert[int32](req.MaxKeys)
		if err != nil {
			return nil, fmt.Errorf("invalid page size %d: %w", req.MaxKeys, err)
		}
		input.MaxKeys = aws.Int32(maxKeys)
	}

	out, err := c.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects in %s: %w", req.Bucket, core.TranslateError(err))
	}

	page := &types.ObjectPage{
		Objects:     make([]types.ObjectSummary, 0, len(out.Contents)),
		IsTruncated: aws.ToBool(out.IsTruncated),
	}
	if page.IsTruncated {
		page.NextContinuationToken = aws.ToString(out.NextContinuationToken)
	}

	for _, obj := range out.Contents {
		if obj.Key == nil {
			continue
		}
		page.Objects = append(page.Objects, types.ObjectSummary{
			Key:          *obj.Key,
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}

	return page, nil
}

// FetchObject streams the object into localPath. Bytes go to a temporary
// sibling file which is renamed into place once the copy completes, so
// localPath only ever holds a complete object.
func (c *Client) FetchObject(ctx context.Context, bucket, key, localPath string) error {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get object %s/%s: %w", bucket, key, core.TranslateError(err))
	}
	defer out.Body.Close()

	return writeAtomically(localPath, out.Body)
}

func writeAtomically(localPath string, body io.Reader) error {
	partPath := localPath + ".part"
	file, err := os.Create(partPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", partPath, err)
	}

	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		os.Remove(partPath)
		return fmt.Errorf("write %s: %w", localPath, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(partPath)
		return fmt.Errorf("close %s: %w", partPath, err)
	}

	if err := os.Rename(partPath, localPath); err != nil {
		os.Remove(partPath)
		return fmt.Errorf("rename %s: %w", partPath, err)
	}
	return nil
}
