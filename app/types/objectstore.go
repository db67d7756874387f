// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package types defines the interfaces shared between the explorer domain
// packages and the object store backends in app/storage.
//
// Backends (s3, minio) implement ObjectLister and ObjectFetcher; the domain
// packages only see these interfaces, which keeps them testable with the
// gomock implementations in app/types/mocks.
package types

//go:generate mockgen -destination=mocks/objectstore_mock.go -package=mocks . ObjectLister,ObjectFetcher,ObjectStore

import (
	"context"
	"errors"
	"time"
)

// ListRequest asks for one page of a bucket listing.
type ListRequest struct {
	// Bucket to list.
	Bucket string
	// Prefix restricts the listing to keys starting with this value.
	Prefix string
	// ContinuationToken resumes a previous listing. Empty starts from the beginning.
	ContinuationToken string
	// MaxKeys limits the page size. Zero uses the store default.
	MaxKeys int
}

// ObjectPage is one page of a bucket listing.
type ObjectPage struct {
	Objects []ObjectSummary
	// IsTruncated reports whether more pages follow.
	IsTruncated bool
	// NextContinuationToken is set when IsTruncated is true.
	NextContinuationToken string
}

// ObjectSummary describes a single listed object.
type ObjectSummary struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectLister lists a bucket one page at a time.
type ObjectLister interface {
	ListObjects(ctx context.Context, req ListRequest) (*ObjectPage, error)
}

// ObjectFetcher copies a remote object to a local file.
type ObjectFetcher interface {
	// FetchObject writes the object bytes to localPath. Errors from the store
	// are returned as-is so callers can inspect them.
	FetchObject(ctx context.Context, bucket, key, localPath string) error
}

// ObjectStore is implemented by every backend in app/storage.
type ObjectStore interface {
	ObjectLister
	ObjectFetcher
}

var (
	// ErrNotFound marks a missing object.
	ErrNotFound = errors.New("object not found")
	// ErrBucketNotFound marks a missing bucket.
	ErrBucketNotFound = errors.New("bucket not found")
	// ErrAccessDenied marks a request the store refused, typically a signed
	// request without credentials or an unsigned one against a private bucket.
	ErrAccessDenied = errors.New("access denied")
)
