// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ookla

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/cloudzero/broadband-explorer/app/storage/core"
	"github.com/cloudzero/broadband-explorer/app/types"
)

// ListParquetObjects walks the whole bucket listing, page by page, and
// returns an s3:// URI for every key ending in ".parquet".
func ListParquetObjects(ctx context.Context, lister types.ObjectLister, bucket string) ([]string, error) {
	var uris []string
	scanned := 0

	err := core.Walk(ctx, lister, types.ListRequest{Bucket: bucket}, func(obj types.ObjectSummary) error {
		scanned++
		if strings.HasSuffix(obj.Key, ParquetSuffix) {
			uris = append(uris, ObjectURI(bucket, obj.Key))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", bucket, err)
	}

	log.Ctx(ctx).Info().
		Str("bucket", bucket).
		Int("objects", scanned).
		Int("parquet_files", len(uris)).
		Msg("Listed bucket")

	return uris, nil
}
