// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudzero/broadband-explorer/app/types"
)

// ErrMissingContinuationToken is returned when a store reports a truncated
// page without telling us where to resume.
var ErrMissingContinuationToken = errors.New("truncated listing without continuation token")

// Walk calls fn for every object in the listing described by req, issuing
// one ListObjects call per page and following continuation tokens until the
// store reports the listing is complete. Walk stops at the first error from
// the store or from fn.
func Walk(ctx context.Context, lister types.ObjectLister, req types.ListRequest, fn func(types.ObjectSummary) error) error {
	pages := 0
	for {
		page, err := lister.ListObjects(ctx, req)
		if err != nil {
			return err
		}
		pages++

		for _, obj := range page.Objects {
			if err := fn(obj); err != nil {
				return err
			}
		}

		if !page.IsTruncated {
			return nil
		}
		if page.NextContinuationToken == "" {
			return fmt.Errorf("page %d of %s: %w", pages, req.Bucket, ErrMissingContinuationToken)
		}
		req.ContinuationToken = page.NextContinuationToken
	}
}
