// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core holds helpers shared by the object store backends: error
// translation from SDK-specific errors to the types package sentinels, and
// paginated walking of a bucket listing.
//
// Usage:
//
//	_, err := client.GetObject(ctx, input)
//	return core.TranslateError(err) // errors.Is(err, types.ErrNotFound) for a missing key
package core

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"

	"github.com/cloudzero/broadband-explorer/app/types"
)

// TranslateError tags store errors with the matching types sentinel. The
// original error stays in the chain, so SDK-specific inspection still works.
// Errors with no mapping are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var sentinel error
	var apiErr smithy.APIError
	switch {
	case errors.As(err, &apiErr):
		sentinel = sentinelForCode(apiErr.ErrorCode())
	default:
		resp := minio.ToErrorResponse(err)
		sentinel = sentinelForCode(resp.Code)
		if sentinel == nil {
			sentinel = sentinelForStatus(resp.StatusCode)
		}
	}

	if sentinel == nil || errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

func sentinelForCode(code string) error {
	switch code {
	case "NoSuchKey", "NotFound":
		return types.ErrNotFound
	case "NoSuchBucket":
		return types.ErrBucketNotFound
	case "AccessDenied", "AllAccessDisabled", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return types.ErrAccessDenied
	}
	return nil
}

func sentinelForStatus(status int) error {
	switch status {
	case http.StatusNotFound:
		return types.ErrNotFound
	case http.StatusForbidden:
		return types.ErrAccessDenied
	}
	return nil
}
