// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package build carries version information stamped in at link time.
package build

import "fmt"

const (
	AuthorName  = "CloudZero"
	AuthorEmail = "support@cloudzero.com"
	Copyright   = "© 2025 Cloudzero, Inc."
)

// These are overridden with -ldflags "-X github.com/cloudzero/broadband-explorer/app/build.Rev=..."
var (
	Rev    = "unknown"
	Tag    = "dev"
	Time   = "unknown"
	Author = AuthorName
)

// GetVersion returns the tag and revision of the running binary.
func GetVersion() string {
	return fmt.Sprintf("%s (%s)", Tag, Rev)
}
