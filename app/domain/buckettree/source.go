// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package buckettree

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/cloudzero/broadband-explorer/app/storage/core"
	"github.com/cloudzero/broadband-explorer/app/types"
)

// Source produces every key in a bucket.
type Source interface {
	Keys(ctx context.Context, bucket string) ([]string, error)
}

// ErrCommandFailed is returned when the listing command exits unsuccessfully.
var ErrCommandFailed = errors.New("listing command failed")

// listingFields is the number of fields in a listing line: date, time, size
// and key.
const listingFields = 4

// ParseListing extracts the keys from the output of a recursive listing,
// one object per line in the form "<date> <time> <size> <key>". The key is
// everything after the third run of whitespace, so keys containing spaces
// survive. Lines with fewer than four fields are ignored.
func ParseListing(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}

	var keys []string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		if fields := splitFields(line, listingFields); len(fields) == listingFields {
			keys = append(keys, fields[listingFields-1])
		}
	}
	return keys, nil
}

// splitFields splits s on runs of whitespace into at most n fields. The last
// field holds the rest of the line with its leading whitespace removed.
func splitFields(s string, n int) []string {
	var fields []string
	rest := strings.TrimLeftFunc(s, unicode.IsSpace)
	for rest != "" {
		if len(fields) == n-1 {
			return append(fields, rest)
		}
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			return append(fields, rest)
		}
		fields = append(fields, rest[:end])
		rest = strings.TrimLeftFunc(rest[end:], unicode.IsSpace)
	}
	return fields
}

// CommandSource lists a bucket by running the AWS CLI:
//
//	aws s3 ls --recursive [--no-sign-request] s3://<bucket>/
type CommandSource struct {
	// Path is the executable to run. Defaults to "aws".
	Path string
	// Args are placed before the listing arguments.
	Args []string
	// Env, when set, is added to the current environment.
	Env []string
	// NoSignRequest lists without credentials.
	NoSignRequest bool
}

// NewCommandSource returns a source running the aws CLI from PATH.
func NewCommandSource(noSignRequest bool) *CommandSource {
	return &CommandSource{Path: "aws", NoSignRequest: noSignRequest}
}

// ListingArgs returns the CLI arguments for a recursive listing of bucket.
func ListingArgs(bucket string, noSignRequest bool) []string {
	args := []string{"s3", "ls", "--recursive"}
	if noSignRequest {
		args = append(args, "--no-sign-request")
	}
	return append(args, "s3://"+bucket+"/")
}

// Keys runs the listing command and parses its output. A non-zero exit
// returns an error wrapping ErrCommandFailed that carries the command's
// standard error.
func (s *CommandSource) Keys(ctx context.Context, bucket string) ([]string, error) {
	path := s.Path
	if path == "" {
		path = "aws"
	}
	args := append(slices.Clone(s.Args), ListingArgs(bucket, s.NoSignRequest)...)

	cmd := exec.CommandContext(ctx, path, args...)
	if len(s.Env) > 0 {
		cmd.Env = append(os.Environ(), s.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Ctx(ctx).Debug().Str("command", path).Strs("args", args).Msg("Running listing command")

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCommandFailed, strings.TrimSpace(stderr.String()), err)
	}

	return ParseListing(&stdout)
}

// StoreSource lists a bucket through an object store client, for hosts
// without the AWS CLI.
type StoreSource struct {
	lister types.ObjectLister
}

// NewStoreSource wraps lister.
func NewStoreSource(lister types.ObjectLister) *StoreSource {
	return &StoreSource{lister: lister}
}

// Keys returns every key in bucket, following continuation tokens.
func (s *StoreSource) Keys(ctx context.Context, bucket string) ([]string, error) {
	var keys []string
	err := core.Walk(ctx, s.lister, types.ListRequest{Bucket: bucket}, func(obj types.ObjectSummary) error {
		keys = append(keys, obj.Key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list s3://%s/: %w", bucket, err)
	}
	return keys, nil
}
