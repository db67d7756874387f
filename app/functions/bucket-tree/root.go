// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cloudzero/broadband-explorer/app/build"
	config "github.com/cloudzero/broadband-explorer/app/config/explorer"
	"github.com/cloudzero/broadband-explorer/app/domain/buckettree"
	"github.com/cloudzero/broadband-explorer/app/logging"
	"github.com/cloudzero/broadband-explorer/app/storage/objectstore"
)

// options holds the command line flags.
type options struct {
	NoSignRequest bool
	Native        bool
	Provider      string
	Endpoint      string
	Region        string
	LogLevel      string
}

// sourceFactory returns the listing source for the given flags.
type sourceFactory func(ctx context.Context, opts options) (buckettree.Source, error)

// defaultSource shells out to the aws CLI unless --native is set, in which
// case the bucket is listed through an SDK client.
func defaultSource(ctx context.Context, opts options) (buckettree.Source, error) {
	if !opts.Native {
		return buckettree.NewCommandSource(opts.NoSignRequest), nil
	}

	storage := config.Storage{
		Provider:      opts.Provider,
		Region:        opts.Region,
		Endpoint:      opts.Endpoint,
		NoSignRequest: opts.NoSignRequest,
		UseSSL:        true,
	}
	if err := storage.Validate(); err != nil {
		return nil, err
	}
	store, err := objectstore.New(ctx, storage)
	if err != nil {
		return nil, err
	}
	return buckettree.NewStoreSource(store), nil
}

func newRootCmd(newSource sourceFactory) *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "bucket-tree <bucket-name>",
		Short: "Display a tree-style view of the files in a bucket",
		Long: `bucket-tree lists every key in a bucket and prints the directory
hierarchy implied by the key names.

By default the listing comes from "aws s3 ls --recursive". Use --native to
list through the SDK instead, for hosts without the AWS CLI.`,
		Version: build.GetVersion(),
		Args:    cobra.ExactArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.NewLogger(
				logging.WithLevel(opts.LogLevel),
				logging.WithSink(cmd.ErrOrStderr()),
			)
			if err != nil {
				return fmt.Errorf("failed to create the logger: %w", err)
			}
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid; failures from here on are not usage errors.
			cmd.SilenceUsage = true
			return run(cmd, args[0], opts, newSource)
		},
	}

	cmd.Flags().BoolVar(&opts.NoSignRequest, "no-sign-request", false, "List without credentials")
	cmd.Flags().BoolVar(&opts.Native, "native", false, "List through the SDK instead of the aws CLI")
	cmd.Flags().StringVar(&opts.Provider, "provider", config.ProviderS3, "Object store client for --native (s3, minio)")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "Custom endpoint for --native")
	cmd.Flags().StringVar(&opts.Region, "region", config.DefaultRegion, "Bucket region for --native")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	return cmd
}

func run(cmd *cobra.Command, bucket string, opts options, newSource sourceFactory) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	source, err := newSource(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Fetching file list from s3://%s/...\n", bucket)
	keys, err := source.Keys(ctx, bucket)
	if err != nil {
		return err
	}
	log.Ctx(ctx).Debug().Int("keys", len(keys)).Msg("Fetched listing")

	if len(keys) == 0 {
		fmt.Fprintln(out, "No files found in bucket.")
		return nil
	}

	fmt.Fprintf(out, "\n%s/\n", bucket)
	if err := buckettree.Build(keys).Render(out); err != nil {
		return fmt.Errorf("render tree: %w", err)
	}
	fmt.Fprintf(out, "\nTotal files: %d\n", len(keys))

	return nil
}
