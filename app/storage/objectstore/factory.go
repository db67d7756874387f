// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package objectstore picks the object store client named by the settings.
package objectstore

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	config "github.com/cloudzero/broadband-explorer/app/config/explorer"
	"github.com/cloudzero/broadband-explorer/app/storage/minio"
	"github.com/cloudzero/broadband-explorer/app/storage/s3"
	"github.com/cloudzero/broadband-explorer/app/types"
)

// New returns the client for cfg.Provider.
func New(ctx context.Context, cfg config.Storage) (types.ObjectStore, error) {
	log.Ctx(ctx).Debug().
		Str("provider", cfg.Provider).
		Str("endpoint", cfg.Endpoint).
		Bool("no_sign_request", cfg.NoSignRequest).
		Msg("Creating object store client")

	switch cfg.Provider {
	case config.ProviderS3, "":
		client, err := s3.NewClient(ctx, s3.Config{
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			NoSignRequest:   cfg.NoSignRequest,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderMinio:
		mc := minio.Config{
			Endpoint: cfg.Endpoint,
			Region:   cfg.Region,
			UseSSL:   cfg.UseSSL,
		}
		if !cfg.NoSignRequest {
			mc.AccessKeyID = cfg.AccessKeyID
			mc.SecretAccessKey = cfg.SecretAccessKey
		}
		client, err := minio.NewClient(mc)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
