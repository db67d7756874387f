// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config holds the settings shared by the explorer tools.
//
// Settings are loaded once by the caller through NewSettings, which reads
// optional YAML files, applies environment overrides, and prepares the local
// data directory. Nothing in this package runs at import time.
//
// Configuration sources, highest precedence first:
//  1. Environment variables
//  2. YAML configuration files, in the order given
//  3. Defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBucket is the public bucket holding the Ookla open data tiles.
	DefaultBucket = "ookla-open-data"

	// DefaultRegion is the region of DefaultBucket.
	DefaultRegion = "us-west-2"

	// DefaultDataDirName is the data directory created under the project root.
	DefaultDataDirName = "data"

	ProviderS3    = "s3"
	ProviderMinio = "minio"
)

// Settings is the resolved configuration of an explorer run.
type Settings struct {
	// ProjectRoot anchors relative paths. Defaults to the working directory.
	ProjectRoot string `yaml:"project_root" env:"EXPLORER_PROJECT_ROOT" env-description:"root directory of the analysis project"`

	// DataDir is where downloaded files are kept. Defaults to <ProjectRoot>/data.
	DataDir string `yaml:"data_dir" env:"EXPLORER_DATA_DIR" env-description:"directory for downloaded dataset files"`

	// Bucket is the object store bucket holding the dataset.
	Bucket string `yaml:"bucket" env:"EXPLORER_BUCKET" env-default:"ookla-open-data" env-description:"bucket holding the dataset"`

	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
}

type Storage struct {
	Provider        string `yaml:"provider" env:"STORAGE_PROVIDER" env-default:"s3" env-description:"object store client, one of s3 or minio"`
	Region          string `yaml:"region" env:"STORAGE_REGION" env-default:"us-west-2" env-description:"bucket region"`
	Endpoint        string `yaml:"endpoint" env:"STORAGE_ENDPOINT" env-description:"custom endpoint (host:port for minio, URL for s3)"`
	UseSSL          bool   `yaml:"use_ssl" env:"STORAGE_USE_SSL" env-default:"true" env-description:"use TLS when talking to a minio endpoint"`
	NoSignRequest   bool   `yaml:"no_sign_request" env:"STORAGE_NO_SIGN_REQUEST" env-default:"true" env-description:"send unauthenticated requests"`
	AccessKeyID     string `yaml:"-" env:"STORAGE_ACCESS_KEY_ID" env-description:"access key for signed requests"`
	SecretAccessKey string `yaml:"-" env:"STORAGE_SECRET_ACCESS_KEY" env-description:"secret key for signed requests"`
}

type Logging struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info" env-description:"logging level such as debug, info, error"`
}

// NewSettings loads settings from the given YAML files and the environment,
// validates them and creates the data directory. Empty file names are ignored;
// with no files only the environment and defaults apply.
func NewSettings(configFiles ...string) (*Settings, error) {
	cfg, err := Load(configFiles...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Prepare(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and validates settings without touching the filesystem, so
// callers can apply overrides before calling Prepare.
func Load(configFiles ...string) (*Settings, error) {
	var cfg Settings

	loaded := false
	for _, cfgFile := range configFiles {
		if cfgFile == "" {
			continue
		}

		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("no config %s", cfgFile)
		}

		if err := cleanenv.ReadConfig(cfgFile, &cfg); err != nil {
			return nil, fmt.Errorf("config read %s: %w", cfgFile, err)
		}
		loaded = true
	}

	if !loaded {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, errors.Wrap(err, "config read environment")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "failed to validate settings")
	}

	return &cfg, nil
}

// Prepare creates the data directory and logs the resolved paths.
func (s *Settings) Prepare() error {
	if err := s.EnsureDataDir(); err != nil {
		return err
	}

	log.Info().Str("project_root", s.ProjectRoot).Msg("Project root")
	log.Info().Str("data_dir", s.DataDir).Msg("Data directory")
	return nil
}

// Validate trims values, fills defaults and resolves paths to absolute form.
// It does not touch the filesystem.
func (s *Settings) Validate() error {
	s.Bucket = strings.TrimSpace(s.Bucket)
	if s.Bucket == "" {
		s.Bucket = DefaultBucket
	}

	if s.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "resolve working directory")
		}
		s.ProjectRoot = wd
	}
	root, err := filepath.Abs(s.ProjectRoot)
	if err != nil {
		return errors.Wrap(err, "resolve project root")
	}
	s.ProjectRoot = root

	if s.DataDir == "" {
		s.DataDir = filepath.Join(s.ProjectRoot, DefaultDataDirName)
	} else if !filepath.IsAbs(s.DataDir) {
		s.DataDir = filepath.Join(s.ProjectRoot, s.DataDir)
	}
	s.DataDir = filepath.Clean(s.DataDir)

	if err := s.Storage.Validate(); err != nil {
		return errors.Wrap(err, "storage validation")
	}

	if s.Logging.Level == "" {
		s.Logging.Level = "info"
	}

	return nil
}

func (s *Storage) Validate() error {
	s.Provider = strings.ToLower(strings.TrimSpace(s.Provider))
	if s.Provider == "" {
		s.Provider = ProviderS3
	}
	if s.Region == "" {
		s.Region = DefaultRegion
	}

	switch s.Provider {
	case ProviderS3:
	case ProviderMinio:
		if s.Endpoint == "" {
			return errors.New("minio provider requires an endpoint")
		}
	default:
		return fmt.Errorf("unknown storage provider %q", s.Provider)
	}

	if !s.NoSignRequest && (s.AccessKeyID == "" || s.SecretAccessKey == "") && s.Provider == ProviderMinio {
		return errors.New("signed minio requests require an access key and secret")
	}

	return nil
}

// EnsureDataDir creates the data directory if it does not exist.
func (s *Settings) EnsureDataDir() error {
	if err := os.MkdirAll(s.DataDir, 0o755); err != nil {
		return errors.Wrapf(err, "create data directory %s", s.DataDir)
	}
	return nil
}
