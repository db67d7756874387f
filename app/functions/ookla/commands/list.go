// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/cloudzero/broadband-explorer/app/domain/ookla"
)

const (
	FlagOutput = "output"
	FlagQuery  = "query"

	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputTable = "table"
)

// NewListCommand lists every parquet file in the bucket with its metadata.
func NewListCommand(state *State) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Usage:   "list the parquet files in the bucket",
		Aliases: []string{"ls"},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: FlagOutput, Aliases: []string{"o"}, Usage: "output format (json, yaml, table)", Value: OutputTable},
			&cli.StringFlag{Name: FlagQuery, Usage: "jq expression applied to the JSON form of the listing"},
		},
		Action: func(c *cli.Context) error {
			store, err := state.Store(c.Context)
			if err != nil {
				return err
			}
			uris, err := ookla.ListParquetObjects(c.Context, store, state.Settings.Bucket)
			if err != nil {
				return err
			}
			table := ookla.ExtractMetadata(uris)

			if expr := c.String(FlagQuery); expr != "" {
				results, err := query(c, table, expr)
				if err != nil {
					return err
				}
				return writeValues(state.Out, c.String(FlagOutput), results)
			}
			return writeTable(state.Out, c.String(FlagOutput), table)
		},
	}
}

// query runs a jq expression over the table and collects its results.
func query(c *cli.Context, table ookla.FileTable, expr string) ([]any, error) {
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}

	// gojq works on plain JSON values.
	raw, err := json.Marshal(table)
	if err != nil {
		return nil, err
	}
	var input any
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, err
	}

	var results []any
	iter := q.RunWithContext(c.Context, input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return nil, fmt.Errorf("run query: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

func writeTable(w io.Writer, format string, table ookla.FileTable) error {
	switch format {
	case OutputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(table)

	case OutputYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(table)

	case OutputTable:
		fmt.Fprintf(w, "%-8s %-6s %-7s %s\n", "TYPE", "YEAR", "QUARTER", "PATH")
		for _, rec := range table {
			serviceType := "-"
			if rec.ServiceType != nil {
				serviceType = string(*rec.ServiceType)
			}
			fmt.Fprintf(w, "%-8s %-6s %-7s %s\n", serviceType, optionalInt(rec.Year), optionalInt(rec.Quarter), rec.Path)
		}
		return nil

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// writeValues prints query results, one JSON document per line unless YAML
// was asked for.
func writeValues(w io.Writer, format string, values []any) error {
	switch format {
	case OutputYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		for _, v := range values {
			if err := encoder.Encode(v); err != nil {
				return err
			}
		}
		return nil

	case OutputJSON, OutputTable:
		encoder := json.NewEncoder(w)
		for _, v := range values {
			if err := encoder.Encode(v); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
