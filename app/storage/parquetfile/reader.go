// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package parquetfile reads local parquet files into gota dataframes.
package parquetfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/parquet-go/parquet-go"
)

const defaultBatchSize = 1024

// Reader loads whole parquet files. The schema is taken from the file;
// nested columns are named by their dotted path. Null values become NA.
type Reader struct {
	batchSize int
}

// NewReader returns a Reader with the default batch size.
func NewReader() *Reader {
	return &Reader{batchSize: defaultBatchSize}
}

// column accumulates the values of one leaf column.
type column struct {
	name     string
	typ      series.Type
	repeated bool
	values   []any
}

// ReadFile reads every row of the parquet file at path.
func (r *Reader) ReadFile(path string) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("stat %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse parquet file %s: %w", path, err)
	}

	cols := columnsOf(pf.Schema())
	if len(cols) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("parquet file %s has no columns", path)
	}

	rows := parquet.NewReader(pf)
	defer rows.Close()

	batch := make([]parquet.Row, r.batchSize)
	cells := make([][]any, len(cols))
	for {
		n, readErr := rows.ReadRows(batch)
		for _, row := range batch[:n] {
			appendRow(cols, cells, row)
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return dataframe.DataFrame{}, fmt.Errorf("read rows from %s: %w", path, readErr)
		}
		if n == 0 {
			break
		}
	}

	ss := make([]series.Series, len(cols))
	for i, c := range cols {
		ss[i] = series.New(c.values, c.typ, c.name)
	}
	df := dataframe.New(ss...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("build table from %s: %w", path, df.Err)
	}
	return df, nil
}

// columnsOf maps the leaf columns of schema to series types. Repeated leaves
// are kept as their printed value list.
func columnsOf(schema *parquet.Schema) []column {
	paths := schema.Columns()
	cols := make([]column, len(paths))
	for i, p := range paths {
		cols[i] = column{name: strings.Join(p, "."), typ: series.String}
		leaf, ok := schema.Lookup(p...)
		if !ok {
			continue
		}
		if leaf.MaxRepetitionLevel > 0 {
			cols[i].repeated = true
			continue
		}
		cols[i].typ = seriesType(leaf.Node.Type().Kind())
	}
	return cols
}

func seriesType(kind parquet.Kind) series.Type {
	switch kind {
	case parquet.Boolean:
		return series.Bool
	case parquet.Int32, parquet.Int64:
		return series.Int
	case parquet.Float, parquet.Double:
		return series.Float
	default:
		return series.String
	}
}

// appendRow adds one cell per column from row. cells is scratch space reused
// across rows.
func appendRow(cols []column, cells [][]any, row parquet.Row) {
	for c := range cells {
		cells[c] = cells[c][:0]
	}
	for _, v := range row {
		c := v.Column()
		if c < 0 || c >= len(cells) || v.IsNull() {
			continue
		}
		cells[c] = append(cells[c], convert(v))
	}

	for c := range cols {
		var cell any
		switch {
		case len(cells[c]) == 0:
			// NA
		case cols[c].repeated:
			cell = fmt.Sprint(cells[c])
		default:
			cell = cells[c][0]
		}
		cols[c].values = append(cols[c].values, cell)
	}
}

func convert(v parquet.Value) any {
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return int(v.Int32())
	case parquet.Int64:
		return int(v.Int64())
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}
