// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package buckettree_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudzero/broadband-explorer/app/domain/buckettree"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{
			name: "nested",
			keys: []string{"a/b.parquet", "a/c/d.parquet", "e.parquet"},
			want: "├── a/\n" +
				"│   ├── b.parquet\n" +
				"│   └── c/\n" +
				"│       └── d.parquet\n" +
				"└── e.parquet\n",
		},
		{
			name: "directories before files",
			keys: []string{"z.txt", "b/x", "a.txt", "a/y"},
			want: "├── a/\n" +
				"│   └── y\n" +
				"├── b/\n" +
				"│   └── x\n" +
				"├── a.txt\n" +
				"└── z.txt\n",
		},
		{
			name: "last directory uses blank continuation",
			keys: []string{"p/q/r/s.parquet"},
			want: "└── p/\n" +
				"    └── q/\n" +
				"        └── r/\n" +
				"            └── s.parquet\n",
		},
		{
			name: "empty",
			keys: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, buckettree.Build(tt.keys).Render(&out))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestRender_WriteError(t *testing.T) {
	err := buckettree.Build([]string{"a/b"}).Render(failingWriter{})
	assert.Error(t, err)
}
