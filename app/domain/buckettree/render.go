// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package buckettree

import (
	"bufio"
	"io"
)

const (
	branch     = "├── "
	lastBranch = "└── "
	pipe       = "│   "
	space      = "    "
)

// Render writes the tree below the root, one entry per line. Directories
// carry a trailing separator.
func (t *Tree) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)
	t.render(bw, 0, "")
	return bw.Flush()
}

func (t *Tree) render(w *bufio.Writer, dir int, prefix string) {
	children := t.nodes[dir].children
	for n, i := range children {
		child := t.nodes[i]
		last := n == len(children)-1

		connector, extension := branch, pipe
		if last {
			connector, extension = lastBranch, space
		}

		// bufio.Writer keeps the first error and reports it on Flush.
		_, _ = w.WriteString(prefix + connector + child.Name)
		if child.Kind == Dir {
			_, _ = w.WriteString(Separator + "\n")
			t.render(w, i, prefix+extension)
			continue
		}
		_ = w.WriteByte('\n')
	}
}
