// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package buckettree rebuilds the directory hierarchy implied by a flat list
// of object keys and renders it as an indented tree.
package buckettree

import (
	"cmp"
	"slices"
	"strings"
)

// Separator splits keys into path segments.
const Separator = "/"

// Kind tells directories from files. Directories order before files.
type Kind int

const (
	Dir Kind = iota
	File
)

func (k Kind) String() string {
	if k == Dir {
		return "dir"
	}
	return "file"
}

// Entry is one child in the tree. Path is the full path from the root, the
// prefix of segments up to and including Name.
type Entry struct {
	Kind Kind
	Name string
	Path string
}

type node struct {
	Entry
	children []int
}

type nodeKey struct {
	kind Kind
	path string
}

// Tree is an arena of nodes indexed by kind and path. The root is the
// directory with the empty path. Every directory keeps its children sorted
// in render order, so the same set of keys builds the same tree whatever the
// input order.
type Tree struct {
	nodes []node
	index map[nodeKey]int
	files int
}

// New returns a tree holding only the root.
func New() *Tree {
	return &Tree{
		nodes: []node{{Entry: Entry{Kind: Dir}}},
		index: map[nodeKey]int{{kind: Dir, path: ""}: 0},
	}
}

// Build returns the tree for the given keys.
func Build(keys []string) *Tree {
	t := New()
	for _, k := range keys {
		t.Add(k)
	}
	return t
}

// Add registers every prefix of key. The last segment is a file, the others
// are directories. Registering an existing entry is a no-op.
func (t *Tree) Add(key string) {
	segments := strings.Split(key, Separator)
	parent := 0
	for i, name := range segments {
		kind := Dir
		if i == len(segments)-1 {
			kind = File
		}
		parent = t.insert(parent, Entry{
			Kind: kind,
			Name: name,
			Path: strings.Join(segments[:i+1], Separator),
		})
	}
}

// insert adds e under parent unless it is already there and returns its index.
func (t *Tree) insert(parent int, e Entry) int {
	key := nodeKey{kind: e.Kind, path: e.Path}
	if i, ok := t.index[key]; ok {
		return i
	}

	i := len(t.nodes)
	t.nodes = append(t.nodes, node{Entry: e})
	t.index[key] = i
	if e.Kind == File {
		t.files++
	}

	siblings := t.nodes[parent].children
	pos, _ := slices.BinarySearchFunc(siblings, e, func(idx int, target Entry) int {
		return compareEntries(t.nodes[idx].Entry, target)
	})
	t.nodes[parent].children = slices.Insert(siblings, pos, i)

	return i
}

func compareEntries(a, b Entry) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.Path, b.Path)
}

// Children returns the entries directly under the directory at path, in
// render order. The root is the empty path. Unknown paths have no children.
func (t *Tree) Children(path string) []Entry {
	i, ok := t.index[nodeKey{kind: Dir, path: path}]
	if !ok {
		return nil
	}
	out := make([]Entry, 0, len(t.nodes[i].children))
	for _, c := range t.nodes[i].children {
		out = append(out, t.nodes[c].Entry)
	}
	return out
}

// Files is the number of distinct file entries.
func (t *Tree) Files() int {
	return t.files
}
