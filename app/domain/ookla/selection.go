// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ookla

import (
	"slices"
	"sort"
)

// Criteria selects records by partition. Each set lists the accepted
// values; a record matches when its year, quarter and service type are all
// members. A nil or empty set accepts nothing.
type Criteria struct {
	Years        []int
	Quarters     []int
	ServiceTypes []ServiceType
}

// NewCriteria returns criteria that accept nothing until sets are added.
func NewCriteria() Criteria {
	return Criteria{}
}

// WithYears returns a copy accepting the given years. Pass a single value
// or spread a slice: WithYears(years...).
func (c Criteria) WithYears(years ...int) Criteria {
	c.Years = slices.Clone(years)
	return c
}

// WithQuarters returns a copy accepting the given quarters.
func (c Criteria) WithQuarters(quarters ...int) Criteria {
	c.Quarters = slices.Clone(quarters)
	return c
}

// WithServiceTypes returns a copy accepting the given service types.
func (c Criteria) WithServiceTypes(serviceTypes ...ServiceType) Criteria {
	c.ServiceTypes = slices.Clone(serviceTypes)
	return c
}

// Matches reports whether rec satisfies every set. Records with a missing
// partition value never match.
func (c Criteria) Matches(rec FileRecord) bool {
	if !rec.Complete() {
		return false
	}
	return slices.Contains(c.Years, *rec.Year) &&
		slices.Contains(c.Quarters, *rec.Quarter) &&
		slices.Contains(c.ServiceTypes, *rec.ServiceType)
}

// Select returns the matching records sorted by service type, year and
// quarter. Records with equal keys keep their original relative order. The
// receiver is not modified.
func (t FileTable) Select(c Criteria) FileTable {
	out := make(FileTable, 0, len(t))
	for _, rec := range t {
		if c.Matches(rec) {
			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if *a.ServiceType != *b.ServiceType {
			return *a.ServiceType < *b.ServiceType
		}
		if *a.Year != *b.Year {
			return *a.Year < *b.Year
		}
		return *a.Quarter < *b.Quarter
	})

	return out
}
