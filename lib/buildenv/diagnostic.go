// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

package buildenv

import (
	"sort"
	"strings"
)

// Pair is a single NAME=value environment entry in a diagnostic view.
type Pair struct {
	Name  string
	Value string
}

// Diagnostic returns the variables safe to echo into logs, sorted by
// name. Platform-injected variables (the CNB_ namespace) and
// machine-identifying ones (HOME, HOSTNAME) are excluded; their values
// differ per builder and would make transcripts both noisy and
// un-diffable. App-provided variables pass through so users can confirm
// what their processes actually received.
func (e *Env) Diagnostic() []Pair {
	pairs := make([]Pair, 0, len(e.vars))
	for name, value := range e.vars {
		if strings.HasPrefix(name, "CNB_") {
			continue
		}
		if name == "HOME" || name == "HOSTNAME" {
			continue
		}
		pairs = append(pairs, Pair{Name: name, Value: value})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })
	return pairs
}
