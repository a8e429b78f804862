// SPDX-License-Identifier: MPL-2.0

// Package version provides pure helpers for extracting and comparing
// version strings found in tool output and configuration. GPU driver
// versions, interpreter versions, and helper tool versions all flow
// through these functions.
//
// The comparison model is deliberately simple: a version is the sequence
// of numeric components obtained by splitting on '.', '-' and '+'. Missing
// trailing components compare as zero, and malformed components (or whole
// strings) degrade to zero instead of failing, so "garbage" sorts below
// every real version rather than aborting a validation pass.
package version

import (
	"regexp"
	"strconv"
	"strings"
)

// driverVersionRE locates a driver-version token inside verbose diagnostic
// text such as the nvidia-smi banner ("... Driver Version: 591.59 ...").
var driverVersionRE = regexp.MustCompile(`Driver Version:\s*([0-9]+(?:\.[0-9]+)*)`)

// ParseDriverVersion scans raw diagnostic output for a driver-version token
// and returns it. The boolean is false when no token is present; callers
// treat that as "unknown", not as an error.
func ParseDriverVersion(raw string) (string, bool) {
	m := driverVersionRE.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Compare orders two version strings component-wise and returns -1, 0, or 1
// as a is below, equal to, or above b. The shorter component list is padded
// with zeros, so "580" and "580.0.0" compare equal.
func Compare(a, b string) int {
	ca, cb := components(a), components(b)
	for len(ca) < len(cb) {
		ca = append(ca, 0)
	}
	for len(cb) < len(ca) {
		cb = append(cb, 0)
	}
	for i := range ca {
		switch {
		case ca[i] < cb[i]:
			return -1
		case ca[i] > cb[i]:
			return 1
		}
	}
	return 0
}

// IsBelowMinimum reports whether version is strictly below minimum under
// Compare semantics. Ties are not below.
func IsBelowMinimum(version, minimum string) bool {
	return Compare(version, minimum) < 0
}

// components splits a version string on '.', '-' and '+' into numeric
// parts. Components that fail to parse contribute zero; an empty or fully
// malformed string yields a single zero component (i.e. behaves as "0.0.0").
func components(s string) []int {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '-' || r == '+'
	})
	if len(fields) == 0 {
		return []int{0}
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out
}
