// Package vercmp compares software version strings.
//
// Compare implements the Debian-style ordering used throughout the catalog
// tooling: an optional epoch prefix ("1:2.0"), an optional revision suffix
// ("2.0-3"), tilde segments sorting before everything else ("2.0~rc1" < "2.0"),
// and overflow-free comparison of arbitrarily long numeric runs.
package vercmp

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CompareOp is a version relation to test two versions against.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
)

// parsedVersion is a view into a version string, split at the epoch
// (first ':') and revision (last '-') markers.
type parsedVersion struct {
	epoch    string
	version  string
	revision string
}

func parseVersion(v string) parsedVersion {
	p := parsedVersion{revision: "0"}

	if i := strings.IndexByte(v, ':'); i >= 0 {
		p.epoch = v[:i]
		v = v[i+1:]
	}
	if i := strings.LastIndexByte(v, '-'); i >= 0 {
		p.revision = v[i+1:]
		v = v[:i]
	}
	p.version = v
	return p
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

// cmpNumber compares two numeric runs represented as strings without
// converting them to integers, so it can not overflow. It returns the
// comparison result and the remainders of both inputs after the runs.
func cmpNumber(a, b string) (res int, restA, restB string) {
	if a == "" && b == "" {
		return 0, a, b
	}
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")

	for a != "" && b != "" && isDigit(a[0]) && isDigit(b[0]) {
		if res == 0 && a[0] != b[0] {
			if a[0] < b[0] {
				res = -1
			} else {
				res = 1
			}
		}
		a = a[1:]
		b = b[1:]
	}
	if a != "" && isDigit(a[0]) {
		if b == "" || !isDigit(b[0]) {
			res = 1
		}
	} else if b != "" && isDigit(b[0]) {
		res = -1
	}
	return res, a, b
}

// cmpPart compares one version part (the upstream version or the revision)
// by walking alternating non-digit and digit segments.
func cmpPart(a, b string) int {
	for a != "" || b != "" {
		// Walk the non-digit segment.
		for a == "" || b == "" || !isDigit(a[0]) || !isDigit(b[0]) {
			switch {
			case a == "" && b == "":
				return 0
			case a != "" && b != "" && a[0] == b[0]:
				a = a[1:]
				b = b[1:]
				continue
			// Tilde always sorts first; the string with the tilde loses.
			case a != "" && a[0] == '~':
				return -1
			case b != "" && b[0] == '~':
				return 1
			// One side is exhausted, the other continues with a zero run:
			// fall back to numeric comparison.
			case a == "" && b[0] == '0', b == "" && a[0] == '0':
				res, _, _ := cmpNumber(a, b)
				return res
			case a == "":
				return -1
			case b == "":
				return 1
			// Digit beats non-digit.
			case isDigit(a[0]) != isDigit(b[0]):
				if isDigit(a[0]) {
					return -1
				}
				return 1
			// Alpha loses against non-alpha.
			case isAlpha(a[0]) != isAlpha(b[0]):
				if isAlpha(a[0]) {
					return -1
				}
				return 1
			default:
				if a[0] < b[0] {
					return -1
				}
				return 1
			}
		}

		var res int
		res, a, b = cmpNumber(a, b)
		if res != 0 || (a == "" && b == "") {
			return res
		}
	}
	return 0
}

// Compare compares the alpha and numeric segments of two software versions.
// It returns a value > 0 if a is newer than b, 0 if the versions are equal,
// and < 0 if b is newer than a.
func Compare(a, b string) int {
	return compare(a, b, false)
}

// CompareIgnoreEpoch is Compare with epoch prefixes ignored on both sides.
func CompareIgnoreEpoch(a, b string) int {
	return compare(a, b, true)
}

func compare(a, b string, ignoreEpoch bool) int {
	if a == b {
		return 0
	}

	// Differing single-character epochs decide immediately.
	if !ignoreEpoch && len(a) > 1 && len(b) > 1 && a[0] != b[0] && a[1] == ':' && b[1] == ':' {
		if a[0] < b[0] {
			return -1
		}
		return 1
	}

	va := parseVersion(a)
	vb := parseVersion(b)

	if !ignoreEpoch {
		if res, _, _ := cmpNumber(va.epoch, vb.epoch); res != 0 {
			return res
		}
	}
	if res := cmpPart(va.version, vb.version); res != 0 {
		return res
	}
	return cmpPart(va.revision, vb.revision)
}

// TestMatch compares two versions and reports whether the relation op holds.
func TestMatch(v1 string, op CompareOp, v2 string) bool {
	rc := Compare(v1, v2)
	switch op {
	case OpEq:
		return rc == 0
	case OpNe:
		return rc != 0
	case OpLt:
		return rc < 0
	case OpGt:
		return rc > 0
	case OpLe:
		return rc <= 0
	case OpGe:
		return rc >= 0
	default:
		return false
	}
}

// CompareSemver compares two versions under strict semantic-versioning rules,
// for catalogs whose versioning policy is known to be semver. Inputs that do
// not parse as semver fall back to Compare, so the result is still a total
// order over arbitrary strings.
func CompareSemver(a, b string) int {
	sa, errA := semver.NewVersion(a)
	sb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return Compare(a, b)
	}
	return sa.Compare(sb)
}
