// Package version implements Maven version ordering and version range
// expressions.
//
// Ordering follows Maven's ComparableVersion: a version is split into
// numbers and qualifiers at dots, hyphens and digit/letter transitions,
// known qualifiers rank alpha < beta < milestone < rc < snapshot <
// release < sp, and unknown qualifiers sort after all of them.
package version

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Iron-Ham/jdiff/internal/errors"
)

// SnapshotQualifier marks a development build in Maven version strings.
const SnapshotQualifier = "SNAPSHOT"

// timestampedSnapshot matches deployed snapshots such as 1.0-20240101.120000-3.
var timestampedSnapshot = regexp.MustCompile(`-\d{8}\.\d{6}-\d+$`)

// reserved are characters that belong to range syntax or separate
// versions, never to a version itself.
const reserved = "[](), \t\r\n"

// Version is a parsed, comparable version. The original string is kept
// so that it can be handed back to tools verbatim.
type Version struct {
	raw   string
	items *listItem
}

// Parse parses a Maven version string. Maven accepts any token as a
// version, so only empty strings and strings holding range delimiters or
// whitespace are rejected.
func Parse(s string) (*Version, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return nil, fmt.Errorf("empty version: %w", errors.ErrInvalidVersionSpec)
	}
	if strings.ContainsAny(raw, reserved) {
		return nil, fmt.Errorf("version %q: %w", raw, errors.ErrInvalidVersionSpec)
	}
	return &Version{raw: raw, items: parseItems(raw)}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level constants.
func MustParse(s string) *Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version exactly as it was written.
func (v *Version) String() string {
	return v.raw
}

// Compare returns -1, 0 or 1 as v sorts before, equal to or after o.
func (v *Version) Compare(o *Version) int {
	return sign(v.items.compare(o.items))
}

// Equal reports whether v and o sort equal.
func (v *Version) Equal(o *Version) bool {
	return v.Compare(o) == 0
}

// LessThan reports whether v sorts before o.
func (v *Version) LessThan(o *Version) bool {
	return v.Compare(o) < 0
}

// IsSnapshot reports whether the version string carries the SNAPSHOT
// qualifier or a deployed-snapshot timestamp.
func IsSnapshot(s string) bool {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if strings.HasSuffix(upper, "-"+SnapshotQualifier) || upper == SnapshotQualifier {
		return true
	}
	return timestampedSnapshot.MatchString(s)
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	}
	return 0
}
