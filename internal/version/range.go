package version

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/jdiff/internal/errors"
)

// Bound is one end of a Restriction. A nil Version means unbounded.
type Bound struct {
	Version   *Version
	Inclusive bool
}

// Unbounded reports whether the bound places no limit.
func (b Bound) Unbounded() bool {
	return b.Version == nil
}

// Restriction is a single interval such as [1.0,2.0).
type Restriction struct {
	Lower Bound
	Upper Bound
}

// Contains reports whether v lies inside the interval.
func (r Restriction) Contains(v *Version) bool {
	if !r.Lower.Unbounded() {
		c := v.Compare(r.Lower.Version)
		if c < 0 || (c == 0 && !r.Lower.Inclusive) {
			return false
		}
	}
	if !r.Upper.Unbounded() {
		c := v.Compare(r.Upper.Version)
		if c > 0 || (c == 0 && !r.Upper.Inclusive) {
			return false
		}
	}
	return true
}

// pinned reports whether the interval admits exactly one version.
func (r Restriction) pinned() bool {
	return !r.Lower.Unbounded() && !r.Upper.Unbounded() &&
		r.Lower.Inclusive && r.Upper.Inclusive &&
		r.Lower.Version.Equal(r.Upper.Version)
}

func (r Restriction) String() string {
	var sb strings.Builder
	if r.Lower.Inclusive {
		sb.WriteByte('[')
	} else {
		sb.WriteByte('(')
	}
	if r.pinned() {
		sb.WriteString(r.Lower.Version.String())
		sb.WriteByte(']')
		return sb.String()
	}
	if !r.Lower.Unbounded() {
		sb.WriteString(r.Lower.Version.String())
	}
	sb.WriteByte(',')
	if !r.Upper.Unbounded() {
		sb.WriteString(r.Upper.Version.String())
	}
	if r.Upper.Inclusive {
		sb.WriteByte(']')
	} else {
		sb.WriteByte(')')
	}
	return sb.String()
}

// Range is a parsed version specifier: either a soft recommendation
// ("1.0") or a union of restrictions ("(,1.0],[1.2,)"). It is immutable.
type Range struct {
	spec         string
	recommended  *Version
	restrictions []Restriction
}

// ParseRange parses a Maven version specifier. Malformed expressions and
// restrictions whose bounds defy version ordering are rejected with
// errors.ErrInvalidVersionSpec.
func ParseRange(spec string) (*Range, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, invalid(spec, "empty version specification")
	}

	r := &Range{spec: spec}
	rest := spec
	for strings.HasPrefix(rest, "[") || strings.HasPrefix(rest, "(") {
		end := strings.IndexAny(rest, "])")
		if end < 0 {
			return nil, invalid(spec, "unbounded range")
		}

		restriction, err := parseRestriction(rest[:end+1])
		if err != nil {
			return nil, invalid(spec, err.Error())
		}
		if n := len(r.restrictions); n > 0 && overlaps(r.restrictions[n-1], restriction) {
			return nil, invalid(spec, "ranges overlap")
		}
		r.restrictions = append(r.restrictions, restriction)

		rest = strings.TrimSpace(rest[end+1:])
		if strings.HasPrefix(rest, ",") {
			rest = strings.TrimSpace(rest[1:])
			if rest == "" {
				return nil, invalid(spec, "trailing comma")
			}
		}
	}

	if rest != "" {
		if len(r.restrictions) > 0 {
			return nil, invalid(spec, "only fully-qualified sets are allowed in a multiple set")
		}
		if strings.ContainsAny(rest, "[](),") {
			return nil, invalid(spec, "unexpected range delimiter")
		}
		v, err := Parse(rest)
		if err != nil {
			return nil, invalid(spec, err.Error())
		}
		r.recommended = v
		r.restrictions = []Restriction{{}}
	}

	return r, nil
}

// MustParseRange is like ParseRange but panics on error.
func MustParseRange(spec string) *Range {
	r, err := ParseRange(spec)
	if err != nil {
		panic(err)
	}
	return r
}

func parseRestriction(s string) (Restriction, error) {
	lowerInclusive := s[0] == '['
	upperInclusive := s[len(s)-1] == ']'
	inner := strings.TrimSpace(s[1 : len(s)-1])

	if strings.ContainsAny(inner, "[]()") {
		return Restriction{}, fmt.Errorf("nested range delimiter in %q", s)
	}

	comma := strings.Index(inner, ",")
	if comma < 0 {
		if !lowerInclusive || !upperInclusive {
			return Restriction{}, fmt.Errorf("single version must be surrounded by []: %q", s)
		}
		v, err := Parse(inner)
		if err != nil {
			return Restriction{}, err
		}
		return Restriction{
			Lower: Bound{Version: v, Inclusive: true},
			Upper: Bound{Version: v, Inclusive: true},
		}, nil
	}

	lowerStr := strings.TrimSpace(inner[:comma])
	upperStr := strings.TrimSpace(inner[comma+1:])
	if strings.Contains(upperStr, ",") {
		return Restriction{}, fmt.Errorf("too many bounds in %q", s)
	}

	r := Restriction{
		Lower: Bound{Inclusive: lowerInclusive},
		Upper: Bound{Inclusive: upperInclusive},
	}
	if lowerStr != "" {
		v, err := Parse(lowerStr)
		if err != nil {
			return Restriction{}, err
		}
		r.Lower.Version = v
	}
	if upperStr != "" {
		v, err := Parse(upperStr)
		if err != nil {
			return Restriction{}, err
		}
		r.Upper.Version = v
	}

	if !r.Lower.Unbounded() && !r.Upper.Unbounded() {
		switch c := r.Lower.Version.Compare(r.Upper.Version); {
		case c > 0:
			return Restriction{}, fmt.Errorf("range defies version ordering: %q", s)
		case c == 0 && !(lowerInclusive && upperInclusive):
			return Restriction{}, fmt.Errorf("range cannot have identical open boundaries: %q", s)
		}
	}
	return r, nil
}

// overlaps reports whether next starts at or before the end of prev.
func overlaps(prev, next Restriction) bool {
	if prev.Upper.Unbounded() || next.Lower.Unbounded() {
		return true
	}
	c := prev.Upper.Version.Compare(next.Lower.Version)
	return c > 0 || (c == 0 && prev.Upper.Inclusive && next.Lower.Inclusive)
}

func invalid(spec, reason string) error {
	return errors.NewValidationError(reason).
		WithField("version").
		WithValue(spec).
		WithCause(errors.ErrInvalidVersionSpec)
}

// String returns the specifier as it was parsed.
func (r *Range) String() string {
	return r.spec
}

// Restrictions returns a copy of the range's intervals.
func (r *Range) Restrictions() []Restriction {
	out := make([]Restriction, len(r.restrictions))
	copy(out, r.restrictions)
	return out
}

// Pinned returns the single version the specifier selects without any
// lookup: the recommended version, or the version of a "[x]" range.
func (r *Range) Pinned() (*Version, bool) {
	if r.recommended != nil {
		return r.recommended, true
	}
	if len(r.restrictions) == 1 && r.restrictions[0].pinned() {
		return r.restrictions[0].Lower.Version, true
	}
	return nil, false
}

// Contains reports whether v satisfies any restriction of the range.
func (r *Range) Contains(v *Version) bool {
	for _, restriction := range r.restrictions {
		if restriction.Contains(v) {
			return true
		}
	}
	return false
}

// Match returns the highest version in candidates that the range
// contains, or nil if there is none.
func (r *Range) Match(candidates []*Version) *Version {
	var best *Version
	for _, v := range candidates {
		if !r.Contains(v) {
			continue
		}
		if best == nil || best.LessThan(v) {
			best = v
		}
	}
	return best
}
