package version

import (
	"strconv"
	"strings"
)

// qualifiers lists the known qualifiers from lowest to highest. The empty
// qualifier is a plain release.
var qualifiers = []string{"alpha", "beta", "milestone", "rc", "snapshot", "", "sp"}

// aliases maps qualifier spellings onto the known ones.
var aliases = map[string]string{
	"ga":      "",
	"final":   "",
	"release": "",
	"cr":      "rc",
}

var releaseRank = qualifierRank("")

// qualifierRank returns a string that orders qualifiers correctly under
// plain string comparison: the index of a known qualifier, or the
// qualifier itself behind a prefix that sorts after every index.
func qualifierRank(q string) string {
	for i, known := range qualifiers {
		if q == known {
			return strconv.Itoa(i)
		}
	}
	return strconv.Itoa(len(qualifiers)) + "-" + q
}

// item is one element of a parsed version. compare accepts nil, which
// stands for a missing element and compares like a release.
type item interface {
	isNull() bool
	compare(other item) int
}

// intItem is a decimal number without leading zeros; the empty string
// is zero. Numbers are compared as digit strings so any length works.
type intItem string

func newIntItem(digits string) intItem {
	return intItem(strings.TrimLeft(digits, "0"))
}

func (i intItem) isNull() bool { return i == "" }

func (i intItem) compare(other item) int {
	switch o := other.(type) {
	case nil:
		if i.isNull() {
			return 0
		}
		return 1
	case intItem:
		if len(i) != len(o) {
			return len(i) - len(o)
		}
		return strings.Compare(string(i), string(o))
	default:
		return 1
	}
}

// stringItem is a qualifier after alias resolution.
type stringItem string

// newStringItem resolves aliases. The one-letter forms a, b and m stand
// for alpha, beta and milestone when a number follows directly ("1.0b2").
func newStringItem(s string, followedByDigit bool) stringItem {
	if followedByDigit && len(s) == 1 {
		switch s {
		case "a":
			s = "alpha"
		case "b":
			s = "beta"
		case "m":
			s = "milestone"
		}
	}
	if alias, ok := aliases[s]; ok {
		s = alias
	}
	return stringItem(s)
}

func (s stringItem) isNull() bool { return qualifierRank(string(s)) == releaseRank }

func (s stringItem) compare(other item) int {
	switch o := other.(type) {
	case nil:
		return strings.Compare(qualifierRank(string(s)), releaseRank)
	case intItem:
		return -1
	case stringItem:
		return strings.Compare(qualifierRank(string(s)), qualifierRank(string(o)))
	default:
		return -1
	}
}

// listItem is a sub-version started by a hyphen or by a switch between
// digits and letters.
type listItem struct {
	items []item
}

func (l *listItem) add(it item) {
	l.items = append(l.items, it)
}

func (l *listItem) isNull() bool { return len(l.items) == 0 }

func (l *listItem) compare(other item) int {
	switch o := other.(type) {
	case nil:
		if len(l.items) == 0 {
			return 0
		}
		return l.items[0].compare(nil)
	case intItem:
		return -1
	case stringItem:
		return 1
	case *listItem:
		for k := 0; k < len(l.items) || k < len(o.items); k++ {
			var c int
			switch {
			case k >= len(l.items):
				c = -o.items[k].compare(nil)
			case k >= len(o.items):
				c = l.items[k].compare(nil)
			default:
				c = l.items[k].compare(o.items[k])
			}
			if c != 0 {
				return c
			}
		}
		return 0
	}
	return 0
}

// normalize drops trailing null items (zero, release qualifier, empty
// list), stepping over nested lists but stopping at the first number or
// qualifier that is not null.
func (l *listItem) normalize() {
	for i := len(l.items) - 1; i >= 0; i-- {
		last := l.items[i]
		if last.isNull() {
			l.items = append(l.items[:i], l.items[i+1:]...)
			continue
		}
		if _, ok := last.(*listItem); !ok {
			break
		}
	}
}

func parseItem(isDigit bool, buf string) item {
	if isDigit {
		return newIntItem(buf)
	}
	return newStringItem(buf, false)
}

func isDigitByte(c byte) bool {
	return c >= '0' && c <= '9'
}

// parseItems splits a version into its item tree.
func parseItems(version string) *listItem {
	version = strings.ToLower(version)

	root := &listItem{}
	list := root
	stack := []*listItem{root}
	push := func() {
		sub := &listItem{}
		list.add(sub)
		list = sub
		stack = append(stack, sub)
	}

	isDigit := false
	start := 0
	for i := 0; i < len(version); i++ {
		c := version[i]
		switch {
		case c == '.' || c == '-':
			if i == start {
				list.add(intItem(""))
			} else {
				list.add(parseItem(isDigit, version[start:i]))
			}
			isDigit = false
			start = i + 1
			if c == '-' {
				push()
			}
		case isDigitByte(c):
			if !isDigit && i > start {
				// ".X1" is read as "-X1".
				if !list.isNull() {
					push()
				}
				list.add(newStringItem(version[start:i], true))
				start = i
				push()
			}
			isDigit = true
		default:
			if isDigit && i > start {
				list.add(parseItem(true, version[start:i]))
				start = i
				push()
			}
			isDigit = false
		}
	}
	if len(version) > start {
		if !isDigit && !list.isNull() {
			push()
		}
		list.add(parseItem(isDigit, version[start:]))
	}

	for i := len(stack) - 1; i >= 0; i-- {
		stack[i].normalize()
	}
	return root
}
