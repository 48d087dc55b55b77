// Package javadoc assembles and runs javadoc invocations with the JDiff
// doclet, and locates the javadoc executable.
package javadoc

import (
	"strings"
)

// Doclet is the entry class of the JDiff doclet.
const Doclet = "jdiff.JDiff"

// Command is a javadoc command line: "-key value" pairs, bare flags and
// positional package names, in insertion order.
type Command struct {
	Executable string
	args       []string
}

// NewCommand starts a command line for executable.
func NewCommand(executable string) *Command {
	return &Command{Executable: executable}
}

// Pair appends "-key value".
func (c *Command) Pair(key, value string) *Command {
	c.args = append(c.args, "-"+key, value)
	return c
}

// Flag appends a bare "-name" option.
func (c *Command) Flag(name string) *Command {
	c.args = append(c.args, "-"+name)
	return c
}

// Arg appends positional arguments.
func (c *Command) Arg(args ...string) *Command {
	c.args = append(c.args, args...)
	return c
}

// Args returns a copy of the arguments, without the executable.
func (c *Command) Args() []string {
	out := make([]string, len(c.args))
	copy(out, c.args)
	return out
}

// Value returns the value of the first "-key value" pair.
func (c *Command) Value(key string) (string, bool) {
	opt := "-" + key
	for i := 0; i+1 < len(c.args); i++ {
		if c.args[i] == opt {
			return c.args[i+1], true
		}
	}
	return "", false
}

// HasFlag reports whether "-name" appears in the arguments.
func (c *Command) HasFlag(name string) bool {
	opt := "-" + name
	for _, a := range c.args {
		if a == opt {
			return true
		}
	}
	return false
}

// String renders the command line for logs.
func (c *Command) String() string {
	parts := make([]string, 0, len(c.args)+1)
	parts = append(parts, c.Executable)
	for _, a := range c.args {
		if a == "" || strings.ContainsAny(a, " \t'\"") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
