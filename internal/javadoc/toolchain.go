package javadoc

import (
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/jdiff/internal/errors"
)

// ToolchainType is the toolchain type that provides javadoc.
const ToolchainType = "jdk"

type toolchainsDoc struct {
	XMLName    xml.Name    `xml:"toolchains"`
	Toolchains []toolchain `xml:"toolchain"`
}

type toolchain struct {
	Type     string   `xml:"type"`
	Provides provides `xml:"provides"`
	JDKHome  string   `xml:"configuration>jdkHome"`
}

type provides struct {
	Entries []struct {
		XMLName xml.Name
		Value   string `xml:",chardata"`
	} `xml:",any"`
}

func (p provides) get(key string) string {
	for _, e := range p.Entries {
		if e.XMLName.Local == key {
			return strings.TrimSpace(e.Value)
		}
	}
	return ""
}

// DefaultToolchainsFile returns ~/.m2/toolchains.xml.
func DefaultToolchainsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".m2", "toolchains.xml")
}

// ToolchainLocator selects a JDK from a Maven toolchains.xml file. The
// first jdk toolchain whose <provides> entries match every requirement
// wins; no requirements matches the first jdk toolchain.
type ToolchainLocator struct {
	File         string
	Requirements map[string]string
}

// Name implements Locator.
func (l *ToolchainLocator) Name() string { return "toolchains" }

// Locate implements Locator. A missing file, or a toolchain without
// javadoc, defers.
func (l *ToolchainLocator) Locate(context.Context) (string, error) {
	if l.File == "" {
		return "", ErrDefer
	}
	data, err := os.ReadFile(l.File)
	if os.IsNotExist(err) {
		return "", ErrDefer
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", l.File)
	}

	var doc toolchainsDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", errors.NewConfigError("malformed toolchains file", err).
			WithField("javadoc.toolchains_file").
			WithValue(l.File)
	}

	for _, tc := range doc.Toolchains {
		if strings.TrimSpace(tc.Type) != ToolchainType || !l.matches(tc.Provides) {
			continue
		}
		home := strings.TrimSpace(tc.JDKHome)
		if home == "" {
			continue
		}
		exe := filepath.Join(home, "bin", ExecutableName())
		if isFile(exe) {
			return filepath.Abs(exe)
		}
		return "", ErrDefer
	}
	return "", ErrDefer
}

func (l *ToolchainLocator) matches(p provides) bool {
	for key, want := range l.Requirements {
		if want == "" {
			continue
		}
		if p.get(key) != want {
			return false
		}
	}
	return true
}
