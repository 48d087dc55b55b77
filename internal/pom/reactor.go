package pom

import (
	"path/filepath"

	"github.com/Iron-Ham/jdiff/internal/errors"
)

// Module is a project within a reactor, together with its location
// relative to the reactor root.
type Module struct {
	Project *Project
	// RelPath is the project's directory relative to the reactor root,
	// using forward slashes; "." for the root itself.
	RelPath string
}

// Name returns a short label for logs: the artifactId.
func (m Module) Name() string {
	return m.Project.ArtifactID
}

// Reactor is the ordered list of projects of a multi-module build. The
// first entry is always the root project.
type Reactor struct {
	Root    string
	Modules []Module
}

// First returns the root module; the one that owns session-wide work.
func (r *Reactor) First() Module {
	return r.Modules[0]
}

// LoadReactor loads the project at root and, depth first in declaration
// order, every module it aggregates.
func LoadReactor(root string) (*Reactor, error) {
	top, err := Load(root)
	if err != nil {
		return nil, err
	}

	r := &Reactor{Root: top.BaseDir}
	visited := map[string]bool{}
	if err := r.collect(top, visited); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reactor) collect(p *Project, visited map[string]bool) error {
	if visited[p.File] {
		return nil
	}
	visited[p.File] = true

	rel, err := filepath.Rel(r.Root, p.BaseDir)
	if err != nil {
		return errors.Wrapf(err, "module %s is outside the reactor root", p.BaseDir)
	}
	r.Modules = append(r.Modules, Module{Project: p, RelPath: filepath.ToSlash(rel)})

	for _, name := range p.Modules {
		child, err := Load(filepath.Join(p.BaseDir, filepath.FromSlash(name)))
		if err != nil {
			return errors.Wrapf(err, "loading module %q of %s", name, p.ID())
		}
		if err := r.collect(child, visited); err != nil {
			return err
		}
	}
	return nil
}

// ModuleIn returns the path of module's pom.xml inside another copy of
// the reactor rooted at dir, such as a checkout of an older version.
func ModuleIn(dir string, module Module) string {
	return filepath.Join(dir, filepath.FromSlash(module.RelPath), FileName)
}
