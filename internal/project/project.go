// Package project defines the fixed RAPIDS project registry: the five
// orchestrated projects, their on-disk layout, and the dependency graph
// used to compute build closures.
package project

import (
	"fmt"
	"path/filepath"

	"github.com/rapidslab/rapidsdev/internal/dag"
)

// Name identifies one of the orchestrated projects.
type Name string

// The orchestrated projects, in canonical build order.
const (
	RMM       Name = "rmm"
	CUDF      Name = "cudf"
	CUML      Name = "cuml"
	CUGraph   Name = "cugraph"
	CUSpatial Name = "cuspatial"
)

// BuildOrder is the fixed execution order for all orchestrated operations.
// Dependencies always precede dependents.
var BuildOrder = []Name{RMM, CUDF, CUML, CUGraph, CUSpatial}

// Project describes one RAPIDS project checkout.
type Project struct {
	Name       Name
	SourceRoot string // checkout root, e.g. /rapids/cudf
	CPPDir     string // native layer, e.g. /rapids/cudf/cpp
	BuildDir   string // CMake build tree, e.g. /rapids/cudf/cpp/build
	PythonDir  string // binding layer, e.g. /rapids/cudf/python

	// DependsOn lists direct upstream dependencies.
	DependsOn []Name

	// CPPTargets lists native build targets in build order. cudf builds
	// its string-handling sub-library before the main library because
	// the main library links against it.
	CPPTargets []Name

	// LintSupported marks projects the lint operation covers.
	LintSupported bool
}

// CompileDBPath returns the path of the CMake-generated compile database.
func (p *Project) CompileDBPath() string {
	return filepath.Join(p.BuildDir, "compile_commands.json")
}

// CompileDBLink returns the stable path where the rewritten compile
// database is published for static-analysis tooling.
func (p *Project) CompileDBLink() string {
	return filepath.Join(p.CPPDir, "compile_commands.json")
}

// InstallPrefix returns the install prefix derived from the build tree.
func (p *Project) InstallPrefix() string {
	return filepath.Join(p.BuildDir, "install")
}

// Registry holds the project set and its dependency graph.
type Registry struct {
	root     string
	projects map[Name]*Project
	graph    *dag.Graph
}

// NewRegistry builds the registry rooted at the given checkout directory
// (one sub-directory per project). The dependency graph is fixed; the
// constructor rejects cycles and a BuildOrder that contradicts the
// graph, so that future edge additions cannot silently break planning.
func NewRegistry(root string) (*Registry, error) {
	defs := []struct {
		name     Name
		deps     []Name
		targets  []Name
		lintable bool
	}{
		{name: RMM, lintable: true},
		{name: CUDF, deps: []Name{RMM}, targets: []Name{"nvstrings", CUDF}, lintable: true},
		{name: CUML, deps: []Name{CUDF}},
		{name: CUGraph, deps: []Name{CUDF}},
		{name: CUSpatial, deps: []Name{CUDF}},
	}

	r := &Registry{
		root:     root,
		projects: make(map[Name]*Project, len(defs)),
		graph:    dag.NewGraph(),
	}

	for _, d := range defs {
		src := filepath.Join(root, string(d.name))
		cpp := filepath.Join(src, "cpp")
		targets := d.targets
		if len(targets) == 0 {
			targets = []Name{d.name}
		}
		p := &Project{
			Name:          d.name,
			SourceRoot:    src,
			CPPDir:        cpp,
			BuildDir:      filepath.Join(cpp, "build"),
			PythonDir:     filepath.Join(src, "python"),
			DependsOn:     d.deps,
			CPPTargets:    targets,
			LintSupported: d.lintable,
		}
		r.projects[d.name] = p
		r.graph.AddNode(string(d.name))
	}

	for _, d := range defs {
		for _, dep := range d.deps {
			if err := r.graph.AddEdge(string(dep), string(d.name)); err != nil {
				return nil, fmt.Errorf("invalid dependency %s -> %s: %w", dep, d.name, err)
			}
		}
	}

	if _, err := r.graph.TopologicalSort(); err != nil {
		return nil, fmt.Errorf("project dependency graph: %w", err)
	}

	pos := make(map[Name]int, len(BuildOrder))
	for i, n := range BuildOrder {
		pos[n] = i
	}
	for _, n := range BuildOrder {
		for _, dep := range r.graph.GetParents(string(n)) {
			if pos[Name(dep)] > pos[n] {
				return nil, fmt.Errorf("build order places %s before its dependency %s", n, dep)
			}
		}
	}

	return r, nil
}

// Root returns the checkout root directory.
func (r *Registry) Root() string {
	return r.root
}

// Get returns a project by name.
func (r *Registry) Get(name Name) (*Project, bool) {
	p, ok := r.projects[name]
	return p, ok
}

// All returns every project in build order.
func (r *Registry) All() []*Project {
	out := make([]*Project, 0, len(BuildOrder))
	for _, n := range BuildOrder {
		out = append(out, r.projects[n])
	}
	return out
}

// Graph exposes the dependency graph (read-only use).
func (r *Registry) Graph() *dag.Graph {
	return r.graph
}

// Closure expands a selection to its upward dependency closure and
// returns it in build order. An empty selection means all projects.
func (r *Registry) Closure(selection []Name) []Name {
	if len(selection) == 0 {
		out := make([]Name, len(BuildOrder))
		copy(out, BuildOrder)
		return out
	}

	ids := make([]string, 0, len(selection))
	for _, n := range selection {
		ids = append(ids, string(n))
	}
	closed := make(map[string]bool)
	for _, id := range r.graph.Closure(ids) {
		closed[id] = true
	}

	out := make([]Name, 0, len(closed))
	for _, n := range BuildOrder {
		if closed[string(n)] {
			out = append(out, n)
		}
	}
	return out
}

// ParseName converts a string to a known project name.
func ParseName(s string) (Name, error) {
	for _, n := range BuildOrder {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown project: %s", s)
}
