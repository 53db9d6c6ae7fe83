// Package registry holds the ordered test list the harness dispatches from.
// Registration order fixes protocol indices and the plan count. A build-time
// generator, a hand-written init block, or a YAML manifest can all produce
// the same thing: an ordered sequence of named test functions.
package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jwdevantier/tapdance/custodian"
)

// TestFunc is the contract every registered test satisfies: it receives the
// root custodian of its process and returns 0 on success. Any nonzero value
// becomes the child's exit status and shows up verbatim in the result line.
type TestFunc func(c *custodian.Custodian) int

// Descriptor names one schedulable test. Args is the literal rendered into
// the protocol description; decoding it into typed values is the registering
// code's job, so Fn closes over whatever it needs.
type Descriptor struct {
	Name string
	Args string
	Fn   TestFunc
}

// Describe renders the protocol description, e.g. `test_add(2, 3, 5)`.
func (d Descriptor) Describe() string {
	return fmt.Sprintf("%s(%s)", d.Name, d.Args)
}

// Registry is an ordered test list.
type Registry struct {
	tests []Descriptor
}

func New() *Registry {
	return &Registry{}
}

func (r *Registry) Add(d Descriptor) {
	r.tests = append(r.tests, d)
}

func (r *Registry) Len() int {
	return len(r.tests)
}

// At returns the descriptor at the given zero-based index.
func (r *Registry) At(index int) (Descriptor, error) {
	if index < 0 || index >= len(r.tests) {
		return Descriptor{}, fmt.Errorf("no test at index %d (registry has %d)", index, len(r.tests))
	}
	return r.tests[index], nil
}

// Descriptions lists every protocol description in registration order.
func (r *Registry) Descriptions() []string {
	out := make([]string, len(r.tests))
	for i, d := range r.tests {
		out[i] = d.Describe()
	}
	return out
}

type manifestEntry struct {
	Test string `yaml:"test"`
	Args string `yaml:"args"`
}

type manifestFile struct {
	Tests []manifestEntry `yaml:"tests"`
}

// LoadManifest builds a new ordered registry from a YAML manifest, resolving
// each entry against the tests registered in base. An entry may restate the
// argument literal to select among same-named registrations; with no args
// given, the first registration with that name wins. Parent and worker must
// load the same manifest so both sides agree on indices.
func LoadManifest(path string, base *Registry) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m manifestFile
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if len(m.Tests) == 0 {
		return nil, fmt.Errorf("manifest %s schedules no tests", path)
	}
	out := New()
	for _, e := range m.Tests {
		d, ok := base.lookup(e.Test, e.Args)
		if !ok {
			return nil, fmt.Errorf("manifest %s names unknown test %q", path, e.Test)
		}
		out.Add(d)
	}
	return out, nil
}

func (r *Registry) lookup(name, args string) (Descriptor, bool) {
	for _, d := range r.tests {
		if d.Name == name && (args == "" || d.Args == args) {
			return d, true
		}
	}
	return Descriptor{}, false
}
