// Package resolve flattens schema composition into concrete field lists.
//
// Every schema is resolved independently with an explicit worklist. A reference back onto the
// current path is reported as a circular reference and not followed, and no path is followed for
// more than the configured number of hops, so resolution always terminates.
package resolve

import (
	"slices"
	"strings"

	"github.com/speakeasy-api/fieldmap/internal/diag"
	"github.com/speakeasy-api/fieldmap/internal/spec"
	"github.com/speakeasy-api/openapi/sequencedmap"
)

// DefaultMaxDepth is the number of reference hops followed before a cycle is assumed.
const DefaultMaxDepth = 10

// Schema is a schema with its inherited fields flattened in.
type Schema struct {
	Name string
	// Fields holds the schema's own fields followed by inherited ones, in traversal order.
	// The first field seen with a given name wins.
	Fields []spec.Field
	// Includes lists the schemas whose fields were inherited, in traversal order.
	Includes []string
	// Resolved is false when traversal was cut short by a cycle, the depth bound or an unknown
	// reference.
	Resolved bool
}

// Result holds the resolved schemas in declaration order.
type Result struct {
	Schemas []*Schema

	byName map[string]*Schema
}

// Get returns the resolved schema with the given name.
func (r *Result) Get(name string) (*Schema, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.byName[name]
	return s, ok
}

// Fields returns the flattened fields of the named schema, or nil if it is unknown.
func (r *Result) Fields(name string) []spec.Field {
	s, ok := r.Get(name)
	if !ok {
		return nil
	}
	return s.Fields
}

type options struct {
	maxDepth int
}

// Option configures Resolve.
type Option func(*options)

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// Resolve flattens every schema in the table. Findings are recorded on warnings.
func Resolve(schemas *sequencedmap.Map[string, *spec.Schema], warnings *diag.Collector, opts ...Option) *Result {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	if warnings == nil {
		warnings = diag.NewCollector()
	}

	r := &resolver{schemas: schemas, warnings: warnings, maxDepth: o.maxDepth}

	result := &Result{
		Schemas: make([]*Schema, 0, schemas.Len()),
		byName:  make(map[string]*Schema, schemas.Len()),
	}
	for name := range schemas.Keys() {
		s := r.resolve(name)
		result.Schemas = append(result.Schemas, s)
		result.byName[name] = s
	}

	return result
}

type resolver struct {
	schemas  *sequencedmap.Map[string, *spec.Schema]
	warnings *diag.Collector
	maxDepth int
}

type frame struct {
	name  string
	depth int
	path  []string
}

func (r *resolver) resolve(root string) *Schema {
	out := &Schema{Name: root, Resolved: true}

	seenFields := make(map[string]bool)
	expanded := make(map[string]bool)
	stack := []frame{{name: root, path: []string{root}}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if expanded[f.name] {
			continue
		}
		expanded[f.name] = true

		node, ok := r.schemas.Get(f.name)
		if !ok || node == nil {
			continue
		}
		if f.name != root {
			out.Includes = append(out.Includes, f.name)
		}

		for _, field := range node.Fields {
			if seenFields[field.Name] {
				continue
			}
			seenFields[field.Name] = true
			out.Fields = append(out.Fields, field)
		}

		var next []frame
		for _, ref := range node.References {
			switch {
			case !r.schemas.Has(ref):
				r.warnings.Add(diag.SchemaRefUnresolved, "schema %q references unknown schema %q", f.name, ref)
				out.Resolved = false
			case slices.Contains(f.path, ref):
				r.warnings.Add(diag.CircularReference, "circular reference: %s", cycleString(f.path, ref))
				out.Resolved = false
			case f.depth+1 > r.maxDepth:
				r.warnings.Add(diag.CircularReference, "resolution of %q stopped after %d reference hops at %q",
					root, r.maxDepth, ref)
				out.Resolved = false
			default:
				path := make([]string, len(f.path), len(f.path)+1)
				copy(path, f.path)
				next = append(next, frame{name: ref, depth: f.depth + 1, path: append(path, ref)})
			}
		}

		// Pushed in reverse so references pop in declaration order.
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, next[i])
		}
	}

	return out
}

// cycleString renders the cycle closed by ref, rotated to start at its lexically smallest member so
// that the same cycle reached from different roots reads identically.
func cycleString(path []string, ref string) string {
	start := slices.Index(path, ref)
	members := slices.Clone(path[start:])

	lowest := 0
	for i, m := range members {
		if m < members[lowest] {
			lowest = i
		}
	}
	rotated := make([]string, 0, len(members)+1)
	rotated = append(rotated, members[lowest:]...)
	rotated = append(rotated, members[:lowest]...)

	return strings.Join(append(rotated, rotated[0]), " -> ")
}
