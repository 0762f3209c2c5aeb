package index

import (
	"fmt"
	"slices"

	"github.com/speakeasy-api/fieldmap/internal/diag"
	"github.com/speakeasy-api/fieldmap/internal/resolve"
	"github.com/speakeasy-api/fieldmap/internal/spec"
)

// Build produces a ReverseIndex from a tree and its resolved schemas, recording structural
// findings on warnings. Only a missing components/schemas section or a document without any
// endpoint fails the build.
func Build(tree *spec.Tree, resolved *resolve.Result, warnings *diag.Collector) (*ReverseIndex, error) {
	if tree == nil || tree.Schemas == nil {
		return nil, ErrNoComponentsSection
	}
	if tree.EndpointCount() == 0 {
		if len(tree.Paths) > 0 {
			return nil, ErrNoEndpoints.Wrap(fmt.Errorf("%d path(s) declare no operations", len(tree.Paths)))
		}
		return nil, ErrNoEndpoints
	}
	if warnings == nil {
		warnings = diag.NewCollector()
	}

	b := &builder{
		tree:     tree,
		resolved: resolved,
		warnings: warnings,
		idx: &ReverseIndex{
			tree:            tree,
			fields:          make(map[string]*FieldUsage),
			schemaFields:    make(map[string][]spec.Field),
			schemaEndpoints: make(map[string][]spec.EndpointID),
			endpointByID:    make(map[spec.EndpointID]*spec.Endpoint),
			endpointFields:  make(map[spec.EndpointID][]string),
		},
		endpointsSeen: make(map[string]map[spec.EndpointID]bool),
		reached:       make(map[string]bool),
	}

	b.indexSchemas()
	b.indexEndpoints()
	b.checkUnusedSchemas()

	return b.finish(), nil
}

type builder struct {
	tree     *spec.Tree
	resolved *resolve.Result
	warnings *diag.Collector
	idx      *ReverseIndex

	// endpointsSeen de-duplicates endpoints per field.
	endpointsSeen map[string]map[spec.EndpointID]bool
	// reached holds schemas referenced by endpoint bodies, before transitive expansion.
	reached map[string]bool
}

func (b *builder) usage(f spec.Field) *FieldUsage {
	u, ok := b.idx.fields[f.Name]
	if !ok {
		u = &FieldUsage{
			Name:     f.Name,
			Type:     f.Type,
			Format:   f.Format,
			Mutating: make(map[string]int),
		}
		b.idx.fields[f.Name] = u
	}
	if f.Type != "" && !slices.Contains(u.Types, f.Type) {
		u.Types = append(u.Types, f.Type)
	}
	if u.Type == "" {
		u.Type = f.Type
	}
	if u.Format == "" {
		u.Format = f.Format
	}
	if u.Description == "" {
		u.Description = f.Description
	}
	return u
}

func (b *builder) checkType(f spec.Field, owner string) {
	if f.Type == "" || slices.Contains(spec.KnownTypes, f.Type) {
		return
	}
	b.warnings.Add(diag.UnknownFieldType, "field %q in %s declares unknown type %q", f.Name, owner, f.Type)
}

func (b *builder) indexSchemas() {
	for name, schema := range b.tree.Schemas.All() {
		b.idx.schemaNames = append(b.idx.schemaNames, name)

		if schema.Description == "" {
			b.warnings.Add(diag.MissingDescription, "schema %q has no description", name)
		}
		for _, f := range schema.Fields {
			b.checkType(f, fmt.Sprintf("schema %q", name))
		}

		fields := b.resolved.Fields(name)
		if fields == nil {
			fields = schema.Fields
		}
		b.idx.schemaFields[name] = fields

		for _, f := range fields {
			u := b.usage(f)
			if !slices.Contains(u.Schemas, name) {
				u.Schemas = append(u.Schemas, name)
			}
			if f.Required && !slices.Contains(u.RequiredIn, name) {
				u.RequiredIn = append(u.RequiredIn, name)
			}
		}
	}
}

func (b *builder) indexEndpoints() {
	for _, p := range b.tree.Paths {
		if len(p.Endpoints) == 0 {
			b.warnings.Add(diag.OperationlessPath, "path %q declares no operations", p.Template)
			continue
		}

		for _, e := range p.Endpoints {
			id := e.ID()
			if _, dup := b.idx.endpointByID[id]; dup {
				continue
			}
			b.idx.endpoints = append(b.idx.endpoints, e)
			b.idx.endpointByID[id] = e

			if e.Summary == "" && e.Description == "" {
				b.warnings.Add(diag.MissingDescription, "endpoint %s has no summary or description", id)
			}

			for _, param := range e.Parameters {
				b.checkType(param.Field, fmt.Sprintf("parameter of %s", id))
				b.registerEndpointField(param.Field, e)
				if loc := param.In; loc != "" {
					u := b.idx.fields[param.Name]
					if !slices.Contains(u.Locations, loc) {
						u.Locations = append(u.Locations, loc)
					}
				}
			}

			b.registerPayload(e.RequestBody, e, "request body")
			for _, resp := range e.Responses {
				b.registerPayload(resp.Payload, e, fmt.Sprintf("%s response", resp.Status))
			}
		}
	}
}

func (b *builder) registerPayload(p *spec.Payload, e *spec.Endpoint, label string) {
	if p == nil {
		return
	}
	id := e.ID()

	for _, ref := range p.SchemaRefs() {
		if _, ok := b.tree.Schema(ref); !ok {
			b.warnings.Add(diag.SchemaRefUnresolved, "%s of %s references unknown schema %q", label, id, ref)
			continue
		}
		b.reached[ref] = true
		b.linkSchemaEndpoint(ref, id)
		if rs, ok := b.resolved.Get(ref); ok {
			for _, inc := range rs.Includes {
				b.linkSchemaEndpoint(inc, id)
			}
		}

		fields := b.resolved.Fields(ref)
		if fields == nil {
			s, _ := b.tree.Schema(ref)
			fields = s.Fields
		}
		for _, f := range fields {
			b.registerEndpointField(f, e)
		}
	}

	for _, f := range p.Fields {
		b.checkType(f, fmt.Sprintf("%s of %s", label, id))
		b.registerEndpointField(f, e)
	}
}

func (b *builder) linkSchemaEndpoint(schema string, id spec.EndpointID) {
	if !slices.Contains(b.idx.schemaEndpoints[schema], id) {
		b.idx.schemaEndpoints[schema] = append(b.idx.schemaEndpoints[schema], id)
	}
}

func (b *builder) registerEndpointField(f spec.Field, e *spec.Endpoint) {
	id := e.ID()
	u := b.usage(f)

	seen, ok := b.endpointsSeen[f.Name]
	if !ok {
		seen = make(map[spec.EndpointID]bool)
		b.endpointsSeen[f.Name] = seen
	}
	if !seen[id] {
		seen[id] = true
		u.Endpoints = append(u.Endpoints, id)
		if IsMutating(id.Method) {
			u.Mutating[id.Method]++
		}
	}

	if f.Required && !slices.Contains(u.RequiredIn, id.String()) {
		u.RequiredIn = append(u.RequiredIn, id.String())
	}

	if !slices.Contains(b.idx.endpointFields[id], f.Name) {
		b.idx.endpointFields[id] = append(b.idx.endpointFields[id], f.Name)
	}
}

// checkUnusedSchemas reports schemas that no endpoint reaches through body references,
// composition or property references.
func (b *builder) checkUnusedSchemas() {
	reachable := make(map[string]bool, len(b.reached))
	var queue []string
	for name := range b.tree.Schemas.Keys() {
		if b.reached[name] {
			reachable[name] = true
			queue = append(queue, name)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		s, ok := b.tree.Schema(current)
		if !ok {
			continue
		}
		for _, next := range slices.Concat(s.References, s.PropertyRefs) {
			if reachable[next] {
				continue
			}
			if _, ok := b.tree.Schema(next); !ok {
				continue
			}
			reachable[next] = true
			queue = append(queue, next)
		}
	}

	for name := range b.tree.Schemas.Keys() {
		if !reachable[name] {
			b.warnings.Add(diag.UnusedSchema, "schema %q is not referenced by any endpoint", name)
		}
	}
}

func (b *builder) finish() *ReverseIndex {
	idx := b.idx
	idx.names = make([]string, 0, len(idx.fields))
	for name, u := range idx.fields {
		u.UsageCount = len(u.Schemas) + len(u.Endpoints)
		u.Critical = len(u.Mutating) > 0
		idx.names = append(idx.names, name)
	}
	slices.Sort(idx.names)
	return idx
}
