package spec

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/speakeasy-api/openapi/jsonschema/oas3"
	"github.com/speakeasy-api/openapi/openapi"
	"github.com/speakeasy-api/openapi/sequencedmap"
	"golang.org/x/sync/errgroup"
)

const (
	componentParameterPrefix   = "#/components/parameters/"
	componentRequestBodyPrefix = "#/components/requestBodies/"
	componentResponsePrefix    = "#/components/responses/"
	componentPathItemPrefix    = "#/components/pathItems/"
)

// FromDocument converts a parsed OpenAPI document into a Tree.
// Component schemas are converted concurrently; declaration order is preserved.
func FromDocument(ctx context.Context, doc *openapi.OpenAPI) (*Tree, error) {
	if doc == nil {
		return nil, errors.New("document is nil")
	}

	tree := &Tree{
		Title:   doc.Info.Title,
		Version: doc.Info.Version,
	}

	if doc.Components != nil && doc.Components.Schemas != nil {
		schemas, err := convertSchemas(ctx, doc.Components.Schemas)
		if err != nil {
			return nil, err
		}
		tree.Schemas = sequencedmap.NewWithCapacity[string, *Schema](len(schemas))
		for _, s := range schemas {
			tree.AddSchema(s)
		}
	}

	if doc.Paths != nil {
		for template, ref := range doc.Paths.All() {
			p := &Path{Template: template}
			if item := resolvePathItem(doc, ref); item != nil {
				shared := item.GetParameters()
				for method, op := range item.All() {
					if op == nil {
						continue
					}
					p.Endpoints = append(p.Endpoints, convertOperation(doc, template, string(method), op, shared))
				}
			}
			tree.Paths = append(tree.Paths, p)
		}
	}

	return tree, nil
}

func convertSchemas(ctx context.Context, schemas *sequencedmap.Map[string, *oas3.JSONSchema[oas3.Referenceable]]) ([]*Schema, error) {
	type job struct {
		name   string
		schema *oas3.JSONSchema[oas3.Referenceable]
	}

	jobs := make([]job, 0, schemas.Len())
	for name, js := range schemas.All() {
		jobs = append(jobs, job{name: name, schema: js})
	}

	out := make([]*Schema, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = convertSchema(j.name, j.schema)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to convert component schemas: %w", err)
	}

	return out, nil
}

func convertSchema(name string, js *oas3.JSONSchema[oas3.Referenceable]) *Schema {
	out := &Schema{Name: name}

	if target := refTarget(js); target != "" {
		out.References = append(out.References, target)
		return out
	}

	s := schemaOf(js)
	if s == nil {
		return out
	}
	out.Description = s.GetDescription()

	c := newSchemaCollector(out)
	c.collect(s)

	return out
}

// schemaCollector gathers fields and references from a schema and its inline composition members.
type schemaCollector struct {
	target *Schema
	seen   map[*oas3.Schema]bool
	fields map[string]bool
	refs   map[string]bool
	props  map[string]bool
}

func newSchemaCollector(target *Schema) *schemaCollector {
	return &schemaCollector{
		target: target,
		seen:   make(map[*oas3.Schema]bool),
		fields: make(map[string]bool),
		refs:   make(map[string]bool),
		props:  make(map[string]bool),
	}
}

func (c *schemaCollector) addField(f Field) {
	if c.fields[f.Name] {
		return
	}
	c.fields[f.Name] = true
	c.target.Fields = append(c.target.Fields, f)
}

func (c *schemaCollector) addReference(name string) {
	if c.refs[name] {
		return
	}
	c.refs[name] = true
	c.target.References = append(c.target.References, name)
}

func (c *schemaCollector) addPropertyRef(name string) {
	if c.props[name] {
		return
	}
	c.props[name] = true
	c.target.PropertyRefs = append(c.target.PropertyRefs, name)
}

func (c *schemaCollector) collect(s *oas3.Schema) {
	if s == nil || c.seen[s] {
		return
	}
	c.seen[s] = true

	required := s.GetRequired()
	for propName, prop := range s.GetProperties().All() {
		f := fieldFromSchema(propName, prop)
		f.Required = slices.Contains(required, propName)
		c.addField(f)

		if f.Ref != "" {
			c.addPropertyRef(f.Ref)
		} else {
			c.collectNestedRefs(schemaOf(prop))
		}
	}

	for _, group := range [][]*oas3.JSONSchema[oas3.Referenceable]{s.GetAllOf(), s.GetOneOf(), s.GetAnyOf()} {
		for _, member := range group {
			if target := refTarget(member); target != "" {
				c.addReference(target)
				continue
			}
			c.collect(schemaOf(member))
		}
	}

	for _, sub := range []*oas3.JSONSchema[oas3.Referenceable]{s.GetItems(), s.GetAdditionalProperties()} {
		if target := refTarget(sub); target != "" {
			c.addPropertyRef(target)
		} else {
			c.collectNestedRefs(schemaOf(sub))
		}
	}
}

// collectNestedRefs records component references found anywhere inside an inline sub-schema.
// Fields of nested inline objects are not lifted into the parent.
func (c *schemaCollector) collectNestedRefs(s *oas3.Schema) {
	if s == nil || c.seen[s] {
		return
	}
	c.seen[s] = true

	var subs []*oas3.JSONSchema[oas3.Referenceable]
	for _, prop := range s.GetProperties().All() {
		subs = append(subs, prop)
	}
	subs = append(subs, s.GetAllOf()...)
	subs = append(subs, s.GetOneOf()...)
	subs = append(subs, s.GetAnyOf()...)
	subs = append(subs, s.GetItems(), s.GetAdditionalProperties())

	for _, sub := range subs {
		if target := refTarget(sub); target != "" {
			c.addPropertyRef(target)
			continue
		}
		c.collectNestedRefs(schemaOf(sub))
	}
}

func fieldFromSchema(name string, js *oas3.JSONSchema[oas3.Referenceable]) Field {
	f := Field{Name: name}

	if target := refTarget(js); target != "" {
		f.Type = "object"
		f.Ref = target
		return f
	}

	s := schemaOf(js)
	if s == nil {
		return f
	}

	f.Type, f.Nullable = primaryType(s)
	f.Format = s.GetFormat()
	f.Description = s.GetDescription()
	for _, v := range s.GetEnum() {
		if v != nil {
			f.Enum = append(f.Enum, v.Value)
		}
	}

	switch {
	case f.Type == "array":
		f.Ref = refTarget(s.GetItems())
	case f.Type == "" && len(s.GetAllOf()) == 1:
		// allOf with a single $ref is the usual way to attach a description or nullability to a reference.
		if target := refTarget(s.GetAllOf()[0]); target != "" {
			f.Type = "object"
			f.Ref = target
		}
	}

	return f
}

// primaryType returns the first non-null type token and whether the schema admits null.
func primaryType(s *oas3.Schema) (string, bool) {
	nullable := s.GetNullable()
	primary := ""
	for _, t := range s.GetType() {
		if t == oas3.SchemaTypeNull {
			nullable = true
			continue
		}
		if primary == "" {
			primary = string(t)
		}
	}

	if primary == "" {
		switch {
		case s.GetProperties().Len() > 0:
			primary = "object"
		case s.GetItems() != nil:
			primary = "array"
		}
	}

	return primary, nullable
}

func schemaOf(js *oas3.JSONSchema[oas3.Referenceable]) *oas3.Schema {
	if js == nil || js.IsBool() {
		return nil
	}
	return js.GetSchema()
}

// refTarget returns the component name a local $ref points at. Any other non-empty reference is
// returned verbatim so it surfaces as an unresolved reference rather than disappearing.
func refTarget(js *oas3.JSONSchema[oas3.Referenceable]) string {
	if js == nil || js.IsBool() {
		return ""
	}
	ref := js.GetRef().String()
	if ref == "" {
		return ""
	}
	if name, ok := strings.CutPrefix(ref, ComponentSchemaPrefix); ok && name != "" {
		return name
	}
	return ref
}

func componentName(ref, prefix string) (string, bool) {
	name, ok := strings.CutPrefix(ref, prefix)
	return name, ok && name != ""
}

func convertOperation(doc *openapi.OpenAPI, template, method string, op *openapi.Operation, shared []*openapi.ReferencedParameter) *Endpoint {
	e := &Endpoint{
		Method:      strings.ToUpper(method),
		Path:        template,
		OperationID: op.GetOperationID(),
		Summary:     op.GetSummary(),
		Description: op.GetDescription(),
		Tags:        op.GetTags(),
		Deprecated:  op.GetDeprecated(),
	}

	e.Parameters = mergeParameters(doc, shared, op.GetParameters())

	if rb := resolveRequestBody(doc, op.GetRequestBody()); rb != nil {
		e.RequestBody = payloadFromContent(rb.GetContent())
	}

	if responses := op.GetResponses(); responses != nil {
		for status, ref := range responses.All() {
			if resp := resolveResponse(doc, ref); resp != nil {
				e.Responses = append(e.Responses, Response{
					Status:      status,
					Description: resp.GetDescription(),
					Payload:     payloadFromContent(resp.GetContent()),
				})
			}
		}
		if resp := resolveResponse(doc, responses.GetDefault()); resp != nil {
			e.Responses = append(e.Responses, Response{
				Status:      "default",
				Description: resp.GetDescription(),
				Payload:     payloadFromContent(resp.GetContent()),
			})
		}
	}

	return e
}

// mergeParameters applies operation parameters over path-level ones, keyed by name and location.
func mergeParameters(doc *openapi.OpenAPI, shared, own []*openapi.ReferencedParameter) []Parameter {
	var params []Parameter
	index := make(map[string]int)

	for _, group := range [][]*openapi.ReferencedParameter{shared, own} {
		for _, ref := range group {
			p := resolveParameter(doc, ref)
			if p == nil {
				continue
			}
			param := convertParameter(p)
			key := string(param.In) + ":" + param.Name
			if i, ok := index[key]; ok {
				params[i] = param
				continue
			}
			index[key] = len(params)
			params = append(params, param)
		}
	}

	return params
}

func convertParameter(p *openapi.Parameter) Parameter {
	js := p.GetSchema()
	if js == nil {
		for _, mt := range p.GetContent().All() {
			if mt != nil && mt.GetSchema() != nil {
				js = mt.GetSchema()
				break
			}
		}
	}

	f := fieldFromSchema(p.GetName(), js)
	if d := p.GetDescription(); d != "" {
		f.Description = d
	}
	f.Required = p.GetRequired()

	return Parameter{Field: f, In: ParamLocation(p.GetIn())}
}

// payloadFromContent binds a body to a schema, preferring a JSON media type.
func payloadFromContent(content *sequencedmap.Map[string, *openapi.MediaType]) *Payload {
	var js *oas3.JSONSchema[oas3.Referenceable]
	for mediaType, mt := range content.All() {
		if mt == nil || mt.GetSchema() == nil {
			continue
		}
		if js == nil || strings.Contains(mediaType, "json") {
			js = mt.GetSchema()
		}
		if strings.Contains(mediaType, "json") {
			break
		}
	}
	if js == nil {
		return nil
	}

	if target := refTarget(js); target != "" {
		return &Payload{Ref: target}
	}

	s := schemaOf(js)
	if s == nil {
		return nil
	}
	if target := refTarget(s.GetItems()); target != "" {
		return &Payload{Ref: target}
	}

	// Inline bodies contribute their own properties plus one level of referenced schemas, which
	// covers envelopes such as {"data": {"$ref": ...}}.
	inline := &Schema{}
	newSchemaCollector(inline).collect(s)

	p := &Payload{Fields: inline.Fields}
	p.Refs = append(p.Refs, inline.References...)
	for _, ref := range inline.PropertyRefs {
		if !slices.Contains(p.Refs, ref) {
			p.Refs = append(p.Refs, ref)
		}
	}
	if len(p.Fields) == 0 && len(p.Refs) == 0 {
		return nil
	}
	return p
}

func resolvePathItem(doc *openapi.OpenAPI, ref *openapi.ReferencedPathItem) *openapi.PathItem {
	if ref == nil {
		return nil
	}
	if obj := ref.GetObject(); obj != nil {
		return obj
	}
	name, ok := componentName(ref.GetReference().String(), componentPathItemPrefix)
	if !ok || doc.Components == nil {
		return nil
	}
	target, ok := doc.Components.PathItems.Get(name)
	if !ok {
		return nil
	}
	return target.GetObject()
}

func resolveParameter(doc *openapi.OpenAPI, ref *openapi.ReferencedParameter) *openapi.Parameter {
	if ref == nil {
		return nil
	}
	if obj := ref.GetObject(); obj != nil {
		return obj
	}
	name, ok := componentName(ref.GetReference().String(), componentParameterPrefix)
	if !ok || doc.Components == nil {
		return nil
	}
	target, ok := doc.Components.Parameters.Get(name)
	if !ok {
		return nil
	}
	return target.GetObject()
}

func resolveRequestBody(doc *openapi.OpenAPI, ref *openapi.ReferencedRequestBody) *openapi.RequestBody {
	if ref == nil {
		return nil
	}
	if obj := ref.GetObject(); obj != nil {
		return obj
	}
	name, ok := componentName(ref.GetReference().String(), componentRequestBodyPrefix)
	if !ok || doc.Components == nil {
		return nil
	}
	target, ok := doc.Components.RequestBodies.Get(name)
	if !ok {
		return nil
	}
	return target.GetObject()
}

func resolveResponse(doc *openapi.OpenAPI, ref *openapi.ReferencedResponse) *openapi.Response {
	if ref == nil {
		return nil
	}
	if obj := ref.GetObject(); obj != nil {
		return obj
	}
	name, ok := componentName(ref.GetReference().String(), componentResponsePrefix)
	if !ok || doc.Components == nil {
		return nil
	}
	target, ok := doc.Components.Responses.Get(name)
	if !ok {
		return nil
	}
	return target.GetObject()
}
