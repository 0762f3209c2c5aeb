// Package spec holds the typed schema/endpoint tree that the cross-reference engine consumes,
// along with the loader that derives it from an OpenAPI document.
package spec

import (
	"fmt"
	"iter"
	"strings"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// ComponentSchemaPrefix is the JSON pointer prefix of schemas declared under components.
const ComponentSchemaPrefix = "#/components/schemas/"

// KnownTypes are the type tokens a Field may declare without being reported as unknown.
var KnownTypes = []string{"string", "integer", "number", "boolean", "array", "object", "null"}

// Field is a named property of a schema or a bound parameter.
type Field struct {
	Name        string
	Type        string
	Format      string
	Description string
	Required    bool
	Nullable    bool
	// Ref is the component schema the field points at, either directly or through array items.
	Ref  string
	Enum []string
}

// TypeLabel returns the declared type, or "unknown" when none was declared.
func (f Field) TypeLabel() string {
	t := f.Type
	if t == "" {
		t = "unknown"
	}
	if f.Type == "array" && f.Ref != "" {
		return t + "<" + f.Ref + ">"
	}
	if f.Format != "" {
		return t + "(" + f.Format + ")"
	}
	return t
}

// Schema is a named data-shape declaration from components/schemas.
type Schema struct {
	Name        string
	Description string
	Fields      []Field
	// References lists the schemas this schema is composed from (allOf/oneOf/anyOf members and
	// aliasing $refs), in declaration order. Their fields are inherited on resolution.
	References []string
	// PropertyRefs lists schemas referenced from properties or array items. They are dependencies
	// of the schema but do not contribute fields to it.
	PropertyRefs []string
}

// Field returns the declared field with the given name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ParamLocation is where a parameter is carried in a request.
type ParamLocation string

const (
	LocationQuery  ParamLocation = "query"
	LocationPath   ParamLocation = "path"
	LocationHeader ParamLocation = "header"
	LocationCookie ParamLocation = "cookie"
	LocationBody   ParamLocation = "body"
)

// Parameter binds a Field to a request location.
type Parameter struct {
	Field
	In ParamLocation
}

// Payload is the schema binding of a request or response body.
type Payload struct {
	// Ref is the component schema the body points at, if any.
	Ref string
	// Fields are properties declared inline in the body schema.
	Fields []Field
	// Refs are component schemas referenced from inside an inline body schema.
	Refs []string
}

// SchemaRefs returns every component schema name the payload reaches directly.
func (p *Payload) SchemaRefs() []string {
	if p == nil {
		return nil
	}
	refs := make([]string, 0, len(p.Refs)+1)
	if p.Ref != "" {
		refs = append(refs, p.Ref)
	}
	return append(refs, p.Refs...)
}

// Response is a response entry keyed by status code.
type Response struct {
	Status      string
	Description string
	Payload     *Payload
}

// EndpointID identifies an endpoint by method and path template.
type EndpointID struct {
	Method string
	Path   string
}

func (id EndpointID) String() string {
	return id.Method + " " + id.Path
}

// MarshalText encodes the id in its "METHOD /path" form.
func (id EndpointID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes the "METHOD /path" form.
func (id *EndpointID) UnmarshalText(text []byte) error {
	parsed, err := ParseEndpointID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseEndpointID parses the "METHOD /path" form produced by EndpointID.String.
func ParseEndpointID(s string) (EndpointID, error) {
	method, path, ok := strings.Cut(s, " ")
	if !ok || method == "" || path == "" {
		return EndpointID{}, fmt.Errorf("invalid endpoint id %q", s)
	}
	return EndpointID{Method: strings.ToUpper(method), Path: path}, nil
}

// Endpoint is a single operation on a path.
type Endpoint struct {
	Method      string
	Path        string
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	Parameters  []Parameter
	RequestBody *Payload
	Responses   []Response
}

// ID returns the endpoint identifier.
func (e *Endpoint) ID() EndpointID {
	return EndpointID{Method: e.Method, Path: e.Path}
}

// Path is a path template and the operations declared on it.
type Path struct {
	Template  string
	Endpoints []*Endpoint
}

// Tree is the typed view of an API description.
type Tree struct {
	Title   string
	Version string
	// Schemas is nil when the document has no components/schemas section at all.
	Schemas *sequencedmap.Map[string, *Schema]
	Paths   []*Path
}

// NewTree creates a tree with an empty (but present) schema section.
func NewTree() *Tree {
	return &Tree{Schemas: sequencedmap.New[string, *Schema]()}
}

// AddSchema appends a schema to the tree's schema section. The first schema registered under a
// name wins.
func (t *Tree) AddSchema(s *Schema) {
	if t.Schemas == nil {
		t.Schemas = sequencedmap.New[string, *Schema]()
	}
	if t.Schemas.Has(s.Name) {
		return
	}
	t.Schemas.Set(s.Name, s)
}

// AddPath appends a path with its endpoints. Endpoint paths are set to the template.
func (t *Tree) AddPath(template string, endpoints ...*Endpoint) {
	p := &Path{Template: template}
	for _, e := range endpoints {
		e.Path = template
		e.Method = strings.ToUpper(e.Method)
		p.Endpoints = append(p.Endpoints, e)
	}
	t.Paths = append(t.Paths, p)
}

// Schema looks up a schema by name.
func (t *Tree) Schema(name string) (*Schema, bool) {
	if t == nil || t.Schemas == nil {
		return nil, false
	}
	return t.Schemas.Get(name)
}

// Endpoints iterates every endpoint in declaration order.
func (t *Tree) Endpoints() iter.Seq[*Endpoint] {
	return func(yield func(*Endpoint) bool) {
		if t == nil {
			return
		}
		for _, p := range t.Paths {
			for _, e := range p.Endpoints {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// EndpointCount returns the number of operations across all paths.
func (t *Tree) EndpointCount() int {
	n := 0
	for range t.Endpoints() {
		n++
	}
	return n
}
