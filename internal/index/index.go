// Package index builds the reverse index from field names to the schemas and endpoints that use
// them.
//
// A ReverseIndex is built in one pass by Build and never modified afterwards; a reload builds a
// new one. All accessors return copies or read-only views.
package index

import (
	"slices"

	"github.com/speakeasy-api/fieldmap/internal/spec"
	"github.com/speakeasy-api/openapi/errors"
)

const (
	// ErrNoComponentsSection is returned when the document has no components/schemas section.
	ErrNoComponentsSection = errors.Error("document has no components/schemas section")
	// ErrNoEndpoints is returned when no path declares an operation.
	ErrNoEndpoints = errors.Error("document declares no endpoints")
)

// MutatingMethods are the HTTP methods that change server state, in display order.
var MutatingMethods = []string{"POST", "PUT", "PATCH", "DELETE"}

// IsMutating reports whether method (upper case) is in MutatingMethods.
func IsMutating(method string) bool {
	return slices.Contains(MutatingMethods, method)
}

// FieldUsage records where a field name is used.
type FieldUsage struct {
	Name string
	// Schemas are the schemas declaring or inheriting the field, in declaration order.
	Schemas []string
	// Endpoints are the endpoints whose parameters or bodies carry the field, in declaration order.
	Endpoints []spec.EndpointID
	// UsageCount is len(Schemas) + len(Endpoints).
	UsageCount int
	// Critical is set when at least one endpoint in Endpoints uses a mutating method.
	Critical bool
	// Mutating counts the distinct mutating endpoints per method.
	Mutating map[string]int

	// Type is the first declared type token seen for the field.
	Type string
	// Types lists every distinct declared type token, in order seen.
	Types       []string
	Format      string
	Description string
	// RequiredIn lists the schemas and endpoints (as "METHOD /path") where the field is required.
	RequiredIn []string
	// Locations lists the parameter locations the field is bound to.
	Locations []spec.ParamLocation
}

// ReverseIndex maps field names to their usage along with the schema and endpoint views derived in
// the same pass.
type ReverseIndex struct {
	tree *spec.Tree

	fields map[string]*FieldUsage
	names  []string

	schemaNames     []string
	schemaFields    map[string][]spec.Field
	schemaEndpoints map[string][]spec.EndpointID

	endpoints      []*spec.Endpoint
	endpointByID   map[spec.EndpointID]*spec.Endpoint
	endpointFields map[spec.EndpointID][]string
}

// Tree returns the spec tree the index was built from.
func (idx *ReverseIndex) Tree() *spec.Tree {
	return idx.tree
}

// Len returns the number of distinct field names.
func (idx *ReverseIndex) Len() int {
	return len(idx.names)
}

// FieldNames returns every field name in ascending order.
func (idx *ReverseIndex) FieldNames() []string {
	return slices.Clone(idx.names)
}

// Field returns the usage of a field. The returned value must not be modified.
func (idx *ReverseIndex) Field(name string) (*FieldUsage, bool) {
	u, ok := idx.fields[name]
	return u, ok
}

// Usages returns every field usage ordered by field name. The values must not be modified.
func (idx *ReverseIndex) Usages() []*FieldUsage {
	out := make([]*FieldUsage, 0, len(idx.names))
	for _, name := range idx.names {
		out = append(out, idx.fields[name])
	}
	return out
}

// SchemaNames returns schema names in declaration order.
func (idx *ReverseIndex) SchemaNames() []string {
	return slices.Clone(idx.schemaNames)
}

// Schema returns the declared schema.
func (idx *ReverseIndex) Schema(name string) (*spec.Schema, bool) {
	return idx.tree.Schema(name)
}

// SchemaFields returns a schema's fields including inherited ones.
func (idx *ReverseIndex) SchemaFields(name string) []spec.Field {
	return slices.Clone(idx.schemaFields[name])
}

// SchemaEndpoints returns the endpoints whose bodies use the schema directly or through
// composition.
func (idx *ReverseIndex) SchemaEndpoints(name string) []spec.EndpointID {
	return slices.Clone(idx.schemaEndpoints[name])
}

// Endpoints returns every endpoint in declaration order.
func (idx *ReverseIndex) Endpoints() []*spec.Endpoint {
	return slices.Clone(idx.endpoints)
}

// Endpoint looks up an endpoint by id.
func (idx *ReverseIndex) Endpoint(id spec.EndpointID) (*spec.Endpoint, bool) {
	e, ok := idx.endpointByID[id]
	return e, ok
}

// EndpointFields returns the field names an endpoint carries, in registration order.
func (idx *ReverseIndex) EndpointFields(id spec.EndpointID) []string {
	return slices.Clone(idx.endpointFields[id])
}

// CriticalCount returns the number of critical fields.
func (idx *ReverseIndex) CriticalCount() int {
	n := 0
	for _, u := range idx.fields {
		if u.Critical {
			n++
		}
	}
	return n
}
