package index

import (
	"maps"
	"slices"

	"github.com/speakeasy-api/fieldmap/internal/spec"
)

// MethodCount pairs an HTTP method with a count.
type MethodCount struct {
	Method string `json:"method" yaml:"method"`
	Count  int    `json:"count" yaml:"count"`
}

// FieldDetail is a copy of a field's usage, safe to hand to renderers and encoders.
type FieldDetail struct {
	Name        string               `json:"name" yaml:"name"`
	Type        string               `json:"type,omitempty" yaml:"type,omitempty"`
	Types       []string             `json:"types,omitempty" yaml:"types,omitempty"`
	Format      string               `json:"format,omitempty" yaml:"format,omitempty"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Schemas     []string             `json:"schemas" yaml:"schemas"`
	Endpoints   []spec.EndpointID    `json:"endpoints" yaml:"endpoints"`
	UsageCount  int                  `json:"usageCount" yaml:"usageCount"`
	Critical    bool                 `json:"critical" yaml:"critical"`
	Mutating    map[string]int       `json:"mutating,omitempty" yaml:"mutating,omitempty"`
	RequiredIn  []string             `json:"requiredIn,omitempty" yaml:"requiredIn,omitempty"`
	Locations   []spec.ParamLocation `json:"locations,omitempty" yaml:"locations,omitempty"`
}

// EndpointLabels returns the endpoints as "METHOD /path" strings.
func (d *FieldDetail) EndpointLabels() []string {
	out := make([]string, 0, len(d.Endpoints))
	for _, id := range d.Endpoints {
		out = append(out, id.String())
	}
	return out
}

// MutatingBreakdown returns the mutating endpoint counts in MutatingMethods order, omitting zeros.
func (d *FieldDetail) MutatingBreakdown() []MethodCount {
	var out []MethodCount
	for _, m := range MutatingMethods {
		if n := d.Mutating[m]; n > 0 {
			out = append(out, MethodCount{Method: m, Count: n})
		}
	}
	return out
}

// QueryField returns the detail of a field, or false when the name is not indexed.
func QueryField(idx *ReverseIndex, name string) (*FieldDetail, bool) {
	if idx == nil {
		return nil, false
	}
	u, ok := idx.Field(name)
	if !ok {
		return nil, false
	}

	return &FieldDetail{
		Name:        u.Name,
		Type:        u.Type,
		Types:       slices.Clone(u.Types),
		Format:      u.Format,
		Description: u.Description,
		Schemas:     slices.Clone(u.Schemas),
		Endpoints:   slices.Clone(u.Endpoints),
		UsageCount:  u.UsageCount,
		Critical:    u.Critical,
		Mutating:    maps.Clone(u.Mutating),
		RequiredIn:  slices.Clone(u.RequiredIn),
		Locations:   slices.Clone(u.Locations),
	}, true
}
