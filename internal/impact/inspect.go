package impact

import (
	"slices"
	"strings"

	"github.com/speakeasy-api/fieldmap/internal/index"
)

// Relationship is a field that co-occurs with another in the same schemas.
type Relationship struct {
	Field         string `json:"field" yaml:"field"`
	SharedSchemas int    `json:"sharedSchemas" yaml:"sharedSchemas"`
}

// Relationships returns the fields declared alongside name, ordered by the number of schemas they
// share with it (descending) and then by name. limit <= 0 returns all of them.
func Relationships(idx *index.ReverseIndex, name string, limit int) []Relationship {
	u, ok := idx.Field(name)
	if !ok {
		return nil
	}

	shared := make(map[string]int)
	for _, schema := range u.Schemas {
		for _, f := range idx.SchemaFields(schema) {
			if f.Name != name {
				shared[f.Name]++
			}
		}
	}

	out := make([]Relationship, 0, len(shared))
	for field, n := range shared {
		out = append(out, Relationship{Field: field, SharedSchemas: n})
	}
	slices.SortFunc(out, func(a, b Relationship) int {
		if a.SharedSchemas != b.SharedSchemas {
			return b.SharedSchemas - a.SharedSchemas
		}
		return strings.Compare(a.Field, b.Field)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FieldReport gathers everything known about a single field.
type FieldReport struct {
	*index.FieldDetail `yaml:",inline"`

	Risk       *RiskScore     `json:"risk" yaml:"risk"`
	ForeignKey string         `json:"foreignKey,omitempty" yaml:"foreignKey,omitempty"`
	Related    []Relationship `json:"related,omitempty" yaml:"related,omitempty"`
}

// InspectOptions tunes Inspect.
type InspectOptions struct {
	// Detector flags the field as a foreign key. Nil disables detection.
	Detector ForeignKeyDetector
	// RelatedLimit caps the relationship list. Zero keeps all.
	RelatedLimit int
}

// Inspect builds the full report for a field, or returns false if it is not indexed.
func Inspect(idx *index.ReverseIndex, name string, opts InspectOptions) (*FieldReport, bool) {
	detail, ok := index.QueryField(idx, name)
	if !ok {
		return nil, false
	}

	r := &FieldReport{
		FieldDetail: detail,
		Risk:        ComputeRisk(detail),
		Related:     Relationships(idx, name, opts.RelatedLimit),
	}
	if opts.Detector != nil {
		if target, ok := opts.Detector.Detect(name, idx); ok {
			r.ForeignKey = target
		}
	}
	return r, true
}
