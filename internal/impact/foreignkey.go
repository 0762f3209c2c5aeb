package impact

import (
	"slices"
	"strings"

	"github.com/speakeasy-api/fieldmap/internal/index"
	"github.com/speakeasy-api/fieldmap/internal/spec"
)

// ForeignKeyDetector decides whether a field name refers to another schema's identifier.
type ForeignKeyDetector interface {
	// Detect returns the schema the field points at.
	Detect(field string, idx *index.ReverseIndex) (string, bool)
}

// SuffixIDDetector treats "<schema>_id", "<schema>Id" and "<schema>ID" as references to the
// schema whose name matches <schema> ignoring case, underscores and hyphens. With RequireIDField
// the target must also have a field named "id".
type SuffixIDDetector struct {
	RequireIDField bool
}

var _ ForeignKeyDetector = SuffixIDDetector{}

func (d SuffixIDDetector) Detect(field string, idx *index.ReverseIndex) (string, bool) {
	prefix, ok := foreignKeyPrefix(field)
	if !ok {
		return "", false
	}
	want := normalizeName(prefix)

	for _, name := range idx.SchemaNames() {
		if normalizeName(name) != want {
			continue
		}
		if d.RequireIDField && !hasField(idx, name, "id") {
			continue
		}
		return name, true
	}
	return "", false
}

func foreignKeyPrefix(field string) (string, bool) {
	for _, suffix := range []string{"_id", "-id", "Id", "ID"} {
		if prefix, ok := strings.CutSuffix(field, suffix); ok && prefix != "" {
			return prefix, true
		}
	}
	return "", false
}

func normalizeName(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer("_", "", "-", "").Replace(s)
}

func hasField(idx *index.ReverseIndex, schema, field string) bool {
	return slices.ContainsFunc(idx.SchemaFields(schema), func(f spec.Field) bool {
		return f.Name == field
	})
}

// ForeignKey links a field to the schema it identifies.
type ForeignKey struct {
	Field  string `json:"field" yaml:"field"`
	Target string `json:"target" yaml:"target"`
}

// ForeignKeys runs the detector over every indexed field, in field name order.
func ForeignKeys(idx *index.ReverseIndex, detector ForeignKeyDetector) []ForeignKey {
	if detector == nil {
		return nil
	}
	var out []ForeignKey
	for _, name := range idx.FieldNames() {
		if target, ok := detector.Detect(name, idx); ok {
			out = append(out, ForeignKey{Field: name, Target: target})
		}
	}
	return out
}
