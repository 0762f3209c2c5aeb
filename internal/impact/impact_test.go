package impact_test

import (
	"testing"

	"github.com/speakeasy-api/fieldmap/internal/diag"
	"github.com/speakeasy-api/fieldmap/internal/impact"
	"github.com/speakeasy-api/fieldmap/internal/index"
	"github.com/speakeasy-api/fieldmap/internal/resolve"
	"github.com/speakeasy-api/fieldmap/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func field(name, typ string) spec.Field {
	return spec.Field{Name: name, Type: typ}
}

func buildIndex(t *testing.T, extra ...*spec.Schema) (*index.ReverseIndex, []diag.Warning) {
	t.Helper()

	tree := spec.NewTree()
	tree.Title = "Clinic"
	tree.AddSchema(&spec.Schema{Name: "User", Description: "u", Fields: []spec.Field{field("id", "integer"), field("name", "string")}})
	tree.AddSchema(&spec.Schema{Name: "Patient", Description: "p", Fields: []spec.Field{field("id", "integer"), field("user_id", "integer")}})
	for _, s := range extra {
		tree.AddSchema(s)
	}
	tree.AddPath("/user",
		&spec.Endpoint{Method: "get", Summary: "get", Responses: []spec.Response{{Status: "200", Payload: &spec.Payload{Ref: "User"}}}},
		&spec.Endpoint{Method: "post", Summary: "create", RequestBody: &spec.Payload{Ref: "User"}},
	)
	tree.AddPath("/user/{id}",
		&spec.Endpoint{Method: "put", Summary: "update", RequestBody: &spec.Payload{Ref: "User"}},
	)

	warnings := diag.NewCollector()
	idx, err := index.Build(tree, resolve.Resolve(tree.Schemas, warnings), warnings)
	require.NoError(t, err)
	return idx, warnings.Warnings()
}

func TestAnalyze_Success(t *testing.T) {
	t.Parallel()

	idx, warnings := buildIndex(t)
	stats := impact.Analyze(idx, warnings)

	assert.Equal(t, "Clinic", stats.Title)
	assert.Equal(t, 3, stats.FieldCount)
	assert.Equal(t, 2, stats.SchemaCount)
	assert.Equal(t, 3, stats.EndpointCount)
	assert.Equal(t, 2, stats.PathCount)
	assert.Equal(t, 2, stats.CriticalCount)

	require.Len(t, stats.Types, 2)
	assert.Equal(t, "integer", stats.Types[0].Type)
	assert.Equal(t, 2, stats.Types[0].Count)
	assert.InDelta(t, 66.67, stats.Types[0].Percent, 0.01)
	assert.Equal(t, "string", stats.Types[1].Type)

	assert.Equal(t, []impact.MethodCount{
		{Method: "GET", Count: 1, Color: impact.ColorGreen},
		{Method: "POST", Count: 1, Color: impact.ColorBlue},
		{Method: "PUT", Count: 1, Color: impact.ColorYellow},
	}, stats.Methods)

	assert.Equal(t, []index.MethodCount{{Method: "POST", Count: 2}, {Method: "PUT", Count: 2}}, stats.Mutating)

	top := stats.TopFields(2)
	require.Len(t, top, 2)
	assert.Equal(t, "id", top[0].Name)
	assert.Equal(t, 5, top[0].UsageCount)
	assert.Equal(t, "name", top[1].Name)
	assert.Equal(t, 4, top[1].UsageCount)
	assert.Len(t, stats.TopFields(0), 3)
	assert.Len(t, stats.TopFields(50), 3)

	most, ok := stats.MostConnected()
	require.True(t, ok)
	assert.Equal(t, "id", most.Name)

	require.Len(t, stats.Warnings, 1, "Patient is not used by any endpoint")
	assert.Equal(t, 1, stats.Warnings[0].Number)
	assert.Equal(t, diag.UnusedSchema, stats.Warnings[0].Category)
	assert.Equal(t, []impact.CategoryCount{{Category: diag.UnusedSchema, Count: 1}}, stats.WarningCounts())
}

func TestAnalyze_WarningNumbersAreStable(t *testing.T) {
	t.Parallel()

	idx, _ := buildIndex(t)
	warnings := []diag.Warning{
		{Category: diag.MissingDescription, Message: "a"},
		{Category: diag.UnusedSchema, Message: "b"},
		{Category: diag.MissingDescription, Message: "c"},
	}

	first := impact.Analyze(idx, warnings)
	second := impact.Analyze(idx, warnings)
	assert.Equal(t, first.Warnings, second.Warnings)
	for i, w := range first.Warnings {
		assert.Equal(t, i+1, w.Number)
		assert.Equal(t, warnings[i], w.Warning)
	}
}

func TestMethodColor(t *testing.T) {
	t.Parallel()

	tests := map[string]impact.Color{
		"GET":     impact.ColorGreen,
		"post":    impact.ColorBlue,
		"PUT":     impact.ColorYellow,
		"PATCH":   impact.ColorPurple,
		"DELETE":  impact.ColorRed,
		"OPTIONS": impact.ColorGray,
	}
	for method, expected := range tests {
		assert.Equal(t, expected, impact.MethodColor(method), method)
	}
}

func TestComputeRisk(t *testing.T) {
	t.Parallel()

	idx, _ := buildIndex(t)

	id, ok := index.QueryField(idx, "id")
	require.True(t, ok)
	risk := impact.ComputeRisk(id)
	assert.Equal(t, impact.RiskMedium, risk.Level)
	assert.InDelta(t, 0.464, risk.Score, 0.01)
	assert.Len(t, risk.Factors, 4)
	assert.Contains(t, risk.Explanation, "3 endpoint(s), 2 mutating")

	userID, ok := index.QueryField(idx, "user_id")
	require.True(t, ok)
	assert.Equal(t, impact.RiskLow, impact.ComputeRisk(userID).Level)
}

func TestForeignKeys(t *testing.T) {
	t.Parallel()

	idx, _ := buildIndex(t,
		&spec.Schema{Name: "Clinic", Description: "c", Fields: []spec.Field{field("title", "string")}},
		&spec.Schema{Name: "Visit", Description: "v", Fields: []spec.Field{field("clinic_id", "integer"), field("patientId", "integer")}},
	)

	strict := impact.ForeignKeys(idx, impact.SuffixIDDetector{RequireIDField: true})
	assert.Equal(t, []impact.ForeignKey{
		{Field: "patientId", Target: "Patient"},
		{Field: "user_id", Target: "User"},
	}, strict, "clinic_id is skipped because Clinic has no id field")

	loose := impact.ForeignKeys(idx, impact.SuffixIDDetector{})
	assert.Contains(t, loose, impact.ForeignKey{Field: "clinic_id", Target: "Clinic"})

	assert.Nil(t, impact.ForeignKeys(idx, nil))

	_, ok := impact.SuffixIDDetector{}.Detect("id", idx)
	assert.False(t, ok, "a bare id is not a foreign key")
}

func TestRelationships(t *testing.T) {
	t.Parallel()

	idx, _ := buildIndex(t)

	assert.Equal(t, []impact.Relationship{
		{Field: "name", SharedSchemas: 1},
		{Field: "user_id", SharedSchemas: 1},
	}, impact.Relationships(idx, "id", 0))
	assert.Len(t, impact.Relationships(idx, "id", 1), 1)
	assert.Nil(t, impact.Relationships(idx, "missing", 0))
}

func TestInspect(t *testing.T) {
	t.Parallel()

	idx, _ := buildIndex(t)

	report, ok := impact.Inspect(idx, "user_id", impact.InspectOptions{Detector: impact.SuffixIDDetector{RequireIDField: true}})
	require.True(t, ok)
	assert.Equal(t, "user_id", report.Name)
	assert.Equal(t, "User", report.ForeignKey)
	assert.NotNil(t, report.Risk)
	assert.Equal(t, []impact.Relationship{{Field: "id", SharedSchemas: 1}}, report.Related)

	_, ok = impact.Inspect(idx, "nope", impact.InspectOptions{})
	assert.False(t, ok)
}
