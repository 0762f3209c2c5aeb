package spec_test

import (
	"os"
	"slices"
	"testing"

	"github.com/speakeasy-api/fieldmap/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadClinic(t *testing.T) *spec.Tree {
	t.Helper()

	result, err := spec.Load(t.Context(), spec.FileSource{Path: "testdata/clinic.openapi.yaml"}, spec.WithSkipValidation())
	require.NoError(t, err, "should load fixture")
	require.NotNil(t, result.Tree)
	return result.Tree
}

func endpoint(t *testing.T, tree *spec.Tree, id string) *spec.Endpoint {
	t.Helper()

	for e := range tree.Endpoints() {
		if e.ID().String() == id {
			return e
		}
	}
	require.Failf(t, "endpoint not found", "%s", id)
	return nil
}

func TestLoad_Schemas_Success(t *testing.T) {
	t.Parallel()

	tree := loadClinic(t)

	assert.Equal(t, "Clinic API", tree.Title)
	assert.Equal(t, "1.2.0", tree.Version)
	require.NotNil(t, tree.Schemas)
	assert.Equal(t, []string{"User", "Patient", "Person", "Address", "Orphan"}, slices.Collect(tree.Schemas.Keys()))

	user, ok := tree.Schema("User")
	require.True(t, ok)
	assert.Equal(t, "A user account", user.Description)
	require.Len(t, user.Fields, 3)
	assert.Equal(t, spec.Field{Name: "id", Type: "integer", Required: true}, user.Fields[0])
	assert.Equal(t, "name", user.Fields[1].Name)
	assert.False(t, user.Fields[1].Required)
	assert.Equal(t, "Address", user.Fields[2].Ref, "property $ref should be recorded on the field")
	assert.Empty(t, user.References, "property refs are not composition refs")
	assert.Equal(t, []string{"Address"}, user.PropertyRefs)

	patient, ok := tree.Schema("Patient")
	require.True(t, ok)
	assert.Equal(t, []string{"Person"}, patient.References)
	names := make([]string, 0, len(patient.Fields))
	for _, f := range patient.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "user_id", "tags"}, names, "inline allOf members contribute own fields")

	person, ok := tree.Schema("Person")
	require.True(t, ok)
	status, ok := person.Field("status")
	require.True(t, ok)
	assert.Equal(t, []string{"active", "inactive"}, status.Enum)

	orphan, ok := tree.Schema("Orphan")
	require.True(t, ok)
	assert.Equal(t, "decimal", orphan.Fields[0].Type)
}

func TestLoad_Endpoints_Success(t *testing.T) {
	t.Parallel()

	tree := loadClinic(t)

	require.Len(t, tree.Paths, 4)
	assert.Equal(t, "/health", tree.Paths[3].Template)
	assert.Empty(t, tree.Paths[3].Endpoints, "path without operations is kept")
	assert.Equal(t, 4, tree.EndpointCount())

	get := endpoint(t, tree, "GET /user")
	assert.Equal(t, "getUser", get.OperationID)
	require.Len(t, get.Parameters, 1)
	assert.Equal(t, "verbose", get.Parameters[0].Name)
	assert.Equal(t, spec.LocationQuery, get.Parameters[0].In)
	assert.Equal(t, "boolean", get.Parameters[0].Type)
	assert.Equal(t, "Include extra detail", get.Parameters[0].Description)
	require.Len(t, get.Responses, 1)
	assert.Equal(t, "User", get.Responses[0].Payload.Ref)

	post := endpoint(t, tree, "POST /user")
	assert.Equal(t, []string{"users"}, post.Tags)
	require.NotNil(t, post.RequestBody)
	assert.Equal(t, "User", post.RequestBody.Ref)
	require.Len(t, post.Responses, 1)
	assert.Equal(t, "201", post.Responses[0].Status)
	assert.Equal(t, "User", post.Responses[0].Payload.Ref, "component responses are followed")

	put := endpoint(t, tree, "PUT /user/{id}")
	require.Len(t, put.Parameters, 1)
	assert.Equal(t, spec.LocationPath, put.Parameters[0].In)
	assert.True(t, put.Parameters[0].Required)
	assert.Equal(t, "int64", put.Parameters[0].Format)
	require.Len(t, put.Responses, 1)
	inline := put.Responses[0].Payload
	require.NotNil(t, inline)
	assert.Empty(t, inline.Ref)
	assert.Equal(t, []string{"User"}, inline.Refs)
	require.Len(t, inline.Fields, 2)
	assert.Equal(t, "updated_at", inline.Fields[1].Name)

	list := endpoint(t, tree, "GET /patients")
	assert.Equal(t, "Patient", list.Responses[0].Payload.Ref, "array items $ref binds the item schema")
}

func TestLoad_Stdin_Success(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile("testdata/clinic.openapi.yaml")
	require.NoError(t, err)

	result, err := spec.Load(t.Context(), spec.BytesSource{Label: "stdin", Data: data}, spec.WithSkipValidation())
	require.NoError(t, err)
	assert.Equal(t, 5, result.Tree.Schemas.Len())
}

func TestLoad_MissingFile_Error(t *testing.T) {
	t.Parallel()

	_, err := spec.Load(t.Context(), spec.FileSource{Path: "testdata/missing.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}

func TestLoad_NoComponents_Success(t *testing.T) {
	t.Parallel()

	doc := []byte("openapi: 3.1.0\ninfo:\n  title: Empty\n  version: 1.0.0\npaths: {}\n")
	result, err := spec.Load(t.Context(), spec.BytesSource{Data: doc}, spec.WithSkipValidation())
	require.NoError(t, err)
	assert.Nil(t, result.Tree.Schemas, "absent components section is distinguishable from an empty one")
	assert.Zero(t, result.Tree.EndpointCount())
}

func TestEndpointID_RoundTrip(t *testing.T) {
	t.Parallel()

	id, err := spec.ParseEndpointID("put /user/{id}")
	require.NoError(t, err)
	assert.Equal(t, spec.EndpointID{Method: "PUT", Path: "/user/{id}"}, id)
	assert.Equal(t, "PUT /user/{id}", id.String())

	_, err = spec.ParseEndpointID("GET")
	assert.Error(t, err)
}

func TestField_TypeLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		field    spec.Field
		expected string
	}{
		{name: "plain", field: spec.Field{Type: "string"}, expected: "string"},
		{name: "format", field: spec.Field{Type: "string", Format: "uuid"}, expected: "string(uuid)"},
		{name: "array of refs", field: spec.Field{Type: "array", Ref: "User"}, expected: "array<User>"},
		{name: "untyped", field: spec.Field{}, expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.field.TypeLabel())
		})
	}
}
