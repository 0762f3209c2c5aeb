package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/speakeasy-api/fieldmap/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workedFile = "testdata/worked.openapi.yaml"

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	root := &cobra.Command{Use: "fieldmap", SilenceUsage: true, SilenceErrors: true}
	Apply(root)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--config", "testdata/fieldmap.yaml"))

	err := root.ExecuteContext(t.Context())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestStats_Text(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "stats", workedFile)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Field Usage Report: Worked Example v1.0.0")
	assert.Contains(t, res.stdout, "TOP FIELDS\n  1. id")
	assert.Contains(t, res.stdout, "user_id")
}

func TestStats_JSONFromStdin(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile(workedFile)
	require.NoError(t, err)

	res := execute(t, string(data), "stats", "-", "--format", "json")
	require.NoError(t, res.err)

	var decoded struct {
		FieldCount    int `json:"fieldCount"`
		EndpointCount int `json:"endpointCount"`
		TopFields     []struct {
			Name string `json:"name"`
		} `json:"topFields"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &decoded))
	assert.Equal(t, 3, decoded.FieldCount)
	assert.Equal(t, 3, decoded.EndpointCount)
	require.NotEmpty(t, decoded.TopFields)
	assert.Equal(t, "id", decoded.TopFields[0].Name)
}

func TestStats_BadFormat_Error(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "stats", workedFile, "--format", "xml")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unsupported format")
}

func TestField_YAML(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "field", workedFile, "id", "--format", "yaml")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "name: id")
	assert.Contains(t, res.stdout, "usageCount: 5")
	assert.Contains(t, res.stdout, "critical: true")
}

func TestField_Unknown_SuggestsNames(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "field", workedFile, "usr_id")
	require.Error(t, res.err)
	assert.Equal(t, `field "usr_id" not found (did you mean: user_id?)`, res.err.Error())

	res = execute(t, "", "field", workedFile, "zzz")
	require.Error(t, res.err)
	assert.Equal(t, `field "zzz" not found`, res.err.Error())
}

func TestSearch(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "search", workedFile, "id")
	require.NoError(t, res.err)
	assert.Equal(t, "id\nuser_id\n", res.stdout)

	res = execute(t, "", "search", workedFile, "post", "--view", "endpoints")
	require.NoError(t, res.err)
	assert.Equal(t, "POST /user\n", res.stdout)

	res = execute(t, "", "search", workedFile, "id", "--limit", "1")
	require.NoError(t, res.err)
	assert.Equal(t, "id\n", res.stdout)

	res = execute(t, "", "search", workedFile, "qqq")
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, `no fields match "qqq"`)
}

func TestSearch_UnknownView_Error(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "search", workedFile, "id", "--view", "tables")
	require.Error(t, res.err)
}

func TestGraph(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "graph", workedFile)
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "digraph schemas {"))
	assert.Contains(t, res.stdout, `"User"`)
	assert.Contains(t, res.stdout, `"Patient"`)

	res = execute(t, "", "graph", workedFile, "--format", "mermaid", "--focus", "User")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "User((User))")

	res = execute(t, "", "graph", workedFile, "--focus", "Ghost")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), `schema "Ghost" not found`)

	res = execute(t, "", "graph", workedFile, "--format", "png")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unknown format: png")
}

func TestVerbose_ReportsTiming(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "stats", workedFile, "-v")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Indexing "+workedFile+" completed in")
	assert.Contains(t, res.stderr, "3 fields, 2 schemas, 3 endpoints")
}

func TestInvalidConfigFlag_Error(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "stats", workedFile, "--max-depth", "0")
	require.Error(t, res.err)
	require.ErrorIs(t, res.err, config.ErrInvalidConfig)
}

func TestMissingFile_Error(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "stats", "testdata/missing.yaml")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "failed to open file")
}
