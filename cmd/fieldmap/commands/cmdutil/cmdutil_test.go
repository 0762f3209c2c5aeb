package cmdutil

import (
	"strings"
	"testing"

	"github.com/speakeasy-api/fieldmap/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStdin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{name: "dash is stdin", path: "-", expected: true},
		{name: "empty is not stdin", path: "", expected: false},
		{name: "file path is not stdin", path: "api.yaml", expected: false},
		{name: "dash prefix is not stdin", path: "-file", expected: false},
		{name: "double dash is not stdin", path: "--", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsStdin(tt.path))
		})
	}
}

func TestInputFileFromArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "no args returns stdin indicator", args: []string{}, expected: StdinIndicator},
		{name: "nil args returns stdin indicator", args: nil, expected: StdinIndicator},
		{name: "single file arg", args: []string{"api.yaml"}, expected: "api.yaml"},
		{name: "explicit dash", args: []string{"-"}, expected: "-"},
		{name: "multiple args returns first", args: []string{"api.yaml", "id"}, expected: "api.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, InputFileFromArgs(tt.args))
		})
	}
}

func TestStdinOrFileArgs_WithFiles(t *testing.T) {
	t.Parallel()

	validate := StdinOrFileArgs(1, 2)
	require.NoError(t, validate(nil, []string{"api.yaml"}))
	require.NoError(t, validate(nil, []string{"api.yaml", "id"}))

	err := validate(nil, []string{"a", "b", "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 2 arg(s)")
}

func TestSourceFor_File(t *testing.T) {
	t.Parallel()

	src, err := SourceFor("api.yaml", strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, spec.FileSource{Path: "api.yaml"}, src)
}

func TestSourceFor_Stdin(t *testing.T) {
	t.Parallel()

	src, err := SourceFor("-", strings.NewReader("openapi: 3.1.0\n"))
	require.NoError(t, err)
	assert.Equal(t, StdinLabel, src.Name())

	rc, err := src.Open(t.Context())
	require.NoError(t, err)
	defer rc.Close()
	buf := make([]byte, 64)
	n, _ := rc.Read(buf)
	assert.Equal(t, "openapi: 3.1.0\n", string(buf[:n]))
}

func TestSourceFor_EmptyStdin_Error(t *testing.T) {
	t.Parallel()

	_, err := SourceFor("-", strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data received on stdin")
}
