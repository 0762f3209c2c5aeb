package spec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/speakeasy-api/openapi/openapi"
)

// Source supplies the raw bytes of an API description. Open is called once per load, so a reload
// re-reads the source from scratch.
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads a document from disk.
type FileSource struct {
	Path string
}

var _ Source = FileSource{}

func (s FileSource) Name() string {
	return s.Path
}

func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Clean(s.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// BytesSource serves a document held in memory, such as one read from stdin.
type BytesSource struct {
	Label string
	Data  []byte
}

var _ Source = BytesSource{}

func (s BytesSource) Name() string {
	if s.Label == "" {
		return "<memory>"
	}
	return s.Label
}

func (s BytesSource) Open(_ context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}

// LoadResult is the outcome of a successful load.
type LoadResult struct {
	Tree *Tree
	// ValidationErrors are the document validation findings reported by the parser. They never
	// prevent loading.
	ValidationErrors []error
}

type loadOptions struct {
	skipValidation bool
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithSkipValidation disables the parser's document validation.
func WithSkipValidation() LoadOption {
	return func(o *loadOptions) {
		o.skipValidation = true
	}
}

// Load parses the source as an OpenAPI document and converts it into a Tree.
func Load(ctx context.Context, src Source, opts ...LoadOption) (*LoadResult, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	reader, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var unmarshalOpts []openapi.Option[openapi.UnmarshalOptions]
	if o.skipValidation {
		unmarshalOpts = append(unmarshalOpts, openapi.WithSkipValidation())
	}

	doc, validationErrs, err := openapi.Unmarshal(ctx, reader, unmarshalOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal OpenAPI document: %w", err)
	}
	if doc == nil {
		return nil, errors.New("failed to parse OpenAPI document: document is nil")
	}

	tree, err := FromDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", src.Name(), err)
	}

	return &LoadResult{Tree: tree, ValidationErrors: validationErrs}, nil
}
