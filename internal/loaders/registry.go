// Package loaders provides document loader implementations and their
// selection by file type.
package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/olivestory-corp/docchat/internal/core/domain"
	"github.com/olivestory-corp/docchat/internal/core/ports/driven"
	"github.com/olivestory-corp/docchat/internal/loaders/pdf"
	"github.com/olivestory-corp/docchat/internal/loaders/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.LoaderRegistry = (*Registry)(nil)

// Registry selects a document loader by file extension.
type Registry struct {
	byExt map[string]driven.DocumentLoader
}

// NewRegistry creates a registry with the built-in loaders: PDF via
// pdftotext, plain text for .txt and .md.
func NewRegistry() *Registry {
	text := plaintext.New()
	return &Registry{
		byExt: map[string]driven.DocumentLoader{
			".pdf": pdf.New(),
			".txt": text,
			".md":  text,
		},
	}
}

// Register adds or replaces the loader for an extension (with leading
// dot, lower case).
func (r *Registry) Register(ext string, loader driven.DocumentLoader) {
	r.byExt[ext] = loader
}

// LoaderFor returns the loader for the path's extension.
func (r *Registry) LoaderFor(path string) (driven.DocumentLoader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, ext)
	}
	return loader, nil
}
