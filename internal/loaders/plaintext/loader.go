// Package plaintext provides a document loader for plain text files.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olivestory-corp/docchat/internal/core/domain"
	"github.com/olivestory-corp/docchat/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader reads a text file as pages. Form feeds mark page boundaries;
// a file without them loads as a single page.
type Loader struct{}

// New creates a plain text loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the file and returns its pages, numbered from 1.
func (l *Loader) Load(_ context.Context, path string) ([]domain.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	raw := strings.Split(string(data), "\f")
	pages := make([]domain.Page, len(raw))
	for i, text := range raw {
		pages[i] = domain.Page{Text: text, Number: i + 1}
	}
	return pages, nil
}
