package driven

import (
	"context"

	"github.com/olivestory-corp/docchat/internal/core/domain"
)

// DocumentLoader extracts per-page text from a file on disk.
// Each loader handles specific file types (e.g., PDF, plain text).
type DocumentLoader interface {
	// Load reads the file and returns its pages in reading order,
	// numbered from 1.
	Load(ctx context.Context, path string) ([]domain.Page, error)
}

// LoaderRegistry selects a DocumentLoader for a given file path.
type LoaderRegistry interface {
	// LoaderFor returns the loader responsible for the path, or
	// domain.ErrInvalidInput wrapped with the unsupported extension.
	LoaderFor(path string) (DocumentLoader, error)
}

// CommandRunner executes an external command and returns its standard
// output. Extracted as a port so loaders that shell out (pdftotext)
// stay testable without the binary installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
