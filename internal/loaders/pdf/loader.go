// Package pdf provides a document loader for PDF files.
//
// Text extraction shells out to pdftotext (poppler-utils) rather than
// binding a PDF library; pdftotext separates pages with form-feed
// characters, which maps directly onto the loader's page contract.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/olivestory-corp/docchat/internal/core/domain"
	"github.com/olivestory-corp/docchat/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// ErrToolNotFound indicates pdftotext is not installed.
var ErrToolNotFound = errors.New("pdftotext not found")

// Loader extracts per-page text from PDF files via pdftotext.
type Loader struct {
	runner driven.CommandRunner
}

// New creates a PDF loader that executes the real pdftotext binary.
func New() *Loader {
	return &Loader{runner: execRunner{}}
}

// NewWithRunner creates a PDF loader with a custom command runner.
// Used in tests to avoid a pdftotext dependency.
func NewWithRunner(runner driven.CommandRunner) *Loader {
	return &Loader{runner: runner}
}

// Load extracts the PDF's pages. Page text keeps pdftotext's layout;
// blank pages are preserved so page numbering stays aligned with the
// source document.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.Page, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	out, err := l.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrToolNotFound, InstallInstructions())
		}
		return nil, fmt.Errorf("pdftotext %s: %w", path, err)
	}

	// pdftotext terminates every page, including the last, with a
	// form feed.
	raw := strings.Split(string(out), "\f")
	if n := len(raw); n > 0 && raw[n-1] == "" {
		raw = raw[:n-1]
	}

	pages := make([]domain.Page, len(raw))
	for i, text := range raw {
		pages[i] = domain.Page{Text: text, Number: i + 1}
	}
	return pages, nil
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return fmt.Errorf("%w: %s", ErrToolNotFound, InstallInstructions())
	}
	return nil
}

// InstallInstructions returns platform install hints for pdftotext.
func InstallInstructions() string {
	return "install poppler-utils (macOS: brew install poppler, Debian/Ubuntu: apt install poppler-utils)"
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
