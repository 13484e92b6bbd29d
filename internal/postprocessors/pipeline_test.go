package postprocessors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/olivestory-corp/docchat/internal/core/domain"
)

// fakeProcessor records invocation order and can inject failures.
type fakeProcessor struct {
	name   string
	err    error
	called *[]string
	out    []domain.Chunk
}

func (f *fakeProcessor) Name() string { return f.name }

func (f *fakeProcessor) Process(_ context.Context, _ *domain.SourceDocument, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if f.called != nil {
		*f.called = append(*f.called, f.name)
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.out != nil {
		return f.out, nil
	}
	return chunks, nil
}

func TestPipeline_Process_Order(t *testing.T) {
	var called []string
	pipeline := NewPipeline(
		&fakeProcessor{name: "first", called: &called},
		&fakeProcessor{name: "second", called: &called},
	)

	doc := &domain.SourceDocument{Source: "doc.txt"}
	if _, err := pipeline.Process(context.Background(), doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(called) != 2 || called[0] != "first" || called[1] != "second" {
		t.Errorf("expected processors called in order, got %v", called)
	}
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	pipeline := NewPipeline()
	if _, err := pipeline.Process(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil document")
	}
}

func TestPipeline_Process_WrapsProcessorError(t *testing.T) {
	wantErr := errors.New("boom")
	pipeline := NewPipeline(&fakeProcessor{name: "broken", err: wantErr})

	doc := &domain.SourceDocument{Source: "doc.txt"}
	_, err := pipeline.Process(context.Background(), doc)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("expected processor name in error, got %v", err)
	}
}

func TestPipeline_Add(t *testing.T) {
	pipeline := NewPipeline()
	if pipeline.Len() != 0 {
		t.Fatalf("expected empty pipeline, got %d", pipeline.Len())
	}
	pipeline.Add(&fakeProcessor{name: "extra"})
	if pipeline.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", pipeline.Len())
	}
}

func TestNewDefaultPipeline(t *testing.T) {
	pipeline := NewDefaultPipeline(60, 0)
	if pipeline.Len() != 2 {
		t.Fatalf("expected chunker and dedupe, got %d processors", pipeline.Len())
	}

	// A page with a repeated paragraph: the chunker splits it, the
	// dedupe stage keeps one copy.
	para := "This paragraph appears twice in the source document."
	doc := &domain.SourceDocument{
		Source: "doc.txt",
		Pages:  []domain.Page{{Text: para + "\n\n" + para, Number: 1}},
	}

	chunks, err := pipeline.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected duplicate paragraph collapsed, got %d chunks", len(chunks))
	}
	if chunks[0].Content != para {
		t.Errorf("unexpected chunk content: %q", chunks[0].Content)
	}
}
