package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivestory-corp/docchat/internal/adapters/driven/storage/memory"
	"github.com/olivestory-corp/docchat/internal/core/domain"
	"github.com/olivestory-corp/docchat/internal/core/ports/driven"
	"github.com/olivestory-corp/docchat/internal/postprocessors"
)

// --- Mock implementations for ingest testing ---

// ingestMockEmbedder returns a fixed vector per input, with optional
// per-call hooks for failure injection and synchronisation.
type ingestMockEmbedder struct {
	vectors map[string][]float32
	embedFn func(ctx context.Context, text string) ([]float32, error)
	err     error
	calls   int
}

func (m *ingestMockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (m *ingestMockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *ingestMockEmbedder) Dimensions() int            { return 3 }
func (m *ingestMockEmbedder) ModelName() string          { return "mock-embed" }
func (m *ingestMockEmbedder) Ping(context.Context) error { return nil }
func (m *ingestMockEmbedder) Close() error               { return nil }

// ingestMockLoader serves canned pages.
type ingestMockLoader struct {
	pages []domain.Page
	err   error
}

func (m *ingestMockLoader) Load(context.Context, string) ([]domain.Page, error) {
	return m.pages, m.err
}

// ingestMockRegistry serves one loader for every path.
type ingestMockRegistry struct {
	loader driven.DocumentLoader
	err    error
}

func (m *ingestMockRegistry) LoaderFor(string) (driven.DocumentLoader, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.loader, nil
}

// longPage builds multi-chunk page text with no repeated sentences,
// so deduplication never collapses the output.
func longPage(prefix string, sentences int) string {
	var sb strings.Builder
	for i := 0; i < sentences; i++ {
		fmt.Fprintf(&sb, "%s number %d in the fixture document. ", prefix, i)
	}
	return strings.TrimSpace(sb.String())
}

// collectEvents drains the event channel with a timeout guard.
func collectEvents(t *testing.T, events <-chan domain.IngestEvent) []domain.IngestEvent {
	t.Helper()

	var out []domain.IngestEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("timed out waiting for ingest events")
		}
	}
}

func newTestIngestService(store driven.ChunkStore, embedder driven.EmbeddingService, pages []domain.Page) *IngestService {
	return NewIngestService(
		store,
		embedder,
		postprocessors.NewDefaultPipeline(1000, 200),
		&ingestMockRegistry{loader: &ingestMockLoader{pages: pages}},
	)
}

func TestIngestService_Ingest_Success(t *testing.T) {
	store := memory.NewChunkStore()
	embedder := &ingestMockEmbedder{}

	// Page 1 is long enough to split into multiple chunks; page 2 is
	// below the minimum chunk length and is dropped entirely.
	pages := []domain.Page{
		{Text: longPage("alpha section sentence", 80), Number: 1},
		{Text: "Beta", Number: 2},
	}

	svc := newTestIngestService(store, embedder, pages)
	events := collectEvents(t, svc.Ingest(context.Background(), "user-1", "/tmp/doc.pdf"))

	require.NotEmpty(t, events)
	terminal := events[len(events)-1]
	assert.True(t, terminal.Success)
	assert.NoError(t, terminal.Err)
	assert.Equal(t, 100, terminal.Progress)
	assert.Equal(t, "문서 처리가 완료되었습니다.", terminal.Message)

	stored, err := store.ScanAll(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, stored)
	assert.GreaterOrEqual(t, len(stored), 2, "long page should split into several chunks")
	for _, chunk := range stored {
		assert.Equal(t, 1, chunk.Metadata.Page, "the short page must contribute no chunks")
		assert.Equal(t, "/tmp/doc.pdf", chunk.Metadata.Source)
		assert.NotEmpty(t, chunk.Embedding)
	}
}

func TestIngestService_Ingest_ProgressIsMonotonic(t *testing.T) {
	store := memory.NewChunkStore()
	embedder := &ingestMockEmbedder{}

	pages := []domain.Page{{Text: longPage("steady progress report", 120), Number: 1}}

	svc := newTestIngestService(store, embedder, pages)
	events := collectEvents(t, svc.Ingest(context.Background(), "user-1", "/tmp/doc.pdf"))

	require.Greater(t, len(events), 1)
	last := 0
	for _, ev := range events[:len(events)-1] {
		assert.GreaterOrEqual(t, ev.Progress, last, "progress must never decrease")
		assert.Contains(t, ev.Status, "페이지 처리 중")
		assert.Equal(t, len(events)-1, ev.TotalPages)
		last = ev.Progress
	}
	assert.Equal(t, 100, events[len(events)-2].Progress, "final chunk event reaches 100")
}

func TestIngestService_Ingest_ReplacesPreviousDocument(t *testing.T) {
	store := memory.NewChunkStore()
	ctx := context.Background()

	stale := domain.StoredChunk{
		UserID:    "user-1",
		Content:   "content from the previously ingested document",
		Embedding: []float32{1, 2, 3},
	}
	require.NoError(t, store.Insert(ctx, &stale))

	// The first embed call runs after the purge and before any insert,
	// so the store must already be empty at that point.
	var seenBeforeFirstInsert []domain.StoredChunk
	firstEmbed := true
	embedder := &ingestMockEmbedder{}
	embedder.embedFn = func(context.Context, string) ([]float32, error) {
		if firstEmbed {
			firstEmbed = false
			chunks, err := store.ScanAll(ctx, "user-1")
			require.NoError(t, err)
			seenBeforeFirstInsert = chunks
		}
		return []float32{1, 0, 0}, nil
	}

	pages := []domain.Page{{Text: "fresh replacement document content", Number: 1}}
	svc := newTestIngestService(store, embedder, pages)
	events := collectEvents(t, svc.Ingest(ctx, "user-1", "/tmp/new.pdf"))
	require.True(t, events[len(events)-1].Success)

	assert.Empty(t, seenBeforeFirstInsert, "old chunks must be gone before the first insert")

	stored, err := store.ScanAll(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, stored)
	for _, chunk := range stored {
		assert.NotEqual(t, stale.Content, chunk.Content, "old chunks must be purged")
	}
}

func TestIngestService_Ingest_EmptyArguments(t *testing.T) {
	svc := newTestIngestService(memory.NewChunkStore(), &ingestMockEmbedder{}, nil)

	events := collectEvents(t, svc.Ingest(context.Background(), "", "/tmp/doc.pdf"))
	require.Len(t, events, 1)
	assert.ErrorIs(t, events[0].Err, domain.ErrInvalidInput)
	assert.Equal(t, "문서 처리 중 오류가 발생했습니다.", events[0].Status)
}

func TestIngestService_Ingest_UnsupportedFileType(t *testing.T) {
	svc := NewIngestService(
		memory.NewChunkStore(),
		&ingestMockEmbedder{},
		postprocessors.NewDefaultPipeline(1000, 200),
		&ingestMockRegistry{err: domain.ErrInvalidInput},
	)

	events := collectEvents(t, svc.Ingest(context.Background(), "user-1", "/tmp/doc.png"))
	require.Len(t, events, 1)
	assert.ErrorIs(t, events[0].Err, domain.ErrInvalidInput)
}

func TestIngestService_Ingest_LoaderFailure(t *testing.T) {
	loadErr := errors.New("extraction failed")
	svc := NewIngestService(
		memory.NewChunkStore(),
		&ingestMockEmbedder{},
		postprocessors.NewDefaultPipeline(1000, 200),
		&ingestMockRegistry{loader: &ingestMockLoader{err: loadErr}},
	)

	events := collectEvents(t, svc.Ingest(context.Background(), "user-1", "/tmp/doc.pdf"))
	require.Len(t, events, 1)
	assert.ErrorIs(t, events[0].Err, loadErr)
}

func TestIngestService_Ingest_EmbedFailureLeavesEarlierChunks(t *testing.T) {
	store := memory.NewChunkStore()
	embedErr := errors.New("embedding backend down")
	embedder := &ingestMockEmbedder{}
	embedder.embedFn = func(context.Context, string) ([]float32, error) {
		if embedder.calls > 1 {
			return nil, embedErr
		}
		return []float32{1, 0, 0}, nil
	}

	pages := []domain.Page{{Text: longPage("partial failure scenario", 120), Number: 1}}

	svc := newTestIngestService(store, embedder, pages)
	events := collectEvents(t, svc.Ingest(context.Background(), "user-1", "/tmp/doc.pdf"))

	terminal := events[len(events)-1]
	assert.ErrorIs(t, terminal.Err, embedErr)

	// The run is not transactional: the first chunk stays persisted.
	stored, err := store.ScanAll(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestIngestService_Ingest_SameUserFailsFast(t *testing.T) {
	store := memory.NewChunkStore()

	gate := make(chan struct{})
	started := make(chan struct{})
	var once bool
	embedder := &ingestMockEmbedder{}
	embedder.embedFn = func(context.Context, string) ([]float32, error) {
		if !once {
			once = true
			close(started)
		}
		<-gate
		return []float32{1, 0, 0}, nil
	}

	pages := []domain.Page{{Text: "document under concurrent ingestion", Number: 1}}
	svc := newTestIngestService(store, embedder, pages)

	first := svc.Ingest(context.Background(), "user-1", "/tmp/doc.pdf")
	<-started

	// Second run for the same user must fail without touching the store.
	second := collectEvents(t, svc.Ingest(context.Background(), "user-1", "/tmp/doc.pdf"))
	require.Len(t, second, 1)
	assert.ErrorIs(t, second[0].Err, domain.ErrIngestInProgress)

	close(gate)
	firstEvents := collectEvents(t, first)
	assert.True(t, firstEvents[len(firstEvents)-1].Success)
}

func TestIngestService_Ingest_LockReleasedAfterRun(t *testing.T) {
	store := memory.NewChunkStore()
	embedder := &ingestMockEmbedder{}
	pages := []domain.Page{{Text: "document ingested twice in sequence", Number: 1}}
	svc := newTestIngestService(store, embedder, pages)

	ctx := context.Background()
	first := collectEvents(t, svc.Ingest(ctx, "user-1", "/tmp/doc.pdf"))
	require.True(t, first[len(first)-1].Success)

	second := collectEvents(t, svc.Ingest(ctx, "user-1", "/tmp/doc.pdf"))
	assert.True(t, second[len(second)-1].Success, "sequential runs must not trip the lock")
}

func TestIngestService_Ingest_DifferentUsersRunIndependently(t *testing.T) {
	store := memory.NewChunkStore()
	embedder := &ingestMockEmbedder{}
	pages := []domain.Page{{Text: "shared fixture document content", Number: 1}}
	svc := newTestIngestService(store, embedder, pages)

	ctx := context.Background()
	a := collectEvents(t, svc.Ingest(ctx, "user-a", "/tmp/doc.pdf"))
	b := collectEvents(t, svc.Ingest(ctx, "user-b", "/tmp/doc.pdf"))
	assert.True(t, a[len(a)-1].Success)
	assert.True(t, b[len(b)-1].Success)

	storedA, _ := store.ScanAll(ctx, "user-a")
	storedB, _ := store.ScanAll(ctx, "user-b")
	assert.Len(t, storedA, 1)
	assert.Len(t, storedB, 1)
}

func TestIngestService_Ingest_ContextCancellation(t *testing.T) {
	store := memory.NewChunkStore()
	ctx, cancel := context.WithCancel(context.Background())

	embedder := &ingestMockEmbedder{}
	embedder.embedFn = func(context.Context, string) ([]float32, error) {
		cancel()
		return []float32{1, 0, 0}, nil
	}

	pages := []domain.Page{{Text: longPage("cancellation mid ingestion", 120), Number: 1}}
	svc := newTestIngestService(store, embedder, pages)

	events := svc.Ingest(ctx, "user-1", "/tmp/doc.pdf")

	// The channel closes without a successful terminal event.
	timeout := time.After(5 * time.Second)
	sawSuccess := false
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				assert.False(t, sawSuccess)
				return
			}
			if ev.Success {
				sawSuccess = true
			}
		case <-timeout:
			t.Fatal("timed out waiting for cancelled ingest to stop")
		}
	}
}
