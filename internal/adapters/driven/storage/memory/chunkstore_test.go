package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/olivestory-corp/docchat/internal/core/domain"
)

func TestChunkStore_InsertAssignsSequentialIDs(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	first := domain.StoredChunk{UserID: "u", Content: "first"}
	second := domain.StoredChunk{UserID: "u", Content: "second"}

	if err := store.Insert(ctx, &first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Insert(ctx, &second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Errorf("expected IDs 1 and 2, got %d and %d", first.ID, second.ID)
	}
}

func TestChunkStore_ScanAll_IsolatesUsers(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	a := domain.StoredChunk{UserID: "a", Content: "belongs to a"}
	b := domain.StoredChunk{UserID: "b", Content: "belongs to b"}
	_ = store.Insert(ctx, &a)
	_ = store.Insert(ctx, &b)

	got, err := store.ScanAll(ctx, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Content != "belongs to a" {
		t.Errorf("unexpected chunks: %+v", got)
	}
}

func TestChunkStore_ScanAll_ReturnsCopy(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	chunk := domain.StoredChunk{UserID: "u", Content: "original"}
	_ = store.Insert(ctx, &chunk)

	got, _ := store.ScanAll(ctx, "u")
	got[0].Content = "mutated"

	again, _ := store.ScanAll(ctx, "u")
	if again[0].Content != "original" {
		t.Error("expected stored chunks unaffected by caller mutation")
	}
}

func TestChunkStore_DeleteAll(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	chunk := domain.StoredChunk{UserID: "u", Content: "to delete"}
	_ = store.Insert(ctx, &chunk)

	if err := store.DeleteAll(ctx, "u"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := store.ScanAll(ctx, "u")
	if len(got) != 0 {
		t.Errorf("expected no chunks after delete, got %d", len(got))
	}
}

func TestChunkStore_ConcurrentAccess(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chunk := domain.StoredChunk{UserID: "u", Content: "concurrent"}
			_ = store.Insert(ctx, &chunk)
			_, _ = store.ScanAll(ctx, "u")
		}()
	}
	wg.Wait()

	got, err := store.ScanAll(ctx, "u")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 10 {
		t.Errorf("expected 10 chunks, got %d", len(got))
	}
}
