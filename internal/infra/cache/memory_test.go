//go:build !integration

package cache

import (
	"context"
	"fmt"
	"testing"

	"surgical-viz-client/internal/domain/model"
)

func TestMemory_CurrentAndHistory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)

	if cur, err := m.Current(ctx); err != nil || cur != nil {
		t.Fatalf("empty cache: cur=%v err=%v", cur, err)
	}

	v1 := &model.Visualization{ID: "v1"}
	v2 := &model.Visualization{ID: "v2"}
	for _, v := range []*model.Visualization{v1, v2} {
		if err := m.SetCurrent(ctx, v); err != nil {
			t.Fatalf("SetCurrent: %v", err)
		}
		if err := m.Append(ctx, v); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	cur, err := m.Current(ctx)
	if err != nil || cur == nil || cur.ID != "v2" {
		t.Fatalf("current: %+v err=%v", cur, err)
	}

	hist, err := m.History(ctx)
	if err != nil || len(hist) != 2 {
		t.Fatalf("history: %d err=%v", len(hist), err)
	}
	if hist[0].ID != "v1" || hist[1].ID != "v2" {
		t.Fatalf("history order: %s, %s", hist[0].ID, hist[1].ID)
	}

	// Stored entries are copies: mutating the original must not leak in.
	v2.ImageURL = "mutated"
	cur, _ = m.Current(ctx)
	if cur.ImageURL == "mutated" {
		t.Fatal("cache shares memory with the caller")
	}
}

func TestMemory_HistoryBounded(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(3)

	for i := 0; i < 5; i++ {
		_ = m.Append(ctx, &model.Visualization{ID: fmt.Sprintf("v%d", i)})
	}

	hist, _ := m.History(ctx)
	if len(hist) != 3 {
		t.Fatalf("bounded history: got %d, want 3", len(hist))
	}
	if hist[0].ID != "v2" || hist[2].ID != "v4" {
		t.Fatalf("oldest entries must fall off: %s..%s", hist[0].ID, hist[2].ID)
	}
}

func TestMemory_Clear(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)
	_ = m.SetCurrent(ctx, &model.Visualization{ID: "v1"})
	_ = m.Append(ctx, &model.Visualization{ID: "v1"})

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if cur, _ := m.Current(ctx); cur != nil {
		t.Fatalf("current after clear: %+v", cur)
	}
	if hist, _ := m.History(ctx); len(hist) != 0 {
		t.Fatalf("history after clear: %d", len(hist))
	}
}
