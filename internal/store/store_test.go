package store

import (
	"context"
	"errors"
	"testing"
)

type record struct {
	ID      string `json:"id"`
	Version int    `json:"version,omitempty"`
}

func TestCollectionAbsentKeyIsEmpty(t *testing.T) {
	col := NewCollection[*record](NewMemory(), "ballots")
	items, err := col.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestCollectionSaveLoad(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	col := NewCollection[*record](kv, "ballots")

	in := []*record{{ID: "a", Version: 1}, {ID: "b"}, {ID: "c", Version: 4}}
	if err := col.SaveAll(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := col.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len: got %d", len(out))
	}
	for i := range in {
		if out[i].ID != in[i].ID || out[i].Version != in[i].Version {
			t.Fatalf("item %d: got %+v want %+v", i, out[i], in[i])
		}
	}
}

func TestCollectionRoundTripIsNoop(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	if err := kv.Set(ctx, "dashboards", []byte(`[{"id":"d1","version":2},{"id":"d2"}]`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	col := NewCollection[*record](kv, "dashboards")

	before, _ := kv.Get(ctx, "dashboards")
	items, err := col.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := col.SaveAll(ctx, items); err != nil {
		t.Fatalf("save: %v", err)
	}
	after, _ := kv.Get(ctx, "dashboards")
	if string(before) != string(after) {
		t.Fatalf("round trip changed blob:\nbefore %s\nafter  %s", before, after)
	}
}

func TestCollectionNilSavesEmptyArray(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	col := NewCollection[*record](kv, "attendance")
	if err := col.SaveAll(ctx, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := kv.Get(ctx, "attendance")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("got %s", raw)
	}
}

func TestCollectionCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	_ = kv.Set(ctx, "ballots", []byte(`{"not":"an array"}`))
	col := NewCollection[*record](kv, "ballots")
	if _, err := col.LoadAll(ctx); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingKV) Set(context.Context, string, []byte) error   { return f.err }
func (f failingKV) Ping(context.Context) error                  { return f.err }
func (f failingKV) Close() error                                { return nil }

func TestCollectionPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("store unavailable")
	col := NewCollection[*record](failingKV{err: boom}, "ballots")
	if _, err := col.LoadAll(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("load: expected wrapped error, got %v", err)
	}
	if err := col.SaveAll(context.Background(), []*record{{ID: "a"}}); !errors.Is(err, boom) {
		t.Fatalf("save: expected wrapped error, got %v", err)
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	v := []byte("abc")
	_ = m.Set(ctx, "k", v)
	v[0] = 'x'
	got, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller slice: %s", got)
	}
	got[1] = 'y'
	again, _ := m.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("returned value aliased stored slice: %s", again)
	}
	if _, err := m.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
