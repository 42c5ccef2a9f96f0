package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"github.com/saxenaaman628/ballot-board/internal/store"
)

func newTestStore(t *testing.T, prefix string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := NewClient(context.Background(), Options{Addr: mr.Addr()}, zerolog.Nop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	s := NewStore(rdb, prefix, zerolog.Nop())
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStoreGetMissing(t *testing.T) {
	s, _ := newTestStore(t, "")
	if _, err := s.Get(context.Background(), "ballots"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreSetGetWithPrefix(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, "bb:")

	if err := s.Set(ctx, "ballots", []byte(`[{"id":"b1"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "ballots")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[{"id":"b1"}]` {
		t.Fatalf("got %s", got)
	}
	raw, err := mr.Get("bb:ballots")
	if err != nil {
		t.Fatalf("prefixed key missing: %v", err)
	}
	if raw != `[{"id":"b1"}]` {
		t.Fatalf("raw: got %s", raw)
	}
}

func TestStoreBacksCollection(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, "")
	type item struct {
		ID string `json:"id"`
	}
	col := store.NewCollection[*item](s, "dashboards")
	if err := col.SaveAll(ctx, []*item{{ID: "d1"}, {ID: "d2"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	items, err := col.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 2 || items[1].ID != "d2" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestStoreUnavailable(t *testing.T) {
	s, mr := newTestStore(t, "")
	mr.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping error after server shutdown")
	}
	if _, err := s.Get(context.Background(), "ballots"); err == nil || errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestNewClientFailsFast(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	if _, err := NewClient(context.Background(), Options{Addr: addr}, zerolog.Nop()); err == nil {
		t.Fatalf("expected connection error")
	}
}
