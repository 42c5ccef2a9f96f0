package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/saxenaaman628/ballot-board/internal/store"
)

// fakeBucket is an in-memory http.RoundTripper serving the handful of S3
// calls the store makes, using path-style addressing.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func (f *fakeBucket) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return respond(http.StatusForbidden, "<Error><Code>AccessDenied</Code><Message>denied</Message></Error>"), nil
	}
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	switch req.Method {
	case http.MethodHead:
		return respond(http.StatusOK, ""), nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		f.objects[key] = body
		resp := respond(http.StatusOK, "")
		resp.Header.Set("ETag", `"etag"`)
		return resp, nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			return respond(http.StatusNotFound, "<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>"), nil
		}
		return respond(http.StatusOK, string(body)), nil
	}
	return respond(http.StatusNotImplemented, ""), nil
}

func respond(status int, body string) *http.Response {
	h := http.Header{}
	if body != "" && status >= 300 {
		h.Set("Content-Type", "application/xml")
	}
	return &http.Response{
		StatusCode:    status,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader([]byte(body))),
		ContentLength: int64(len(body)),
	}
}

func newTestStore(t *testing.T) (*Store, *fakeBucket) {
	t.Helper()
	fake := &fakeBucket{objects: map[string][]byte{}}
	s, err := New(context.Background(), Config{
		Bucket:          "ballots-bucket",
		Endpoint:        "http://s3.test.local",
		Prefix:          "ballotboard/",
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		HTTPClient:      &http.Client{Transport: fake},
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s, fake
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error without bucket")
	}
}

func TestGetMissingKey(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Get(context.Background(), "ballots"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetGetUsesPrefix(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestStore(t)
	if err := s.Set(ctx, "attendance", []byte(`[{"id":"a1"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := fake.objects["ballotboard/attendance"]; !ok {
		t.Fatalf("object not written under prefix: %v", fake.objects)
	}
	got, err := s.Get(ctx, "attendance")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[{"id":"a1"}]` {
		t.Fatalf("got %s", got)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestBackendFailurePropagates(t *testing.T) {
	s, fake := newTestStore(t)
	fake.fail = true
	_, err := s.Get(context.Background(), "ballots")
	if err == nil || errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected backend error, got %v", err)
	}
}
