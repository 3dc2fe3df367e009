package chains

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/importchain/pkg/observability"
)

type recordingHooks struct {
	observability.NoopSearchHooks
	mu        sync.Mutex
	completed int
}

func (r *recordingHooks) OnSearchComplete(context.Context, string, string, int, int, time.Duration, error) {
	r.mu.Lock()
	r.completed++
	r.mu.Unlock()
}

func TestFindAll(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetSearchHooks(hooks)
	t.Cleanup(observability.Reset)

	g := newGraph(t, "a -> b", "b -> c", "x -> y")
	queries := []Query{
		{Importer: "a", Imported: "c", Options: Options{AsPackages: true}},
		{Importer: "x", Imported: "y"},
		{Importer: "c", Imported: "a", Options: Options{AsPackages: true}},
	}

	results, err := FindAll(context.Background(), g, queries, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(queries) {
		t.Fatalf("got %d results", len(results))
	}
	wantLen := []int{1, 1, 0}
	for i, r := range results {
		if r.Query.Importer != queries[i].Importer {
			t.Errorf("result %d out of order: %+v", i, r.Query)
		}
		if r.Chains.Len() != wantLen[i] {
			t.Errorf("result %d: %d chains, want %d", i, r.Chains.Len(), wantLen[i])
		}
	}
	if hooks.completed != len(queries) {
		t.Errorf("OnSearchComplete called %d times, want %d", hooks.completed, len(queries))
	}
}

func TestFindAllError(t *testing.T) {
	backendErr := errors.New("boom")
	g := failingGraph{Graph: newGraph(t, "a -> b", "b -> c"), failOn: "a", err: backendErr}

	_, err := FindAll(context.Background(), g, []Query{
		{Importer: "b", Imported: "c"},
		{Importer: "a", Imported: "c", Options: Options{AsPackages: true}},
	}, 0)
	if !errors.Is(err, backendErr) {
		t.Errorf("FindAll() error = %v, want %v", err, backendErr)
	}
}

func TestFindAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := newGraph(t, "a -> b")
	_, err := FindAll(ctx, g, []Query{{Importer: "a", Imported: "b"}}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("FindAll() error = %v, want context.Canceled", err)
	}
}
