package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSearchHooks{}
	s.OnSearchStart(ctx, "app.ui", "app.db")
	s.OnSearchComplete(ctx, "app.ui", "app.db", 2, 3, time.Millisecond, nil)
	s.OnContractChecked(ctx, "layers", true, 0, time.Second)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "chains")
	c.OnCacheMiss(ctx, "chains")
	c.OnCacheSet(ctx, "chains", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "req-1", "POST", "/graphs")
	h.OnResponse(ctx, "req-1", "POST", "/graphs", 201, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Search().(NoopSearchHooks); !ok {
		t.Error("Search() should return NoopSearchHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customSearch := &testSearchHooks{}
	SetSearchHooks(customSearch)
	if Search() != customSearch {
		t.Error("SetSearchHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Search().(NoopSearchHooks); !ok {
		t.Error("Reset() should restore NoopSearchHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testSearchHooks{}
	SetSearchHooks(custom)
	SetSearchHooks(nil)

	if Search() != custom {
		t.Error("SetSearchHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testSearchHooks struct{ NoopSearchHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
