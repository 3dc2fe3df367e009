package chains

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/importchain/pkg/errors"
	"github.com/matzehuels/importchain/pkg/importgraph"
)

func newGraph(t *testing.T, edges ...string) *importgraph.Graph {
	t.Helper()
	g := importgraph.New()
	for _, e := range edges {
		from, to, ok := strings.Cut(e, "->")
		if !ok {
			t.Fatalf("bad edge %q", e)
		}
		err := g.AddImport(importgraph.Import{
			Importer: strings.TrimSpace(from),
			Imported: strings.TrimSpace(to),
		})
		if err != nil {
			t.Fatalf("AddImport(%s): %v", e, err)
		}
	}
	return g
}

func chainStrings(s *Set) []string {
	var out []string
	for _, c := range s.Chains() {
		out = append(out, c.String())
	}
	return out
}

func TestFindShortestChains(t *testing.T) {
	tests := []struct {
		name       string
		edges      []string
		importer   string
		imported   string
		asPackages bool
		want       []string
	}{
		{
			name:     "no path",
			edges:    []string{"a -> b", "c -> d"},
			importer: "a", imported: "d",
			want: nil,
		},
		{
			name:     "reverse edge only",
			edges:    []string{"b -> a"},
			importer: "a", imported: "b",
			want: nil,
		},
		{
			name:     "single edge",
			edges:    []string{"a -> b"},
			importer: "a", imported: "b",
			want: []string{"a -> b"},
		},
		{
			name:     "direct edge beats two hops",
			edges:    []string{"a -> b", "b -> c", "a -> c"},
			importer: "a", imported: "c",
			want: []string{"a -> c"},
		},
		{
			name:     "module mode ignores intermediates",
			edges:    []string{"a -> b", "b -> c"},
			importer: "a", imported: "c",
			want: nil,
		},
		{
			name:       "package mode follows intermediates",
			edges:      []string{"a -> b", "b -> c"},
			importer:   "a",
			imported:   "c",
			asPackages: true,
			want:       []string{"a -> b -> c"},
		},
		{
			name:       "all tied chains",
			edges:      []string{"a -> b", "a -> c", "b -> d", "c -> d", "a -> e", "e -> f", "f -> d"},
			importer:   "a",
			imported:   "d",
			asPackages: true,
			want:       []string{"a -> b -> d", "a -> c -> d"},
		},
		{
			name:       "package expansion through descendant",
			edges:      []string{"A.sub -> B"},
			importer:   "A",
			imported:   "B",
			asPackages: true,
			want:       []string{"A -> B"},
		},
		{
			name:       "package node need not be a module",
			edges:      []string{"A.x.y -> M", "M -> B"},
			importer:   "A",
			imported:   "B",
			asPackages: true,
			want:       []string{"A -> M -> B"},
		},
		{
			name:       "cycles are not revisited",
			edges:      []string{"a -> b", "b -> a", "b -> c", "c -> b", "c -> d"},
			importer:   "a",
			imported:   "d",
			asPackages: true,
			want:       []string{"a -> b -> c -> d"},
		},
		{
			name:       "unknown importer",
			edges:      []string{"a -> b"},
			importer:   "zzz",
			imported:   "b",
			asPackages: true,
			want:       nil,
		},
		{
			name:     "unknown importer module mode",
			edges:    []string{"a -> b"},
			importer: "zzz", imported: "b",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(t, tt.edges...)
			got, err := FindShortestChains(g, tt.importer, tt.imported, Options{AsPackages: tt.asPackages})
			if err != nil {
				t.Fatalf("FindShortestChains: %v", err)
			}
			if gotStr := chainStrings(got); !slices.Equal(gotStr, tt.want) {
				t.Errorf("FindShortestChains() = %v, want %v", gotStr, tt.want)
			}
		})
	}
}

func TestFindShortestChainsInvariants(t *testing.T) {
	// Dense graph with cycles and several equally short routes.
	g := newGraph(t,
		"a -> b", "a -> c", "a -> d",
		"b -> e", "c -> e", "d -> f",
		"e -> g", "f -> g", "g -> a",
		"b -> c", "c -> b", "e -> h", "h -> g",
	)

	first, err := FindShortestChains(g, "a", "g", Options{AsPackages: true})
	if err != nil {
		t.Fatalf("FindShortestChains: %v", err)
	}
	if first.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (%v)", first.Len(), chainStrings(first))
	}

	for _, c := range first.Chains() {
		if len(c) != first.Length() {
			t.Errorf("chain %v has length %d, want %d", c, len(c), first.Length())
		}
		if c[0] != "a" || c[len(c)-1] != "g" {
			t.Errorf("chain %v has wrong endpoints", c)
		}
		seen := map[string]bool{}
		for _, id := range c {
			if seen[id] {
				t.Errorf("chain %v repeats %s", c, id)
			}
			seen[id] = true
		}
		for i := 0; i+1 < len(c); i++ {
			if !g.DirectImportExists(c[i], c[i+1]) {
				t.Errorf("chain %v uses missing import %s -> %s", c, c[i], c[i+1])
			}
		}
	}

	// No legacy BFS path is shorter than what we report.
	legacy, _ := g.FindShortestChain("a", "g", false)
	if len(legacy) < first.Length() {
		t.Errorf("legacy found shorter chain %v", legacy)
	}

	for i := 0; i < 5; i++ {
		again, _ := FindShortestChains(g, "a", "g", Options{AsPackages: true})
		if again.Length() != first.Length() || !slices.Equal(chainStrings(again), chainStrings(first)) {
			t.Fatalf("run %d differs: %v vs %v", i, chainStrings(again), chainStrings(first))
		}
	}
}

func TestFindShortestChainsMaxDepth(t *testing.T) {
	g := newGraph(t, "a -> b", "b -> c", "c -> d")

	tests := []struct {
		maxDepth int
		want     []string
	}{
		{0, []string{"a -> b -> c -> d"}},
		{3, []string{"a -> b -> c -> d"}},
		{2, nil},
		{1, nil},
	}
	for _, tt := range tests {
		got, err := FindShortestChains(g, "a", "d", Options{AsPackages: true, MaxDepth: tt.maxDepth})
		if err != nil {
			t.Fatalf("MaxDepth %d: %v", tt.maxDepth, err)
		}
		if gotStr := chainStrings(got); !slices.Equal(gotStr, tt.want) {
			t.Errorf("MaxDepth %d = %v, want %v", tt.maxDepth, gotStr, tt.want)
		}
	}
}

func TestFindShortestChainsInvalidInput(t *testing.T) {
	g := newGraph(t, "a -> b")
	for _, pair := range [][2]string{{"a", "a"}, {"", "b"}, {"a", ""}} {
		_, err := FindShortestChains(g, pair[0], pair[1], Options{})
		if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
			t.Errorf("FindShortestChains(%q, %q) error = %v, want INVALID_INPUT", pair[0], pair[1], err)
		}
	}
}

// failingGraph returns a backend error for one module.
type failingGraph struct {
	*importgraph.Graph
	failOn string
	err    error
}

func (f failingGraph) DirectImports(module string) ([]string, error) {
	if module == f.failOn {
		return nil, f.err
	}
	return f.Graph.DirectImports(module)
}

func (f failingGraph) Descendants(module string) ([]string, error) {
	if module == "broken" {
		return nil, apperrors.New(apperrors.ErrCodeUnknownModule, "no such package")
	}
	return f.Graph.Descendants(module)
}

func TestFindShortestChainsPropagatesBackendErrors(t *testing.T) {
	backendErr := errors.New("index unavailable")
	g := failingGraph{Graph: newGraph(t, "a -> b", "b -> c"), failOn: "b", err: backendErr}

	_, err := FindShortestChains(g, "a", "c", Options{AsPackages: true})
	if err != backendErr {
		t.Errorf("error = %v, want the backend error unchanged", err)
	}
}

func TestFindShortestChainsUnknownDescendantsIsEmpty(t *testing.T) {
	g := failingGraph{Graph: newGraph(t, "broken -> b")}

	got, err := FindShortestChains(g, "broken", "b", Options{AsPackages: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"broken -> b"}; !slices.Equal(chainStrings(got), want) {
		t.Errorf("got %v, want %v", chainStrings(got), want)
	}
}

// listOnlyGraph hides ContainsModule so the finder builds its own index.
type listOnlyGraph struct{ g *importgraph.Graph }

func (l listOnlyGraph) Modules() []string                       { return l.g.Modules() }
func (l listOnlyGraph) DirectImports(m string) ([]string, error) { return l.g.DirectImports(m) }
func (l listOnlyGraph) Descendants(m string) ([]string, error)   { return l.g.Descendants(m) }

func TestFindShortestChainsWithoutContainsModule(t *testing.T) {
	g := listOnlyGraph{newGraph(t, "p.x -> q", "q -> r")}
	got, err := FindShortestChains(g, "p", "r", Options{AsPackages: true})
	if err != nil {
		t.Fatalf("FindShortestChains: %v", err)
	}
	if want := []string{"p -> q -> r"}; !slices.Equal(chainStrings(got), want) {
		t.Errorf("got %v, want %v", chainStrings(got), want)
	}
}

func TestFindShortestChainsTracing(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	g := newGraph(t, "a -> b", "b -> c", "a -> c")

	if _, err := FindShortestChains(g, "a", "c", Options{AsPackages: true, Logger: logger}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"visit", "target reached", "prune"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	logger.SetLevel(log.InfoLevel)
	_, _ = FindShortestChains(g, "a", "c", Options{AsPackages: true, Logger: logger})
	if buf.Len() != 0 {
		t.Errorf("tracing should be silent above debug level, got %q", buf.String())
	}
}
