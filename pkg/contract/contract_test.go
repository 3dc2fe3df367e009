package contract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/importchain/pkg/errors"
	"github.com/matzehuels/importchain/pkg/importgraph"
)

func shopGraph(t *testing.T) *importgraph.Graph {
	t.Helper()
	g := importgraph.New()
	for _, e := range [][2]string{
		{"shop.web.views", "shop.orders.service"},
		{"shop.web.health", "shop.db"},
		{"shop.orders.service", "shop.db"},
		{"shop.db", "shop.orders.models"},
	} {
		if err := g.AddImport(importgraph.Import{Importer: e[0], Imported: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func parse(t *testing.T, src string) *Config {
	t.Helper()
	cfg, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cfg
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ``},
		{"bad toml", `[[contracts]`},
		{"unknown key", "[[contracts]]\nname = \"x\"\ntype = \"forbidden\"\nsource_modules = [\"a\"]\nforbidden_modules = [\"b\"]\ncolour = \"red\""},
		{"missing name", "[[contracts]]\ntype = \"forbidden\"\nsource_modules = [\"a\"]\nforbidden_modules = [\"b\"]"},
		{"missing type", "[[contracts]]\nname = \"x\""},
		{"unknown type", "[[contracts]]\nname = \"x\"\ntype = \"independence\""},
		{"forbidden without targets", "[[contracts]]\nname = \"x\"\ntype = \"forbidden\"\nsource_modules = [\"a\"]"},
		{"forbidden self", "[[contracts]]\nname = \"x\"\ntype = \"forbidden\"\nsource_modules = [\"a\"]\nforbidden_modules = [\"a\"]"},
		{"forbidden overlap", "[[contracts]]\nname = \"x\"\ntype = \"forbidden\"\nsource_modules = [\"a\"]\nforbidden_modules = [\"a.b\"]"},
		{"one layer", "[[contracts]]\nname = \"x\"\ntype = \"layers\"\nlayers = [\"a\"]"},
		{"duplicate layer", "[[contracts]]\nname = \"x\"\ntype = \"layers\"\nlayers = [\"a\", \"a\"]"},
		{"bad ignore", "[[contracts]]\nname = \"x\"\ntype = \"layers\"\nlayers = [\"a\", \"b\"]\nignore_imports = [\"a b\"]"},
		{"negative depth", "[[contracts]]\nname = \"x\"\ntype = \"layers\"\nlayers = [\"a\", \"b\"]\nmax_depth = -1"},
		{"duplicate name", "[[contracts]]\nname = \"x\"\ntype = \"layers\"\nlayers = [\"a\", \"b\"]\n[[contracts]]\nname = \"x\"\ntype = \"layers\"\nlayers = [\"a\", \"b\"]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			if !apperrors.Is(err, apperrors.ErrCodeInvalidContract) {
				t.Errorf("Parse() error = %v, want INVALID_CONTRACT", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.toml")
	src := "name = \"shop\"\n[[contracts]]\nname = \"x\"\ntype = \"layers\"\nlayers = [\"a\", \"b\"]\nas_packages = false\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "shop" || len(cfg.Contracts) != 1 || cfg.Contracts[0].asPackages() {
		t.Errorf("Load() = %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !apperrors.Is(err, apperrors.ErrCodeNotFound) {
		t.Errorf("Load(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestCheckForbidden(t *testing.T) {
	g := shopGraph(t)
	cfg := parse(t, `
[[contracts]]
name = "web stays off the database"
type = "forbidden"
source_modules = ["shop.web"]
forbidden_modules = ["shop.db", "requests"]
`)
	report, err := Check(context.Background(), g, cfg)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if report.Kept() {
		t.Fatal("contract should be broken")
	}
	res := report.Results[0]
	if len(res.Violations) != 1 {
		t.Fatalf("violations = %+v", res.Violations)
	}
	v := res.Violations[0]
	if v.Importer != "shop.web" || v.Imported != "shop.db" {
		t.Errorf("violation = %s -> %s", v.Importer, v.Imported)
	}
	// The direct import from shop.web.health wins over the two-hop route.
	if got := v.Chains.Chains(); len(got) != 1 || got[0].String() != "shop.web -> shop.db" {
		t.Errorf("chains = %v", got)
	}
	if report.Modules != g.ModuleCount() || report.Imports != g.ImportCount() {
		t.Errorf("report counts = %d/%d", report.Modules, report.Imports)
	}
}

func TestCheckIgnoreImports(t *testing.T) {
	g := shopGraph(t)
	cfg := parse(t, `
[[contracts]]
name = "web stays off the database"
type = "forbidden"
source_modules = ["shop.web"]
forbidden_modules = ["shop.db"]
ignore_imports = ["shop.web.health -> shop.db", "shop.web -> nowhere"]
`)
	report, err := Check(context.Background(), g, cfg)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	res := report.Results[0]
	if len(res.Violations) != 1 {
		t.Fatalf("violations = %+v", res.Violations)
	}
	if got := res.Violations[0].Chains.Chains(); len(got) != 1 || got[0].String() != "shop.web -> shop.orders.service -> shop.db" {
		t.Errorf("chains = %v", got)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want one for the unmatched ignore", res.Warnings)
	}
	if !g.DirectImportExists("shop.web.health", "shop.db") {
		t.Error("Check must not modify the caller's graph")
	}
}

func TestCheckLayers(t *testing.T) {
	g := shopGraph(t)
	cfg := parse(t, `
[[contracts]]
name = "layered"
type = "layers"
containers = ["shop"]
layers = ["web", "orders", "db"]
`)
	report, err := Check(context.Background(), g, cfg)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	res := report.Results[0]
	if res.Kept() {
		t.Fatal("db -> orders.models breaks the layering")
	}
	if len(res.Violations) != 1 {
		t.Fatalf("violations = %+v", res.Violations)
	}
	v := res.Violations[0]
	if v.Importer != "shop.db" || v.Imported != "shop.orders.models" {
		t.Errorf("violation = %s -> %s", v.Importer, v.Imported)
	}
	kept, broken := report.Counts()
	if kept != 0 || broken != 1 {
		t.Errorf("Counts() = %d, %d", kept, broken)
	}
}

func TestCheckUnknownModule(t *testing.T) {
	cfg := parse(t, `
[[contracts]]
name = "x"
type = "forbidden"
source_modules = ["billing"]
forbidden_modules = ["shop.db"]
`)
	_, err := Check(context.Background(), shopGraph(t), cfg)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidContract) {
		t.Errorf("Check() error = %v, want INVALID_CONTRACT", err)
	}
}

func TestConfigHash(t *testing.T) {
	src := "[[contracts]]\nname = \"x\"\ntype = \"layers\"\nlayers = [\"a\", \"b\"]\n"
	a, b := parse(t, src), parse(t, src)
	if a.Hash() != b.Hash() {
		t.Error("equal configs should hash equally")
	}
	b.Contracts[0].Layers = []string{"b", "a"}
	if a.Hash() == b.Hash() {
		t.Error("layer order should change the hash")
	}
}

func TestParseImport(t *testing.T) {
	imp, err := ParseImport("  a.b ->c ")
	if err != nil {
		t.Fatal(err)
	}
	if imp.Importer != "a.b" || imp.Imported != "c" || imp.String() != "a.b -> c" {
		t.Errorf("ParseImport() = %+v", imp)
	}
	for _, bad := range []string{"a", "a -> a", " -> b"} {
		if _, err := ParseImport(bad); err == nil {
			t.Errorf("ParseImport(%q) should fail", bad)
		}
	}
}
