package io

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/matzehuels/importchain/pkg/importgraph"
)

// MetaLineNumbers is the import metadata key holding source line numbers
// as []int.
const MetaLineNumbers = "line_numbers"

type graph struct {
	Modules []module `json:"modules"`
	Imports []edge   `json:"imports"`
}

type module struct {
	ID string `json:"id"`
}

type edge struct {
	Importer    string               `json:"importer"`
	Imported    string               `json:"imported"`
	LineNumbers []int                `json:"line_numbers,omitempty"`
	Meta        importgraph.Metadata `json:"meta,omitempty"`
}

// WriteJSON encodes g as indented JSON and writes it to w.
// The output is canonical and can be re-imported with [ReadJSON].
func WriteJSON(g *importgraph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(canonical(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *importgraph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Hash returns the hex SHA-256 of the compact canonical encoding of g.
// Graphs with the same modules, imports and metadata hash equally.
func Hash(g *importgraph.Graph) string {
	var buf bytes.Buffer
	// Encoding plain maps and slices cannot fail.
	_ = json.NewEncoder(&buf).Encode(canonical(g))
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}

func canonical(g *importgraph.Graph) graph {
	out := graph{Modules: []module{}, Imports: []edge{}}
	for _, id := range g.Modules() {
		out.Modules = append(out.Modules, module{ID: id})
	}
	for _, imp := range g.Imports() {
		e := edge{Importer: imp.Importer, Imported: imp.Imported}
		if lines := LineNumbers(imp.Meta); len(lines) > 0 {
			e.LineNumbers = lines
		}
		rest := maps.Clone(imp.Meta)
		delete(rest, MetaLineNumbers)
		if len(rest) > 0 {
			e.Meta = rest
		}
		out.Imports = append(out.Imports, e)
	}
	return out
}

// LineNumbers returns the sorted, distinct line numbers stored in meta
// under [MetaLineNumbers]. It accepts []int as well as the []any of
// numbers produced by generic JSON decoding.
func LineNumbers(meta importgraph.Metadata) []int {
	var out []int
	switch lines := meta[MetaLineNumbers].(type) {
	case []int:
		out = slices.Clone(lines)
	case []any:
		for _, l := range lines {
			switch n := l.(type) {
			case float64:
				out = append(out, int(n))
			case int:
				out = append(out, n)
			case int32:
				out = append(out, int(n))
			case int64:
				out = append(out, int(n))
			}
		}
	default:
		return nil
	}
	slices.Sort(out)
	return slices.Compact(out)
}
