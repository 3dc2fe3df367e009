package io

import (
	"encoding/json"
	"io"
	"os"

	apperrors "github.com/matzehuels/importchain/pkg/errors"
	"github.com/matzehuels/importchain/pkg/importgraph"
)

// ReadJSON decodes a JSON graph from r.
//
// ReadJSON returns an INVALID_GRAPH error if the JSON is malformed, if a
// module identifier is invalid, or if an import names the same module on
// both sides. Errors name the module or import that caused the problem.
//
// The returned graph is independent of r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*importgraph.Graph, error) {
	var data graph
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "decode graph")
	}

	g := importgraph.New()
	for _, m := range data.Modules {
		if err := apperrors.ValidateModuleID(m.ID); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "module %q", m.ID)
		}
		if err := g.AddModule(m.ID); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "module %q", m.ID)
		}
	}
	for _, imp := range data.Imports {
		for _, id := range []string{imp.Importer, imp.Imported} {
			if err := apperrors.ValidateModuleID(id); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "import %s -> %s", imp.Importer, imp.Imported)
			}
		}
		meta := importgraph.Metadata{}
		for k, v := range imp.Meta {
			meta[k] = v
		}
		if len(imp.LineNumbers) > 0 {
			meta[MetaLineNumbers] = imp.LineNumbers
		}
		err := g.AddImport(importgraph.Import{
			Importer: imp.Importer,
			Imported: imp.Imported,
			Meta:     meta,
		})
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "import %s -> %s", imp.Importer, imp.Imported)
		}
	}
	return g, nil
}

// ImportJSON reads a JSON graph file at path.
//
// ImportJSON returns the same validation errors as [ReadJSON]; a file that
// cannot be opened is reported as NOT_FOUND or INVALID_INPUT.
func ImportJSON(path string) (*importgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeNotFound, err, "open %s", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
