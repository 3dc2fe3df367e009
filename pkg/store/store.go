// Package store persists import graph snapshots.
//
// A snapshot is an immutable copy of a graph plus its content hash. The
// HTTP API uploads graphs as snapshots and answers chain queries against
// them by ID. Backends:
//   - [MemoryStore]: in-process, for tests and single-instance servers
//   - [MongoStore]: MongoDB collection, for shared deployments
//
// Saving a graph whose hash is already stored returns the existing
// snapshot instead of a duplicate.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/importchain/pkg/importgraph"
	gio "github.com/matzehuels/importchain/pkg/io"
)

// ErrNotFound is returned when a snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a stored import graph.
type Snapshot struct {
	ID        string      `json:"id" bson:"_id"`
	Name      string      `json:"name,omitempty" bson:"name,omitempty"`
	GraphHash string      `json:"graph_hash" bson:"graph_hash"`
	Modules   []string    `json:"modules" bson:"modules"`
	Imports   []ImportDoc `json:"imports" bson:"imports"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// ImportDoc is the stored form of one import.
type ImportDoc struct {
	Importer    string         `json:"importer" bson:"importer"`
	Imported    string         `json:"imported" bson:"imported"`
	LineNumbers []int          `json:"line_numbers,omitempty" bson:"line_numbers,omitempty"`
	Meta        map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// NewSnapshot captures g under a fresh ID.
func NewSnapshot(name string, g *importgraph.Graph) *Snapshot {
	s := &Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		GraphHash: gio.Hash(g),
		Modules:   g.Modules(),
		CreatedAt: time.Now().UTC(),
	}
	for _, imp := range g.Imports() {
		doc := ImportDoc{
			Importer:    imp.Importer,
			Imported:    imp.Imported,
			LineNumbers: gio.LineNumbers(imp.Meta),
		}
		delete(imp.Meta, gio.MetaLineNumbers)
		if len(imp.Meta) > 0 {
			doc.Meta = imp.Meta
		}
		s.Imports = append(s.Imports, doc)
	}
	return s
}

// Graph rebuilds the import graph held by the snapshot.
func (s *Snapshot) Graph() (*importgraph.Graph, error) {
	g := importgraph.New()
	for _, id := range s.Modules {
		if err := g.AddModule(id); err != nil {
			return nil, err
		}
	}
	for _, doc := range s.Imports {
		meta := importgraph.Metadata{}
		for k, v := range doc.Meta {
			meta[k] = v
		}
		if len(doc.LineNumbers) > 0 {
			meta[gio.MetaLineNumbers] = doc.LineNumbers
		}
		if err := g.AddImport(importgraph.Import{Importer: doc.Importer, Imported: doc.Imported, Meta: meta}); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// GraphStore is the interface for snapshot storage backends.
type GraphStore interface {
	// Save stores s. If a snapshot with the same GraphHash exists, Save
	// returns that one and s is discarded.
	Save(ctx context.Context, s *Snapshot) (*Snapshot, error)

	// Load returns the snapshot with the given ID, or ErrNotFound.
	Load(ctx context.Context, id string) (*Snapshot, error)

	// Delete removes a snapshot. Deleting a missing snapshot returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
