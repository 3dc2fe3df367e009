// Package io provides JSON import and export for import graphs.
//
// # JSON Format
//
// The format has two top-level arrays:
//
//	{
//	  "modules": [
//	    {"id": "shop"},
//	    {"id": "shop.orders"},
//	    {"id": "shop.db"}
//	  ],
//	  "imports": [
//	    {"importer": "shop.orders", "imported": "shop.db", "line_numbers": [3, 17]}
//	  ]
//	}
//
// Modules that only appear in imports are added implicitly, so "modules"
// is needed only for modules without any imports. Each import may carry
// "line_numbers" (where the import statement occurs) and a freeform "meta"
// object.
//
// # Import
//
// Use [ImportJSON] to read a graph from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	g, err := io.ImportJSON("graph.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Module identifiers are validated with [errors.ValidateModuleID]; the
// first offending module or import is named in the returned error.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write the canonical form: modules and
// imports sorted, line numbers ascending. Re-importing an exported graph
// yields an equal graph.
//
// # Hashing
//
// [Hash] returns a SHA-256 digest of the canonical form. Caches and the
// snapshot store key results by it, so two files describing the same
// graph share cached chains.
//
// [errors.ValidateModuleID]: github.com/matzehuels/importchain/pkg/errors.ValidateModuleID
package io
