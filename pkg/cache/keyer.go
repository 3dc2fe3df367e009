package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer generates cache keys. Implementations must be deterministic: equal
// inputs produce equal keys.
type Keyer interface {
	// ChainsKey identifies the result of one shortest-chain search.
	ChainsKey(graphHash string, opts ChainsKeyOpts) string

	// ReportKey identifies the result of checking a contract file.
	ReportKey(graphHash, configHash string) string
}

// ChainsKeyOpts holds the search parameters that affect the result.
type ChainsKeyOpts struct {
	Importer   string `json:"importer"`
	Imported   string `json:"imported"`
	AsPackages bool   `json:"as_packages"`
	MaxDepth   int    `json:"max_depth"`
	Legacy     bool   `json:"legacy,omitempty"`
}

// DefaultKeyer produces keys of the form "type:sha256(parts)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ChainsKey implements Keyer.
func (DefaultKeyer) ChainsKey(graphHash string, opts ChainsKeyOpts) string {
	return digestKey("chains", graphHash, opts)
}

// ReportKey implements Keyer.
func (DefaultKeyer) ReportKey(graphHash, configHash string) string {
	return digestKey("report", graphHash, configHash)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digestKey joins kind and the digest of the JSON-encoded parts with a colon.
// Parts are plain strings and structs, so encoding cannot fail.
func digestKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}
