package contract

import (
	"time"

	"github.com/matzehuels/importchain/pkg/chains"
)

// Report is the outcome of checking a [Config].
type Report struct {
	Name      string        `json:"name,omitempty"`
	Results   []Result      `json:"results"`
	Duration  time.Duration `json:"duration"`
	Modules   int           `json:"modules"`
	Imports   int           `json:"imports"`
	GraphHash string        `json:"graph_hash,omitempty"`
}

// Result is the outcome of one contract.
type Result struct {
	Contract   string        `json:"contract"`
	Type       string        `json:"type"`
	Violations []Violation   `json:"violations,omitempty"`
	Warnings   []string      `json:"warnings,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Kept reports whether the contract has no violations.
func (r Result) Kept() bool { return len(r.Violations) == 0 }

// Violation is a forbidden dependency from Importer to Imported, with
// every shortest chain that realizes it.
type Violation struct {
	Importer string      `json:"importer"`
	Imported string      `json:"imported"`
	Chains   *chains.Set `json:"chains"`
}

// Kept reports whether every contract was kept.
func (r *Report) Kept() bool {
	for _, res := range r.Results {
		if !res.Kept() {
			return false
		}
	}
	return true
}

// Counts returns the number of kept and broken contracts.
func (r *Report) Counts() (kept, broken int) {
	for _, res := range r.Results {
		if res.Kept() {
			kept++
		} else {
			broken++
		}
	}
	return kept, broken
}
