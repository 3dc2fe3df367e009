package contract

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/importchain/pkg/chains"
	apperrors "github.com/matzehuels/importchain/pkg/errors"
	"github.com/matzehuels/importchain/pkg/importgraph"
	"github.com/matzehuels/importchain/pkg/observability"
)

// Checker runs contracts against a graph.
type Checker struct {
	// Workers bounds concurrent chain searches per contract.
	// Zero uses GOMAXPROCS.
	Workers int
	// Logger receives progress and warnings. Nil discards them.
	Logger *log.Logger
}

// Check runs every contract in cfg against g with default settings.
func Check(ctx context.Context, g *importgraph.Graph, cfg *Config) (*Report, error) {
	return (&Checker{}).Check(ctx, g, cfg)
}

// Check runs every contract in cfg against g in declaration order.
// g is not modified; contracts with ignore_imports work on a copy.
//
// A contract naming a module that is absent from g fails the whole check
// with INVALID_CONTRACT. Graph errors abort the check unchanged.
func (c *Checker) Check(ctx context.Context, g *importgraph.Graph, cfg *Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := c.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	start := time.Now()
	report := &Report{
		Name:    cfg.Name,
		Modules: g.ModuleCount(),
		Imports: g.ImportCount(),
	}
	for i := range cfg.Contracts {
		ct := &cfg.Contracts[i]
		res, err := c.checkOne(ctx, g, ct, logger)
		if err != nil {
			return nil, err
		}
		observability.Search().OnContractChecked(ctx, ct.Name, res.Kept(), len(res.Violations), res.Duration)
		logger.Debug("contract checked", "contract", ct.Name, "kept", res.Kept(), "violations", len(res.Violations))
		report.Results = append(report.Results, res)
	}
	report.Duration = time.Since(start)
	return report, nil
}

func (c *Checker) checkOne(ctx context.Context, g *importgraph.Graph, ct *Contract, logger *log.Logger) (Result, error) {
	start := time.Now()
	res := Result{Contract: ct.Name, Type: ct.Type}

	target := g
	if len(ct.IgnoreImports) > 0 {
		target = g.Clone()
		for _, s := range ct.IgnoreImports {
			imp, _ := ParseImport(s)
			if !target.DirectImportExists(imp.Importer, imp.Imported) {
				res.Warnings = append(res.Warnings, "ignored import "+imp.String()+" not in graph")
				logger.Warn("ignored import not in graph", "contract", ct.Name, "import", imp.String())
				continue
			}
			target.RemoveImport(imp.Importer, imp.Imported)
		}
	}

	pairs, err := pairsFor(target, ct)
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.ErrCodeInvalidContract, err, "contract %q", ct.Name)
	}

	opts := chains.Options{AsPackages: ct.asPackages(), MaxDepth: ct.MaxDepth}
	queries := make([]chains.Query, len(pairs))
	for i, p := range pairs {
		queries[i] = chains.Query{Importer: p.Importer, Imported: p.Imported, Options: opts}
	}
	results, err := chains.FindAll(ctx, target, queries, c.Workers)
	if err != nil {
		return Result{}, err
	}
	for _, r := range results {
		if r.Chains.Empty() {
			continue
		}
		res.Violations = append(res.Violations, Violation{
			Importer: r.Query.Importer,
			Imported: r.Query.Imported,
			Chains:   r.Chains,
		})
	}
	res.Duration = time.Since(start)
	return res, nil
}

// pairsFor lists the (importer, imported) pairs that must not be connected.
func pairsFor(g *importgraph.Graph, ct *Contract) ([]Import, error) {
	var pairs []Import
	switch ct.Type {
	case TypeForbidden:
		for _, src := range ct.SourceModules {
			if err := requireModule(g, src, ct.asPackages()); err != nil {
				return nil, err
			}
		}
		for _, src := range ct.SourceModules {
			for _, forbidden := range ct.ForbiddenModules {
				// Forbidden modules need not exist: that only means they are never reached.
				for _, dst := range targets(g, forbidden, ct.asPackages()) {
					pairs = append(pairs, Import{Importer: src, Imported: dst})
				}
			}
		}
	case TypeLayers:
		containers := ct.Containers
		if len(containers) == 0 {
			containers = []string{""}
		}
		for _, container := range containers {
			layers := make([]string, len(ct.Layers))
			for i, l := range ct.Layers {
				layers[i] = qualify(container, l)
				if err := requireModule(g, layers[i], ct.asPackages()); err != nil {
					return nil, err
				}
			}
			for hi := range layers {
				for lo := hi + 1; lo < len(layers); lo++ {
					for _, dst := range targets(g, layers[hi], ct.asPackages()) {
						pairs = append(pairs, Import{Importer: layers[lo], Imported: dst})
					}
				}
			}
		}
	}
	return pairs, nil
}

// targets returns the concrete modules a chain into id may end at. Chains
// only end on exact identifiers, so a package stands for all its modules.
func targets(g *importgraph.Graph, id string, asPackages bool) []string {
	var out []string
	if g.ContainsModule(id) {
		out = append(out, id)
	}
	if asPackages {
		desc, _ := g.Descendants(id)
		out = append(out, desc...)
	}
	return out
}

func qualify(container, layer string) string {
	if container == "" {
		return layer
	}
	return container + importgraph.Separator + layer
}

func requireModule(g *importgraph.Graph, id string, asPackages bool) error {
	if g.ContainsModule(id) {
		return nil
	}
	if asPackages {
		if desc, _ := g.Descendants(id); len(desc) > 0 {
			return nil
		}
	}
	return apperrors.New(apperrors.ErrCodeUnknownModule, "module %q is not in the graph", id)
}
