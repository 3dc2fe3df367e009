package contract

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/importchain/pkg/cache"
	apperrors "github.com/matzehuels/importchain/pkg/errors"
	"github.com/matzehuels/importchain/pkg/importgraph"
)

// Contract types.
const (
	TypeForbidden = "forbidden"
	TypeLayers    = "layers"
)

// Config is a parsed contract file.
type Config struct {
	Name      string     `toml:"name" json:"name,omitempty"`
	Contracts []Contract `toml:"contracts" json:"contracts"`
}

// Contract is one rule. Which fields apply depends on Type.
type Contract struct {
	Name string `toml:"name" json:"name"`
	Type string `toml:"type" json:"type"`

	// forbidden
	SourceModules    []string `toml:"source_modules" json:"source_modules,omitempty"`
	ForbiddenModules []string `toml:"forbidden_modules" json:"forbidden_modules,omitempty"`

	// layers, high to low
	Layers     []string `toml:"layers" json:"layers,omitempty"`
	Containers []string `toml:"containers" json:"containers,omitempty"`

	// AsPackages defaults to true.
	AsPackages *bool `toml:"as_packages" json:"as_packages,omitempty"`
	MaxDepth   int   `toml:"max_depth" json:"max_depth,omitempty"`

	// IgnoreImports lists direct imports, "importer -> imported", that are
	// removed from the graph before this contract is checked.
	IgnoreImports []string `toml:"ignore_imports" json:"ignore_imports,omitempty"`
}

// Load reads and validates a contract file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeNotFound, err, "open %s", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates contract TOML from r.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidContract, err, "parse contract TOML")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidContract, "unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every contract is well formed. It does not look at
// any graph.
func (c *Config) Validate() error {
	if len(c.Contracts) == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidContract, "no contracts defined")
	}
	seen := make(map[string]bool, len(c.Contracts))
	for i := range c.Contracts {
		ct := &c.Contracts[i]
		if ct.Name == "" {
			return apperrors.New(apperrors.ErrCodeInvalidContract, "contract %d has no name", i+1)
		}
		if seen[ct.Name] {
			return apperrors.New(apperrors.ErrCodeInvalidContract, "duplicate contract name %q", ct.Name)
		}
		seen[ct.Name] = true
		if err := ct.validate(); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidContract, err, "contract %q", ct.Name)
		}
	}
	return nil
}

func (ct *Contract) validate() error {
	if ct.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative")
	}
	for _, s := range ct.IgnoreImports {
		if _, err := ParseImport(s); err != nil {
			return err
		}
	}

	switch ct.Type {
	case TypeForbidden:
		if len(ct.SourceModules) == 0 || len(ct.ForbiddenModules) == 0 {
			return fmt.Errorf("forbidden contracts need source_modules and forbidden_modules")
		}
		for _, src := range ct.SourceModules {
			for _, dst := range ct.ForbiddenModules {
				if err := apperrors.ValidateEndpoints(src, dst); err != nil {
					return err
				}
				if overlaps(src, dst) {
					return fmt.Errorf("modules %q and %q overlap", src, dst)
				}
			}
		}
	case TypeLayers:
		if len(ct.Layers) < 2 {
			return fmt.Errorf("layers contracts need at least two layers")
		}
		for _, l := range ct.Layers {
			if err := apperrors.ValidateModuleID(l); err != nil {
				return err
			}
		}
		for _, c := range ct.Containers {
			if err := apperrors.ValidateModuleID(c); err != nil {
				return err
			}
		}
		for i, a := range ct.Layers {
			for _, b := range ct.Layers[i+1:] {
				if a == b || overlaps(a, b) {
					return fmt.Errorf("layers %q and %q overlap", a, b)
				}
			}
		}
	case "":
		return fmt.Errorf("missing type")
	default:
		return fmt.Errorf("unknown type %q", ct.Type)
	}
	return nil
}

// asPackages reports the effective as_packages setting.
func (ct *Contract) asPackages() bool {
	return ct.AsPackages == nil || *ct.AsPackages
}

// Hash returns a content hash of the configuration for cache keys.
func (c *Config) Hash() string {
	data, _ := json.Marshal(c)
	return cache.Hash(data)
}

// Import is a parsed "importer -> imported" expression.
type Import struct {
	Importer string
	Imported string
}

func (i Import) String() string { return i.Importer + " -> " + i.Imported }

// ParseImport parses "importer -> imported".
func ParseImport(s string) (Import, error) {
	from, to, ok := strings.Cut(s, "->")
	if !ok {
		return Import{}, fmt.Errorf("ignore_imports entry %q: want \"importer -> imported\"", s)
	}
	imp := Import{Importer: strings.TrimSpace(from), Imported: strings.TrimSpace(to)}
	if err := apperrors.ValidateEndpoints(imp.Importer, imp.Imported); err != nil {
		return Import{}, fmt.Errorf("ignore_imports entry %q: %w", s, err)
	}
	return imp, nil
}

// overlaps reports whether one module contains the other.
func overlaps(a, b string) bool {
	return strings.HasPrefix(a, b+importgraph.Separator) || strings.HasPrefix(b, a+importgraph.Separator)
}
