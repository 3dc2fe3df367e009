package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/importchain/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "importchain")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, "importchain"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheFlagsOpen(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	logger := newLogger(&strings.Builder{}, LogInfo)
	ctx := context.Background()

	tests := []struct {
		name  string
		flags cacheFlags
		check func(t *testing.T, c cache.Cache)
	}{
		{
			name:  "disabled",
			flags: cacheFlags{noCache: true},
			check: func(t *testing.T, c cache.Cache) {
				if _, ok := c.(cache.NullCache); !ok {
					t.Errorf("got %T, want NullCache", c)
				}
			},
		},
		{
			name:  "local",
			flags: cacheFlags{},
			check: func(t *testing.T, c cache.Cache) {
				fc, ok := c.(*cache.FileCache)
				if !ok {
					t.Fatalf("got %T, want *FileCache", c)
				}
				if !strings.HasSuffix(fc.Dir(), "importchain") {
					t.Errorf("Dir() = %q", fc.Dir())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.flags.open(ctx, logger)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer c.Close()
			tt.check(t, c)
		})
	}
}
