package resources

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/bazaarlabs/bazaar/internal/sieve"
)

// override is one [resource] table in the overrides file. Zero values leave
// the built-in setting untouched.
type override struct {
	MaxPageSize     int    `toml:"max_page_size"`
	DefaultPageSize int    `toml:"default_page_size"`
	DefaultSort     string `toml:"default_sort"` // sorts grammar, e.g. "-price"
}

// Load builds the default registry, optionally adjusted by a TOML overrides
// file:
//
//	[products]
//	max_page_size = 200
//	default_sort = "-price"
//
// An empty path returns the defaults. Overrides naming unknown resources or
// producing invalid configs fail at startup.
func Load(path string) (*Registry, error) {
	configs := defaultConfigs()
	if path == "" {
		return New(configs...)
	}

	overrides := make(map[string]override)
	if _, err := toml.DecodeFile(path, &overrides); err != nil {
		return nil, fmt.Errorf("parse resources file %s: %w", path, err)
	}

	byName := make(map[string]*sieve.ResourceConfig, len(configs))
	for _, cfg := range configs {
		byName[cfg.Resource] = cfg
	}

	for name, ov := range overrides {
		cfg, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("resources file %s: unknown resource %q", path, name)
		}
		if ov.MaxPageSize > 0 {
			cfg.MaxPageSize = ov.MaxPageSize
		}
		if ov.DefaultPageSize > 0 {
			cfg.DefaultPageSize = ov.DefaultPageSize
		}
		if ov.DefaultSort != "" {
			cfg.DefaultSort = parseSortToken(ov.DefaultSort)
		}
	}

	return New(configs...)
}

func parseSortToken(token string) sieve.SortField {
	if strings.HasPrefix(token, "-") {
		return sieve.SortField{Field: token[1:], Direction: sieve.DirectionDesc}
	}
	return sieve.SortField{Field: token, Direction: sieve.DirectionAsc}
}
