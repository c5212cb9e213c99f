// Package koanf loads run configuration: compiled-in defaults overlaid
// with an optional YAML file and COMPHY_SEARCH_* environment variables.
package koanf

import (
	"os"
	"strings"

	comphysearch "github.com/comphy-lab/comphy-search"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces environment overrides, e.g.
// COMPHY_SEARCH_OUTPUT=dist/search_db.json.
const envPrefix = "COMPHY_SEARCH_"

// Load builds the run configuration. A missing config file is not an
// error (defaults apply); an unreadable or invalid one is EINVALID and
// fatal, since determinism cannot be guaranteed with bad configuration.
func Load(path string) (*comphysearch.Config, error) {
	k := koanf.New(".")

	cfg := comphysearch.DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, comphysearch.Errorf(comphysearch.EINVALID,
					"reading config %s: %v", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, comphysearch.Errorf(comphysearch.EINVALID,
				"accessing config %s: %v", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, comphysearch.Errorf(comphysearch.EINVALID,
			"loading env overrides: %v", err)
	}

	// A repositories list in the file replaces the compiled-in registry
	// rather than merging with it entry-by-entry.
	if k.Exists("repositories") {
		cfg.Repositories = nil
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, comphysearch.Errorf(comphysearch.EINVALID,
			"unmarshalling config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
