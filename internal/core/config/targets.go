package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/steamopera/steamsync/internal/scraper"
	"gopkg.in/yaml.v3"
)

type targetsFile struct {
	Targets []scraper.Target `yaml:"targets"`
}

// LoadTargets reads the list of players to scrape. Entries are kept in file
// order; a SteamID listed twice is rejected.
func LoadTargets(path string) ([]scraper.Target, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}

	var doc targetsFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse targets file %q: %w", path, err)
	}

	seen := make(map[string]struct{}, len(doc.Targets))
	for i, t := range doc.Targets {
		id := strings.TrimSpace(t.SteamID)
		if id == "" {
			return nil, fmt.Errorf("targets[%d]: steam_id is required", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("targets[%d]: duplicate steam_id %q", i, id)
		}
		seen[id] = struct{}{}
		doc.Targets[i].SteamID = id
	}
	return doc.Targets, nil
}
