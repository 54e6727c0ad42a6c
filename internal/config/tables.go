package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/deusflow/mediamon/internal/classify"
	"github.com/deusflow/mediamon/internal/news"
	"github.com/deusflow/mediamon/internal/scoring"
)

//go:embed tables.yaml
var defaultTables []byte

// Tables is the YAML layout of the static lookup tables.
type Tables struct {
	PublicationDomains map[string][]string `yaml:"publication_domains"`
	Authority          []struct {
		Match string  `yaml:"match"`
		Score float64 `yaml:"score"`
	} `yaml:"authority"`
	Tiers struct {
		Top   []string `yaml:"top"`
		Mid   []string `yaml:"mid"`
		Trade []string `yaml:"trade"`
	} `yaml:"tiers"`
}

// Lookups are the decoded, read-only tables handed to the pipeline.
type Lookups struct {
	Domains   news.DomainMap
	Authority *scoring.AuthorityTable
	Tiers     *classify.TierTable
}

// LoadTables reads tables from path, or the embedded defaults when path is empty.
func LoadTables(path string) (*Lookups, error) {
	raw := defaultTables
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read tables: %w", err)
		}
		raw = b
	}
	return ParseTables(raw)
}

func ParseTables(raw []byte) (*Lookups, error) {
	var t Tables
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}

	domains := make(news.DomainMap, len(t.PublicationDomains))
	for name, ds := range t.PublicationDomains {
		domains[strings.ToLower(strings.TrimSpace(name))] = ds
	}

	entries := make([]scoring.AuthorityEntry, 0, len(t.Authority))
	for _, a := range t.Authority {
		if a.Score < 0 || a.Score > 1 {
			return nil, fmt.Errorf("authority score for %q out of range: %v", a.Match, a.Score)
		}
		entries = append(entries, scoring.AuthorityEntry{Match: a.Match, Score: a.Score})
	}

	return &Lookups{
		Domains:   domains,
		Authority: scoring.NewAuthorityTable(entries),
		Tiers:     classify.NewTierTable(t.Tiers.Top, t.Tiers.Mid, t.Tiers.Trade),
	}, nil
}
