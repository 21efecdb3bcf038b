// ABOUTME: Upstream source configuration loaded from YAML or environment variables
// ABOUTME: Describes each provider's role, format, base URL, timeout and politeness limits

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"otakubantu-api/core/domain"

	"gopkg.in/yaml.v3"
)

// Source kinds understood by the source builder
const (
	KindJSONAPI    = "jsonapi"
	KindHTMLScrape = "htmlscrape"
	KindRSSFeed    = "rssfeed"
)

// DefaultSourceTimeout bounds a single source attempt when none is configured
const DefaultSourceTimeout = 5 * time.Second

// SourceConfig describes one upstream provider
type SourceConfig struct {
	Name      string        `yaml:"name"`
	Role      string        `yaml:"role"`
	Kind      string        `yaml:"kind"`
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	Order     int           `yaml:"order"`
	RPS       float64       `yaml:"rps"`
	Burst     int           `yaml:"burst"`
	UserAgent string        `yaml:"user_agent"`
	Referer   string        `yaml:"referer"`
}

type sourcesFile struct {
	Sources []SourceConfig `yaml:"sources"`
}

// Descriptor converts the config entry into the domain descriptor
func (s SourceConfig) Descriptor() domain.SourceDescriptor {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = DefaultSourceTimeout
	}
	return domain.SourceDescriptor{
		Name:    s.Name,
		Role:    domain.SourceRole(s.Role),
		Timeout: timeout,
		Order:   s.Order,
		BaseURL: strings.TrimRight(s.BaseURL, "/"),
		Kind:    s.Kind,
	}
}

// LoadSourcesFile reads the source list from a YAML file:
//
//	sources:
//	  - name: consumet
//	    role: primary
//	    kind: jsonapi
//	    base_url: https://api.consumet.org/anime/gogoanime
//	    timeout: 5s
func LoadSourcesFile(path string) ([]SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}
	return ParseSources(data)
}

// ParseSources decodes a YAML source list
func ParseSources(data []byte) ([]SourceConfig, error) {
	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}
	return file.Sources, nil
}

// sourcesFromEnv builds the default chain: one primary JSON API, optional
// mirrors, optional scrape fallbacks and an optional release feed
func sourcesFromEnv() []SourceConfig {
	timeout := getEnvAsDurationOrDefault("SOURCE_TIMEOUT", DefaultSourceTimeout)

	sources := []SourceConfig{{
		Name:    "primary",
		Role:    string(domain.RolePrimary),
		Kind:    KindJSONAPI,
		BaseURL: getEnvOrDefault("PRIMARY_BASE_URL", "https://api.consumet.org/anime/gogoanime"),
		Timeout: timeout,
	}}

	for i, u := range splitList(os.Getenv("MIRROR_BASE_URLS")) {
		sources = append(sources, SourceConfig{
			Name:    fmt.Sprintf("mirror-%d", i+1),
			Role:    string(domain.RoleMirror),
			Kind:    KindJSONAPI,
			BaseURL: u,
			Timeout: timeout,
			Order:   i,
		})
	}

	order := 0
	for i, u := range splitList(os.Getenv("SCRAPE_BASE_URLS")) {
		sources = append(sources, SourceConfig{
			Name:    fmt.Sprintf("scrape-%d", i+1),
			Role:    string(domain.RoleScrapeFallback),
			Kind:    KindHTMLScrape,
			BaseURL: u,
			Timeout: timeout,
			Order:   order,
			RPS:     1,
			Burst:   2,
		})
		order++
	}

	if feed := os.Getenv("RELEASE_FEED_URL"); feed != "" {
		sources = append(sources, SourceConfig{
			Name:    "release-feed",
			Role:    string(domain.RoleScrapeFallback),
			Kind:    KindRSSFeed,
			BaseURL: feed,
			Timeout: timeout,
			Order:   order,
		})
	}

	return sources
}

// ValidateSources checks kinds and URLs, then the ordering invariants of
// the whole set
func ValidateSources(sources []SourceConfig) error {
	descriptors := make([]domain.SourceDescriptor, 0, len(sources))
	for _, s := range sources {
		switch s.Kind {
		case KindJSONAPI, KindHTMLScrape, KindRSSFeed:
		default:
			return fmt.Errorf("source %s: unknown kind %q", s.Name, s.Kind)
		}
		if s.BaseURL == "" {
			return fmt.Errorf("source %s: base_url cannot be empty", s.Name)
		}
		if s.RPS < 0 {
			return fmt.Errorf("source %s: rps cannot be negative", s.Name)
		}
		descriptors = append(descriptors, s.Descriptor())
	}

	return domain.ValidateDescriptors(descriptors)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
