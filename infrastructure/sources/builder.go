// ABOUTME: Builds the configured upstream sources, each with its own HTTP client
// ABOUTME: Maps a source kind to its client/extractor implementation

package sources

import (
	"fmt"

	"otakubantu-api/core/interfaces"
	"otakubantu-api/infrastructure/http/standard"
	"otakubantu-api/infrastructure/sources/htmlscrape"
	"otakubantu-api/infrastructure/sources/jsonapi"
	"otakubantu-api/infrastructure/sources/rssfeed"
	"otakubantu-api/pkg/config"
)

// Build creates one Source per config entry. Each source gets a dedicated
// HTTP client so its rate limit and headers never leak into another.
func Build(cfgs []config.SourceConfig, logger interfaces.Logger) ([]interfaces.Source, error) {
	sources := make([]interfaces.Source, 0, len(cfgs))
	for _, cfg := range cfgs {
		src, err := build(cfg, logger)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)

		if logger != nil {
			d := src.Descriptor()
			logger.Info("Configured source", map[string]interface{}{
				"source":   d.Name,
				"role":     string(d.Role),
				"kind":     d.Kind,
				"order":    d.Order,
				"timeout":  d.Timeout.String(),
				"base_url": d.BaseURL,
			})
		}
	}
	return sources, nil
}

func build(cfg config.SourceConfig, logger interfaces.Logger) (interfaces.Source, error) {
	desc := cfg.Descriptor()
	client := newClient(cfg, logger)

	switch cfg.Kind {
	case config.KindJSONAPI:
		return jsonapi.NewSource(desc, client)
	case config.KindHTMLScrape:
		return htmlscrape.NewSource(desc, client)
	case config.KindRSSFeed:
		return rssfeed.NewSource(desc, client)
	}
	return nil, fmt.Errorf("source %s: unknown kind %q", cfg.Name, cfg.Kind)
}

func newClient(cfg config.SourceConfig, logger interfaces.Logger) *standard.StandardHTTPClient {
	opts := []standard.Option{
		standard.WithRateLimit(cfg.RPS, cfg.Burst),
		standard.WithUserAgent(cfg.UserAgent),
		standard.WithLogger(logger, cfg.Name),
	}
	if cfg.Referer != "" {
		opts = append(opts, standard.WithHeader("Referer", cfg.Referer))
	}
	// the resolver bounds each attempt; this is a backstop for abandoned fetches
	return standard.NewStandardHTTPClient(2*cfg.Descriptor().Timeout, opts...)
}
