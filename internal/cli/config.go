package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/erdlayout/pkg/cache"
	"github.com/matzehuels/erdlayout/pkg/layout"
	"github.com/matzehuels/erdlayout/pkg/pipeline"
	"github.com/matzehuels/erdlayout/pkg/server"
)

// Config is the optional configuration file given with --config.
//
//	[layout]
//	horizontal_gap = 80
//	vertical_gap = 120
//	ordering_iterations = 24
//
//	[container]
//	top = 40
//	bottom = 20
//	left = 20
//	right = 20
//
//	[cache]
//	backend = "redis"
//	prefix = "erd:"
//	redis = { addr = "localhost:6379" }
//
//	[server]
//	addr = ":9090"
//	request_timeout = "30s"
//
// Command-line flags override file values.
type Config struct {
	Layout    layout.Config  `toml:"layout"`
	Container *layout.Insets `toml:"container"`
	Cache     cache.Config   `toml:"cache"`
	Server    server.Config  `toml:"server"`
}

// loadConfig reads the configuration file at path. An empty path yields
// the zero Config.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("read config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// apply copies layout settings from the file into opts, leaving values
// already set by flags alone.
func (c Config) apply(opts *pipeline.Options) {
	if opts.HorizontalGap == 0 {
		opts.HorizontalGap = c.Layout.HorizontalGap
	}
	if opts.VerticalGap == 0 {
		opts.VerticalGap = c.Layout.VerticalGap
	}
	if opts.OrderingIterations == 0 {
		opts.OrderingIterations = c.Layout.OrderingIterations
	}
	if opts.Insets == nil && c.Container != nil {
		insets := *c.Container
		opts.Insets = &insets
	}
}

// cacheConfig returns the cache settings, falling back to the file cache
// under the user cache directory when the file names no backend.
func (c Config) cacheConfig() cache.Config {
	cfg := c.Cache
	if cfg.Backend == "" && cfg.Dir == "" {
		if dir, err := cacheDir(); err == nil {
			cfg.Dir = dir
		}
	}
	return cfg
}
