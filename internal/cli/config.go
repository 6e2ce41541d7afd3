package cli

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/pipeline"
)

// configFileName is the name of the config file inside configDir.
const configFileName = "config.toml"

// Config is the optional CLI config file:
//
//	[render]
//	formats = ["tikz", "tex"]
//	build = true
//	cleanup = false
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	store = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
// Command-line flags take precedence over the file.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig holds defaults for the render and watch commands.
type RenderConfig struct {
	Formats    []string `toml:"formats"`
	Build      bool     `toml:"build"`
	Cleanup    *bool    `toml:"cleanup"` // unset keeps the flag default (true)
	Quiet      bool     `toml:"quiet"`
	StylesPath string   `toml:"styles_path"`
	TeXCommand string   `toml:"tex_command"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend   string `toml:"backend"` // file (default), redis or none
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
}

// ServerConfig holds defaults for the serve command.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	Store         string `toml:"store"` // memory (default), file or mongo
	StoreDir      string `toml:"store_dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// defaultConfig returns the values used when no config file exists.
func defaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Backend:   cacheBackendFile,
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Store: storeMemory,
		},
	}
}

// loadConfig reads the config file at path, or at the default location when
// path is empty. A missing default file yields the defaults; a missing
// explicit file is an error. Unknown keys are rejected.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFileName)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return defaultConfig(), nil
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeUnknownOption,
			"config file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := pipeline.ValidateFormats(cfg.Render.Formats); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "config file %s", path)
	}
	return cfg, nil
}

// applyRenderConfig fills opts from the [render] section for every flag the
// user did not set explicitly.
func applyRenderConfig(cmd *cobra.Command, cfg RenderConfig, opts *pipeline.Options) {
	changed := cmd.Flags().Changed
	if !changed("format") && len(opts.Formats) == 0 {
		opts.Formats = cfg.Formats
	}
	if !changed("build") && cfg.Build {
		opts.Build = true
	}
	if !changed("cleanup") && cfg.Cleanup != nil {
		opts.Cleanup = *cfg.Cleanup
	}
	if !changed("quiet") && cfg.Quiet {
		opts.Quiet = true
	}
	if !changed("styles") && cfg.StylesPath != "" {
		opts.StylesPath = cfg.StylesPath
	}
	if !changed("tex-command") && cfg.TeXCommand != "" {
		opts.TeXCommand = cfg.TeXCommand
	}
}
