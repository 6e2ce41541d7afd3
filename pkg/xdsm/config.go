package xdsm

import (
	"maps"
	"slices"

	"github.com/matzehuels/xdsm/pkg/errors"
)

// Option keys accepted by [ParseOptions].
const (
	OptionUseSFMath = "use_sfmath"

	// optionUseMathFontPackage is a descriptive alias of OptionUseSFMath.
	optionUseMathFontPackage = "use_math_font_package"
)

// Config holds diagram-wide settings.
type Config struct {
	// UseSFMath adds the sfmath package so math labels use a sans-serif font.
	UseSFMath bool `json:"use_sfmath" toml:"use_sfmath" yaml:"use_sfmath"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{UseSFMath: true}
}

// ParseOptions builds a Config from loosely typed key/value pairs, such as the
// [options] table of a definition file. Keys not listed in the allow-list fail
// with ErrCodeUnknownOption; values of the wrong type fail with
// ErrCodeInvalidInput. Keys are checked in sorted order so the reported key
// is stable.
func ParseOptions(opts map[string]any) (Config, error) {
	cfg := DefaultConfig()
	for _, key := range slices.Sorted(maps.Keys(opts)) {
		switch key {
		case OptionUseSFMath, optionUseMathFontPackage:
			v, ok := opts[key].(bool)
			if !ok {
				return Config{}, errors.New(errors.ErrCodeInvalidInput,
					"option %q must be a boolean, got %T", key, opts[key])
			}
			cfg.UseSFMath = v
		default:
			return Config{}, errors.New(errors.ErrCodeUnknownOption, "unknown option %q", key)
		}
	}
	return cfg, nil
}

// OptionalPackages returns the extra LaTeX packages the configuration needs.
func (c Config) OptionalPackages() []string {
	var pkgs []string
	if c.UseSFMath {
		pkgs = append(pkgs, "sfmath")
	}
	return pkgs
}
