// Package config holds the settings shared by the mapview commands.
package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Keys understood in the config file and as MAPVIEW_<KEY> environment
// variables.
const (
	KeyVerbose    = "verbose"
	KeyOutput     = "output"
	KeyCategories = "categories"
	KeyDemangle   = "demangle"
	KeyJobs       = "jobs"
)

type Config struct {
	Verbose bool   `mapstructure:"verbose"`
	Output  string `mapstructure:"output"`
	// Categories seed the column order of the exported size matrix. Region
	// names found in the maps are merged around them.
	Categories []string `mapstructure:"categories"`
	Demangle   bool     `mapstructure:"demangle"`
	Jobs       int      `mapstructure:"jobs"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Output:     "mappings.csv",
		Categories: []string{".text", ".data", ".rodata", ".heap", ".stack", ".bss"},
		Demangle:   true,
		Jobs:       4,
	}
}

// SetDefaults registers Default with v so unset keys fall back to it.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyVerbose, d.Verbose)
	v.SetDefault(KeyOutput, d.Output)
	v.SetDefault(KeyCategories, d.Categories)
	v.SetDefault(KeyDemangle, d.Demangle)
	v.SetDefault(KeyJobs, d.Jobs)
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if c.Jobs < 1 {
		return Config{}, errors.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.Output == "" {
		return Config{}, errors.New("output must not be empty")
	}
	return c, nil
}
