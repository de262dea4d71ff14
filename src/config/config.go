// Package config loads tuvxplot settings from defaults, an optional YAML file
// and TUVXPLOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/iafilius/TUVxPlots/src/analysis"
	"github.com/iafilius/TUVxPlots/src/charts"
	"github.com/iafilius/TUVxPlots/src/logging"
	"github.com/iafilius/TUVxPlots/src/table"
)

// EnvPrefix prefixes every environment override, e.g. TUVXPLOT_ENERGY_WARN_PCT.
const EnvPrefix = "TUVXPLOT"

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "tuvxplot.yaml"

type BeerLambert struct {
	TolerancePct      float64 `mapstructure:"tolerance_pct" yaml:"tolerance_pct"`
	PrecisionFloorPct float64 `mapstructure:"precision_floor_pct" yaml:"precision_floor_pct"`
}

type Energy struct {
	WarnPct float64 `mapstructure:"warn_pct" yaml:"warn_pct"`
	FailPct float64 `mapstructure:"fail_pct" yaml:"fail_pct"`
}

// Config is the effective configuration.
type Config struct {
	LogLevel        string      `mapstructure:"log_level" yaml:"log_level"`
	Parallel        int         `mapstructure:"parallel" yaml:"parallel"`
	PanelWidth      int         `mapstructure:"panel_width" yaml:"panel_width"`
	PanelHeight     int         `mapstructure:"panel_height" yaml:"panel_height"`
	DPI             float64     `mapstructure:"dpi" yaml:"dpi"`
	FontSize        float64     `mapstructure:"font_size" yaml:"font_size"`
	NoisePrefixes   []string    `mapstructure:"noise_prefixes" yaml:"noise_prefixes"`
	Comparison      string      `mapstructure:"comparison" yaml:"comparison"`
	ReferenceMargin float64     `mapstructure:"reference_margin" yaml:"reference_margin"`
	BeerLambert     BeerLambert `mapstructure:"beer_lambert" yaml:"beer_lambert"`
	Energy          Energy      `mapstructure:"energy" yaml:"energy"`

	// File is the config file that was read, empty when none.
	File string `mapstructure:"-" yaml:"-"`
}

func setDefaults(v *viper.Viper) {
	th := charts.DefaultTheme()
	v.SetDefault("log_level", "info")
	v.SetDefault("parallel", 1)
	v.SetDefault("panel_width", th.PanelWidth)
	v.SetDefault("panel_height", th.PanelHeight)
	v.SetDefault("dpi", th.DPI)
	v.SetDefault("font_size", th.FontSize)
	v.SetDefault("noise_prefixes", table.DefaultNoisePrefixes)
	v.SetDefault("comparison", analysis.LessThan.String())
	v.SetDefault("reference_margin", analysis.ReferenceMargin)
	v.SetDefault("beer_lambert.tolerance_pct", analysis.DefaultTolerancePct)
	v.SetDefault("beer_lambert.precision_floor_pct", analysis.DefaultPrecisionFloorPct)
	v.SetDefault("energy.warn_pct", analysis.DefaultEnergyWarnPct)
	v.SetDefault("energy.fail_pct", analysis.DefaultEnergyFailPct)
}

// Load resolves the configuration. Precedence: env > config file > defaults.
// An explicit cfgFile must exist; the implicit ./tuvxplot.yaml is optional.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(strings.TrimSuffix(DefaultFile, ".yaml"))
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.File = v.ConfigFileUsed()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.File != "" {
		logging.Debugf("config loaded from %s", c.File)
	}
	return &c, nil
}

// Validate rejects settings the renderers cannot honour.
func (c *Config) Validate() error {
	var errs []error
	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level %q: want debug, info, warn or error", c.LogLevel))
	}
	if c.Parallel < 0 {
		errs = append(errs, fmt.Errorf("parallel must be >= 0, got %d", c.Parallel))
	}
	if _, err := analysis.ParseComparison(c.Comparison); err != nil {
		errs = append(errs, err)
	}
	if c.BeerLambert.TolerancePct <= 0 {
		errs = append(errs, fmt.Errorf("beer_lambert.tolerance_pct must be positive"))
	}
	if c.BeerLambert.PrecisionFloorPct <= 0 {
		errs = append(errs, fmt.Errorf("beer_lambert.precision_floor_pct must be positive"))
	}
	if c.Energy.WarnPct <= 0 || c.Energy.FailPct < c.Energy.WarnPct {
		errs = append(errs, fmt.Errorf("energy thresholds need 0 < warn_pct <= fail_pct, got %g/%g", c.Energy.WarnPct, c.Energy.FailPct))
	}
	if c.ReferenceMargin < 1 {
		errs = append(errs, fmt.Errorf("reference_margin must be >= 1, got %g", c.ReferenceMargin))
	}
	return errors.Join(errs...)
}

// Settings converts the thresholds into the analysis form.
func (c *Config) Settings() analysis.Settings {
	cmp, _ := analysis.ParseComparison(c.Comparison)
	th := analysis.DefaultThresholds(cmp)
	bl := th[analysis.BeerLambert]
	bl.Warn, bl.Fail = c.BeerLambert.TolerancePct, c.BeerLambert.TolerancePct
	th[analysis.BeerLambert] = bl
	ec := th[analysis.EnergyConservation]
	ec.Warn, ec.Fail = c.Energy.WarnPct, c.Energy.FailPct
	th[analysis.EnergyConservation] = ec
	return analysis.Settings{
		Thresholds:        th,
		PrecisionFloorPct: c.BeerLambert.PrecisionFloorPct,
		ReferenceMargin:   c.ReferenceMargin,
	}
}

// Theme applies the size and font overrides to the default theme.
func (c *Config) Theme() charts.Theme {
	th := charts.DefaultTheme()
	th.PanelWidth = c.PanelWidth
	th.PanelHeight = c.PanelHeight
	th.DPI = c.DPI
	if c.FontSize > 0 {
		th.TitleFontSize = th.TitleFontSize * c.FontSize / th.FontSize
		th.FontSize = c.FontSize
	}
	return th.Normalize()
}

// TableOptions returns the ingestion options.
func (c *Config) TableOptions() table.Options {
	o := table.DefaultOptions()
	if c.NoisePrefixes != nil {
		o.NoisePrefixes = c.NoisePrefixes
	}
	return o
}

// Dump writes c as YAML.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Save writes c to path as YAML.
func Save(c *Config, path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
