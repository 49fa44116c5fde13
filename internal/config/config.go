// Package config provides Viper-based configuration loading for the armor optimizer.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/fitness"
	"github.com/cory-johannsen/armor-optimizer/internal/optimizer"
)

// MaxEquipLoadLimit bounds max_equip_load so the DP table stays small.
const MaxEquipLoadLimit = 1000.0

// DefaultCatalogDir is used when neither catalog.dir nor catalog.json is set.
const DefaultCatalogDir = "content/armor"

// OptimizerConfig holds the optimization inputs.
type OptimizerConfig struct {
	// MaxEquipLoad is the character's maximum equip load; must be > 0.
	MaxEquipLoad float64 `mapstructure:"max_equip_load"`
	// CurrentEquipLoad is the weight already carried outside armor (weapons, talismans).
	CurrentEquipLoad float64 `mapstructure:"current_equip_load"`
	// Breakpoint is the roll threshold: 0.3, 0.7 or 1.0.
	Breakpoint float64 `mapstructure:"breakpoint"`
	// Fitness is the criterion key, e.g. "standard", "poise", or "custom".
	Fitness string `mapstructure:"fitness"`
	// Locked maps a slot name to the ID of the piece forced into it.
	Locked map[string]string `mapstructure:"locked"`
	// Ignored lists piece IDs excluded from consideration.
	Ignored []string `mapstructure:"ignored"`
}

// CatalogConfig selects the armor catalog source. Exactly one field must be set.
type CatalogConfig struct {
	// Dir is a directory of armor YAML files.
	Dir string `mapstructure:"dir"`
	// JSON is the path to a community JSON dump.
	JSON string `mapstructure:"json"`
}

// ScriptingConfig holds Lua settings for the custom fitness mode.
type ScriptingConfig struct {
	// FitnessScript is Lua source, or a path to a .lua file.
	FitnessScript string `mapstructure:"fitness_script"`
	// InstructionLimit caps opcodes per evaluation; 0 uses the default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateOptimizer(c.Optimizer, c.Scripting); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCatalog(c.Catalog); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateOptimizer(o OptimizerConfig, s ScriptingConfig) error {
	var errs []string
	if !(o.MaxEquipLoad > 0) || o.MaxEquipLoad > MaxEquipLoadLimit {
		errs = append(errs, fmt.Sprintf("optimizer.max_equip_load must be in (0, %g], got %v", MaxEquipLoadLimit, o.MaxEquipLoad))
	}
	if !(o.CurrentEquipLoad >= 0) {
		errs = append(errs, fmt.Sprintf("optimizer.current_equip_load must be >= 0, got %v", o.CurrentEquipLoad))
	}
	if !optimizer.ValidBreakpoint(o.Breakpoint) {
		errs = append(errs, fmt.Sprintf("optimizer.breakpoint must be one of [0.3, 0.7, 1.0], got %v", o.Breakpoint))
	}

	mode := fitness.ParseMode(o.Fitness)
	switch {
	case mode == fitness.Custom:
		if strings.TrimSpace(s.FitnessScript) == "" {
			errs = append(errs, "optimizer.fitness \"custom\" requires scripting.fitness_script")
		}
	case !fitness.Known(mode):
		msg := fmt.Sprintf("optimizer.fitness %q is not a known criterion", o.Fitness)
		if best, ok := fitness.Suggest(o.Fitness); ok {
			msg += fmt.Sprintf(" (did you mean %q?)", best)
		}
		errs = append(errs, msg)
	}

	for name := range o.Locked {
		if _, ok := armor.ParseSlot(name); !ok {
			errs = append(errs, fmt.Sprintf("optimizer.locked has unknown slot %q", name))
		}
	}
	if s.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateCatalog(c CatalogConfig) error {
	switch {
	case c.Dir == "" && c.JSON == "":
		return errors.New("catalog.dir or catalog.json must be set")
	case c.Dir != "" && c.JSON != "":
		return errors.New("catalog.dir and catalog.json are mutually exclusive")
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Mode returns the parsed fitness criterion.
func (o OptimizerConfig) Mode() fitness.Mode {
	return fitness.ParseMode(o.Fitness)
}

// ToOptimizer converts o into the core's input snapshot. score, when non-nil,
// overrides the built-in criterion (used for the custom mode).
//
// Postcondition: slot aliases are resolved; empty lock entries are dropped.
func (o OptimizerConfig) ToOptimizer(score fitness.Func) optimizer.Config {
	cfg := optimizer.Config{
		MaxEquipLoad:     o.MaxEquipLoad,
		CurrentEquipLoad: o.CurrentEquipLoad,
		Breakpoint:       o.Breakpoint,
		Mode:             o.Mode(),
		Fitness:          score,
		Locked:           make(map[armor.Slot]string, len(o.Locked)),
		Ignored:          make(map[string]struct{}, len(o.Ignored)),
	}
	for name, id := range o.Locked {
		slot, ok := armor.ParseSlot(name)
		if !ok || id == "" {
			continue
		}
		cfg.Locked[slot] = id
	}
	for _, id := range o.Ignored {
		cfg.Ignored[id] = struct{}{}
	}
	return cfg
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the environment only.
//
// Precondition: path is empty or a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and ARMOROPT_ environment overrides applied.
//
// Postcondition: Returns a non-nil Viper; callers may bind flags before LoadFromViper.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("ARMOROPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if cfg.Catalog.Dir == "" && cfg.Catalog.JSON == "" {
		cfg.Catalog.Dir = DefaultCatalogDir
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("optimizer.max_equip_load", 30.0)
	v.SetDefault("optimizer.current_equip_load", 0.0)
	v.SetDefault("optimizer.breakpoint", optimizer.NormalRoll)
	v.SetDefault("optimizer.fitness", string(fitness.Standard))
	v.SetDefault("optimizer.ignored", []string{})

	v.SetDefault("catalog.dir", "")
	v.SetDefault("catalog.json", "")

	v.SetDefault("scripting.fitness_script", "")
	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
