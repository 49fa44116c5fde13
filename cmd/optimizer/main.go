// Package main provides the armor optimizer CLI: it loads a catalog and a
// configuration snapshot, runs one optimization, and prints the best sets.
// With -watch it keeps running and recomputes whenever the config file changes.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/config"
	"github.com/cory-johannsen/armor-optimizer/internal/fitness"
	"github.com/cory-johannsen/armor-optimizer/internal/format"
	"github.com/cory-johannsen/armor-optimizer/internal/observability"
	"github.com/cory-johannsen/armor-optimizer/internal/optimizer"
	"github.com/cory-johannsen/armor-optimizer/internal/watch"
)

// lockFlag collects repeated -lock slot=id pairs.
type lockFlag map[string]string

func (l lockFlag) String() string {
	pairs := make([]string, 0, len(l))
	for k, v := range l {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (l lockFlag) Set(s string) error {
	slot, id, ok := strings.Cut(s, "=")
	if !ok || slot == "" || id == "" {
		return fmt.Errorf("expected slot=id, got %q", s)
	}
	l[strings.ToLower(slot)] = id
	return nil
}

// listFlag collects repeated or comma-separated values.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// jsonOutput is the -json document.
type jsonOutput struct {
	RunID    string           `json:"runId"`
	Budget   float64          `json:"budget"`
	Fitness  string           `json:"fitness"`
	Warnings []string         `json:"warnings,omitempty"`
	Sets     []format.SetView `json:"sets"`
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (optional)")
	catalogDir := flag.String("catalog", "", "directory of armor YAML files")
	catalogJSON := flag.String("catalog-json", "", "path to a JSON catalog dump (instead of -catalog)")
	maxLoad := flag.Float64("max-load", 0, "maximum equip load")
	currentLoad := flag.Float64("current-load", 0, "equip load already used by weapons and talismans")
	breakpoint := flag.Float64("breakpoint", 0, "roll breakpoint: 0.3, 0.7 or 1.0")
	mode := flag.String("fitness", "", "fitness criterion (see -list-modes)")
	script := flag.String("script", "", "Lua expression or .lua file for -fitness custom")
	jsonOut := flag.Bool("json", false, "print results as JSON")
	listModes := flag.Bool("list-modes", false, "list fitness criteria and exit")
	watchMode := flag.Bool("watch", false, "recompute whenever the -config file changes")
	locks := lockFlag{}
	flag.Var(locks, "lock", "lock a piece into a slot as slot=id (repeatable)")
	var ignored listFlag
	flag.Var(&ignored, "ignore", "exclude a piece id (repeatable or comma-separated)")
	flag.Parse()

	if *listModes {
		for _, m := range fitness.Modes() {
			fmt.Printf("%-12s %s\n", m, fitness.Label(m))
		}
		fmt.Printf("%-12s %s\n", fitness.Custom, fitness.Label(fitness.Custom))
		return
	}

	// load builds one snapshot: defaults, then the file, then ARMOROPT_ variables,
	// then explicitly passed flags.
	load := func() (config.Config, error) {
		v := config.NewViper()
		if *configPath != "" {
			v.SetConfigFile(*configPath)
			if err := v.ReadInConfig(); err != nil {
				return config.Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "catalog":
				v.Set("catalog.dir", *catalogDir)
				v.Set("catalog.json", "")
			case "catalog-json":
				v.Set("catalog.json", *catalogJSON)
				v.Set("catalog.dir", "")
			case "max-load":
				v.Set("optimizer.max_equip_load", *maxLoad)
			case "current-load":
				v.Set("optimizer.current_equip_load", *currentLoad)
			case "breakpoint":
				v.Set("optimizer.breakpoint", *breakpoint)
			case "fitness":
				v.Set("optimizer.fitness", *mode)
			case "script":
				v.Set("scripting.fitness_script", *script)
			case "lock":
				v.Set("optimizer.locked", map[string]string(locks))
			case "ignore":
				v.Set("optimizer.ignored", []string(ignored))
			}
		})
		return config.LoadFromViper(v)
	}

	cfg, err := load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	catStart := time.Now()
	cat, err := armor.LoadCatalog(cfg.Catalog.Dir, cfg.Catalog.JSON)
	if err != nil {
		logger.Fatal("loading armor catalog", zap.Error(err))
	}
	logger.Debug("catalog loaded",
		zap.Int("items", cat.Len()),
		zap.Duration("elapsed", time.Since(catStart)),
	)

	emit := func(cfg config.Config, rep optimizer.Report) {
		if err := writeReport(os.Stdout, cfg, rep, *jsonOut); err != nil {
			logger.Error("writing results", zap.Error(err))
		}
	}
	rec := watch.NewRecomputer(load, emit, cat, optimizer.NewService(logger), logger)

	if !*watchMode {
		if err := rec.RunOnce(); err != nil {
			logger.Fatal("optimizing", zap.Error(err))
		}
		logger.Debug("done", zap.Duration("elapsed", time.Since(start)))
		return
	}

	if *configPath == "" {
		logger.Fatal("-watch requires -config")
	}
	lc := watch.NewLifecycle(logger)
	lc.Add("recompute", rec)
	lc.Add("config-watcher", watch.NewFileWatcher([]string{*configPath}, rec.Trigger, logger))
	logger.Info("watching for configuration changes", zap.String("config", *configPath))
	if err := lc.Run(context.Background()); err != nil {
		logger.Fatal("watch mode failed", zap.Error(err))
	}
}

func writeReport(w io.Writer, cfg config.Config, rep optimizer.Report, asJSON bool) error {
	label := fitness.Label(cfg.Optimizer.Mode())
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonOutput{
			RunID:    rep.RunID,
			Budget:   rep.Result.Budget,
			Fitness:  label,
			Warnings: rep.Warnings,
			Sets:     format.Views(rep.Result.Sets),
		})
	}
	if _, err := fmt.Fprintf(w, "%s, budget %.1f\n", label, rep.Result.Budget); err != nil {
		return err
	}
	return format.WriteSets(w, rep.Result.Sets)
}
