package watch

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/config"
	"github.com/cory-johannsen/armor-optimizer/internal/optimizer"
	"github.com/cory-johannsen/armor-optimizer/internal/scripting"
)

// LoadFunc produces one complete configuration snapshot.
type LoadFunc func() (config.Config, error)

// EmitFunc receives every successful recompute.
type EmitFunc func(config.Config, optimizer.Report)

// Recomputer runs the optimizer once at start and again after every Trigger.
// Each run loads a fresh snapshot, so a run never mixes old and new inputs.
// An invalid snapshot is logged and skipped; the previous results stand.
type Recomputer struct {
	load    LoadFunc
	emit    EmitFunc
	catalog *armor.Catalog
	svc     *optimizer.Service
	logger  *zap.Logger

	trigger  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewRecomputer creates a Recomputer.
//
// Precondition: all arguments must be non-nil.
func NewRecomputer(load LoadFunc, emit EmitFunc, cat *armor.Catalog, svc *optimizer.Service, logger *zap.Logger) *Recomputer {
	return &Recomputer{
		load:    load,
		emit:    emit,
		catalog: cat,
		svc:     svc,
		logger:  logger,
		trigger: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Trigger requests a recompute. Triggers that arrive while one is pending coalesce.
func (r *Recomputer) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Start implements Service.
func (r *Recomputer) Start() error {
	r.recompute()
	for {
		select {
		case <-r.trigger:
			r.recompute()
		case <-r.done:
			return nil
		}
	}
}

// Stop implements Service.
func (r *Recomputer) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// RunOnce performs a single recompute and returns its error instead of logging it.
func (r *Recomputer) RunOnce() error {
	cfg, rep, err := r.run()
	if err != nil {
		return err
	}
	r.emit(cfg, rep)
	return nil
}

func (r *Recomputer) recompute() {
	cfg, rep, err := r.run()
	if err != nil {
		r.logger.Warn("recompute skipped, keeping previous results", zap.Error(err))
		return
	}
	r.emit(cfg, rep)
}

func (r *Recomputer) run() (config.Config, optimizer.Report, error) {
	cfg, err := r.load()
	if err != nil {
		return config.Config{}, optimizer.Report{}, fmt.Errorf("loading config: %w", err)
	}

	src, err := scripting.ResolveSource(cfg.Scripting.FitnessScript)
	if err != nil {
		return config.Config{}, optimizer.Report{}, err
	}
	script, err := scripting.CompileFor(cfg.Optimizer.Mode(), src, cfg.Scripting.InstructionLimit)
	if err != nil {
		return config.Config{}, optimizer.Report{}, err
	}
	defer script.Close()

	rep := r.svc.Optimize(context.Background(), r.catalog, cfg.Optimizer.ToOptimizer(script.Func()))
	if n := script.Failures(); n > 0 {
		r.logger.Warn("fitness script failed on some items", zap.String("run_id", rep.RunID), zap.Int("failures", n))
	}
	return cfg, rep, nil
}
