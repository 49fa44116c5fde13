package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/config"
	"github.com/cory-johannsen/armor-optimizer/internal/optimizer"
)

func testCatalog(t *testing.T) *armor.Catalog {
	t.Helper()
	cat, err := armor.NewCatalog([]*armor.Armor{
		{ID: "knight-helm", Name: "Knight Helm", Slot: armor.SlotHead, Weight: 5.6, Poise: 6, Defenses: armor.Defenses{Holy: 3.5}},
		{ID: "black-hood", Name: "Black Hood", Slot: armor.SlotHead, Weight: 1.2, Poise: 1, Defenses: armor.Defenses{Holy: 1}},
		{ID: "black-boots", Name: "Black Boots", Slot: armor.SlotLegs, Weight: 2, Poise: 1.5},
	})
	require.NoError(t, err)
	return cat
}

func baseConfig(fitness string) config.Config {
	return config.Config{
		Optimizer: config.OptimizerConfig{MaxEquipLoad: 30, Breakpoint: optimizer.NormalRoll, Fitness: fitness},
		Catalog:   config.CatalogConfig{Dir: config.DefaultCatalogDir},
		Logging:   config.LoggingConfig{Level: "info", Format: "json"},
	}
}

type emitted struct {
	cfg config.Config
	rep optimizer.Report
}

func newTestRecomputer(t *testing.T, load LoadFunc) (*Recomputer, chan emitted, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	out := make(chan emitted, 8)
	emit := func(cfg config.Config, rep optimizer.Report) { out <- emitted{cfg, rep} }
	return NewRecomputer(load, emit, testCatalog(t), optimizer.NewService(logger), logger), out, logs
}

func receive(t *testing.T, out chan emitted) emitted {
	t.Helper()
	select {
	case e := <-out:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no recompute emitted")
		return emitted{}
	}
}

func TestRecomputer_RunOnce(t *testing.T) {
	r, out, _ := newTestRecomputer(t, func() (config.Config, error) { return baseConfig("poise"), nil })
	require.NoError(t, r.RunOnce())

	e := receive(t, out)
	require.NotEmpty(t, e.rep.Result.Sets)
	assert.Equal(t, 7.5, e.rep.Result.Sets[0].Fitness)
}

func TestRecomputer_RunOnce_CustomScript(t *testing.T) {
	cfg := baseConfig("custom")
	cfg.Scripting.FitnessScript = "holy * 10"
	r, out, _ := newTestRecomputer(t, func() (config.Config, error) { return cfg, nil })
	require.NoError(t, r.RunOnce())

	e := receive(t, out)
	require.NotEmpty(t, e.rep.Result.Sets)
	assert.InDelta(t, 35.0, e.rep.Result.Sets[0].Fitness, 1e-9)
}

func TestRecomputer_RunOnce_Errors(t *testing.T) {
	r, _, _ := newTestRecomputer(t, func() (config.Config, error) { return config.Config{}, errors.New("bad yaml") })
	assert.ErrorContains(t, r.RunOnce(), "bad yaml")

	cfg := baseConfig("custom")
	cfg.Scripting.FitnessScript = "holy +"
	r, _, _ = newTestRecomputer(t, func() (config.Config, error) { return cfg, nil })
	assert.ErrorContains(t, r.RunOnce(), "compiling fitness script")
}

func TestRecomputer_TriggerUsesFreshSnapshot(t *testing.T) {
	var calls atomic.Int32
	r, out, logs := newTestRecomputer(t, func() (config.Config, error) {
		switch calls.Add(1) {
		case 1:
			return baseConfig("poise"), nil
		case 2:
			return config.Config{}, errors.New("half-written file")
		default:
			return baseConfig("holy"), nil
		}
	})

	done := make(chan error, 1)
	go func() { done <- r.Start() }()

	first := receive(t, out)
	assert.Equal(t, "poise", first.cfg.Optimizer.Fitness)

	r.Trigger()
	require.Eventually(t, func() bool {
		return logs.FilterMessage("recompute skipped, keeping previous results").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	r.Trigger()
	third := receive(t, out)
	assert.Equal(t, "holy", third.cfg.Optimizer.Fitness)
	assert.NotEqual(t, first.rep.RunID, third.rep.RunID)

	r.Stop()
	r.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("recomputer did not stop")
	}
}

func TestFileWatcher_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "optimizer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("optimizer: {}\n"), 0644))

	changed := make(chan struct{}, 8)
	w := NewFileWatcher([]string{path}, func() { changed <- struct{}{} }, zap.NewNop())
	done := make(chan error, 1)
	go func() { done <- w.Start() }()

	// Other files in the directory are ignored; writing the target is seen.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644)
		_ = os.WriteFile(path, []byte("optimizer:\n  fitness: holy\n"), 0644)
		select {
		case <-changed:
			return true
		default:
			return false
		}
	}, 3*time.Second, 50*time.Millisecond)

	w.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("file watcher did not stop")
	}
}

func TestFileWatcher_MissingDirectoryFails(t *testing.T) {
	w := NewFileWatcher([]string{filepath.Join(t.TempDir(), "absent", "optimizer.yaml")}, func() {}, zap.NewNop())
	assert.ErrorContains(t, w.Start(), "watching")
}
