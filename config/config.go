// Package config defines the wall-geometry core's configuration surface:
// tolerance, offset, healing, cache, and per-wall-type defaults, loaded
// from YAML with gopkg.in/yaml.v2 and hot-reloaded via fsnotify, in the
// Default*Config()/Validate() style of analytics_config.go.
package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v2"

	"github.com/wallcore/geom/cache"
	"github.com/wallcore/geom/internal/errs"
	"github.com/wallcore/geom/internal/logger"
	"github.com/wallcore/geom/offset"
)

const component = "config"

// JoinType mirrors offset.JoinType as a config-time string, limited to the
// miter, bevel and round values a YAML file may name.
type JoinType string

const (
	JoinMiter JoinType = "miter"
	JoinBevel JoinType = "bevel"
	JoinRound JoinType = "round"
)

// ToleranceConfig is tolerance.{default,min_ratio,max_ratio}.
type ToleranceConfig struct {
	Default float64 `yaml:"default" json:"default"`
	MinRatio float64 `yaml:"min_ratio" json:"min_ratio"`
	MaxRatio float64 `yaml:"max_ratio" json:"max_ratio"`
}

// OffsetConfig is offset.{default_join,miter_limit,round_segments}.
type OffsetConfig struct {
	DefaultJoin   JoinType `yaml:"default_join" json:"default_join"`
	MiterLimit    float64  `yaml:"miter_limit" json:"miter_limit"`
	RoundSegments int      `yaml:"round_segments" json:"round_segments"`
}

// HealingConfig is healing.*.
type HealingConfig struct {
	SliverThreshold            float64 `yaml:"sliver_threshold" json:"sliver_threshold"`
	DuplicateEdgeTolerance     float64 `yaml:"duplicate_edge_tolerance" json:"duplicate_edge_tolerance"`
	MicroGapThreshold          float64 `yaml:"micro_gap_threshold" json:"micro_gap_threshold"`
	MaxIterations              int     `yaml:"max_iterations" json:"max_iterations"`
	PreserveArchitecturalFeatures bool `yaml:"preserve_architectural_features" json:"preserve_architectural_features"`
}

// CacheConfig is cache.*.
type CacheConfig struct {
	MaxEntries             int  `yaml:"max_entries" json:"max_entries"`
	MaxMemoryMB             int  `yaml:"max_memory_mb" json:"max_memory_mb"`
	TTLMinutes              int  `yaml:"ttl_minutes" json:"ttl_minutes"`
	CleanupIntervalMinutes  int  `yaml:"cleanup_interval_minutes" json:"cleanup_interval_minutes"`
	EnableStatistics        bool `yaml:"enable_statistics" json:"enable_statistics"`
}

// WallTypeDefaults is the per-type thickness defaults: layout=350,
// zone=250, area=150.
type WallTypeDefaults struct {
	Layout float64 `yaml:"layout" json:"layout"`
	Zone   float64 `yaml:"zone" json:"zone"`
	Area   float64 `yaml:"area" json:"area"`
}

// Config is the full configuration surface for the wall-geometry core.
type Config struct {
	Tolerance        ToleranceConfig  `yaml:"tolerance" json:"tolerance"`
	Offset           OffsetConfig     `yaml:"offset" json:"offset"`
	Healing          HealingConfig    `yaml:"healing" json:"healing"`
	Cache            CacheConfig      `yaml:"cache" json:"cache"`
	WallTypeDefaults WallTypeDefaults `yaml:"wall_type_defaults" json:"wall_type_defaults"`
}

// Default returns the configuration with every documented default applied.
func Default() *Config {
	return &Config{
		Tolerance: ToleranceConfig{Default: 0.1, MinRatio: 1e-4, MaxRatio: 1e-2},
		Offset:    OffsetConfig{DefaultJoin: JoinMiter, MiterLimit: 10, RoundSegments: 8},
		Healing: HealingConfig{
			SliverThreshold:               1e-3,
			DuplicateEdgeTolerance:        1e-6,
			MicroGapThreshold:             1e-4,
			MaxIterations:                 10,
			PreserveArchitecturalFeatures: true,
		},
		Cache: CacheConfig{
			MaxEntries:            1000,
			MaxMemoryMB:           50,
			TTLMinutes:            60,
			CleanupIntervalMinutes: 10,
			EnableStatistics:      true,
		},
		WallTypeDefaults: WallTypeDefaults{Layout: 350, Zone: 250, Area: 150},
	}
}

// Validate checks the configuration for internally-consistent values,
// mirroring the sequential fmt.Errorf style of analytics_config.go's
// validator.
func (c *Config) Validate() error {
	if c.Tolerance.Default <= 0 {
		return fmt.Errorf("tolerance.default must be positive, got %v", c.Tolerance.Default)
	}
	if c.Tolerance.MinRatio <= 0 || c.Tolerance.MinRatio >= c.Tolerance.MaxRatio {
		return fmt.Errorf("tolerance.min_ratio must be positive and less than max_ratio, got min=%v max=%v", c.Tolerance.MinRatio, c.Tolerance.MaxRatio)
	}
	if c.Offset.MiterLimit <= 0 {
		return fmt.Errorf("offset.miter_limit must be positive, got %v", c.Offset.MiterLimit)
	}
	if c.Offset.RoundSegments < 3 {
		return fmt.Errorf("offset.round_segments must be at least 3, got %d", c.Offset.RoundSegments)
	}
	switch c.Offset.DefaultJoin {
	case JoinMiter, JoinBevel, JoinRound:
	default:
		return fmt.Errorf("offset.default_join must be one of miter/bevel/round, got %q", c.Offset.DefaultJoin)
	}
	if c.Healing.MaxIterations <= 0 {
		return fmt.Errorf("healing.max_iterations must be positive, got %d", c.Healing.MaxIterations)
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.MaxMemoryMB <= 0 {
		return fmt.Errorf("cache.max_memory_mb must be positive, got %d", c.Cache.MaxMemoryMB)
	}
	if c.Cache.TTLMinutes <= 0 {
		return fmt.Errorf("cache.ttl_minutes must be positive, got %d", c.Cache.TTLMinutes)
	}
	if c.WallTypeDefaults.Layout <= 0 || c.WallTypeDefaults.Zone <= 0 || c.WallTypeDefaults.Area <= 0 {
		return fmt.Errorf("wall_type_defaults must all be positive, got %+v", c.WallTypeDefaults)
	}
	return nil
}

// CacheOptions translates the loaded cache section into cache.Options, the
// one construction path a caller should use rather than relying on
// cache.NewStore's own zero-value fallback.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		TTL:              time.Duration(c.Cache.TTLMinutes) * time.Minute,
		MaxCostBytes:     int64(c.Cache.MaxMemoryMB) << 20,
		EnableStatistics: c.Cache.EnableStatistics,
		MaxEntries:       c.Cache.MaxEntries,
		CleanupInterval:  time.Duration(c.Cache.CleanupIntervalMinutes) * time.Minute,
	}
}

// OffsetOptions translates the loaded offset section into offset.Options.
func (c *Config) OffsetOptions() offset.Options {
	return offset.Options{
		MiterLimit:    c.Offset.MiterLimit,
		RoundSegments: c.Offset.RoundSegments,
	}
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(component, errs.InvalidInput, err, "failed to read config file %s", path)
	}
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errs.Wrap(component, errs.InvalidInput, err, "failed to parse config file %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, errs.Wrap(component, errs.InvalidInput, err, "invalid configuration in %s", path)
	}
	return c, nil
}

// Watcher hot-reloads a config file on write, handing
// each successfully-validated reload to onChange.
type Watcher struct {
	mu       sync.RWMutex
	current  *Config
	watcher  *fsnotify.Watcher
	path     string
	onChange func(*Config)
}

// NewWatcher loads path once, then watches it for further writes.
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	initial, err := Load(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errs.Wrap(component, errs.NumericalFailure, err, "failed to start config file watcher")
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, errs.Wrap(component, errs.InvalidInput, err, "failed to watch config file %s", path)
	}

	w := &Watcher{current: initial, watcher: fw, path: path, onChange: onChange}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			reloaded, err := Load(w.path)
			if err != nil {
				logger.Warn("config: reload of %s failed, keeping previous config: %v", w.path, err)
				continue
			}
			w.mu.Lock()
			w.current = reloaded
			w.mu.Unlock()
			logger.Info("config: reloaded %s", w.path)
			if w.onChange != nil {
				w.onChange(reloaded)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config: watcher error: %v", err)
		}
	}
}

// Current returns the most recently loaded configuration.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Close stops the underlying file watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
