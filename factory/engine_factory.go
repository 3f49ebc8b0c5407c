package factory

import (
	"fmt"
	"sync"

	"github.com/opd-ai/rdfstore/config"
	"github.com/opd-ai/rdfstore/engine/memory"
	"github.com/opd-ai/rdfstore/engine/sqlite"
	"github.com/opd-ai/rdfstore/interfaces"
	"github.com/sirupsen/logrus"
)

// EngineFactory creates quad engines based on configuration.
// It is safe for concurrent use; all methods are protected by an internal mutex.
type EngineFactory struct {
	mu            sync.RWMutex
	defaultConfig *interfaces.EngineConfig
}

// NewEngineFactory creates a factory for cfg. A nil cfg selects the in-memory backend.
func NewEngineFactory(cfg *interfaces.EngineConfig) *EngineFactory {
	defaultConfig := createDefaultConfig()
	if cfg != nil {
		defaultConfig = copyConfig(cfg)
	}
	logConfigurationInfo(defaultConfig)

	return &EngineFactory{
		defaultConfig: defaultConfig,
	}
}

// NewEngineFactoryFromConfig creates a factory from process configuration.
func NewEngineFactoryFromConfig(cfg *config.Config) *EngineFactory {
	if cfg == nil {
		return NewEngineFactory(nil)
	}
	return NewEngineFactory(&interfaces.EngineConfig{
		Backend:    interfaces.Backend(cfg.Backend),
		SQLitePath: cfg.SQLite.Path,
	})
}

// createDefaultConfig returns the in-memory configuration.
func createDefaultConfig() *interfaces.EngineConfig {
	return &interfaces.EngineConfig{
		Backend:    interfaces.BackendMemory,
		SQLitePath: sqlite.MemoryPath,
	}
}

func copyConfig(cfg *interfaces.EngineConfig) *interfaces.EngineConfig {
	c := *cfg
	return &c
}

// logConfigurationInfo logs the final configuration settings for debugging purposes.
func logConfigurationInfo(cfg *interfaces.EngineConfig) {
	logrus.WithFields(logrus.Fields{
		"function":    "NewEngineFactory",
		"backend":     cfg.Backend,
		"sqlite_path": cfg.SQLitePath,
	}).Debug("Created engine factory with configuration")
}

// CreateEngine creates an engine for the factory's configuration.
func (f *EngineFactory) CreateEngine() (interfaces.IQuadEngine, error) {
	f.mu.RLock()
	cfg := f.defaultConfig
	f.mu.RUnlock()
	return f.CreateEngineWithConfig(cfg)
}

// CreateEngineWithConfig creates an engine for cfg. A nil cfg uses the factory default.
func (f *EngineFactory) CreateEngineWithConfig(cfg *interfaces.EngineConfig) (interfaces.IQuadEngine, error) {
	if cfg == nil {
		f.mu.RLock()
		cfg = f.defaultConfig
		f.mu.RUnlock()
	}

	switch cfg.Backend {
	case interfaces.BackendMemory, "":
		logrus.WithFields(logrus.Fields{
			"function": "CreateEngineWithConfig",
			"backend":  interfaces.BackendMemory,
		}).Debug("Creating in-memory engine")
		return memory.New(), nil

	case interfaces.BackendSQLite:
		logrus.WithFields(logrus.Fields{
			"function": "CreateEngineWithConfig",
			"backend":  interfaces.BackendSQLite,
			"path":     cfg.SQLitePath,
		}).Debug("Creating sqlite engine")
		engine, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite engine: %w", err)
		}
		return engine, nil

	default:
		return nil, fmt.Errorf("unknown engine backend %q", cfg.Backend)
	}
}

// GetCurrentConfig returns a copy of the current default configuration
func (f *EngineFactory) GetCurrentConfig() *interfaces.EngineConfig {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return copyConfig(f.defaultConfig)
}
